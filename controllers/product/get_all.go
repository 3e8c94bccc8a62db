package productcontroller

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/cache"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const listingTTL = 5 * time.Minute

var productSorts = map[string]string{
	"created_at": "products.created_at",
	"price":      "products.price",
	"name":       "products.name",
	"sold_count": "products.sold_count",
}

var listingParams = []string{
	"search", "category_id", "brand_id", "min_price", "max_price", "size", "color",
	"sort_by", "order", "featured",
}

// foldedParams are matched case-insensitively by filterProducts and orderClause.
var foldedParams = map[string]bool{"search": true, "color": true, "order": true}

func queryValue(c *gin.Context, key string) string {
	return strings.TrimSpace(c.Query(key))
}

// listingKey normalizes the query exactly as filterProducts reads it, so only
// requests returning the same rows share a cache entry.
func listingKey(c *gin.Context, page utils.Page) string {
	q := url.Values{}
	for _, k := range listingParams {
		v := queryValue(c, k)
		switch {
		case v == "":
			continue
		case k == "featured":
			if v != "true" {
				continue
			}
		case foldedParams[k]:
			v = strings.ToLower(v)
		}
		q.Set(k, v)
	}
	q.Set("page", strconv.Itoa(page.Page))
	q.Set("page_size", strconv.Itoa(page.PageSize))
	return cache.PrefixProducts + "list:" + q.Encode()
}

// filterProducts applies the listing filters shared by the public and back-office lists.
func filterProducts(c *gin.Context, db, query *gorm.DB) (*gorm.DB, string, bool) {
	if search := strings.ToLower(queryValue(c, "search")); search != "" {
		like := "%" + search + "%"
		query = query.Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ? OR LOWER(products.sku) LIKE ?",
			like, like, like)
	}

	if v := queryValue(c, "category_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, "Invalid category_id", false
		}
		query = query.Where("products.id IN (?)",
			db.Table("product_categories").Select("product_id").Where("category_id = ?", id))
	}
	if v := queryValue(c, "brand_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, "Invalid brand_id", false
		}
		query = query.Where("products.brand_id = ?", id)
	}

	if v := queryValue(c, "min_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, "Invalid min_price", false
		}
		query = query.Where("products.price >= ?", p)
	}
	if v := queryValue(c, "max_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, "Invalid max_price", false
		}
		query = query.Where("products.price <= ?", p)
	}

	if size := queryValue(c, "size"); size != "" {
		query = query.Where("EXISTS (SELECT 1 FROM product_variants v WHERE v.product_id = products.id AND v.size = ?)", size)
	}
	if color := queryValue(c, "color"); color != "" {
		query = query.Where("EXISTS (SELECT 1 FROM product_variants v WHERE v.product_id = products.id AND LOWER(v.color) = ?)",
			strings.ToLower(color))
	}
	if queryValue(c, "featured") == "true" {
		query = query.Where("products.is_featured = ?", true)
	}
	return query.Session(&gorm.Session{}), "", true
}

func orderClause(c *gin.Context) (string, bool) {
	sortBy := queryValue(c, "sort_by")
	if sortBy == "" {
		sortBy = "created_at"
	}
	column, ok := productSorts[sortBy]
	if !ok {
		return "", false
	}
	direction := "DESC"
	if strings.EqualFold(queryValue(c, "order"), "asc") {
		direction = "ASC"
	}
	return column + " " + direction + ", products.id " + direction, true
}

// GET /api/products
// Only approved, active products are listed.
func GetProducts(db *gorm.DB, store cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := utils.PageFromQuery(c)

		query := db.Model(&models.Product{}).
			Where("products.approval_status = ? AND products.is_active = ?", models.ApprovalApproved, true)
		query, msg, ok := filterProducts(c, db, query)
		if !ok {
			response.Error(c, http.StatusBadRequest, msg)
			return
		}
		order, ok := orderClause(c)
		if !ok {
			response.Error(c, http.StatusBadRequest, "Invalid sort_by")
			return
		}

		var result utils.Paged[models.Product]
		err := cache.Remember(c.Request.Context(), store, listingKey(c, page), listingTTL, &result, func() (interface{}, error) {
			var total int64
			if err := query.Count(&total).Error; err != nil {
				return nil, err
			}
			var products []models.Product
			if err := query.Preload("Images").Preload("Brand").
				Order(order).Scopes(page.Scope).Find(&products).Error; err != nil {
				return nil, err
			}
			return utils.NewPaged(products, total, page), nil
		})
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// GET /api/seller/products, /api/admin/products
// Sellers see their own products in every approval state; admins can filter by seller.
func GetManagedProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := utils.PageFromQuery(c)

		query := db.Model(&models.Product{})
		if isSeller(c) {
			query = query.Where("products.seller_id = ?", currentUser(c))
		} else if sellerID := c.Query("seller_id"); sellerID != "" {
			query = query.Where("products.seller_id = ?", sellerID)
		}
		if status := c.Query("approval_status"); status != "" {
			query = query.Where("products.approval_status = ?", status)
		}
		query, msg, ok := filterProducts(c, db, query)
		if !ok {
			response.Error(c, http.StatusBadRequest, msg)
			return
		}
		order, ok := orderClause(c)
		if !ok {
			response.Error(c, http.StatusBadRequest, "Invalid sort_by")
			return
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		var products []models.Product
		if err := query.Preload("Categories").Preload("Variants").
			Order(order).Scopes(page.Scope).Find(&products).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, utils.NewPaged(products, total, page))
	}
}
