package productcontroller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/cache"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/services"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// productForm holds the multipart fields accepted on create and update. Nil means "not sent".
type productForm struct {
	Name        *string
	Description *string
	SKU         *string
	Price       *models.Money
	SalePrice   *models.Money
	CostPrice   *models.Money
	Stock       *int
	Weight      *float64
	BrandID     *uint
	CategoryIDs []uint
	HasCategory bool
	IsFeatured  *bool
	IsActive    *bool
}

func readProductForm(c *gin.Context) (*productForm, error) {
	f := &productForm{}
	str := func(key string) *string {
		v, ok := c.GetPostForm(key)
		if !ok {
			return nil
		}
		v = strings.TrimSpace(v)
		return &v
	}
	money := func(key string) (*models.Money, error) {
		v := str(key)
		if v == nil || *v == "" {
			return nil, nil
		}
		m, err := models.ParseMoney(*v)
		if err != nil || m.IsNegative() {
			return nil, errors.New("Invalid " + key)
		}
		return &m, nil
	}
	boolean := func(key string) *bool {
		v := str(key)
		if v == nil {
			return nil
		}
		b := *v == "true" || *v == "1"
		return &b
	}

	f.Name = str("name")
	f.Description = str("description")
	f.SKU = str("sku")

	var err error
	if f.Price, err = money("price"); err != nil {
		return nil, err
	}
	if f.SalePrice, err = money("sale_price"); err != nil {
		return nil, err
	}
	if f.CostPrice, err = money("cost_price"); err != nil {
		return nil, err
	}

	if v := str("stock"); v != nil && *v != "" {
		n, err := strconv.Atoi(*v)
		if err != nil || n < 0 {
			return nil, errors.New("Invalid stock")
		}
		f.Stock = &n
	}
	if v := str("weight"); v != nil && *v != "" {
		w, err := strconv.ParseFloat(*v, 64)
		if err != nil || w < 0 {
			return nil, errors.New("Invalid weight")
		}
		f.Weight = &w
	}
	if v := str("brand_id"); v != nil && *v != "" {
		id, err := strconv.ParseUint(*v, 10, 64)
		if err != nil {
			return nil, errors.New("Invalid brand_id")
		}
		b := uint(id)
		f.BrandID = &b
	}
	if v := str("category_ids"); v != nil {
		ids, ok := parseIDList(*v)
		if !ok {
			return nil, errors.New("Invalid category_ids format")
		}
		f.CategoryIDs = ids
		f.HasCategory = true
	}
	f.IsFeatured = boolean("is_featured")
	f.IsActive = boolean("is_active")
	return f, nil
}

func loadCategories(db *gorm.DB, ids []uint) ([]models.Category, error) {
	var categories []models.Category
	if len(ids) == 0 {
		return categories, nil
	}
	err := db.Where("id IN ?", ids).Find(&categories).Error
	return categories, err
}

// POST /api/seller/products, /api/admin/products
// Seller products start pending review; back-office products are published directly.
func CreateProduct(db *gorm.DB, store cache.Cache, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := readProductForm(c)
		if err != nil {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		if form.Name == nil || *form.Name == "" || form.Price == nil {
			response.Error(c, http.StatusBadRequest, "name and price are required")
			return
		}

		categories, err := loadCategories(db, form.CategoryIDs)
		if err != nil {
			response.ServiceError(c, err)
			return
		}

		product := models.Product{
			Name:           *form.Name,
			Slug:           utils.UniqueSlug(*form.Name),
			SKU:            "JH-" + strings.ToUpper(uuid.NewString()[:8]),
			Price:          *form.Price,
			SalePrice:      models.NewMoney(0),
			CostPrice:      models.NewMoney(0),
			BrandID:        form.BrandID,
			Categories:     categories,
			ApprovalStatus: models.ApprovalApproved,
			IsActive:       true,
		}
		if form.SKU != nil && *form.SKU != "" {
			product.SKU = strings.ToUpper(*form.SKU)
		}
		if form.Description != nil {
			product.Description = *form.Description
		}
		if form.SalePrice != nil {
			product.SalePrice = *form.SalePrice
		}
		if form.CostPrice != nil {
			product.CostPrice = *form.CostPrice
		}
		if form.Weight != nil {
			product.Weight = *form.Weight
		}
		if form.IsActive != nil {
			product.IsActive = *form.IsActive
		}

		actor := currentUser(c)
		if isSeller(c) {
			now := time.Now()
			product.SellerID = &actor
			product.ApprovalStatus = models.ApprovalPending
			product.SubmittedAt = &now
		} else if form.IsFeatured != nil {
			product.IsFeatured = *form.IsFeatured
		}

		if file, err := c.FormFile("image"); err == nil {
			url, err := utils.SaveUpload(c, file, uploadDir, "products")
			if err != nil {
				response.Error(c, http.StatusInternalServerError, "Failed to save image")
				return
			}
			product.Image = url
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&product).Error; err != nil {
				return err
			}
			if form.Stock != nil && *form.Stock > 0 {
				if _, err := services.AdjustStock(tx, services.StockChange{
					ProductID: product.ID,
					Delta:     *form.Stock,
					Type:      models.MovementIn,
					Reason:    "initial stock",
					Actor:     actor,
				}); err != nil {
					return err
				}
				product.Stock = *form.Stock
			}
			return saveGallery(c, tx, &product, uploadDir)
		})
		if err != nil {
			response.ServiceError(c, err)
			return
		}

		invalidateCatalog(c, store)
		c.JSON(http.StatusCreated, product)
	}
}

// saveGallery stores every "images" file as an additional product image.
func saveGallery(c *gin.Context, tx *gorm.DB, product *models.Product, uploadDir string) error {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	next := len(product.Images)
	for _, file := range form.File["images"] {
		url, err := utils.SaveUpload(c, file, uploadDir, "products")
		if err != nil {
			return err
		}
		img := models.ProductImage{ProductID: product.ID, URL: url, SortOrder: next}
		if err := tx.Create(&img).Error; err != nil {
			return err
		}
		product.Images = append(product.Images, img)
		next++
	}
	return nil
}
