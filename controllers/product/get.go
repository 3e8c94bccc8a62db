package productcontroller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ratingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

func loadProductDetail(db *gorm.DB, ref string) (*models.Product, error) {
	query := db.Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Variants").Preload("Categories").Preload("Brand")

	var product models.Product
	var err error
	if id, convErr := strconv.ParseUint(ref, 10, 64); convErr == nil {
		err = query.First(&product, id).Error
	} else {
		err = query.Where("slug = ?", ref).First(&product).Error
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GET /api/products/:ref
// ref is a numeric id or a slug. Unapproved products are hidden from shoppers.
func GetProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := loadProductDetail(db, c.Param("ref"))
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !product.Visible()) {
			response.Error(c, http.StatusNotFound, "Product not found")
			return
		}
		if err != nil {
			response.ServiceError(c, err)
			return
		}

		var rating ratingSummary
		if err := db.Model(&models.ProductReview{}).
			Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
			Where("product_id = ? AND is_approved = ?", product.ID, true).
			Scan(&rating).Error; err != nil {
			response.ServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"product": product, "rating": rating})
	}
}

// GET /api/seller/products/:id, /api/admin/products/:id
func GetManagedProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		product, err := loadProductDetail(db, strconv.FormatUint(uint64(id), 10))
		if err == nil && isSeller(c) && !product.OwnedBy(currentUser(c)) {
			err = gorm.ErrRecordNotFound
		}
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
