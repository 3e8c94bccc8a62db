package productcontroller

import (
	"net/http"
	"strings"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/cache"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type brandRequest struct {
	Name        string `json:"name" binding:"required"`
	Logo        string `json:"logo"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

// GET /api/brands
func GetBrands(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var brands []models.Brand
		if err := db.Where("is_active = ?", true).Order("name ASC").Find(&brands).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to fetch brands")
			return
		}
		c.JSON(http.StatusOK, brands)
	}
}

// POST /api/admin/brands
func CreateBrand(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req brandRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err)
			return
		}
		name := strings.TrimSpace(req.Name)

		var count int64
		db.Model(&models.Brand{}).Where("LOWER(name) = ?", strings.ToLower(name)).Count(&count)
		if count > 0 {
			response.Error(c, http.StatusConflict, "Brand already exists")
			return
		}

		brand := models.Brand{
			Name:        name,
			Slug:        utils.Slugify(name),
			Logo:        req.Logo,
			Description: req.Description,
			IsActive:    req.IsActive == nil || *req.IsActive,
		}
		if err := db.Create(&brand).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to create brand")
			return
		}
		c.JSON(http.StatusCreated, brand)
	}
}

// PUT /api/admin/brands/:id
func UpdateBrand(db *gorm.DB, store cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var brand models.Brand
		if err := db.First(&brand, id).Error; err != nil {
			response.Error(c, http.StatusNotFound, "Brand not found")
			return
		}

		var req brandRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err)
			return
		}
		brand.Name = strings.TrimSpace(req.Name)
		brand.Slug = utils.Slugify(brand.Name)
		brand.Logo = req.Logo
		brand.Description = req.Description
		if req.IsActive != nil {
			brand.IsActive = *req.IsActive
		}
		if err := db.Save(&brand).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to update brand")
			return
		}

		invalidateCatalog(c, store)
		c.JSON(http.StatusOK, brand)
	}
}

// DELETE /api/admin/brands/:id
// Products keep existing without a brand.
func DeleteBrand(db *gorm.DB, store cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			res := tx.Delete(&models.Brand{}, id)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
			return tx.Model(&models.Product{}).Where("brand_id = ?", id).Update("brand_id", nil).Error
		})
		if err != nil {
			response.ServiceError(c, err)
			return
		}

		invalidateCatalog(c, store)
		c.JSON(http.StatusOK, gin.H{"message": "Brand deleted successfully"})
	}
}
