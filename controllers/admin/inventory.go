package adminController

import (
	"net/http"
	"strconv"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/auth"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/cache"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/services"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type stockAdjustRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	VariantID *uint  `json:"variant_id"`
	Delta     int    `json:"delta" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
	Reference string `json:"reference"`
}

// POST /api/admin/inventory/adjust
func AdjustStock(db *gorm.DB, store cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req stockAdjustRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err)
			return
		}

		var movement *models.InventoryMovement
		err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			var err error
			movement, err = services.AdjustStock(tx, services.StockChange{
				ProductID: req.ProductID,
				VariantID: req.VariantID,
				Delta:     req.Delta,
				Type:      models.MovementAdjust,
				Reason:    req.Reason,
				Reference: req.Reference,
				Actor:     auth.UserID(c),
			})
			return err
		})
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		if err := store.DeletePrefix(c.Request.Context(), cache.PrefixProducts); err != nil {
			_ = c.Error(err)
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": movement})
	}
}

// GET /api/admin/inventory/movements?product_id=&type=
func GetMovements(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := utils.PageFromQuery(c)
		q := db.Model(&models.InventoryMovement{})
		if v := c.Query("product_id"); v != "" {
			q = q.Where("product_id = ?", v)
		}
		if v := c.Query("type"); v != "" {
			q = q.Where("type = ?", v)
		}
		var total int64
		if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		var movements []models.InventoryMovement
		if err := q.Session(&gorm.Session{}).Scopes(page.Scope).Order("id DESC").Find(&movements).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, utils.NewPaged(movements, total, page))
	}
}

// GetLowStock lists active products at or below ?threshold= (default from config).
func GetLowStock(db *gorm.DB, defaultThreshold int) gin.HandlerFunc {
	return func(c *gin.Context) {
		threshold := defaultThreshold
		if v := c.Query("threshold"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				response.Error(c, http.StatusBadRequest, "Invalid threshold")
				return
			}
			threshold = n
		}
		products, err := services.LowStockProducts(db, threshold, c.Query("seller_id"))
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"threshold": threshold, "items": products})
	}
}
