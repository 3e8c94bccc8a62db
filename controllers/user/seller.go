package userControllers

import (
	"net/http"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/auth"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/services"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GET /api/seller/dashboard
func GetSellerDashboard(db *gorm.DB, lowStockThreshold int) gin.HandlerFunc {
	return func(c *gin.Context) {
		dash, err := services.BuildSellerDashboard(c.Request.Context(), db, auth.UserID(c), lowStockThreshold)
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, dash)
	}
}

// GET /api/seller/profile
func GetSellerProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var profile models.SellerProfile
		if err := db.Where("user_id = ?", auth.UserID(c)).First(&profile).Error; err != nil {
			response.Error(c, http.StatusNotFound, "No seller application found")
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// GET /api/seller/settlements
func GetSellerSettlements(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := utils.PageFromQuery(c)
		q := db.Model(&models.SellerSettlement{}).Where("seller_id = ?", auth.UserID(c))
		var total int64
		if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		var settlements []models.SellerSettlement
		if err := q.Session(&gorm.Session{}).Scopes(page.Scope).Order("period_end DESC, id DESC").
			Find(&settlements).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, utils.NewPaged(settlements, total, page))
	}
}

// GET /api/seller/settlements/:id
func GetSellerSettlement(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var settlement models.SellerSettlement
		if err := db.Preload("Items").Where("id = ? AND seller_id = ?", c.Param("id"), auth.UserID(c)).
			First(&settlement).Error; err != nil {
			response.Error(c, http.StatusNotFound, "Settlement not found")
			return
		}
		c.JSON(http.StatusOK, settlement)
	}
}
