package adminController

import (
	"net/http"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/logger"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/services"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListSettlements filters by ?seller_id= and ?status=.
func ListSettlements(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := utils.PageFromQuery(c)
		q := db.Model(&models.SellerSettlement{})
		if v := c.Query("seller_id"); v != "" {
			q = q.Where("seller_id = ?", v)
		}
		if v := c.Query("status"); v != "" {
			q = q.Where("status = ?", v)
		}
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

func GetSettlement(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var settlement models.SellerSettlement
		if err := db.Preload("Items").First(&settlement, id).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, settlement)
	}
}

type generateRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

// GenerateSettlements settles delivered items for [from, to], both YYYY-MM-DD and inclusive.
func GenerateSettlements(db *gorm.DB, feePercent float64, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req generateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err)
			return
		}
		from, err1 := time.Parse(dateLayout, req.From)
		to, err2 := time.Parse(dateLayout, req.To)
		if err1 != nil || err2 != nil || to.Before(from) {
			response.Error(c, http.StatusBadRequest, "Invalid settlement period")
			return
		}

		created, err := services.GenerateSettlements(c.Request.Context(), db, from, to.AddDate(0, 0, 1), feePercent)
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		log.Info("settlements generated", "from", req.From, "to", req.To, "count", len(created))
		c.JSON(http.StatusCreated, gin.H{"success": true, "count": len(created), "data": created})
	}
}

type markPaidRequest struct {
	Reference string `json:"reference" binding:"required"`
}

func MarkSettlementPaid(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var req markPaidRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err)
			return
		}
		settlement, err := services.MarkSettlementPaid(c.Request.Context(), db, id, req.Reference)
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": settlement})
	}
}
