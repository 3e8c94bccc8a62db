package adminController

import (
	"net/http"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/auth"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/cache"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/services"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type reviewRequest struct {
	Note string `json:"note"`
}

// ListPendingProducts returns products awaiting review, oldest submission first.
func ListPendingProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := utils.PageFromQuery(c)
		status := models.ApprovalStatus(c.DefaultQuery("status", string(models.ApprovalPending)))
		q := db.Model(&models.Product{}).Where("approval_status = ?", status)
		if seller := c.Query("seller_id"); seller != "" {
			q = q.Where("seller_id = ?", seller)
		}

		var total int64
		if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		var products []models.Product
		if err := q.Session(&gorm.Session{}).Preload("Images").Preload("Variants").
			Scopes(page.Scope).Order("submitted_at ASC, id ASC").Find(&products).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, utils.NewPaged(products, total, page))
	}
}

func reviewProduct(db *gorm.DB, store cache.Cache, decision models.ApprovalStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var req reviewRequest
		_ = c.ShouldBindJSON(&req)

		product, err := services.ReviewProduct(c.Request.Context(), db, id, decision, req.Note, auth.UserID(c))
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		if err := store.DeletePrefix(c.Request.Context(), cache.PrefixProducts); err != nil {
			_ = c.Error(err)
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product " + string(decision), "data": product})
	}
}

// ApproveProduct makes a pending product publicly visible.
func ApproveProduct(db *gorm.DB, store cache.Cache) gin.HandlerFunc {
	return reviewProduct(db, store, models.ApprovalApproved)
}

// RejectProduct sends a pending product back to its seller; {"note"} is required.
func RejectProduct(db *gorm.DB, store cache.Cache) gin.HandlerFunc {
	return reviewProduct(db, store, models.ApprovalRejected)
}

// ListSellers returns seller applications, filtered by ?status=.
func ListSellers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := utils.PageFromQuery(c)
		q := db.Model(&models.SellerProfile{})
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}
		var total int64
		if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		var sellers []models.SellerProfile
		if err := q.Session(&gorm.Session{}).Preload("User").Scopes(page.Scope).
			Order("created_at ASC").Find(&sellers).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, utils.NewPaged(sellers, total, page))
	}
}

type sellerReviewRequest struct {
	Status models.SellerStatus `json:"status" binding:"required,oneof=approved rejected suspended pending"`
	Note   string              `json:"note"`
}

// ReviewSeller approves, rejects or suspends the seller identified by :id (the user id).
func ReviewSeller(db *gorm.DB, store cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sellerReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err)
			return
		}
		profile, err := services.ReviewSeller(c.Request.Context(), db, c.Param("id"), req.Status, req.Note)
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		if req.Status == models.SellerStatusSuspended {
			if err := store.DeletePrefix(c.Request.Context(), cache.PrefixProducts); err != nil {
				_ = c.Error(err)
			}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Seller " + string(req.Status), "data": profile})
	}
}
