package productcontroller

import (
	"net/http"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/services"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type reviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Title   string `json:"title" binding:"max=200"`
	Comment string `json:"comment" binding:"max=2000"`
}

// GET /api/products/:ref/reviews
func GetProductReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := loadProductDetail(db, c.Param("ref"))
		if err != nil || !product.Visible() {
			response.Error(c, http.StatusNotFound, "Product not found")
			return
		}

		page := utils.PageFromQuery(c)
		query := db.Model(&models.ProductReview{}).Where("product_id = ? AND is_approved = ?", product.ID, true)

		var total int64
		if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		var reviews []models.ProductReview
		if err := query.Session(&gorm.Session{}).Scopes(page.Scope).Order("created_at DESC").Find(&reviews).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, utils.NewPaged(reviews, total, page))
	}
}

// POST /api/products/:ref/reviews
func CreateReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := loadProductDetail(db, c.Param("ref"))
		if err != nil {
			response.Error(c, http.StatusNotFound, "Product not found")
			return
		}

		var req reviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err)
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", currentUser(c)).Error; err != nil {
			response.Error(c, http.StatusUnauthorized, "Unauthorized")
			return
		}

		review, err := services.CreateReview(c.Request.Context(), db, &user, product.ID, services.ReviewInput{
			Rating:  req.Rating,
			Title:   req.Title,
			Comment: req.Comment,
		})
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, review)
	}
}

// GET /api/admin/reviews?approved=false
func GetReviewsForModeration(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := utils.PageFromQuery(c)
		query := db.Model(&models.ProductReview{})
		switch c.Query("approved") {
		case "true":
			query = query.Where("is_approved = ?", true)
		case "false":
			query = query.Where("is_approved = ?", false)
		}

		var total int64
		if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		var reviews []models.ProductReview
		if err := query.Session(&gorm.Session{}).Scopes(page.Scope).Order("created_at DESC").Find(&reviews).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, utils.NewPaged(reviews, total, page))
	}
}

// PUT /api/admin/reviews/:id/approve
func ApproveReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		res := db.Model(&models.ProductReview{}).Where("id = ?", id).Update("is_approved", true)
		if res.Error != nil {
			response.ServiceError(c, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			response.Error(c, http.StatusNotFound, "Review not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Review approved"})
	}
}

// DELETE /api/admin/reviews/:id
func DeleteReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		res := db.Delete(&models.ProductReview{}, id)
		if res.Error != nil {
			response.ServiceError(c, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			response.Error(c, http.StatusNotFound, "Review not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
	}
}
