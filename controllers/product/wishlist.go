package productcontroller

import (
	"net/http"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GET /api/wishlist
func GetWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var items []models.WishlistItem
		if err := db.Preload("Product").Where("user_id = ?", currentUser(c)).
			Order("created_at DESC").Find(&items).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to fetch wishlist")
			return
		}
		if items == nil {
			items = []models.WishlistItem{}
		}
		c.JSON(http.StatusOK, items)
	}
}

// POST /api/wishlist/:productId
// Adding a product twice is a no-op.
func AddToWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := paramID(c, "productId")
		if !ok {
			return
		}
		var product models.Product
		if err := db.First(&product, productID).Error; err != nil || !product.Visible() {
			response.Error(c, http.StatusNotFound, "Product not found")
			return
		}

		item := models.WishlistItem{UserID: currentUser(c), ProductID: productID}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&item).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to update wishlist")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Added to wishlist", "product_id": productID})
	}
}

// DELETE /api/wishlist/:productId
func RemoveFromWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := paramID(c, "productId")
		if !ok {
			return
		}
		res := db.Where("user_id = ? AND product_id = ?", currentUser(c), productID).Delete(&models.WishlistItem{})
		if res.Error != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to update wishlist")
			return
		}
		if res.RowsAffected == 0 {
			response.Error(c, http.StatusNotFound, "Product not in wishlist")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Removed from wishlist"})
	}
}
