package productcontroller

import (
	"net/http"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/cache"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DELETE /api/seller/products/:id, /api/admin/products/:id
// Products are soft-deleted so order history keeps its references.
func DeleteProduct(db *gorm.DB, store cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		if isSeller(c) && !product.OwnedBy(currentUser(c)) {
			response.Error(c, http.StatusNotFound, "Product not found")
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&product).Association("Categories").Clear(); err != nil {
				return err
			}
			if err := tx.Where("product_id = ?", product.ID).Delete(&models.WishlistItem{}).Error; err != nil {
				return err
			}
			return tx.Delete(&product).Error
		})
		if err != nil {
			response.ServiceError(c, err)
			return
		}

		invalidateCatalog(c, store)
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
