package productcontroller

import (
	"net/http"
	"strings"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/cache"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/services"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PUT /api/seller/products/:id, /api/admin/products/:id
// A seller's edit sends the product back to review.
func UpdateProduct(db *gorm.DB, store cache.Cache, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		var product models.Product
		if err := db.Preload("Images").First(&product, id).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		seller := isSeller(c)
		if seller && !product.OwnedBy(currentUser(c)) {
			response.Error(c, http.StatusNotFound, "Product not found")
			return
		}

		form, err := readProductForm(c)
		if err != nil {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}

		updates := map[string]interface{}{}
		if form.Name != nil && *form.Name != "" && *form.Name != product.Name {
			updates["name"] = *form.Name
			updates["slug"] = utils.UniqueSlug(*form.Name)
		}
		if form.Description != nil {
			updates["description"] = *form.Description
		}
		if form.SKU != nil && *form.SKU != "" {
			updates["sku"] = strings.ToUpper(*form.SKU)
		}
		if form.Price != nil {
			updates["price"] = *form.Price
		}
		if form.SalePrice != nil {
			updates["sale_price"] = *form.SalePrice
		}
		if form.CostPrice != nil {
			updates["cost_price"] = *form.CostPrice
		}
		if form.Weight != nil {
			updates["weight"] = *form.Weight
		}
		if form.BrandID != nil {
			updates["brand_id"] = *form.BrandID
		}
		if form.IsActive != nil {
			updates["is_active"] = *form.IsActive
		}
		if form.IsFeatured != nil && !seller {
			updates["is_featured"] = *form.IsFeatured
		}

		oldImage := product.Image
		if file, err := c.FormFile("image"); err == nil {
			url, err := utils.SaveUpload(c, file, uploadDir, "products")
			if err != nil {
				response.Error(c, http.StatusInternalServerError, "Failed to save image")
				return
			}
			updates["image"] = url
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if len(updates) > 0 {
				if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).Updates(updates).Error; err != nil {
					return err
				}
			}
			if form.HasCategory {
				categories, err := loadCategories(tx, form.CategoryIDs)
				if err != nil {
					return err
				}
				if err := tx.Model(&product).Association("Categories").Replace(categories); err != nil {
					return err
				}
			}
			if form.Stock != nil && *form.Stock != product.Stock {
				if _, err := services.AdjustStock(tx, services.StockChange{
					ProductID: product.ID,
					Delta:     *form.Stock - product.Stock,
					Type:      models.MovementAdjust,
					Reason:    "product edit",
					Actor:     currentUser(c),
				}); err != nil {
					return err
				}
			}
			if err := saveGallery(c, tx, &product, uploadDir); err != nil {
				return err
			}
			if seller {
				return services.SubmitForReview(tx, &product)
			}
			return nil
		})
		if err != nil {
			response.ServiceError(c, err)
			return
		}

		if _, replaced := updates["image"]; replaced && oldImage != "" {
			utils.RemoveUpload(uploadDir, oldImage)
		}
		invalidateCatalog(c, store)

		updated, err := loadProductDetail(db, c.Param("id"))
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}
