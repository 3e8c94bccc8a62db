package productcontroller

import (
	"net/http"
	"strings"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/cache"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type variantRequest struct {
	SKU             string  `json:"sku"`
	Size            string  `json:"size"`
	Color           string  `json:"color"`
	Stock           int     `json:"stock" binding:"gte=0"`
	PriceAdjustment float64 `json:"price_adjustment"`
}

// ownedProduct loads the :id product, hiding other sellers' products behind a 404.
func ownedProduct(c *gin.Context, db *gorm.DB) (*models.Product, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}
	var product models.Product
	if err := db.First(&product, id).Error; err != nil || (isSeller(c) && !product.OwnedBy(currentUser(c))) {
		response.Error(c, http.StatusNotFound, "Product not found")
		return nil, false
	}
	return &product, true
}

// POST /api/seller/products/:id/variants, /api/admin/products/:id/variants
// The variant's stock is added to the product total.
func AddVariant(db *gorm.DB, store cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, ok := ownedProduct(c, db)
		if !ok {
			return
		}
		var req variantRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err)
			return
		}
		if req.Size == "" && req.Color == "" {
			response.Error(c, http.StatusBadRequest, "size or color is required")
			return
		}

		variant := models.ProductVariant{
			ProductID:       product.ID,
			SKU:             strings.ToUpper(strings.TrimSpace(req.SKU)),
			Size:            strings.TrimSpace(req.Size),
			Color:           strings.TrimSpace(req.Color),
			PriceAdjustment: models.NewMoney(req.PriceAdjustment),
		}
		if variant.SKU == "" {
			variant.SKU = strings.ToUpper(strings.Trim(strings.Join([]string{product.SKU, variant.Size, variant.Color}, "-"), "-"))
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&variant).Error; err != nil {
				return err
			}
			if req.Stock > 0 {
				if _, err := services.AdjustStock(tx, services.StockChange{
					ProductID: product.ID,
					VariantID: &variant.ID,
					Delta:     req.Stock,
					Type:      models.MovementIn,
					Reason:    "variant created",
					Actor:     currentUser(c),
				}); err != nil {
					return err
				}
				variant.Stock = req.Stock
			}
			if isSeller(c) {
				return services.SubmitForReview(tx, product)
			}
			return nil
		})
		if err != nil {
			response.ServiceError(c, err)
			return
		}

		invalidateCatalog(c, store)
		c.JSON(http.StatusCreated, variant)
	}
}

// DELETE /api/seller/products/:id/variants/:variantId, /api/admin/products/:id/variants/:variantId
// Remaining variant stock is removed from the product total.
func DeleteVariant(db *gorm.DB, store cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, ok := ownedProduct(c, db)
		if !ok {
			return
		}
		variantID, ok := paramID(c, "variantId")
		if !ok {
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			var variant models.ProductVariant
			if err := tx.Where("id = ? AND product_id = ?", variantID, product.ID).First(&variant).Error; err != nil {
				return err
			}
			if variant.Stock > 0 {
				if _, err := services.AdjustStock(tx, services.StockChange{
					ProductID: product.ID,
					VariantID: &variant.ID,
					Delta:     -variant.Stock,
					Type:      models.MovementOut,
					Reason:    "variant removed",
					Actor:     currentUser(c),
				}); err != nil {
					return err
				}
			}
			return tx.Delete(&variant).Error
		})
		if err != nil {
			response.ServiceError(c, err)
			return
		}

		invalidateCatalog(c, store)
		c.JSON(http.StatusOK, gin.H{"message": "Variant deleted successfully"})
	}
}
