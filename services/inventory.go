package services

import (
	"errors"
	"fmt"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockChange describes one signed adjustment of a product (and optionally variant) stock.
type StockChange struct {
	ProductID uint
	VariantID *uint
	Delta     int
	Type      models.MovementType
	Reason    string
	Reference string
	Actor     string
}

// AdjustStock locks the product row, applies the delta and records a movement.
// It must run inside a transaction. Stock never goes negative.
func AdjustStock(tx *gorm.DB, change StockChange) (*models.InventoryMovement, error) {
	var product models.Product
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, change.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", change.ProductID, ErrNotFound)
		}
		return nil, err
	}

	if product.Stock+change.Delta < 0 {
		return nil, fmt.Errorf("%w for %s", ErrInsufficientStock, product.Name)
	}

	if change.VariantID != nil {
		var variant models.ProductVariant
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND product_id = ?", *change.VariantID, product.ID).
			First(&variant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("variant %d: %w", *change.VariantID, ErrNotFound)
			}
			return nil, err
		}
		if variant.Stock+change.Delta < 0 {
			return nil, fmt.Errorf("%w for %s (%s/%s)", ErrInsufficientStock, product.Name, variant.Size, variant.Color)
		}
		if err := tx.Model(&variant).Update("stock", variant.Stock+change.Delta).Error; err != nil {
			return nil, err
		}
	}

	stockAfter := product.Stock + change.Delta
	if err := tx.Model(&product).Update("stock", stockAfter).Error; err != nil {
		return nil, err
	}

	movement := models.InventoryMovement{
		ProductID:  product.ID,
		VariantID:  change.VariantID,
		Type:       change.Type,
		Quantity:   change.Delta,
		StockAfter: stockAfter,
		Reason:     change.Reason,
		Reference:  change.Reference,
		CreatedBy:  change.Actor,
	}
	if err := tx.Create(&movement).Error; err != nil {
		return nil, err
	}
	return &movement, nil
}

// LowStockProducts lists active products at or below threshold, lowest first.
func LowStockProducts(db *gorm.DB, threshold int, sellerID string) ([]models.Product, error) {
	q := db.Where("stock <= ? AND is_active = ?", threshold, true)
	if sellerID != "" {
		q = q.Where("seller_id = ?", sellerID)
	}
	var products []models.Product
	err := q.Order("stock ASC, id ASC").Find(&products).Error
	return products, err
}
