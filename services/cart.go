package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"gorm.io/gorm"
)

// CartOwner identifies a cart by registered user or guest; exactly one is set.
type CartOwner struct {
	UserID  string
	GuestID string
}

func (o CartOwner) where(db *gorm.DB) *gorm.DB {
	if o.UserID != "" {
		return db.Where("user_id = ?", o.UserID)
	}
	return db.Where("guest_id = ?", o.GuestID)
}

// GetOrCreateCart returns the owner's cart with items, creating an empty one on first use.
func GetOrCreateCart(db *gorm.DB, owner CartOwner) (*models.Cart, error) {
	if owner.UserID == "" && owner.GuestID == "" {
		return nil, fmt.Errorf("%w: cart owner is required", ErrInvalidInput)
	}

	var cart models.Cart
	err := owner.where(db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if owner.UserID != "" {
		cart.UserID = &owner.UserID
	} else {
		cart.GuestID = &owner.GuestID
	}
	if err := db.Create(&cart).Error; err != nil {
		return nil, err
	}
	cart.Items = []models.CartItem{}
	return &cart, nil
}

// purchasable loads a visible product (and variant) and returns the unit price and available stock.
func purchasable(db *gorm.DB, productID uint, variantID *uint) (*models.Product, *models.ProductVariant, models.Money, int, error) {
	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, models.Money{}, 0, ErrNotPurchasable
		}
		return nil, nil, models.Money{}, 0, err
	}
	if !product.Visible() {
		return nil, nil, models.Money{}, 0, ErrNotPurchasable
	}

	price := product.EffectivePrice()
	stock := product.Stock
	if variantID == nil {
		return &product, nil, price, stock, nil
	}

	var variant models.ProductVariant
	if err := db.Where("id = ? AND product_id = ?", *variantID, product.ID).First(&variant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, models.Money{}, 0, ErrNotPurchasable
		}
		return nil, nil, models.Money{}, 0, err
	}
	return &product, &variant, price.Add(variant.PriceAdjustment), variant.Stock, nil
}

// SetCartItem adds the line or replaces its quantity. Quantity must be at least one and within stock.
func SetCartItem(db *gorm.DB, cart *models.Cart, productID uint, variantID *uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}

	product, variant, price, stock, err := purchasable(db, productID, variantID)
	if err != nil {
		return nil, err
	}
	if quantity > stock {
		return nil, fmt.Errorf("%w: only %d left", ErrInsufficientStock, stock)
	}

	for _, existing := range cart.Items {
		if existing.SameLine(productID, variantID) {
			item := existing
			item.Quantity = quantity
			item.UnitPrice = price
			item.AddedAt = time.Now()
			if err := db.Save(&item).Error; err != nil {
				return nil, err
			}
			return &item, nil
		}
	}

	item := models.CartItem{
		CartID:       cart.CartID,
		ProductID:    product.ID,
		VariantID:    variantID,
		ProductName:  product.Name,
		ProductImage: product.Image,
		UnitPrice:    price,
		Quantity:     quantity,
		AddedAt:      time.Now(),
	}
	if variant != nil {
		item.Size = variant.Size
		item.Color = variant.Color
	}
	if err := db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveCartItem deletes one line by item id.
func RemoveCartItem(db *gorm.DB, cart *models.Cart, itemID uint) error {
	result := db.Where("cart_id = ? AND id = ?", cart.CartID, itemID).Delete(&models.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// ClearCart removes every line from the cart.
func ClearCart(db *gorm.DB, cartID uint) error {
	return db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

// MergeGuestCart moves the guest's lines into the user's cart, summing quantities
// capped at available stock, then deletes the guest cart. It reports whether anything was merged.
func MergeGuestCart(db *gorm.DB, guestID, userID string) (bool, error) {
	if guestID == "" {
		return false, nil
	}

	merged := false
	err := db.Transaction(func(tx *gorm.DB) error {
		var guestCart models.Cart
		if err := tx.Preload("Items").Where("guest_id = ?", guestID).First(&guestCart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		userCart, err := GetOrCreateCart(tx, CartOwner{UserID: userID})
		if err != nil {
			return err
		}

		for _, guestItem := range guestCart.Items {
			_, _, price, stock, err := purchasable(tx, guestItem.ProductID, guestItem.VariantID)
			if err != nil {
				if errors.Is(err, ErrNotPurchasable) {
					continue
				}
				return err
			}
			if stock <= 0 {
				continue
			}

			var userItem *models.CartItem
			for i := range userCart.Items {
				if userCart.Items[i].SameLine(guestItem.ProductID, guestItem.VariantID) {
					userItem = &userCart.Items[i]
					break
				}
			}

			if userItem != nil {
				userItem.Quantity = min(userItem.Quantity+guestItem.Quantity, stock)
				userItem.UnitPrice = price
				userItem.AddedAt = time.Now()
				if err := tx.Save(userItem).Error; err != nil {
					return err
				}
			} else {
				newItem := guestItem
				newItem.ID = 0
				newItem.CartID = userCart.CartID
				newItem.UnitPrice = price
				newItem.Quantity = min(guestItem.Quantity, stock)
				newItem.AddedAt = time.Now()
				if err := tx.Create(&newItem).Error; err != nil {
					return err
				}
				userCart.Items = append(userCart.Items, newItem)
			}
			merged = true
		}

		if err := tx.Where("cart_id = ?", guestCart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&guestCart).Error
	})
	if err != nil {
		return false, err
	}
	return merged, nil
}
