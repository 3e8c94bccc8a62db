package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart belongs to exactly one registered user or one guest.
type Cart struct {
	CartID    uint       `gorm:"primaryKey" json:"cart_id"`
	UserID    *string    `gorm:"uniqueIndex;size:64" json:"user_id,omitempty"`
	GuestID   *string    `gorm:"uniqueIndex;size:64" json:"guest_id,omitempty"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Subtotal sums unit price × quantity over the items.
func (c *Cart) Subtotal() Money {
	total := NewMoney(0)
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

type CartItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CartID       uint      `gorm:"index" json:"cart_id"`
	ProductID    uint      `gorm:"index" json:"product_id"`
	VariantID    *uint     `json:"variant_id,omitempty"`
	ProductName  string    `json:"product_name"`
	ProductImage string    `json:"product_image"`
	Size         string    `json:"size,omitempty"`
	Color        string    `json:"color,omitempty"`
	UnitPrice    Money     `gorm:"type:numeric(14,2)" json:"unit_price"`
	Quantity     int       `json:"quantity"`
	AddedAt      time.Time `json:"added_at"`
}

func (i CartItem) LineTotal() Money {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SameLine reports whether two items refer to the same product and variant.
func (i CartItem) SameLine(productID uint, variantID *uint) bool {
	if i.ProductID != productID {
		return false
	}
	if i.VariantID == nil || variantID == nil {
		return i.VariantID == nil && variantID == nil
	}
	return *i.VariantID == *variantID
}
