package models

import "time"

type CheckoutStatus string

const (
	CheckoutActive    CheckoutStatus = "active"
	CheckoutCompleted CheckoutStatus = "completed"
	CheckoutExpired   CheckoutStatus = "expired"
	CheckoutCancelled CheckoutStatus = "cancelled"
)

// CheckoutSession holds a cart snapshot and the shipping/payment choices before an order exists.
type CheckoutSession struct {
	ID               string                `gorm:"primaryKey;size:36" json:"id"`
	UserID           string                `gorm:"index;size:64;not null" json:"user_id"`
	Status           CheckoutStatus        `gorm:"type:varchar(20);not null;index" json:"status"`
	Items            []CheckoutSessionItem `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"items"`
	ShippingAddress  AddressSnapshot       `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`
	ShippingMethodID *uint                 `json:"shipping_method_id,omitempty"`
	ShippingMethod   string                `json:"shipping_method"`
	PaymentMethod    PaymentMethod         `gorm:"type:varchar(20)" json:"payment_method"`
	CouponCode       string                `json:"coupon_code,omitempty"`
	Subtotal         Money                 `gorm:"type:numeric(14,2)" json:"subtotal"`
	Discount         Money                 `gorm:"type:numeric(14,2)" json:"discount"`
	ShippingFee      Money                 `gorm:"type:numeric(14,2)" json:"shipping_fee"`
	Total            Money                 `gorm:"type:numeric(14,2)" json:"total"`
	Note             string                `json:"note,omitempty"`
	ExpiresAt        time.Time             `gorm:"index" json:"expires_at"`
	OrderID          *uint                 `json:"order_id,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// Expired reports whether the session can no longer be completed at now.
func (s *CheckoutSession) Expired(now time.Time) bool {
	return s.Status == CheckoutExpired || (s.Status == CheckoutActive && !now.Before(s.ExpiresAt))
}

type CheckoutSessionItem struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	SessionID    string  `gorm:"index;size:36;not null" json:"session_id"`
	ProductID    uint    `json:"product_id"`
	VariantID    *uint   `json:"variant_id,omitempty"`
	SellerID     *string `gorm:"size:64" json:"seller_id,omitempty"`
	ProductName  string  `json:"product_name"`
	ProductImage string  `json:"product_image"`
	SKU          string  `json:"sku"`
	Size         string  `json:"size,omitempty"`
	Color        string  `json:"color,omitempty"`
	UnitPrice    Money   `gorm:"type:numeric(14,2)" json:"unit_price"`
	Quantity     int     `json:"quantity"`
}
