package models

import "time"

type OrderStatus string
type PaymentStatus string

const (
	// Order statuses (typical e-commerce flow)
	OrderStatusPending     OrderStatus = "pending"       // Order placed, awaiting confirmation
	OrderStatusConfirmed   OrderStatus = "confirmed"     // Confirmed by seller or paid online
	OrderStatusReadyToShip OrderStatus = "ready_to_ship" // Packed and ready for dispatch
	OrderStatusShipped     OrderStatus = "shipped"       // Out for delivery
	OrderStatusDelivered   OrderStatus = "delivered"     // Customer received the item
	OrderStatusReturned    OrderStatus = "returned"      // Customer returned the item
	OrderStatusCancelled   OrderStatus = "cancelled"     // Cancelled before shipping

	// Payment statuses
	PaymentStatusPending   PaymentStatus = "pending"   // Payment not completed yet
	PaymentStatusPaid      PaymentStatus = "paid"      // Payment completed successfully
	PaymentStatusFailed    PaymentStatus = "failed"    // Payment attempt failed
	PaymentStatusRefunded  PaymentStatus = "refunded"  // Money returned to customer
	PaymentStatusCancelled PaymentStatus = "cancelled" // Order cancelled before payment
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:     {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:   {OrderStatusReadyToShip, OrderStatusCancelled},
	OrderStatusReadyToShip: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:     {OrderStatusDelivered, OrderStatusReturned},
	OrderStatusDelivered:   {OrderStatusReturned},
}

// CanTransitionTo reports whether the order may move from s to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions exist.
func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

// RestocksInventory reports whether entering s puts the items back on the shelf.
func (s OrderStatus) RestocksInventory() bool {
	return s == OrderStatusCancelled || s == OrderStatusReturned
}

type Order struct {
	ID                uint                 `gorm:"primaryKey" json:"id"`
	OrderNumber       string               `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID            string               `gorm:"index;size:64;not null" json:"user_id"`
	User              *User                `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items             []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal          Money                `gorm:"type:numeric(14,2)" json:"subtotal"`
	Discount          Money                `gorm:"type:numeric(14,2)" json:"discount"`
	ShippingFee       Money                `gorm:"type:numeric(14,2)" json:"shipping_fee"`
	Total             Money                `gorm:"type:numeric(14,2)" json:"total"`
	CouponCode        string               `json:"coupon_code,omitempty"`
	Status            OrderStatus          `gorm:"type:VARCHAR(20);not null;index" json:"status"`
	PaymentStatus     PaymentStatus        `gorm:"type:VARCHAR(20);not null;index" json:"payment_status"`
	PaymentMethod     PaymentMethod        `gorm:"type:VARCHAR(20)" json:"payment_method"`
	ShippingAddress   AddressSnapshot      `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`
	ShippingMethod    string               `json:"shipping_method"`
	Note              string               `json:"note,omitempty"`
	CheckoutSessionID *string              `gorm:"size:36" json:"checkout_session_id,omitempty"`
	CancelReason      string               `json:"cancel_reason,omitempty"`
	History           []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"history,omitempty"`
	DeliveredAt       *time.Time           `json:"delivered_at,omitempty"`
	CancelledAt       *time.Time           `json:"cancelled_at,omitempty"`
	CreatedAt         time.Time            `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

type OrderItem struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	OrderID      uint    `gorm:"index" json:"order_id"`
	ProductID    uint    `gorm:"index" json:"product_id"`
	VariantID    *uint   `json:"variant_id,omitempty"`
	SellerID     *string `gorm:"index;size:64" json:"seller_id,omitempty"`
	ProductName  string  `json:"product_name"`
	ProductImage string  `json:"product_image"`
	SKU          string  `json:"sku"`
	Size         string  `json:"size,omitempty"`
	Color        string  `json:"color,omitempty"`
	UnitPrice    Money   `gorm:"type:numeric(14,2)" json:"unit_price"`
	Quantity     int     `json:"quantity"`
	LineTotal    Money   `gorm:"type:numeric(14,2)" json:"line_total"`
	SettlementID *uint   `gorm:"index" json:"settlement_id,omitempty"`
}

type OrderStatusHistory struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	OrderID    uint        `gorm:"index;not null" json:"order_id"`
	FromStatus OrderStatus `gorm:"type:VARCHAR(20)" json:"from_status"`
	ToStatus   OrderStatus `gorm:"type:VARCHAR(20);not null" json:"to_status"`
	Note       string      `json:"note,omitempty"`
	ChangedBy  string      `json:"changed_by"`
	CreatedAt  time.Time   `json:"created_at"`
}
