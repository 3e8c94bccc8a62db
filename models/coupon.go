package models

import "time"

type CouponType string

const (
	CouponPercent CouponType = "percent"
	CouponFixed   CouponType = "fixed"
)

type Coupon struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Code           string     `gorm:"uniqueIndex;not null" json:"code"`
	Description    string     `json:"description"`
	Type           CouponType `gorm:"type:varchar(10);not null" json:"type"`
	Value          Money      `gorm:"type:numeric(14,2);not null" json:"value"`
	MinOrderAmount Money      `gorm:"type:numeric(14,2)" json:"min_order_amount"`
	MaxDiscount    Money      `gorm:"type:numeric(14,2)" json:"max_discount"` // zero means uncapped
	StartsAt       *time.Time `json:"starts_at,omitempty"`
	EndsAt         *time.Time `json:"ends_at,omitempty"`
	UsageLimit     int        `json:"usage_limit"`    // zero means unlimited
	PerUserLimit   int        `json:"per_user_limit"` // zero means unlimited
	UsedCount      int        `json:"used_count"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type CouponUsage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CouponID  uint      `gorm:"index;not null" json:"coupon_id"`
	UserID    string    `gorm:"index;size:64;not null" json:"user_id"`
	OrderID   uint      `gorm:"index" json:"order_id"`
	Discount  Money     `gorm:"type:numeric(14,2)" json:"discount"`
	CreatedAt time.Time `json:"created_at"`
}

type ShippingMethod struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Code          string    `gorm:"uniqueIndex;not null" json:"code"`
	Name          string    `gorm:"not null" json:"name"`
	Fee           Money     `gorm:"type:numeric(14,2);not null" json:"fee"`
	FreeThreshold Money     `gorm:"type:numeric(14,2)" json:"free_threshold"` // zero disables free shipping
	EstimatedDays int       `json:"estimated_days"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
