package models

import "time"

type SellerStatus string

const (
	SellerStatusPending   SellerStatus = "pending"
	SellerStatusApproved  SellerStatus = "approved"
	SellerStatusRejected  SellerStatus = "rejected"
	SellerStatusSuspended SellerStatus = "suspended"
)

type SellerProfile struct {
	ID                uint         `gorm:"primaryKey" json:"id"`
	UserID            string       `gorm:"uniqueIndex;size:64;not null" json:"user_id"`
	User              *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ShopName          string       `gorm:"not null" json:"shop_name"`
	Slug              string       `gorm:"uniqueIndex;not null" json:"slug"`
	Description       string       `json:"description"`
	Phone             string       `json:"phone"`
	TaxCode           string       `json:"tax_code"`
	BankName          string       `json:"bank_name"`
	BankAccount       string       `json:"bank_account"`
	Status            SellerStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CommissionPercent *float64     `json:"commission_percent,omitempty"` // nil uses the platform fee
	ReviewNote        string       `json:"review_note"`
	ApprovedAt        *time.Time   `json:"approved_at,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

type SettlementStatus string

const (
	SettlementStatusPending SettlementStatus = "pending"
	SettlementStatusPaid    SettlementStatus = "paid"
)

// SellerSettlement reconciles a seller's delivered revenue for a period minus platform fees.
type SellerSettlement struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	SellerID         string           `gorm:"index;size:64;not null" json:"seller_id"`
	PeriodStart      time.Time        `json:"period_start"`
	PeriodEnd        time.Time        `json:"period_end"`
	GrossAmount      Money            `gorm:"type:numeric(14,2);not null" json:"gross_amount"`
	FeePercent       float64          `json:"fee_percent"`
	FeeAmount        Money            `gorm:"type:numeric(14,2);not null" json:"fee_amount"`
	NetAmount        Money            `gorm:"type:numeric(14,2);not null" json:"net_amount"`
	ItemCount        int              `json:"item_count"`
	Status           SettlementStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentReference string           `json:"payment_reference"`
	PaidAt           *time.Time       `json:"paid_at,omitempty"`
	Items            []OrderItem      `gorm:"foreignKey:SettlementID" json:"items,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}
