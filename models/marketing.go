package models

import (
	"time"

	"gorm.io/gorm"
)

type Banner struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Title     string     `json:"title"`
	ImageURL  string     `gorm:"not null" json:"image_url"`
	LinkURL   string     `json:"link_url"`
	Position  string     `gorm:"index;size:30" json:"position"` // home_hero, home_middle, category_top
	SortOrder int        `json:"sort_order"`
	IsActive  bool       `json:"is_active"`
	StartsAt  *time.Time `json:"starts_at,omitempty"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Live reports whether the banner should be shown at now.
func (b *Banner) Live(now time.Time) bool {
	if !b.IsActive {
		return false
	}
	if b.StartsAt != nil && now.Before(*b.StartsAt) {
		return false
	}
	if b.EndsAt != nil && now.After(*b.EndsAt) {
		return false
	}
	return true
}

// PaymentQR is a bank-transfer QR image shown at checkout.
type PaymentQR struct {
	ID            uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	BankName      string         `json:"bank_name"`
	AccountName   string         `json:"account_name"`
	AccountNumber string         `json:"account_number"`
	FileName      string         `json:"file_name" gorm:"not null"`
	FileURL       string         `json:"file_url" gorm:"not null"`
	IsActive      bool           `json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}
