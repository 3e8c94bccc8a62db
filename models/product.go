package models

import (
	"time"

	"gorm.io/gorm"
)

type ApprovalStatus string

const (
	ApprovalDraft    ApprovalStatus = "draft"
	ApprovalPending  ApprovalStatus = "pending"  // Submitted by a seller, awaiting review
	ApprovalApproved ApprovalStatus = "approved" // Publicly visible
	ApprovalRejected ApprovalStatus = "rejected" // Needs changes, see RejectionNote
)

var approvalTransitions = map[ApprovalStatus][]ApprovalStatus{
	ApprovalDraft:    {ApprovalPending},
	ApprovalPending:  {ApprovalApproved, ApprovalRejected},
	ApprovalRejected: {ApprovalPending},
	ApprovalApproved: {ApprovalPending},
}

// CanTransitionTo reports whether an approval status change is allowed.
func (s ApprovalStatus) CanTransitionTo(next ApprovalStatus) bool {
	for _, allowed := range approvalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Product struct {
	ID             uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	SellerID       *string          `gorm:"index;size:64" json:"seller_id,omitempty"` // nil for house products
	Name           string           `gorm:"not null" json:"name"`
	Slug           string           `gorm:"uniqueIndex;not null" json:"slug"`
	SKU            string           `gorm:"uniqueIndex;not null" json:"sku"`
	Description    string           `gorm:"type:text" json:"description"`
	Price          Money            `gorm:"type:numeric(14,2);not null" json:"price"`
	SalePrice      Money            `gorm:"type:numeric(14,2)" json:"sale_price"` // zero means no sale
	CostPrice      Money            `gorm:"type:numeric(14,2)" json:"-"`
	Stock          int              `json:"stock"`
	SoldCount      int              `json:"sold_count"`
	Weight         float64          `json:"weight"` // grams
	Image          string           `json:"image"`
	Images         []ProductImage   `gorm:"constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Variants       []ProductVariant `gorm:"constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	Categories     []Category       `gorm:"many2many:product_categories;" json:"categories,omitempty"`
	BrandID        *uint            `gorm:"index" json:"brand_id,omitempty"`
	Brand          *Brand           `json:"brand,omitempty"`
	ApprovalStatus ApprovalStatus   `gorm:"type:varchar(20);not null;index" json:"approval_status"`
	RejectionNote  string           `json:"rejection_note,omitempty"`
	SubmittedAt    *time.Time       `json:"submitted_at,omitempty"`
	ReviewedAt     *time.Time       `json:"reviewed_at,omitempty"`
	ReviewedBy     string           `json:"reviewed_by,omitempty"`
	IsActive       bool             `json:"is_active"`
	IsFeatured     bool             `json:"is_featured"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	DeletedAt      gorm.DeletedAt   `gorm:"index" json:"-"`
}

// EffectivePrice is the sale price when one is set below the list price.
func (p *Product) EffectivePrice() Money {
	if p.SalePrice.IsPositive() && p.SalePrice.LessThan(p.Price) {
		return p.SalePrice
	}
	return p.Price
}

// Visible reports whether shoppers may see and buy the product.
func (p *Product) Visible() bool {
	return p.IsActive && p.ApprovalStatus == ApprovalApproved
}

// OwnedBy reports whether sellerID owns the product.
func (p *Product) OwnedBy(sellerID string) bool {
	return p.SellerID != nil && *p.SellerID == sellerID
}

type ProductImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"index;not null" json:"product_id"`
	URL       string `gorm:"not null" json:"url"`
	SortOrder int    `json:"sort_order"`
}

type ProductVariant struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	ProductID       uint   `gorm:"index;not null" json:"product_id"`
	SKU             string `gorm:"uniqueIndex;not null" json:"sku"`
	Size            string `gorm:"index" json:"size"`
	Color           string `gorm:"index" json:"color"`
	Stock           int    `json:"stock"`
	PriceAdjustment Money  `gorm:"type:numeric(14,2)" json:"price_adjustment"`
}

type ProductReview struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProductID  uint      `gorm:"uniqueIndex:idx_review_product_user;not null" json:"product_id"`
	UserID     string    `gorm:"uniqueIndex:idx_review_product_user;size:64;not null" json:"user_id"`
	UserName   string    `json:"user_name"`
	Rating     int       `gorm:"not null" json:"rating"`
	Title      string    `json:"title"`
	Comment    string    `gorm:"type:text" json:"comment"`
	IsApproved bool      `gorm:"index" json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}

type WishlistItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"uniqueIndex:idx_wishlist_user_product;size:64;not null" json:"user_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_wishlist_user_product;not null" json:"product_id"`
	Product   *Product  `json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type MovementType string

const (
	MovementIn     MovementType = "in"
	MovementOut    MovementType = "out"
	MovementAdjust MovementType = "adjust"
)

// InventoryMovement is an append-only record of every stock change.
type InventoryMovement struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	ProductID  uint         `gorm:"index;not null" json:"product_id"`
	VariantID  *uint        `gorm:"index" json:"variant_id,omitempty"`
	Type       MovementType `gorm:"type:varchar(10);not null" json:"type"`
	Quantity   int          `json:"quantity"` // signed delta
	StockAfter int          `json:"stock_after"`
	Reason     string       `json:"reason"`
	Reference  string       `gorm:"index" json:"reference"`
	CreatedBy  string       `json:"created_by"`
	CreatedAt  time.Time    `json:"created_at"`
}
