package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var hundred = decimal.NewFromInt(100)

// EvaluateCoupon returns the discount the coupon grants on subtotal.
// userUsage is how many times the shopper already redeemed it.
func EvaluateCoupon(coupon *models.Coupon, subtotal models.Money, userUsage int, now time.Time) (models.Money, error) {
	if !coupon.IsActive {
		return decimal.Zero, ErrCouponInactive
	}
	if coupon.StartsAt != nil && now.Before(*coupon.StartsAt) {
		return decimal.Zero, ErrCouponNotStarted
	}
	if coupon.EndsAt != nil && now.After(*coupon.EndsAt) {
		return decimal.Zero, ErrCouponExpired
	}
	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return decimal.Zero, ErrCouponUsageExceeded
	}
	if coupon.PerUserLimit > 0 && userUsage >= coupon.PerUserLimit {
		return decimal.Zero, ErrCouponUsageExceeded
	}
	if subtotal.LessThan(coupon.MinOrderAmount) {
		return decimal.Zero, ErrCouponMinOrder
	}

	var discount models.Money
	switch coupon.Type {
	case models.CouponPercent:
		discount = subtotal.Mul(coupon.Value).Div(hundred).Round(2)
	case models.CouponFixed:
		discount = coupon.Value.Round(2)
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown coupon type %q", ErrInvalidInput, coupon.Type)
	}

	if coupon.MaxDiscount.IsPositive() && discount.GreaterThan(coupon.MaxDiscount) {
		discount = coupon.MaxDiscount
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	return discount, nil
}

// NormalizeCouponCode upper-cases and trims a shopper-entered code.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ApplyCoupon loads the coupon by code and evaluates it for userID.
// When lock is set the coupon row is locked for update.
func ApplyCoupon(tx *gorm.DB, code, userID string, subtotal models.Money, now time.Time, lock bool) (*models.Coupon, models.Money, error) {
	q := tx
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var coupon models.Coupon
	if err := q.Where("code = ?", NormalizeCouponCode(code)).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, decimal.Zero, ErrCouponNotFound
		}
		return nil, decimal.Zero, err
	}

	var used int64
	if userID != "" {
		if err := tx.Model(&models.CouponUsage{}).
			Where("coupon_id = ? AND user_id = ?", coupon.ID, userID).
			Count(&used).Error; err != nil {
			return nil, decimal.Zero, err
		}
	}

	discount, err := EvaluateCoupon(&coupon, subtotal, int(used), now)
	if err != nil {
		return &coupon, decimal.Zero, err
	}
	return &coupon, discount, nil
}

// QuoteShipping returns the fee for method, waiving it once subtotal reaches the free threshold.
func QuoteShipping(method *models.ShippingMethod, subtotal models.Money) models.Money {
	if method.FreeThreshold.IsPositive() && subtotal.GreaterThanOrEqual(method.FreeThreshold) {
		return decimal.Zero
	}
	return method.Fee
}

// FindShippingMethod loads an active shipping method by code.
func FindShippingMethod(tx *gorm.DB, code string) (*models.ShippingMethod, error) {
	var method models.ShippingMethod
	err := tx.Where("code = ? AND is_active = ?", code, true).First(&method).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrShippingUnavailable
	}
	if err != nil {
		return nil, err
	}
	return &method, nil
}

// Totals is the price breakdown of a checkout or order.
type Totals struct {
	Subtotal    models.Money `json:"subtotal"`
	Discount    models.Money `json:"discount"`
	ShippingFee models.Money `json:"shipping_fee"`
	Total       models.Money `json:"total"`
}

// ComputeTotals returns subtotal minus discount plus shipping, never below zero.
func ComputeTotals(subtotal, discount, shipping models.Money) Totals {
	total := subtotal.Sub(discount).Add(shipping)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return Totals{Subtotal: subtotal, Discount: discount, ShippingFee: shipping, Total: total}
}
