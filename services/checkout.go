package services

import (
	"context"
	"errors"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CheckoutInput carries the shopper's choices. Nil fields keep their current value on update.
type CheckoutInput struct {
	AddressID          *uint                   `json:"address_id"`
	ShippingAddress    *models.AddressSnapshot `json:"shipping_address"`
	ShippingMethodCode *string                 `json:"shipping_method"`
	PaymentMethod      *models.PaymentMethod   `json:"payment_method"`
	CouponCode         *string                 `json:"coupon_code"`
	Note               *string                 `json:"note"`
}

// CreateCheckoutSession snapshots the user's cart and prices it.
func CreateCheckoutSession(ctx context.Context, db *gorm.DB, userID string, in CheckoutInput, ttl time.Duration, now time.Time) (*models.CheckoutSession, error) {
	db = db.WithContext(ctx)

	cart, err := GetOrCreateCart(db, CartOwner{UserID: userID})
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	session := &models.CheckoutSession{
		ID:            uuid.NewString(),
		UserID:        userID,
		Status:        models.CheckoutActive,
		PaymentMethod: models.PaymentMethodCOD,
		ExpiresAt:     now.Add(ttl),
	}

	for _, item := range cart.Items {
		product, variant, price, stock, err := purchasable(db, item.ProductID, item.VariantID)
		if err != nil {
			return nil, err
		}
		if item.Quantity > stock {
			return nil, ErrInsufficientStock
		}
		line := models.CheckoutSessionItem{
			SessionID:    session.ID,
			ProductID:    product.ID,
			VariantID:    item.VariantID,
			SellerID:     product.SellerID,
			ProductName:  product.Name,
			ProductImage: product.Image,
			SKU:          product.SKU,
			UnitPrice:    price,
			Quantity:     item.Quantity,
		}
		if variant != nil {
			line.SKU, line.Size, line.Color = variant.SKU, variant.Size, variant.Color
		}
		session.Items = append(session.Items, line)
	}

	if in.ShippingMethodCode == nil {
		var method models.ShippingMethod
		if err := db.Where("is_active = ?", true).Order("fee ASC, id ASC").First(&method).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrShippingUnavailable
			}
			return nil, err
		}
		in.ShippingMethodCode = &method.Code
	}

	if err := applyCheckoutInput(db, session, in, now); err != nil {
		return nil, err
	}
	if err := db.Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// GetCheckoutSession loads the user's session with items.
func GetCheckoutSession(ctx context.Context, db *gorm.DB, id, userID string) (*models.CheckoutSession, error) {
	var session models.CheckoutSession
	if err := db.WithContext(ctx).Preload("Items").
		Where("id = ? AND user_id = ?", id, userID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// UpdateCheckoutSession changes shipping, payment or coupon and recomputes totals.
func UpdateCheckoutSession(ctx context.Context, db *gorm.DB, id, userID string, in CheckoutInput, now time.Time) (*models.CheckoutSession, error) {
	session, err := GetCheckoutSession(ctx, db, id, userID)
	if err != nil {
		return nil, err
	}
	if err := ensureOpen(db.WithContext(ctx), session, now); err != nil {
		return nil, err
	}
	if err := applyCheckoutInput(db.WithContext(ctx), session, in, now); err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Omit("Items").Save(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

func ensureOpen(db *gorm.DB, session *models.CheckoutSession, now time.Time) error {
	switch session.Status {
	case models.CheckoutCompleted:
		return ErrSessionCompleted
	case models.CheckoutCancelled:
		return ErrSessionExpired
	}
	if session.Expired(now) {
		if session.Status == models.CheckoutActive {
			db.Model(&models.CheckoutSession{}).Where("id = ?", session.ID).Update("status", models.CheckoutExpired)
			session.Status = models.CheckoutExpired
		}
		return ErrSessionExpired
	}
	return nil
}

func applyCheckoutInput(db *gorm.DB, session *models.CheckoutSession, in CheckoutInput, now time.Time) error {
	switch {
	case in.AddressID != nil:
		var addr models.Address
		if err := db.Where("id = ? AND user_id = ?", *in.AddressID, session.UserID).First(&addr).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAddressIncomplete
			}
			return err
		}
		session.ShippingAddress = addr.Snapshot()
	case in.ShippingAddress != nil:
		if !in.ShippingAddress.Complete() {
			return ErrAddressIncomplete
		}
		session.ShippingAddress = *in.ShippingAddress
	case !session.ShippingAddress.Complete():
		var addr models.Address
		err := db.Where("user_id = ? AND is_default = ?", session.UserID, true).First(&addr).Error
		if err == nil {
			session.ShippingAddress = addr.Snapshot()
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}

	if in.PaymentMethod != nil {
		if !in.PaymentMethod.Valid() {
			return ErrPaymentMethod
		}
		session.PaymentMethod = *in.PaymentMethod
	}
	if in.Note != nil {
		session.Note = *in.Note
	}
	if in.CouponCode != nil {
		session.CouponCode = NormalizeCouponCode(*in.CouponCode)
	}
	if in.ShippingMethodCode != nil {
		method, err := FindShippingMethod(db, *in.ShippingMethodCode)
		if err != nil {
			return err
		}
		session.ShippingMethodID = &method.ID
		session.ShippingMethod = method.Code
	}

	return priceSession(db, session, now)
}

func priceSession(db *gorm.DB, session *models.CheckoutSession, now time.Time) error {
	subtotal := decimal.Zero
	for _, item := range session.Items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	discount := decimal.Zero
	if session.CouponCode != "" {
		var err error
		if _, discount, err = ApplyCoupon(db, session.CouponCode, session.UserID, subtotal, now, false); err != nil {
			return err
		}
	}

	shipping := decimal.Zero
	if session.ShippingMethod != "" {
		method, err := FindShippingMethod(db, session.ShippingMethod)
		if err != nil {
			return err
		}
		shipping = QuoteShipping(method, subtotal)
	}

	totals := ComputeTotals(subtotal, discount, shipping)
	session.Subtotal = totals.Subtotal
	session.Discount = totals.Discount
	session.ShippingFee = totals.ShippingFee
	session.Total = totals.Total
	return nil
}

// CompleteCheckoutSession places the order at the session's snapshot prices and closes it.
func CompleteCheckoutSession(ctx context.Context, db *gorm.DB, id, userID, currency string, now time.Time) (*models.Order, error) {
	session, err := GetCheckoutSession(ctx, db, id, userID)
	if err != nil {
		return nil, err
	}
	if err := ensureOpen(db.WithContext(ctx), session, now); err != nil {
		return nil, err
	}

	lines := make([]OrderLine, 0, len(session.Items))
	for _, item := range session.Items {
		price := item.UnitPrice
		lines = append(lines, OrderLine{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			UnitPrice: &price,
		})
	}

	var order *models.Order
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = placeOrderTx(tx, PlaceOrderInput{
			UserID:             userID,
			Lines:              lines,
			ShippingAddress:    session.ShippingAddress,
			ShippingMethodCode: session.ShippingMethod,
			PaymentMethod:      session.PaymentMethod,
			CouponCode:         session.CouponCode,
			Note:               session.Note,
			Currency:           currency,
			CheckoutSessionID:  &session.ID,
			ClearCart:          true,
		}, now)
		if err != nil {
			return err
		}

		result := tx.Model(&models.CheckoutSession{}).
			Where("id = ? AND status = ?", session.ID, models.CheckoutActive).
			Updates(map[string]interface{}{"status": models.CheckoutCompleted, "order_id": order.ID})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrSessionCompleted
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ExpireCheckoutSessions marks active sessions past their deadline as expired.
func ExpireCheckoutSessions(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	result := db.WithContext(ctx).Model(&models.CheckoutSession{}).
		Where("status = ? AND expires_at <= ?", models.CheckoutActive, now).
		Update("status", models.CheckoutExpired)
	return result.RowsAffected, result.Error
}
