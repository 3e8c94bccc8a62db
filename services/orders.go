package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderLine is one product (and optional variant) requested in an order.
type OrderLine struct {
	ProductID uint
	VariantID *uint
	Quantity  int
	// UnitPrice, when set, is the price the shopper confirmed and replaces the live price.
	UnitPrice *models.Money
}

type PlaceOrderInput struct {
	UserID             string
	Lines              []OrderLine
	ShippingAddress    models.AddressSnapshot
	ShippingMethodCode string
	PaymentMethod      models.PaymentMethod
	CouponCode         string
	Note               string
	Currency           string
	CheckoutSessionID  *string
	// ClearCart empties the user's cart once the order is written.
	ClearCart bool
}

// ParseOrderStatus maps a request string to a known order status.
func ParseOrderStatus(status string) (models.OrderStatus, error) {
	s := models.OrderStatus(strings.ToLower(strings.TrimSpace(status)))
	switch s {
	case models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusReadyToShip,
		models.OrderStatusShipped, models.OrderStatusDelivered, models.OrderStatusReturned,
		models.OrderStatusCancelled:
		return s, nil
	}
	return "", fmt.Errorf("%w: invalid order status %q", ErrInvalidInput, status)
}

// ParsePaymentStatus maps a request string to a known payment status.
func ParsePaymentStatus(status string) (models.PaymentStatus, error) {
	s := models.PaymentStatus(strings.ToLower(strings.TrimSpace(status)))
	switch s {
	case models.PaymentStatusPending, models.PaymentStatusPaid, models.PaymentStatusFailed,
		models.PaymentStatusRefunded, models.PaymentStatusCancelled:
		return s, nil
	}
	return "", fmt.Errorf("%w: invalid payment status %q", ErrInvalidInput, status)
}

// NewOrderNumber returns JH + timestamp + six random characters.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return "JH" + now.Format("20060102150405") + suffix
}

// PlaceOrder validates stock, prices the lines at current prices and writes the order in one transaction.
func PlaceOrder(ctx context.Context, db *gorm.DB, in PlaceOrderInput) (*models.Order, error) {
	var order *models.Order
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = placeOrderTx(tx, in, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func placeOrderTx(tx *gorm.DB, in PlaceOrderInput, now time.Time) (*models.Order, error) {
	if len(in.Lines) == 0 {
		return nil, ErrCartEmpty
	}
	if !in.PaymentMethod.Valid() {
		return nil, ErrPaymentMethod
	}
	if !in.ShippingAddress.Complete() {
		return nil, ErrAddressIncomplete
	}

	method, err := FindShippingMethod(tx, in.ShippingMethodCode)
	if err != nil {
		return nil, err
	}

	orderNumber := NewOrderNumber(now)
	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(in.Lines))

	for _, line := range in.Lines {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
		}

		var product models.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, "id = ?", line.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotPurchasable
			}
			return nil, err
		}
		if !product.Visible() {
			return nil, fmt.Errorf("%w: %s", ErrNotPurchasable, product.Name)
		}

		price := product.EffectivePrice()
		item := models.OrderItem{
			ProductID:    product.ID,
			VariantID:    line.VariantID,
			SellerID:     product.SellerID,
			ProductName:  product.Name,
			ProductImage: product.Image,
			SKU:          product.SKU,
			Quantity:     line.Quantity,
		}
		if line.VariantID != nil {
			var variant models.ProductVariant
			if err := tx.Where("id = ? AND product_id = ?", *line.VariantID, product.ID).First(&variant).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrNotPurchasable
				}
				return nil, err
			}
			price = price.Add(variant.PriceAdjustment)
			item.SKU = variant.SKU
			item.Size = variant.Size
			item.Color = variant.Color
		}
		if line.UnitPrice != nil {
			price = *line.UnitPrice
		}
		item.UnitPrice = price
		item.LineTotal = price.Mul(decimal.NewFromInt(int64(line.Quantity)))

		if _, err := AdjustStock(tx, StockChange{
			ProductID: product.ID,
			VariantID: line.VariantID,
			Delta:     -line.Quantity,
			Type:      models.MovementOut,
			Reason:    "order",
			Reference: orderNumber,
			Actor:     in.UserID,
		}); err != nil {
			return nil, err
		}

		subtotal = subtotal.Add(item.LineTotal)
		items = append(items, item)
	}

	discount := decimal.Zero
	var coupon *models.Coupon
	if in.CouponCode != "" {
		coupon, discount, err = ApplyCoupon(tx, in.CouponCode, in.UserID, subtotal, now, true)
		if err != nil {
			return nil, err
		}
	}

	totals := ComputeTotals(subtotal, discount, QuoteShipping(method, subtotal))

	order := models.Order{
		OrderNumber:       orderNumber,
		UserID:            in.UserID,
		Items:             items,
		Subtotal:          totals.Subtotal,
		Discount:          totals.Discount,
		ShippingFee:       totals.ShippingFee,
		Total:             totals.Total,
		Status:            models.OrderStatusPending,
		PaymentStatus:     models.PaymentStatusPending,
		PaymentMethod:     in.PaymentMethod,
		ShippingAddress:   in.ShippingAddress,
		ShippingMethod:    method.Code,
		Note:              in.Note,
		CheckoutSessionID: in.CheckoutSessionID,
		History: []models.OrderStatusHistory{{
			ToStatus:  models.OrderStatusPending,
			Note:      "order placed",
			ChangedBy: in.UserID,
		}},
	}
	if coupon != nil {
		order.CouponCode = coupon.Code
	}
	if err := tx.Create(&order).Error; err != nil {
		return nil, err
	}

	if coupon != nil {
		if err := tx.Model(coupon).Update("used_count", gorm.Expr("used_count + 1")).Error; err != nil {
			return nil, err
		}
		usage := models.CouponUsage{CouponID: coupon.ID, UserID: in.UserID, OrderID: order.ID, Discount: discount}
		if err := tx.Create(&usage).Error; err != nil {
			return nil, err
		}
	}

	currency := in.Currency
	if currency == "" {
		currency = "VND"
	}
	payment := models.Payment{
		OrderID:  order.ID,
		Provider: in.PaymentMethod,
		Amount:   order.Total,
		Currency: currency,
		Status:   models.PaymentStatusPending,
	}
	if err := tx.Create(&payment).Error; err != nil {
		return nil, err
	}

	if in.ClearCart {
		var cart models.Cart
		err := tx.Where("user_id = ?", in.UserID).First(&cart).Error
		if err == nil {
			if err := ClearCart(tx, cart.CartID); err != nil {
				return nil, err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return &order, nil
}

// ChangeOrderStatus applies one transition of the order state machine with its side effects:
// restocking on cancel/return, sold counts and COD settlement on delivery.
func ChangeOrderStatus(ctx context.Context, db *gorm.DB, orderID uint, to models.OrderStatus, note, actor string) (*models.Order, error) {
	var order models.Order
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Items").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		return transitionTx(tx, &order, to, note, actor, time.Now())
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func transitionTx(tx *gorm.DB, order *models.Order, to models.OrderStatus, note, actor string, now time.Time) error {
	from := order.Status
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, to)
	}

	updates := map[string]interface{}{"status": to}

	if to.RestocksInventory() {
		reason := "order_" + string(to)
		for _, item := range order.Items {
			if _, err := AdjustStock(tx, StockChange{
				ProductID: item.ProductID,
				VariantID: item.VariantID,
				Delta:     item.Quantity,
				Type:      models.MovementIn,
				Reason:    reason,
				Reference: order.OrderNumber,
				Actor:     actor,
			}); err != nil {
				return err
			}
			if from == models.OrderStatusDelivered {
				if err := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).
					Update("sold_count", gorm.Expr("sold_count - ?", item.Quantity)).Error; err != nil {
					return err
				}
			}
		}
	}

	switch to {
	case models.OrderStatusCancelled:
		updates["cancelled_at"] = now
		updates["cancel_reason"] = note
		if order.PaymentStatus == models.PaymentStatusPending {
			updates["payment_status"] = models.PaymentStatusCancelled
			if err := setPaymentStatus(tx, order.ID, models.PaymentStatusCancelled, nil); err != nil {
				return err
			}
		}
	case models.OrderStatusDelivered:
		updates["delivered_at"] = now
		for _, item := range order.Items {
			if err := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).
				Update("sold_count", gorm.Expr("sold_count + ?", item.Quantity)).Error; err != nil {
				return err
			}
		}
		if order.PaymentMethod == models.PaymentMethodCOD && order.PaymentStatus == models.PaymentStatusPending {
			updates["payment_status"] = models.PaymentStatusPaid
			if err := setPaymentStatus(tx, order.ID, models.PaymentStatusPaid, &now); err != nil {
				return err
			}
		}
	}

	if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
		return err
	}
	order.Status = to
	if ps, ok := updates["payment_status"].(models.PaymentStatus); ok {
		order.PaymentStatus = ps
	}
	switch to {
	case models.OrderStatusCancelled:
		order.CancelledAt = &now
		order.CancelReason = note
	case models.OrderStatusDelivered:
		order.DeliveredAt = &now
	}

	history := models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: from,
		ToStatus:   to,
		Note:       note,
		ChangedBy:  actor,
	}
	if err := tx.Create(&history).Error; err != nil {
		return err
	}
	order.History = append(order.History, history)
	return nil
}

func setPaymentStatus(tx *gorm.DB, orderID uint, status models.PaymentStatus, paidAt *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if paidAt != nil {
		updates["paid_at"] = *paidAt
	}
	return tx.Model(&models.Payment{}).Where("order_id = ?", orderID).Updates(updates).Error
}

// CancelOrder lets the owner cancel while the order is still pending or confirmed.
func CancelOrder(ctx context.Context, db *gorm.DB, orderNumber, userID, reason string) (*models.Order, error) {
	var order models.Order
	if err := db.WithContext(ctx).Where("order_number = ? AND user_id = ?", orderNumber, userID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusConfirmed {
		return nil, ErrNotCancellable
	}
	if reason == "" {
		reason = "cancelled by customer"
	}
	return ChangeOrderStatus(ctx, db, order.ID, models.OrderStatusCancelled, reason, userID)
}

// SetOrderPaymentStatus is the back-office override of an order's payment status.
func SetOrderPaymentStatus(ctx context.Context, db *gorm.DB, orderID uint, status models.PaymentStatus) (*models.Order, error) {
	var order models.Order
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		var paidAt *time.Time
		if status == models.PaymentStatusPaid {
			now := time.Now()
			paidAt = &now
		}
		if err := setPaymentStatus(tx, order.ID, status, paidAt); err != nil {
			return err
		}
		order.PaymentStatus = status
		return tx.Model(&models.Order{}).Where("id = ?", order.ID).Update("payment_status", status).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
