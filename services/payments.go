package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/payment"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StartPayment asks the gateway for a redirect and stores it on the order's payment.
func StartPayment(ctx context.Context, db *gorm.DB, gw payment.Gateway, order *models.Order, clientIP string) (*models.Payment, error) {
	var pay models.Payment
	if err := db.WithContext(ctx).Where("order_id = ?", order.ID).First(&pay).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if pay.Status == models.PaymentStatusPaid {
		return &pay, nil
	}

	redirect, err := gw.CreatePayment(ctx, payment.Request{
		OrderNumber: order.OrderNumber,
		Amount:      order.Total,
		Currency:    pay.Currency,
		Description: "John Henry order " + order.OrderNumber,
		ClientIP:    clientIP,
	})
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&pay).Updates(map[string]interface{}{
			"provider":     gw.Name(),
			"provider_ref": redirect.ProviderRef,
			"redirect_url": redirect.URL,
		}).Error; err != nil {
			return err
		}
		return tx.Create(&models.PaymentTransaction{
			PaymentID:     pay.ID,
			Provider:      gw.Name(),
			Kind:          "create",
			ProviderTxnID: redirect.ProviderRef,
			Amount:        order.Total,
			Success:       true,
			RawPayload:    redirect.Raw,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	pay.Provider = gw.Name()
	pay.ProviderRef = redirect.ProviderRef
	pay.RedirectURL = redirect.URL
	return &pay, nil
}

// CallbackOutcome reports what a gateway callback did.
type CallbackOutcome struct {
	Order   *models.Order
	Payment *models.Payment
	// Applied is false when the callback repeated an outcome already recorded.
	Applied bool
}

// ApplyPaymentResult records a verified callback and moves the payment and order accordingly.
// Replays are recorded but never applied twice.
func ApplyPaymentResult(ctx context.Context, db *gorm.DB, res *payment.CallbackResult) (*CallbackOutcome, error) {
	out := &CallbackOutcome{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Items").
			Where("order_number = ?", res.OrderNumber).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order %s: %w", res.OrderNumber, ErrNotFound)
			}
			return err
		}

		var pay models.Payment
		if err := tx.Where("order_id = ?", order.ID).First(&pay).Error; err != nil {
			return err
		}
		out.Order, out.Payment = &order, &pay

		txn := models.PaymentTransaction{
			PaymentID:     pay.ID,
			Provider:      res.Provider,
			Kind:          "callback",
			ProviderTxnID: res.TransactionID,
			ResultCode:    res.ResultCode,
			Success:       res.Success,
			Amount:        res.Amount,
			RawPayload:    res.Raw,
		}
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}

		if pay.Status == models.PaymentStatusPaid || pay.Status == models.PaymentStatusRefunded {
			return nil
		}

		if !res.Success {
			if pay.Status == models.PaymentStatusFailed {
				return nil
			}
			if err := tx.Model(&pay).Update("status", models.PaymentStatusFailed).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
				Update("payment_status", models.PaymentStatusFailed).Error; err != nil {
				return err
			}
			pay.Status = models.PaymentStatusFailed
			order.PaymentStatus = models.PaymentStatusFailed
			out.Applied = true
			return nil
		}

		if !res.Amount.Equal(pay.Amount) {
			return fmt.Errorf("%w: got %s, want %s", ErrAmountMismatch, res.Amount, pay.Amount)
		}

		now := time.Now()
		if err := tx.Model(&pay).Updates(map[string]interface{}{
			"status":       models.PaymentStatusPaid,
			"paid_at":      now,
			"provider_ref": res.TransactionID,
		}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("payment_status", models.PaymentStatusPaid).Error; err != nil {
			return err
		}
		pay.Status, pay.PaidAt, pay.ProviderRef = models.PaymentStatusPaid, &now, res.TransactionID
		order.PaymentStatus = models.PaymentStatusPaid
		out.Applied = true

		if order.Status == models.OrderStatusPending {
			return transitionTx(tx, &order, models.OrderStatusConfirmed, "paid via "+string(res.Provider), "payment:"+string(res.Provider), now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RefundPayment marks a paid order refunded. Money movement happens in the gateway dashboard.
func RefundPayment(ctx context.Context, db *gorm.DB, orderID uint, actor, reason string) (*models.Payment, error) {
	var pay models.Payment
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("order_id = ?", orderID).First(&pay).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if pay.Status != models.PaymentStatusPaid {
			return ErrNotRefundable
		}
		if err := tx.Model(&pay).Update("status", models.PaymentStatusRefunded).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", orderID).
			Update("payment_status", models.PaymentStatusRefunded).Error; err != nil {
			return err
		}
		pay.Status = models.PaymentStatusRefunded
		return tx.Create(&models.PaymentTransaction{
			PaymentID:  pay.ID,
			Provider:   pay.Provider,
			Kind:       "refund",
			ResultCode: reason,
			Success:    true,
			Amount:     pay.Amount,
			RawPayload: "refunded by " + actor,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &pay, nil
}
