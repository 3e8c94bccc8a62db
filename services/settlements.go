package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GenerateSettlements creates one pending settlement per seller for delivered, unsettled
// items whose order was delivered in [from, to). Items already settled are skipped.
func GenerateSettlements(ctx context.Context, db *gorm.DB, from, to time.Time, platformFeePercent float64) ([]models.SellerSettlement, error) {
	var created []models.SellerSettlement
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []models.OrderItem
		if err := tx.Model(&models.OrderItem{}).
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Where("orders.status = ? AND orders.delivered_at >= ? AND orders.delivered_at < ?",
				models.OrderStatusDelivered, from, to).
			Where("order_items.settlement_id IS NULL AND order_items.seller_id IS NOT NULL").
			Order("order_items.id ASC").
			Find(&items).Error; err != nil {
			return err
		}

		bySeller := map[string][]models.OrderItem{}
		for _, item := range items {
			bySeller[*item.SellerID] = append(bySeller[*item.SellerID], item)
		}

		sellers := make([]string, 0, len(bySeller))
		for id := range bySeller {
			sellers = append(sellers, id)
		}
		sort.Strings(sellers)

		for _, sellerID := range sellers {
			sellerItems := bySeller[sellerID]

			feePercent := platformFeePercent
			var profile models.SellerProfile
			err := tx.Where("user_id = ?", sellerID).First(&profile).Error
			if err == nil && profile.CommissionPercent != nil {
				feePercent = *profile.CommissionPercent
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			gross := decimal.Zero
			ids := make([]uint, 0, len(sellerItems))
			for _, item := range sellerItems {
				gross = gross.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
				ids = append(ids, item.ID)
			}
			fee := gross.Mul(decimal.NewFromFloat(feePercent)).Div(hundred).Round(2)

			settlement := models.SellerSettlement{
				SellerID:    sellerID,
				PeriodStart: from,
				PeriodEnd:   to,
				GrossAmount: gross,
				FeePercent:  feePercent,
				FeeAmount:   fee,
				NetAmount:   gross.Sub(fee),
				ItemCount:   len(sellerItems),
				Status:      models.SettlementStatusPending,
			}
			if err := tx.Create(&settlement).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.OrderItem{}).Where("id IN ?", ids).
				Update("settlement_id", settlement.ID).Error; err != nil {
				return err
			}
			created = append(created, settlement)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// MarkSettlementPaid records the payout reference of a pending settlement.
func MarkSettlementPaid(ctx context.Context, db *gorm.DB, id uint, reference string) (*models.SellerSettlement, error) {
	var settlement models.SellerSettlement
	if err := db.WithContext(ctx).First(&settlement, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if settlement.Status == models.SettlementStatusPaid {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	if err := db.WithContext(ctx).Model(&settlement).Updates(map[string]interface{}{
		"status":            models.SettlementStatusPaid,
		"payment_reference": reference,
		"paid_at":           now,
	}).Error; err != nil {
		return nil, err
	}
	settlement.Status = models.SettlementStatusPaid
	settlement.PaymentReference = reference
	settlement.PaidAt = &now
	return &settlement, nil
}
