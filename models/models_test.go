package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusConfirmed, OrderStatusReadyToShip, true},
		{OrderStatusReadyToShip, OrderStatusShipped, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusReturned, true},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusReturned, OrderStatusDelivered, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to))
		})
	}

	assert.True(t, OrderStatusCancelled.Terminal())
	assert.True(t, OrderStatusReturned.Terminal())
	assert.False(t, OrderStatusShipped.Terminal())
	assert.True(t, OrderStatusCancelled.RestocksInventory())
	assert.False(t, OrderStatusDelivered.RestocksInventory())
}

func TestApprovalStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, ApprovalDraft.CanTransitionTo(ApprovalPending))
	assert.True(t, ApprovalPending.CanTransitionTo(ApprovalApproved))
	assert.True(t, ApprovalPending.CanTransitionTo(ApprovalRejected))
	assert.True(t, ApprovalRejected.CanTransitionTo(ApprovalPending))
	assert.False(t, ApprovalRejected.CanTransitionTo(ApprovalApproved))
	assert.False(t, ApprovalDraft.CanTransitionTo(ApprovalApproved))
}

func TestProduct_EffectivePriceAndVisibility(t *testing.T) {
	p := Product{Price: NewMoney(500000), ApprovalStatus: ApprovalApproved, IsActive: true}
	assert.True(t, p.EffectivePrice().Equal(NewMoney(500000)))

	p.SalePrice = NewMoney(399000)
	assert.True(t, p.EffectivePrice().Equal(NewMoney(399000)))

	p.SalePrice = NewMoney(600000)
	assert.True(t, p.EffectivePrice().Equal(NewMoney(500000)), "sale above list price is ignored")

	assert.True(t, p.Visible())
	p.ApprovalStatus = ApprovalPending
	assert.False(t, p.Visible())

	seller := "seller-1"
	p.SellerID = &seller
	assert.True(t, p.OwnedBy("seller-1"))
	assert.False(t, p.OwnedBy("seller-2"))
}

func TestCart_Subtotal(t *testing.T) {
	cart := Cart{Items: []CartItem{
		{ProductID: 1, UnitPrice: NewMoney(150000), Quantity: 2},
		{ProductID: 2, UnitPrice: NewMoney(99000.5), Quantity: 1},
	}}
	assert.Equal(t, "399000.50", cart.Subtotal().StringFixed(2))
}

func TestCartItem_SameLine(t *testing.T) {
	v1, v2 := uint(1), uint(2)
	item := CartItem{ProductID: 10, VariantID: &v1}

	assert.True(t, item.SameLine(10, &v1))
	assert.False(t, item.SameLine(10, &v2))
	assert.False(t, item.SameLine(10, nil))
	assert.False(t, item.SameLine(11, &v1))
	assert.True(t, CartItem{ProductID: 10}.SameLine(10, nil))
}

func TestBanner_Live(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	past, future := now.Add(-time.Hour), now.Add(time.Hour)

	assert.True(t, (&Banner{IsActive: true}).Live(now))
	assert.False(t, (&Banner{IsActive: false}).Live(now))
	assert.False(t, (&Banner{IsActive: true, StartsAt: &future}).Live(now))
	assert.False(t, (&Banner{IsActive: true, EndsAt: &past}).Live(now))
	assert.True(t, (&Banner{IsActive: true, StartsAt: &past, EndsAt: &future}).Live(now))
}

func TestCheckoutSession_Expired(t *testing.T) {
	now := time.Now()
	s := CheckoutSession{Status: CheckoutActive, ExpiresAt: now.Add(time.Minute)}
	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(2*time.Minute)))

	s.Status = CheckoutCompleted
	assert.False(t, s.Expired(now.Add(2*time.Minute)))
}

func TestPaymentMethod(t *testing.T) {
	assert.True(t, PaymentMethodVNPay.Online())
	assert.False(t, PaymentMethodCOD.Online())
	assert.True(t, PaymentMethodBankTransfer.Valid())
	assert.False(t, PaymentMethod("cash").Valid())
}

func TestParseMoney(t *testing.T) {
	m, err := ParseMoney("12.345")
	assert.NoError(t, err)
	assert.Equal(t, "12.35", m.StringFixed(2))

	_, err = ParseMoney("abc")
	assert.Error(t, err)
}
