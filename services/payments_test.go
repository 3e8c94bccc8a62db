package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) Name() models.PaymentMethod { return models.PaymentMethodVNPay }

func (m *mockGateway) CreatePayment(ctx context.Context, req payment.Request) (*payment.Redirect, error) {
	args := m.Called(ctx, req)
	if r, ok := args.Get(0).(*payment.Redirect); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGateway) VerifyCallback(r *http.Request) (*payment.CallbackResult, error) {
	args := m.Called(r)
	return args.Get(0).(*payment.CallbackResult), args.Error(1)
}

func placeOnlineOrder(t *testing.T, f *orderFixture) *models.Order {
	in := f.input(OrderLine{ProductID: f.shirt.ID, Quantity: 1})
	in.PaymentMethod = models.PaymentMethodVNPay
	order, err := PlaceOrder(context.Background(), f.db, in)
	require.NoError(t, err)
	return order
}

func TestStartPayment(t *testing.T) {
	f := newOrderFixture(t)
	order := placeOnlineOrder(t, f)

	gw := new(mockGateway)
	gw.On("CreatePayment", mock.Anything, mock.MatchedBy(func(r payment.Request) bool {
		return r.OrderNumber == order.OrderNumber && r.Amount.Equal(order.Total)
	})).Return(&payment.Redirect{URL: "https://pay.test/x", ProviderRef: order.OrderNumber}, nil)

	pay, err := StartPayment(context.Background(), f.db, gw, order, "10.0.0.2")
	require.NoError(t, err)
	assert.Equal(t, "https://pay.test/x", pay.RedirectURL)
	gw.AssertExpectations(t)

	var txns int64
	f.db.Model(&models.PaymentTransaction{}).Where("payment_id = ? AND kind = ?", pay.ID, "create").Count(&txns)
	assert.Equal(t, int64(1), txns)
}

func TestApplyPaymentResult_Idempotent(t *testing.T) {
	f := newOrderFixture(t)
	order := placeOnlineOrder(t, f)
	ctx := context.Background()

	res := &payment.CallbackResult{
		Provider:      models.PaymentMethodVNPay,
		OrderNumber:   order.OrderNumber,
		TransactionID: "14123456",
		Amount:        order.Total,
		Success:       true,
		ResultCode:    "00",
	}

	out, err := ApplyPaymentResult(ctx, f.db, res)
	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.Equal(t, models.PaymentStatusPaid, out.Payment.Status)
	assert.Equal(t, models.OrderStatusConfirmed, out.Order.Status)

	out, err = ApplyPaymentResult(ctx, f.db, res)
	require.NoError(t, err)
	assert.False(t, out.Applied, "replayed callback is not applied twice")

	failed := *res
	failed.Success = false
	out, err = ApplyPaymentResult(ctx, f.db, &failed)
	require.NoError(t, err)
	assert.False(t, out.Applied, "late failure does not undo a paid order")

	var reloaded models.Order
	require.NoError(t, f.db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.PaymentStatusPaid, reloaded.PaymentStatus)

	var txns int64
	f.db.Model(&models.PaymentTransaction{}).Where("kind = ?", "callback").Count(&txns)
	assert.Equal(t, int64(3), txns, "every callback is recorded")

	var history int64
	f.db.Model(&models.OrderStatusHistory{}).Where("order_id = ?", order.ID).Count(&history)
	assert.Equal(t, int64(2), history)
}

func TestApplyPaymentResult_FailureAndMismatch(t *testing.T) {
	f := newOrderFixture(t)
	order := placeOnlineOrder(t, f)
	ctx := context.Background()

	out, err := ApplyPaymentResult(ctx, f.db, &payment.CallbackResult{
		Provider: models.PaymentMethodVNPay, OrderNumber: order.OrderNumber, Amount: order.Total, ResultCode: "24",
	})
	require.NoError(t, err)
	assert.True(t, out.Applied)
	assert.Equal(t, models.PaymentStatusFailed, out.Order.PaymentStatus)
	assert.Equal(t, models.OrderStatusPending, out.Order.Status)

	_, err = ApplyPaymentResult(ctx, f.db, &payment.CallbackResult{
		Provider: models.PaymentMethodVNPay, OrderNumber: order.OrderNumber, Amount: models.NewMoney(1), Success: true,
	})
	assert.ErrorIs(t, err, ErrAmountMismatch)

	_, err = ApplyPaymentResult(ctx, f.db, &payment.CallbackResult{OrderNumber: "JHNOPE", Success: true})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRefundPayment(t *testing.T) {
	f := newOrderFixture(t)
	order := placeOnlineOrder(t, f)
	ctx := context.Background()

	_, err := RefundPayment(ctx, f.db, order.ID, "admin", "customer request")
	assert.ErrorIs(t, err, ErrNotRefundable)

	_, err = ApplyPaymentResult(ctx, f.db, &payment.CallbackResult{
		Provider: models.PaymentMethodVNPay, OrderNumber: order.OrderNumber, Amount: order.Total, Success: true,
	})
	require.NoError(t, err)

	pay, err := RefundPayment(ctx, f.db, order.ID, "admin", "customer request")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRefunded, pay.Status)

	var reloaded models.Order
	require.NoError(t, f.db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.PaymentStatusRefunded, reloaded.PaymentStatus)
}
