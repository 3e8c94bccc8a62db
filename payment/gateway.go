// Package payment implements the online payment gateways: VNPay, MoMo and Stripe.
package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/config"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
)

var (
	ErrInvalidSignature = errors.New("invalid payment signature")
	ErrGatewayDisabled  = errors.New("payment gateway is not configured")
	// ErrIgnoredEvent marks a well-formed callback that carries no payment outcome.
	ErrIgnoredEvent = errors.New("payment event ignored")
)

// Request is what a gateway needs to start collecting money for an order.
type Request struct {
	OrderNumber string
	Amount      models.Money
	Currency    string
	Description string
	ClientIP    string
}

// Redirect is where the shopper is sent to pay.
type Redirect struct {
	URL         string
	ProviderRef string
	Raw         string
}

// CallbackResult is a verified outcome reported by a gateway.
type CallbackResult struct {
	Provider      models.PaymentMethod
	OrderNumber   string
	TransactionID string
	Amount        models.Money
	Success       bool
	ResultCode    string
	Message       string
	Raw           string
}

// Gateway creates payments and verifies the gateway's callbacks.
type Gateway interface {
	Name() models.PaymentMethod
	CreatePayment(ctx context.Context, req Request) (*Redirect, error)
	// VerifyCallback authenticates a return redirect, IPN or webhook request.
	VerifyCallback(r *http.Request) (*CallbackResult, error)
}

// Registry holds the gateways that are configured.
type Registry map[models.PaymentMethod]Gateway

// NewRegistry builds every enabled gateway from settings.
func NewRegistry(settings config.PaymentSettings, client *http.Client) Registry {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	reg := Registry{}
	if settings.VNPay.Enabled() {
		reg[models.PaymentMethodVNPay] = NewVNPay(settings.VNPay)
	}
	if settings.MoMo.Enabled() {
		reg[models.PaymentMethodMoMo] = NewMoMo(settings.MoMo, client)
	}
	if settings.Stripe.Enabled() {
		reg[models.PaymentMethodStripe] = NewStripe(settings.Stripe, client)
	}
	return reg
}

// Get returns the gateway for method.
func (r Registry) Get(method models.PaymentMethod) (Gateway, error) {
	gw, ok := r[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGatewayDisabled, method)
	}
	return gw, nil
}
