package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/config"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/webhook"
)

const stripeTolerance = 5 * time.Minute

var zeroDecimalCurrencies = map[string]bool{
	"vnd": true, "jpy": true, "krw": true, "clp": true, "xof": true,
}

// Stripe creates hosted Checkout Sessions and verifies signed webhooks.
type Stripe struct {
	settings config.StripeSettings
	sessions *session.Client
}

func NewStripe(settings config.StripeSettings, client *http.Client) *Stripe {
	if settings.APIBase == "" {
		settings.APIBase = stripe.APIURL
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(strings.TrimRight(settings.APIBase, "/")),
		HTTPClient:        client,
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	})
	return &Stripe{
		settings: settings,
		sessions: &session.Client{B: backend, Key: settings.SecretKey},
	}
}

func (s *Stripe) Name() models.PaymentMethod { return models.PaymentMethodStripe }

// minorUnits converts an amount into the smallest currency unit Stripe expects.
func minorUnits(amount models.Money, currency string) int64 {
	if zeroDecimalCurrencies[strings.ToLower(currency)] {
		return amount.Round(0).IntPart()
	}
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func fromMinorUnits(units int64, currency string) models.Money {
	if zeroDecimalCurrencies[strings.ToLower(currency)] {
		return decimal.NewFromInt(units)
	}
	return decimal.New(units, -2)
}

func (s *Stripe) CreatePayment(ctx context.Context, req Request) (*Redirect, error) {
	currency := strings.ToLower(req.Currency)
	if currency == "" {
		currency = "vnd"
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(s.settings.SuccessURL),
		CancelURL:         stripe.String(s.settings.CancelURL),
		ClientReferenceID: stripe.String(req.OrderNumber),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(minorUnits(req.Amount, currency)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(req.Description),
				},
			},
		}},
	}
	params.Context = ctx
	params.AddMetadata("order_number", req.OrderNumber)
	params.SetIdempotencyKey("checkout-" + req.OrderNumber)

	cs, err := s.sessions.New(params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) {
			return nil, fmt.Errorf("stripe error (%d): %s", se.HTTPStatusCode, se.Msg)
		}
		return nil, fmt.Errorf("failed to reach Stripe: %w", err)
	}
	if cs.URL == "" {
		return nil, fmt.Errorf("stripe returned empty checkout URL")
	}

	var raw string
	if cs.LastResponse != nil {
		raw = string(cs.LastResponse.RawJSON)
	}
	return &Redirect{URL: cs.URL, ProviderRef: cs.ID, Raw: raw}, nil
}

// VerifyCallback authenticates a webhook delivery and maps checkout session events.
func (s *Stripe) VerifyCallback(r *http.Request) (*CallbackResult, error) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	event, err := webhook.ConstructEventWithOptions(payload, r.Header.Get("Stripe-Signature"),
		s.settings.WebhookSecret, webhook.ConstructEventOptions{
			Tolerance:                stripeTolerance,
			IgnoreAPIVersionMismatch: true,
		})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted, stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded,
		stripe.EventTypeCheckoutSessionExpired, stripe.EventTypeCheckoutSessionAsyncPaymentFailed:
	default:
		return nil, ErrIgnoredEvent
	}
	if event.Data == nil {
		return nil, fmt.Errorf("invalid Stripe event: missing data")
	}

	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		return nil, fmt.Errorf("invalid Stripe event: %w", err)
	}

	orderNumber := cs.ClientReferenceID
	if orderNumber == "" {
		orderNumber = cs.Metadata["order_number"]
	}

	result := &CallbackResult{
		Provider:      models.PaymentMethodStripe,
		OrderNumber:   orderNumber,
		TransactionID: cs.ID,
		Amount:        fromMinorUnits(cs.AmountTotal, string(cs.Currency)),
		ResultCode:    string(event.Type),
		Raw:           string(payload),
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted, stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded:
		result.Success = cs.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid
		if !result.Success {
			// async methods report completed before the money arrives
			return nil, ErrIgnoredEvent
		}
	default:
		result.Success = false
	}
	return result, nil
}
