// Package services holds the business rules shared by the HTTP handlers, CLI commands and background jobs.
package services

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidInput   = errors.New("invalid input")
	ErrCartEmpty      = errors.New("cart is empty")
	ErrItemNotFound   = errors.New("cart item not found")
	ErrNotPurchasable = errors.New("product is not available for purchase")

	ErrInsufficientStock = errors.New("insufficient stock")

	ErrCouponNotFound      = errors.New("coupon not found")
	ErrCouponInactive      = errors.New("coupon is inactive")
	ErrCouponExpired       = errors.New("coupon has expired")
	ErrCouponNotStarted    = errors.New("coupon is not active yet")
	ErrCouponUsageExceeded = errors.New("coupon usage limit reached")
	ErrCouponMinOrder      = errors.New("order total is below the coupon minimum")

	ErrShippingUnavailable = errors.New("shipping method unavailable")
	ErrPaymentMethod       = errors.New("unsupported payment method")
	ErrAddressIncomplete   = errors.New("shipping address is incomplete")

	ErrSessionExpired   = errors.New("checkout session expired")
	ErrSessionCompleted = errors.New("checkout session already completed")

	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotCancellable    = errors.New("order can no longer be cancelled")

	ErrAmountMismatch  = errors.New("paid amount does not match order total")
	ErrNotRefundable   = errors.New("payment is not refundable")
	ErrRejectionNote   = errors.New("a rejection note is required")
	ErrTicketClosed    = errors.New("ticket is closed")
	ErrAlreadyReviewed = errors.New("product already reviewed")
	ErrNotPurchased    = errors.New("product has not been delivered to this customer")
)
