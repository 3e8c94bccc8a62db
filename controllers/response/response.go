// Package response writes the JSON error bodies shared by every controller.
package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/payment"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Error aborts with {"error": msg}. Admin endpoints also carry {"success": false, "message": msg}.
func Error(c *gin.Context, status int, msg string) {
	body := gin.H{"error": msg}
	if strings.HasPrefix(c.Request.URL.Path, "/api/admin") {
		body["success"] = false
		body["message"] = msg
	}
	c.AbortWithStatusJSON(status, body)
}

var statusByErr = []struct {
	err    error
	status int
}{
	{services.ErrNotFound, http.StatusNotFound},
	{services.ErrItemNotFound, http.StatusNotFound},
	{services.ErrCouponNotFound, http.StatusNotFound},
	{gorm.ErrRecordNotFound, http.StatusNotFound},
	{services.ErrForbidden, http.StatusForbidden},
	{services.ErrNotPurchased, http.StatusForbidden},
	{services.ErrInvalidInput, http.StatusBadRequest},
	{services.ErrCartEmpty, http.StatusBadRequest},
	{services.ErrRejectionNote, http.StatusBadRequest},
	{services.ErrAmountMismatch, http.StatusBadRequest},
	{services.ErrInsufficientStock, http.StatusConflict},
	{services.ErrInvalidTransition, http.StatusConflict},
	{services.ErrNotCancellable, http.StatusConflict},
	{services.ErrSessionCompleted, http.StatusConflict},
	{services.ErrNotRefundable, http.StatusConflict},
	{services.ErrTicketClosed, http.StatusConflict},
	{services.ErrAlreadyReviewed, http.StatusConflict},
	{services.ErrSessionExpired, http.StatusGone},
	{services.ErrNotPurchasable, http.StatusUnprocessableEntity},
	{services.ErrCouponInactive, http.StatusUnprocessableEntity},
	{services.ErrCouponExpired, http.StatusUnprocessableEntity},
	{services.ErrCouponNotStarted, http.StatusUnprocessableEntity},
	{services.ErrCouponUsageExceeded, http.StatusUnprocessableEntity},
	{services.ErrCouponMinOrder, http.StatusUnprocessableEntity},
	{services.ErrShippingUnavailable, http.StatusUnprocessableEntity},
	{services.ErrPaymentMethod, http.StatusUnprocessableEntity},
	{services.ErrAddressIncomplete, http.StatusUnprocessableEntity},
	{payment.ErrGatewayDisabled, http.StatusServiceUnavailable},
	{payment.ErrInvalidSignature, http.StatusForbidden},
}

// StatusOf maps a service error to its HTTP status; unknown errors are 500.
func StatusOf(err error) int {
	for _, m := range statusByErr {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// ServiceError aborts with the status mapped from err. Internal errors are not echoed to clients.
func ServiceError(c *gin.Context, err error) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		Error(c, status, "Internal server error")
		return
	}
	Error(c, status, err.Error())
}

// BadRequest aborts with 400 and the binding error text.
func BadRequest(c *gin.Context, err error) {
	Error(c, http.StatusBadRequest, err.Error())
}
