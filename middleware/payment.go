package middleware

import (
	"errors"
	"net/http"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/logger"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/payment"
	"github.com/gin-gonic/gin"
)

const ctxPaymentResult = "payment_result"

// VerifyPaymentCallback authenticates a gateway return, IPN or webhook before the handler runs.
func VerifyPaymentCallback(gateways payment.Registry, method models.PaymentMethod, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		gw, err := gateways.Get(method)
		if err != nil {
			response.Error(c, http.StatusServiceUnavailable, err.Error())
			return
		}

		result, err := gw.VerifyCallback(c.Request)
		switch {
		case errors.Is(err, payment.ErrIgnoredEvent):
			c.AbortWithStatusJSON(http.StatusOK, gin.H{"received": true})
			return
		case errors.Is(err, payment.ErrInvalidSignature):
			log.Warn("payment callback rejected", "provider", method, "ip", c.ClientIP())
			response.Error(c, http.StatusForbidden, "invalid payment signature")
			return
		case err != nil:
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}

		c.Set(ctxPaymentResult, result)
		c.Next()
	}
}

// PaymentResult returns the callback verified by VerifyPaymentCallback.
func PaymentResult(c *gin.Context) *payment.CallbackResult {
	v, ok := c.Get(ctxPaymentResult)
	if !ok {
		return nil
	}
	res, _ := v.(*payment.CallbackResult)
	return res
}
