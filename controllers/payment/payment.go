package paymentControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/auth"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/logger"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/middleware"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/payment"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/realtime"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/services"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PaymentStatusResponse is what the storefront polls after a gateway redirect.
type PaymentStatusResponse struct {
	OrderNumber   string               `json:"order_number"`
	OrderStatus   models.OrderStatus   `json:"order_status"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	Total         models.Money         `json:"total"`
	PaymentURL    string               `json:"payment_url,omitempty"`
}

func publishOutcome(events realtime.Publisher, out *services.CallbackOutcome) {
	if !out.Applied {
		return
	}
	events.Publish(realtime.EventPaymentUpdated, gin.H{
		"order_id":       out.Order.ID,
		"order_number":   out.Order.OrderNumber,
		"status":         out.Order.Status,
		"payment_status": out.Payment.Status,
		"provider":       out.Payment.Provider,
	})
}

// CallbackHandler applies a callback already verified by middleware.VerifyPaymentCallback.
// Used for the MoMo IPN, the Stripe webhook and the browser return URLs.
func CallbackHandler(db *gorm.DB, events realtime.Publisher, log logger.Logger, okStatus int) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := middleware.PaymentResult(c)
		if result == nil {
			response.Error(c, http.StatusBadRequest, "missing payment result")
			return
		}

		out, err := services.ApplyPaymentResult(c.Request.Context(), db, result)
		if err != nil {
			log.Error("payment callback failed", "provider", result.Provider, "order_number", result.OrderNumber, "error", err)
			response.ServiceError(c, err)
			return
		}
		log.Info("payment callback", "provider", result.Provider, "order_number", result.OrderNumber,
			"success", result.Success, "applied", out.Applied)
		publishOutcome(events, out)

		if okStatus == http.StatusNoContent {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(okStatus, gin.H{
			"received":       true,
			"order_number":   out.Order.OrderNumber,
			"payment_status": out.Payment.Status,
			"success":        result.Success,
		})
	}
}

// VNPay IPN response codes
const (
	vnpConfirmed        = "00"
	vnpOrderNotFound    = "01"
	vnpAlreadyConfirmed = "02"
	vnpInvalidAmount    = "04"
	vnpInvalidSignature = "97"
	vnpUnknownError     = "99"
)

// GET /api/payments/vnpay/ipn
// VNPay expects HTTP 200 with an RspCode for every outcome, so verification happens here.
func VNPayIPNHandler(db *gorm.DB, gateways payment.Registry, events realtime.Publisher, log logger.Logger) gin.HandlerFunc {
	reply := func(c *gin.Context, code, msg string) {
		c.JSON(http.StatusOK, gin.H{"RspCode": code, "Message": msg})
	}
	return func(c *gin.Context) {
		gw, err := gateways.Get(models.PaymentMethodVNPay)
		if err != nil {
			reply(c, vnpUnknownError, "Gateway not configured")
			return
		}
		result, err := gw.VerifyCallback(c.Request)
		if err != nil {
			if errors.Is(err, payment.ErrInvalidSignature) {
				log.Warn("vnpay ipn rejected", "ip", c.ClientIP())
				reply(c, vnpInvalidSignature, "Invalid signature")
				return
			}
			reply(c, vnpUnknownError, "Invalid request")
			return
		}

		out, err := services.ApplyPaymentResult(c.Request.Context(), db, result)
		switch {
		case errors.Is(err, services.ErrNotFound):
			reply(c, vnpOrderNotFound, "Order not found")
			return
		case errors.Is(err, services.ErrAmountMismatch):
			reply(c, vnpInvalidAmount, "Invalid amount")
			return
		case err != nil:
			log.Error("vnpay ipn failed", "order_number", result.OrderNumber, "error", err)
			reply(c, vnpUnknownError, "Unknown error")
			return
		}

		if !out.Applied {
			reply(c, vnpAlreadyConfirmed, "Order already confirmed")
			return
		}
		publishOutcome(events, out)
		reply(c, vnpConfirmed, "Confirm Success")
	}
}

// GET /api/payments/:orderNumber/status
// Owners and back-office users may poll an order's payment state.
func GetPaymentStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var order models.Order
		if err := db.Where("order_number = ?", c.Param("orderNumber")).First(&order).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		role := models.Role(auth.Role(c))
		if order.UserID != auth.UserID(c) && role != models.RoleAdmin && role != models.RoleStaff {
			response.Error(c, http.StatusNotFound, "Order not found")
			return
		}

		resp := PaymentStatusResponse{
			OrderNumber:   order.OrderNumber,
			OrderStatus:   order.Status,
			PaymentStatus: order.PaymentStatus,
			PaymentMethod: order.PaymentMethod,
			Total:         order.Total,
		}
		var pay models.Payment
		if err := db.Where("order_id = ?", order.ID).First(&pay).Error; err == nil && pay.Status == models.PaymentStatusPending {
			resp.PaymentURL = pay.RedirectURL
		}
		c.JSON(http.StatusOK, resp)
	}
}

// GET /api/admin/payments?status=&provider=
func GetPayments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := utils.PageFromQuery(c)
		query := db.Model(&models.Payment{})
		if v := c.Query("status"); v != "" {
			status, err := services.ParsePaymentStatus(v)
			if err != nil {
				response.ServiceError(c, err)
				return
			}
			query = query.Where("status = ?", status)
		}
		if v := c.Query("provider"); v != "" {
			query = query.Where("provider = ?", v)
		}

		var total int64
		if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		var payments []models.Payment
		if err := query.Session(&gorm.Session{}).Preload("Order").Scopes(page.Scope).
			Order("created_at DESC").Find(&payments).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, utils.NewPaged(payments, total, page))
	}
}

type refundRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// POST /api/admin/orders/:id/refund
func RefundHandler(db *gorm.DB, events realtime.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid order id")
			return
		}
		var req refundRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err)
			return
		}

		pay, err := services.RefundPayment(c.Request.Context(), db, uint(id), auth.UserID(c), req.Reason)
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		events.Publish(realtime.EventPaymentUpdated, gin.H{
			"order_id":       pay.OrderID,
			"payment_status": pay.Status,
			"provider":       pay.Provider,
		})
		c.JSON(http.StatusOK, gin.H{"message": "Payment refunded", "payment": pay})
	}
}
