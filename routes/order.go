package routes

import (
	"net/http"

	orderControllers "github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/order"
	paymentControllers "github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/payment"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/middleware"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/gin-gonic/gin"
)

// SetupOrderRoutes registers checkout and the customer's order history.
func SetupOrderRoutes(r *gin.Engine, d Deps) {
	od := d.orderDeps()
	api := r.Group("/api")
	api.Use(middleware.ValidateToken(d.Tokens), middleware.RequireRegistered())

	checkout := api.Group("/checkout/sessions")
	{
		checkout.POST("", orderControllers.CreateCheckoutSessionHandler(od))
		checkout.GET("/:id", orderControllers.GetCheckoutSessionHandler(od))
		checkout.PUT("/:id", orderControllers.UpdateCheckoutSessionHandler(od))
		checkout.POST("/:id/complete", orderControllers.CompleteCheckoutSessionHandler(od))
	}

	orders := api.Group("/orders")
	{
		orders.POST("", orderControllers.PlaceOrderHandler(od))
		orders.GET("", orderControllers.GetUserOrdersHandler(d.DB))
		orders.GET("/:orderNumber", orderControllers.GetUserOrderHandler(d.DB))
		orders.POST("/:orderNumber/cancel", orderControllers.CancelOrderHandler(od))
		orders.POST("/:orderNumber/pay", orderControllers.RetryPaymentHandler(od))
	}

	api.GET("/payments/:orderNumber/status", paymentControllers.GetPaymentStatus(d.DB))
}

// SetupPaymentRoutes registers the gateway callbacks. They authenticate by signature, not token.
func SetupPaymentRoutes(r *gin.Engine, d Deps) {
	verify := func(method models.PaymentMethod) gin.HandlerFunc {
		return middleware.VerifyPaymentCallback(d.Gateways, method, d.Log)
	}
	callback := func(okStatus int) gin.HandlerFunc {
		return paymentControllers.CallbackHandler(d.DB, d.Hub, d.Log, okStatus)
	}

	payments := r.Group("/api/payments")
	{
		payments.GET("/vnpay/ipn", paymentControllers.VNPayIPNHandler(d.DB, d.Gateways, d.Hub, d.Log))
		payments.GET("/vnpay/return", verify(models.PaymentMethodVNPay), callback(http.StatusOK))

		payments.POST("/momo/ipn", verify(models.PaymentMethodMoMo), callback(http.StatusNoContent))
		payments.GET("/momo/return", verify(models.PaymentMethodMoMo), callback(http.StatusOK))

		payments.POST("/stripe/webhook", verify(models.PaymentMethodStripe), callback(http.StatusOK))
	}
}
