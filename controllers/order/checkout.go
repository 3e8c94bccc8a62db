package orderControllers

import (
	"net/http"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/auth"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/services"
	"github.com/gin-gonic/gin"
)

// POST /api/checkout/sessions
func CreateCheckoutSessionHandler(d OrderDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.CheckoutInput
		if err := c.ShouldBindJSON(&in); err != nil {
			response.BadRequest(c, err)
			return
		}
		session, err := services.CreateCheckoutSession(c.Request.Context(), d.DB, auth.UserID(c), in, d.SessionTTL, time.Now())
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, session)
	}
}

// GET /api/checkout/sessions/:id
func GetCheckoutSessionHandler(d OrderDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := services.GetCheckoutSession(c.Request.Context(), d.DB, c.Param("id"), auth.UserID(c))
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, session)
	}
}

// PUT /api/checkout/sessions/:id
func UpdateCheckoutSessionHandler(d OrderDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.CheckoutInput
		if err := c.ShouldBindJSON(&in); err != nil {
			response.BadRequest(c, err)
			return
		}
		session, err := services.UpdateCheckoutSession(c.Request.Context(), d.DB, c.Param("id"), auth.UserID(c), in, time.Now())
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, session)
	}
}

// POST /api/checkout/sessions/:id/complete
// Places the order; online methods also get a gateway redirect.
func CompleteCheckoutSessionHandler(d OrderDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := services.CompleteCheckoutSession(c.Request.Context(), d.DB, c.Param("id"), auth.UserID(c), d.Currency, time.Now())
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		d.placed(c, order)
	}
}
