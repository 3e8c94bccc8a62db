package orderControllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/auth"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/logger"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/payment"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/realtime"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/services"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// -------- Request Structs --------

type PlaceOrderRequest struct {
	AddressID       *uint                   `json:"address_id"`
	ShippingAddress *models.AddressSnapshot `json:"shipping_address"`
	ShippingMethod  string                  `json:"shipping_method"`
	PaymentMethod   models.PaymentMethod    `json:"payment_method" binding:"required"`
	CouponCode      string                  `json:"coupon_code"`
	Note            string                  `json:"note" binding:"max=500"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// -------- Helpers --------

// OrderDeps bundles what the order and checkout handlers need beyond the database.
type OrderDeps struct {
	DB       *gorm.DB
	Gateways payment.Registry
	Events   realtime.Publisher
	Log      logger.Logger
	Currency string
	// SessionTTL is how long a checkout session stays open.
	SessionTTL time.Duration
}

// orderEvent is the payload broadcast for order changes.
func orderEvent(order *models.Order) gin.H {
	return gin.H{
		"order_id":       order.ID,
		"order_number":   order.OrderNumber,
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
		"total":          order.Total,
	}
}

// beginPayment asks the gateway for a redirect when the order is paid online.
// A gateway failure leaves the order pending so the shopper can retry.
func (d OrderDeps) beginPayment(ctx context.Context, order *models.Order, clientIP string) (string, error) {
	if !order.PaymentMethod.Online() {
		return "", nil
	}
	gw, err := d.Gateways.Get(order.PaymentMethod)
	if err != nil {
		return "", err
	}
	pay, err := services.StartPayment(ctx, d.DB, gw, order, clientIP)
	if err != nil {
		return "", err
	}
	return pay.RedirectURL, nil
}

// placed announces a new order and writes the 201 response.
func (d OrderDeps) placed(c *gin.Context, order *models.Order) {
	d.Events.Publish(realtime.EventOrderCreated, orderEvent(order))
	d.Log.Info("order placed", "order_number", order.OrderNumber, "user_id", order.UserID, "total", order.Total.String())

	body := gin.H{"order": order}
	redirect, err := d.beginPayment(c.Request.Context(), order, c.ClientIP())
	if err != nil {
		d.Log.Warn("payment start failed", "order_number", order.OrderNumber, "error", err)
		body["payment_error"] = "Payment could not be started, retry from the order page"
	} else if redirect != "" {
		body["payment_url"] = redirect
	}
	c.JSON(http.StatusCreated, body)
}

// resolveAddress picks an address-book entry of the user or the inline snapshot.
func resolveAddress(db *gorm.DB, userID string, addressID *uint, inline *models.AddressSnapshot) (models.AddressSnapshot, error) {
	if addressID != nil {
		var addr models.Address
		if err := db.Where("id = ? AND user_id = ?", *addressID, userID).First(&addr).Error; err != nil {
			return models.AddressSnapshot{}, err
		}
		return addr.Snapshot(), nil
	}
	if inline != nil {
		return *inline, nil
	}
	return models.AddressSnapshot{}, services.ErrAddressIncomplete
}

// dateRange reads ?from=&to= (YYYY-MM-DD, inclusive) into a half-open UTC range.
func dateRange(c *gin.Context) (from, to time.Time, ok bool) {
	if v := c.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return from, to, false
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return from, to, false
		}
		to = t.AddDate(0, 0, 1)
	}
	return from, to, true
}

func paginateOrders(c *gin.Context, query *gorm.DB, preload ...string) {
	page := utils.PageFromQuery(c)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		response.ServiceError(c, err)
		return
	}
	list := query.Session(&gorm.Session{})
	for _, p := range preload {
		list = list.Preload(p)
	}
	var orders []models.Order
	if err := list.Scopes(page.Scope).Order("orders.created_at DESC, orders.id DESC").Find(&orders).Error; err != nil {
		response.ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewPaged(orders, total, page))
}

// -------- Customer Handlers --------

// POST /api/orders
// Places an order straight from the cart; checkout sessions are the multi-step alternative.
func PlaceOrderHandler(d OrderDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err)
			return
		}
		userID := auth.UserID(c)

		address, err := resolveAddress(d.DB, userID, req.AddressID, req.ShippingAddress)
		if err != nil {
			response.ServiceError(c, err)
			return
		}

		cart, err := services.GetOrCreateCart(d.DB, services.CartOwner{UserID: userID})
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		lines := make([]services.OrderLine, 0, len(cart.Items))
		for _, item := range cart.Items {
			lines = append(lines, services.OrderLine{ProductID: item.ProductID, VariantID: item.VariantID, Quantity: item.Quantity})
		}

		order, err := services.PlaceOrder(c.Request.Context(), d.DB, services.PlaceOrderInput{
			UserID:             userID,
			Lines:              lines,
			ShippingAddress:    address,
			ShippingMethodCode: req.ShippingMethod,
			PaymentMethod:      req.PaymentMethod,
			CouponCode:         req.CouponCode,
			Note:               req.Note,
			Currency:           d.Currency,
			ClearCart:          true,
		})
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		d.placed(c, order)
	}
}

// GET /api/orders?status=
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Order{}).Where("user_id = ?", auth.UserID(c))
		if v := c.Query("status"); v != "" {
			status, err := services.ParseOrderStatus(v)
			if err != nil {
				response.ServiceError(c, err)
				return
			}
			query = query.Where("status = ?", status)
		}
		paginateOrders(c, query, "Items")
	}
}

// GET /api/orders/:orderNumber
func GetUserOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var order models.Order
		err := db.Preload("Items").Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).Where("order_number = ? AND user_id = ?", c.Param("orderNumber"), auth.UserID(c)).First(&order).Error
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// POST /api/orders/:orderNumber/cancel
func CancelOrderHandler(d OrderDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cancelRequest
		_ = c.ShouldBindJSON(&req)

		order, err := services.CancelOrder(c.Request.Context(), d.DB, c.Param("orderNumber"), auth.UserID(c), strings.TrimSpace(req.Reason))
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		d.Events.Publish(realtime.EventOrderStatus, orderEvent(order))
		c.JSON(http.StatusOK, gin.H{"message": "Order cancelled", "order": order})
	}
}

// POST /api/orders/:orderNumber/pay
// Restarts the gateway redirect for an unpaid online order.
func RetryPaymentHandler(d OrderDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var order models.Order
		if err := d.DB.Where("order_number = ? AND user_id = ?", c.Param("orderNumber"), auth.UserID(c)).
			First(&order).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		if !order.PaymentMethod.Online() || order.Status == models.OrderStatusCancelled ||
			order.PaymentStatus == models.PaymentStatusPaid || order.PaymentStatus == models.PaymentStatusRefunded {
			response.Error(c, http.StatusConflict, "Order does not accept online payment")
			return
		}
		redirect, err := d.beginPayment(c.Request.Context(), &order, c.ClientIP())
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"payment_url": redirect})
	}
}

// -------- Admin Handlers --------

// GET /api/admin/orders?status=&payment_status=&from=&to=&search=
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Order{})
		if v := c.Query("status"); v != "" {
			status, err := services.ParseOrderStatus(v)
			if err != nil {
				response.ServiceError(c, err)
				return
			}
			query = query.Where("orders.status = ?", status)
		}
		if v := c.Query("payment_status"); v != "" {
			status, err := services.ParsePaymentStatus(v)
			if err != nil {
				response.ServiceError(c, err)
				return
			}
			query = query.Where("orders.payment_status = ?", status)
		}
		from, to, ok := dateRange(c)
		if !ok {
			response.Error(c, http.StatusBadRequest, "Dates must be YYYY-MM-DD")
			return
		}
		if !from.IsZero() {
			query = query.Where("orders.created_at >= ?", from)
		}
		if !to.IsZero() {
			query = query.Where("orders.created_at < ?", to)
		}
		if search := strings.ToLower(strings.TrimSpace(c.Query("search"))); search != "" {
			like := "%" + search + "%"
			query = query.Where("LOWER(orders.order_number) LIKE ? OR orders.user_id IN (?)",
				like, db.Model(&models.User{}).Select("id").Where("LOWER(email) LIKE ?", like))
		}
		paginateOrders(c, query, "Items", "User")
	}
}

// GET /api/admin/orders/:id
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid order id")
			return
		}
		var order models.Order
		if err := db.Preload("Items").Preload("User").Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).First(&order, id).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		var pay models.Payment
		body := gin.H{"order": order}
		if err := db.Preload("Transactions").Where("order_id = ?", order.ID).First(&pay).Error; err == nil {
			body["payment"] = pay
		}
		c.JSON(http.StatusOK, body)
	}
}

// PUT /api/admin/orders/:id/status
func UpdateOrderStatusHandler(d OrderDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid order id")
			return
		}
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err)
			return
		}
		status, err := services.ParseOrderStatus(req.Status)
		if err != nil {
			response.ServiceError(c, err)
			return
		}

		order, err := services.ChangeOrderStatus(c.Request.Context(), d.DB, uint(id), status, req.Note, auth.UserID(c))
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		d.Events.Publish(realtime.EventOrderStatus, orderEvent(order))
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "order": order})
	}
}

// PUT /api/admin/orders/:id/payment-status
func UpdatePaymentStatusHandler(d OrderDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid order id")
			return
		}
		var req UpdatePaymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err)
			return
		}
		status, err := services.ParsePaymentStatus(req.PaymentStatus)
		if err != nil {
			response.ServiceError(c, err)
			return
		}

		order, err := services.SetOrderPaymentStatus(c.Request.Context(), d.DB, uint(id), status)
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		d.Events.Publish(realtime.EventPaymentUpdated, orderEvent(order))
		c.JSON(http.StatusOK, gin.H{"message": "Payment status updated", "order": order})
	}
}

// DELETE /api/admin/orders/:id
// Only cancelled or returned orders can be removed; their stock is already back on the shelf.
func DeleteOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid order id")
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			var order models.Order
			if err := tx.First(&order, id).Error; err != nil {
				return err
			}
			if !order.Status.Terminal() {
				return services.ErrInvalidTransition
			}
			var payments []models.Payment
			if err := tx.Where("order_id = ?", order.ID).Find(&payments).Error; err != nil {
				return err
			}
			for _, p := range payments {
				if err := tx.Where("payment_id = ?", p.ID).Delete(&models.PaymentTransaction{}).Error; err != nil {
					return err
				}
			}
			for _, model := range []interface{}{&models.Payment{}, &models.OrderItem{}, &models.OrderStatusHistory{}, &models.CouponUsage{}} {
				if err := tx.Where("order_id = ?", order.ID).Delete(model).Error; err != nil {
					return err
				}
			}
			return tx.Delete(&order).Error
		})
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
	}
}

// -------- Seller Handlers --------

// GET /api/seller/orders?status=
// Lists the seller's order lines with the parent order's status.
func GetSellerOrderItemsHandler(db *gorm.DB) gin.HandlerFunc {
	type sellerLine struct {
		models.OrderItem
		OrderNumber   string               `json:"order_number"`
		OrderStatus   models.OrderStatus   `json:"order_status"`
		PaymentStatus models.PaymentStatus `json:"payment_status"`
		OrderedAt     time.Time            `json:"ordered_at"`
	}
	return func(c *gin.Context) {
		page := utils.PageFromQuery(c)
		query := db.Table("order_items").
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Where("order_items.seller_id = ?", auth.UserID(c))
		if v := c.Query("status"); v != "" {
			status, err := services.ParseOrderStatus(v)
			if err != nil {
				response.ServiceError(c, err)
				return
			}
			query = query.Where("orders.status = ?", status)
		}

		var total int64
		if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		var lines []sellerLine
		if err := query.Session(&gorm.Session{}).
			Select("order_items.*, orders.order_number, orders.status AS order_status, orders.payment_status, orders.created_at AS ordered_at").
			Order("orders.created_at DESC, order_items.id DESC").
			Scopes(page.Scope).Scan(&lines).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, utils.NewPaged(lines, total, page))
	}
}
