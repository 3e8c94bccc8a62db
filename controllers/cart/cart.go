package cartControllers

import (
	"net/http"
	"strconv"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CartItemInput struct {
	ProductID uint  `json:"product_id" binding:"required"`
	VariantID *uint `json:"variant_id"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

type quantityInput struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// CartView is the cart payload returned by every cart endpoint.
type CartView struct {
	CartID    uint              `json:"cart_id"`
	Items     []models.CartItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Subtotal  models.Money      `json:"subtotal"`
}

func newCartView(cart *models.Cart) CartView {
	view := CartView{CartID: cart.CartID, Items: cart.Items, Subtotal: cart.Subtotal()}
	if view.Items == nil {
		view.Items = []models.CartItem{}
	}
	for _, item := range cart.Items {
		view.ItemCount += item.Quantity
	}
	return view
}

// loadCart resolves the caller's cart (user or guest), writing the error response on failure.
func loadCart(c *gin.Context, db *gorm.DB) (*models.Cart, bool) {
	cart, err := services.GetOrCreateCart(db, cartOwner(c))
	if err != nil {
		response.ServiceError(c, err)
		return nil, false
	}
	return cart, true
}

func respondWithCart(c *gin.Context, db *gorm.DB, status int) {
	cart, ok := loadCart(c, db)
	if !ok {
		return
	}
	c.JSON(status, newCartView(cart))
}

// GET /api/cart
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		respondWithCart(c, db, http.StatusOK)
	}
}

// POST /api/cart/items
// Adds the line or replaces its quantity.
func UpdateCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.BadRequest(c, err)
			return
		}

		cart, ok := loadCart(c, db)
		if !ok {
			return
		}
		if _, err := services.SetCartItem(db, cart, input.ProductID, input.VariantID, input.Quantity); err != nil {
			response.ServiceError(c, err)
			return
		}
		respondWithCart(c, db, http.StatusOK)
	}
}

// PUT /api/cart/items/:itemId
func UpdateCartItemQuantity(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid item id")
			return
		}
		var input quantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.BadRequest(c, err)
			return
		}

		cart, ok := loadCart(c, db)
		if !ok {
			return
		}
		var line *models.CartItem
		for i := range cart.Items {
			if cart.Items[i].ID == uint(itemID) {
				line = &cart.Items[i]
				break
			}
		}
		if line == nil {
			response.ServiceError(c, services.ErrItemNotFound)
			return
		}
		if _, err := services.SetCartItem(db, cart, line.ProductID, line.VariantID, input.Quantity); err != nil {
			response.ServiceError(c, err)
			return
		}
		respondWithCart(c, db, http.StatusOK)
	}
}

// DELETE /api/cart/items/:itemId
func DeleteCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid item id")
			return
		}
		cart, ok := loadCart(c, db)
		if !ok {
			return
		}
		if err := services.RemoveCartItem(db, cart, uint(itemID)); err != nil {
			response.ServiceError(c, err)
			return
		}
		respondWithCart(c, db, http.StatusOK)
	}
}

// DELETE /api/cart
func ClearCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, ok := loadCart(c, db)
		if !ok {
			return
		}
		if err := services.ClearCart(db, cart.CartID); err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

// GET /api/admin/users/:id/cart
func GetAdminUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cart models.Cart
		err := db.Preload("Items").Where("user_id = ?", c.Param("id")).First(&cart).Error
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, newCartView(&cart))
	}
}
