package cartControllers

import (
	"net/http"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/auth"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// cartOwner maps the token identity to a cart key; guest tokens carry the guest id as user id.
func cartOwner(c *gin.Context) services.CartOwner {
	if auth.IsGuest(c) {
		return services.CartOwner{GuestID: auth.UserID(c)}
	}
	return services.CartOwner{UserID: auth.UserID(c)}
}

type mergeInput struct {
	GuestID string `json:"guest_id" binding:"required"`
}

// POST /api/cart/merge
// Folds a guest cart into the signed-in user's cart for clients that log in before merging.
func MergeGuestCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.IsGuest(c) {
			response.Error(c, http.StatusForbidden, "Sign in to merge a guest cart")
			return
		}
		var input mergeInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.BadRequest(c, err)
			return
		}

		merged, err := services.MergeGuestCart(db, input.GuestID, auth.UserID(c))
		if err != nil {
			response.ServiceError(c, err)
			return
		}

		cart, ok := loadCart(c, db)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"merged": merged, "cart": newCartView(cart)})
	}
}
