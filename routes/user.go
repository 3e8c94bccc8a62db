package routes

import (
	adminController "github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/admin"
	cartControllers "github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/cart"
	orderControllers "github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/order"
	productcontroller "github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/product"
	userControllers "github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/user"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/middleware"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/gin-gonic/gin"
)

// SetupUserRoutes registers the shopper endpoints. Cart and coupon quotes accept guest
// tokens; everything else needs a registered account.
func SetupUserRoutes(r *gin.Engine, d Deps) {
	api := r.Group("/api")
	api.Use(middleware.ValidateToken(d.Tokens))

	cart := api.Group("/cart")
	{
		cart.GET("", cartControllers.GetCart(d.DB))
		cart.POST("/items", cartControllers.UpdateCartItem(d.DB))
		cart.PUT("/items/:itemId", cartControllers.UpdateCartItemQuantity(d.DB))
		cart.DELETE("/items/:itemId", cartControllers.DeleteCartItem(d.DB))
		cart.DELETE("", cartControllers.ClearCart(d.DB))
		cart.POST("/merge", cartControllers.MergeGuestCart(d.DB))
	}
	api.POST("/coupons/validate", adminController.ValidateCoupon(d.DB))

	registered := api.Group("")
	registered.Use(middleware.RequireRegistered())

	user := registered.Group("/user")
	{
		user.GET("", userControllers.GetUser(d.DB))
		user.PUT("", userControllers.UpdateUser(d.DB))
		user.PUT("/password", userControllers.ChangePassword(d.DB))
	}

	addresses := registered.Group("/addresses")
	{
		addresses.GET("", userControllers.ListAddresses(d.DB))
		addresses.POST("", userControllers.CreateAddress(d.DB))
		addresses.PUT("/:id", userControllers.UpdateAddress(d.DB))
		addresses.PUT("/:id/default", userControllers.SetDefaultAddress(d.DB))
		addresses.DELETE("/:id", userControllers.DeleteAddress(d.DB))
	}

	wishlist := registered.Group("/wishlist")
	{
		wishlist.GET("", productcontroller.GetWishlist(d.DB))
		wishlist.POST("/:productId", productcontroller.AddToWishlist(d.DB))
		wishlist.DELETE("/:productId", productcontroller.RemoveFromWishlist(d.DB))
	}

	registered.POST("/products/:ref/reviews", productcontroller.CreateReview(d.DB))

	tickets := registered.Group("/support/tickets")
	{
		tickets.POST("", userControllers.CreateTicket(d.DB))
		tickets.GET("", userControllers.ListMyTickets(d.DB))
		tickets.GET("/:id", userControllers.GetMyTicket(d.DB))
		tickets.POST("/:id/replies", userControllers.ReplyToTicket(d.DB))
	}
}

// SetupSellerRoutes registers the seller center. Only approved sellers hold the seller role.
func SetupSellerRoutes(r *gin.Engine, d Deps) {
	seller := r.Group("/api/seller")
	seller.Use(middleware.ValidateToken(d.Tokens), middleware.RequireRoles(models.RoleSeller))
	{
		seller.GET("/dashboard", userControllers.GetSellerDashboard(d.DB, d.Config.Commerce.LowStockThreshold))
		seller.GET("/profile", userControllers.GetSellerProfile(d.DB))
		seller.GET("/orders", orderControllers.GetSellerOrderItemsHandler(d.DB))
		seller.GET("/settlements", userControllers.GetSellerSettlements(d.DB))
		seller.GET("/settlements/:id", userControllers.GetSellerSettlement(d.DB))

		products := seller.Group("/products")
		products.GET("", productcontroller.GetManagedProducts(d.DB))
		products.POST("", productcontroller.CreateProduct(d.DB, d.Cache, d.Config.UploadDir))
		products.GET("/:id", productcontroller.GetManagedProduct(d.DB))
		products.PUT("/:id", productcontroller.UpdateProduct(d.DB, d.Cache, d.Config.UploadDir))
		products.DELETE("/:id", productcontroller.DeleteProduct(d.DB, d.Cache))
		products.POST("/:id/variants", productcontroller.AddVariant(d.DB, d.Cache))
		products.DELETE("/:id/variants/:variantId", productcontroller.DeleteVariant(d.DB, d.Cache))
	}
}
