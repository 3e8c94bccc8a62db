package routes

import (
	adminController "github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/admin"
	cartControllers "github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/cart"
	orderControllers "github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/order"
	paymentControllers "github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/payment"
	productcontroller "github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/product"
	qrcontroller "github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/qr"
	userControllers "github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/user"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/middleware"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes registers all "/api/admin/*" endpoints. Admins and API-key callers pass
// every group; staff need the group's permission.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	od := d.orderDeps()
	uploads := d.Config.UploadDir

	adminGroup := r.Group("/api/admin")
	adminGroup.Use(middleware.AdminAccess(d.Tokens, d.Config.Auth.AdminAPIKey))

	perm := func(code string) gin.HandlerFunc {
		return middleware.RequirePermission(d.DB, code)
	}

	adminGroup.GET("/ws", orderControllers.OrderWebSocketHandler(d.Hub, d.Log))

	// ─────────── Catalog ───────────
	catalog := adminGroup.Group("", perm(models.PermProductsManage))
	{
		products := catalog.Group("/products")
		products.GET("", productcontroller.GetManagedProducts(d.DB))
		products.POST("", productcontroller.CreateProduct(d.DB, d.Cache, uploads))
		products.GET("/export", productcontroller.ExportProductsToExcel(d.DB))
		products.POST("/import", productcontroller.ImportProductsFromExcel(d.DB, d.Cache))
		products.GET("/:id", productcontroller.GetManagedProduct(d.DB))
		products.PUT("/:id", productcontroller.UpdateProduct(d.DB, d.Cache, uploads))
		products.DELETE("/:id", productcontroller.DeleteProduct(d.DB, d.Cache))
		products.POST("/:id/variants", productcontroller.AddVariant(d.DB, d.Cache))
		products.DELETE("/:id/variants/:variantId", productcontroller.DeleteVariant(d.DB, d.Cache))

		approvals := catalog.Group("/approvals/products")
		approvals.GET("", adminController.ListPendingProducts(d.DB))
		approvals.POST("/:id/approve", adminController.ApproveProduct(d.DB, d.Cache))
		approvals.POST("/:id/reject", adminController.RejectProduct(d.DB, d.Cache))

		categories := catalog.Group("/categories")
		categories.POST("", productcontroller.CreateCategory(d.DB, d.Cache, uploads))
		categories.PUT("/:id", productcontroller.UpdateCategory(d.DB, d.Cache, uploads))
		categories.DELETE("/:id", productcontroller.DeleteCategory(d.DB, d.Cache, uploads))

		brands := catalog.Group("/brands")
		brands.POST("", productcontroller.CreateBrand(d.DB))
		brands.PUT("/:id", productcontroller.UpdateBrand(d.DB, d.Cache))
		brands.DELETE("/:id", productcontroller.DeleteBrand(d.DB, d.Cache))

		reviews := catalog.Group("/reviews")
		reviews.GET("", productcontroller.GetReviewsForModeration(d.DB))
		reviews.PUT("/:id/approve", productcontroller.ApproveReview(d.DB))
		reviews.DELETE("/:id", productcontroller.DeleteReview(d.DB))
	}

	// ─────────── Orders & payments ───────────
	orderMgmt := adminGroup.Group("", perm(models.PermOrdersManage))
	{
		orders := orderMgmt.Group("/orders")
		orders.GET("", orderControllers.GetAllOrdersHandler(d.DB))
		orders.GET("/:id", orderControllers.GetOrderByIDHandler(d.DB))
		orders.PUT("/:id/status", orderControllers.UpdateOrderStatusHandler(od))
		orders.PUT("/:id/payment-status", orderControllers.UpdatePaymentStatusHandler(od))
		orders.POST("/:id/refund", paymentControllers.RefundHandler(d.DB, d.Hub))
		orders.DELETE("/:id", orderControllers.DeleteOrderHandler(d.DB))

		orderMgmt.GET("/payments", paymentControllers.GetPayments(d.DB))
		orderMgmt.GET("/users/:id/cart", cartControllers.GetAdminUserCart(d.DB))
	}

	// ─────────── Inventory ───────────
	inventory := adminGroup.Group("/inventory", perm(models.PermInventoryManage))
	{
		inventory.POST("/adjust", adminController.AdjustStock(d.DB, d.Cache))
		inventory.GET("/movements", adminController.GetMovements(d.DB))
		inventory.GET("/low-stock", adminController.GetLowStock(d.DB, d.Config.Commerce.LowStockThreshold))
	}

	// ─────────── Marketing ───────────
	marketing := adminGroup.Group("", perm(models.PermMarketingManage))
	{
		coupons := marketing.Group("/coupons")
		coupons.GET("", adminController.GetCoupons(d.DB))
		coupons.POST("", adminController.CreateCoupon(d.DB))
		coupons.PUT("/:id", adminController.UpdateCoupon(d.DB))
		coupons.DELETE("/:id", adminController.DeleteCoupon(d.DB))

		banners := marketing.Group("/banners")
		banners.GET("", adminController.GetAllBanners(d.DB))
		banners.POST("", adminController.UploadBanner(d.DB, d.Cache, uploads))
		banners.PUT("/:id", adminController.UpdateBanner(d.DB, d.Cache, uploads))
		banners.DELETE("/:id", adminController.DeleteBanner(d.DB, d.Cache, uploads))

		shipping := marketing.Group("/shipping-methods")
		shipping.GET("", adminController.GetAllShippingMethods(d.DB))
		shipping.POST("", adminController.CreateShippingMethod(d.DB))
		shipping.PUT("/:id", adminController.UpdateShippingMethod(d.DB))
		shipping.DELETE("/:id", adminController.DeleteShippingMethod(d.DB))

		qr := marketing.Group("/payment-qr")
		qr.GET("", qrcontroller.GetPaymentQRs(d.DB))
		qr.POST("", qrcontroller.HandleQRFileUpload(d.DB, uploads, d.Config.PublicBaseURL, d.Log))
		qr.DELETE("/:id", qrcontroller.DeleteQRFileHandler(d.DB, uploads, d.Log))
	}

	// ─────────── Users, sellers & permissions ───────────
	userMgmt := adminGroup.Group("", perm(models.PermUsersManage))
	{
		users := userMgmt.Group("/users")
		users.GET("", userControllers.GetAllUsers(d.DB))
		users.PUT("/:id/status", userControllers.SetUserActive(d.DB))

		sellers := userMgmt.Group("/sellers")
		sellers.GET("", adminController.ListSellers(d.DB))
		sellers.PUT("/:id", adminController.ReviewSeller(d.DB, d.Cache))
	}

	adminOnly := adminGroup.Group("", middleware.RequireRoles(models.RoleAdmin))
	{
		adminOnly.PUT("/users/:id/role", userControllers.SetUserRole(d.DB))
		adminOnly.GET("/permissions", adminController.GetPermissions(d.DB))
		adminOnly.GET("/users/:id/permissions", adminController.GetUserPermissions(d.DB))
		adminOnly.POST("/users/:id/permissions", adminController.GrantPermission(d.DB))
		adminOnly.DELETE("/users/:id/permissions", adminController.RevokePermission(d.DB))
	}

	// ─────────── Support desk ───────────
	tickets := adminGroup.Group("/tickets", perm(models.PermSupportManage))
	{
		tickets.GET("", adminController.ListTickets(d.DB))
		tickets.GET("/:id", adminController.GetTicket(d.DB))
		tickets.PUT("/:id/assign", adminController.AssignTicket(d.DB))
		tickets.PUT("/:id/status", adminController.SetTicketStatus(d.DB))
		tickets.POST("/:id/replies", userControllers.ReplyToTicket(d.DB))
	}

	// ─────────── Reports ───────────
	reports := adminGroup.Group("", perm(models.PermReportsView))
	{
		reports.GET("/dashboard/stats", adminController.GetDashboardStats(d.DB, d.Cache))
		reports.GET("/reports/sales", adminController.GetSalesReport(d.DB))
		reports.GET("/reports/sales/export", adminController.ExportSalesReport(d.DB))
	}

	// ─────────── Settlements ───────────
	settlements := adminGroup.Group("/settlements", perm(models.PermSettlementsManage))
	{
		settlements.GET("", adminController.ListSettlements(d.DB))
		settlements.POST("/generate", adminController.GenerateSettlements(d.DB, d.Config.Commerce.PlatformFeePercent, d.Log))
		settlements.GET("/:id", adminController.GetSettlement(d.DB))
		settlements.PUT("/:id/paid", adminController.MarkSettlementPaid(d.DB))
	}
}
