package routes

import (
	adminController "github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/admin"
	productcontroller "github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/product"
	qrcontroller "github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/qr"
	userControllers "github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/user"
	"github.com/gin-gonic/gin"
)

// SetupCatalogRoutes registers the public storefront reads. No token needed.
func SetupCatalogRoutes(r *gin.Engine, d Deps) {
	api := r.Group("/api")
	{
		api.GET("/products", productcontroller.GetProducts(d.DB, d.Cache))
		api.GET("/products/:ref", productcontroller.GetProduct(d.DB))
		api.GET("/products/:ref/reviews", productcontroller.GetProductReviews(d.DB))

		api.GET("/categories", productcontroller.GetCategories(d.DB))
		api.GET("/categories/:ref", productcontroller.GetCategory(d.DB))
		api.GET("/brands", productcontroller.GetBrands(d.DB))

		api.GET("/banners", adminController.GetBanners(d.DB, d.Cache))
		api.GET("/shipping-methods", adminController.GetShippingMethods(d.DB))
		api.GET("/payment-qr", qrcontroller.GetPaymentQRs(d.DB))

		region := api.Group("/AddressApi")
		{
			region.GET("/provinces", userControllers.GetProvinces(d.DB, d.Cache))
			region.GET("/districts", userControllers.GetDistricts(d.DB, d.Cache))
			region.GET("/wards", userControllers.GetWards(d.DB, d.Cache))
		}
	}
}
