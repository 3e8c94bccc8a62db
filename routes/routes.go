package routes

import (
	"net/http"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/auth"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/cache"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/config"
	orderControllers "github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/order"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/logger"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/middleware"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/payment"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/realtime"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps is everything the route groups hand to their controllers.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Cache    cache.Cache
	Tokens   *auth.Tokens
	Verifier auth.IdentityVerifier
	Gateways payment.Registry
	Hub      *realtime.Hub
	Log      logger.Logger
}

func (d Deps) orderDeps() orderControllers.OrderDeps {
	return orderControllers.OrderDeps{
		DB:         d.DB,
		Gateways:   d.Gateways,
		Events:     d.Hub,
		Log:        d.Log,
		Currency:   d.Config.Commerce.Currency,
		SessionTTL: d.Config.Commerce.CheckoutSessionTTL,
	}
}

// NewRouter builds the engine with the global middleware, static uploads and every route group.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = 32 << 20

	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(d.Log),
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:     []string{"*"},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY", "X-Request-ID"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	r.Static("/uploads", d.Config.UploadDir)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	SetupRoutes(r, d)
	return r
}

// SetupRoutes is the single entry-point that wires up every route group.
func SetupRoutes(r *gin.Engine, d Deps) {
	SetupAuthRoutes(r, d)
	SetupCatalogRoutes(r, d)
	SetupUserRoutes(r, d)
	SetupSellerRoutes(r, d)
	SetupOrderRoutes(r, d)
	SetupPaymentRoutes(r, d)
	SetupAdminRoutes(r, d)
}
