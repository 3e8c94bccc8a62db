package routes

import (
	"github.com/InfinityZero3000/John-Henry-Website-sub003/auth"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/middleware"
	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, d Deps) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", auth.Register(d.DB, d.Tokens, d.Log))
		authGroup.POST("/login", auth.Login(d.DB, d.Tokens, d.Log))
		authGroup.POST("/guest", auth.CreateGuestUser(d.DB, d.Tokens))
		authGroup.POST("/google", auth.GoogleLogin(d.DB, d.Tokens, d.Verifier, d.Log))

		authGroup.POST("/seller/apply",
			middleware.ValidateToken(d.Tokens),
			middleware.RequireRegistered(),
			auth.ApplySeller(d.DB),
		)
	}
}
