package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/auth"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/gin-gonic/gin"
)

const apiKeyHeader = "X-API-KEY"

// ValidateAPIKey authenticates machine callers by X-API-KEY and treats them as admin.
// An empty key disables the route.
func ValidateAPIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(apiKeyHeader)
		if key == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			response.Error(c, http.StatusUnauthorized, "Invalid or missing API key")
			return
		}
		auth.SetIdentity(c, &auth.Claims{UserID: auth.APIKeyUserID, Role: string(models.RoleAdmin)})
		c.Next()
	}
}
