package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/auth"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// bearerToken reads the Authorization header (with or without "Bearer ") or the
// token query parameter used by websocket clients.
func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header != "" {
		if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
			return strings.TrimSpace(header[7:])
		}
		return header
	}
	return c.Query("token")
}

// authenticate parses the request token into the context. It writes the 401 itself.
func authenticate(c *gin.Context, tokens *auth.Tokens) bool {
	tokenString := bearerToken(c)
	if tokenString == "" {
		response.Error(c, http.StatusUnauthorized, "Authorization header is missing")
		return false
	}

	claims, err := tokens.Parse(tokenString)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Invalid or expired token")
		return false
	}

	auth.SetIdentity(c, claims)
	return true
}

// ValidateToken rejects requests without a valid API token and stores its claims.
func ValidateToken(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authenticate(c, tokens) {
			c.Next()
		}
	}
}

// AdminAccess guards the back office: an X-API-KEY header is checked against apiKey,
// otherwise the bearer token must belong to an admin or staff member.
func AdminAccess(tokens *auth.Tokens, apiKey string) gin.HandlerFunc {
	byKey := ValidateAPIKey(apiKey)
	return func(c *gin.Context) {
		if c.GetHeader(apiKeyHeader) != "" {
			byKey(c)
			return
		}
		if !authenticate(c, tokens) {
			return
		}
		switch models.Role(auth.Role(c)) {
		case models.RoleAdmin, models.RoleStaff:
			c.Next()
		default:
			response.Error(c, http.StatusForbidden, "Insufficient role")
		}
	}
}

// RequireRoles allows only the listed roles through. It must run after ValidateToken.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := auth.Role(c)
		for _, r := range roles {
			if string(r) == role {
				c.Next()
				return
			}
		}
		response.Error(c, http.StatusForbidden, "Insufficient role")
	}
}

// RequireRegistered rejects guest tokens.
func RequireRegistered() gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.IsGuest(c) {
			response.Error(c, http.StatusForbidden, "Sign in required")
			return
		}
		c.Next()
	}
}

// RequirePermission lets admins through and checks staff against their granted permissions.
func RequirePermission(db *gorm.DB, code string) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch models.Role(auth.Role(c)) {
		case models.RoleAdmin:
			c.Next()
			return
		case models.RoleStaff:
		default:
			response.Error(c, http.StatusForbidden, "Insufficient role")
			return
		}

		var grant models.UserPermission
		err := db.Joins("JOIN permissions ON permissions.id = user_permissions.permission_id").
			Where("user_permissions.user_id = ? AND permissions.code = ?", auth.UserID(c), code).
			First(&grant).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusForbidden, "Missing permission "+code)
			return
		}
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		c.Next()
	}
}
