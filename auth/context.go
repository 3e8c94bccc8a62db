package auth

import "github.com/gin-gonic/gin"

const (
	ctxUserID = "user_id"
	ctxEmail  = "email"
	ctxRole   = "role"
)

// APIKeyUserID identifies requests authenticated by the back-office API key.
const APIKeyUserID = "api-key"

// SetIdentity stores verified claims on the request context.
func SetIdentity(c *gin.Context, claims *Claims) {
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxEmail, claims.Email)
	c.Set(ctxRole, claims.Role)
}

// UserID returns the authenticated user (or guest) id, empty when unauthenticated.
func UserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

func Role(c *gin.Context) string {
	return c.GetString(ctxRole)
}

func Email(c *gin.Context) string {
	return c.GetString(ctxEmail)
}

// IsGuest reports whether the request carries a guest token.
func IsGuest(c *gin.Context) bool {
	return Role(c) == RoleGuest
}
