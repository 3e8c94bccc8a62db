package auth

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// POST /auth/guest
func CreateGuestUser(db *gorm.DB, tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		guestID, err := newGuestID()
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to create guest")
			return
		}

		guest := models.GuestUser{
			ID:        guestID,
			ExpiresAt: time.Now().Add(guestTokenTTL),
		}
		if err := db.Create(&guest).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to create guest")
			return
		}

		token, _, err := tokens.IssueGuest(guestID)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "Token generation failed")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"guest_id":   guestID,
			"token":      token,
			"expires_at": guest.ExpiresAt,
		})
	}
}

func newGuestID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "guest_" + hex.EncodeToString(b), nil
}
