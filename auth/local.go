package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/logger"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/services"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	GuestID  string `json:"guest_id"`
}

// POST /auth/register
func Register(db *gorm.DB, tokens *Tokens, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err)
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email))

		var count int64
		if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		if count > 0 {
			response.Error(c, http.StatusConflict, "Email is already registered")
			return
		}

		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			response.ServiceError(c, err)
			return
		}

		user := models.User{
			ID:           uuid.NewString(),
			Email:        email,
			PasswordHash: hash,
			Name:         strings.TrimSpace(req.Name),
			Phone:        req.Phone,
			Provider:     "local",
			Role:         models.RoleCustomer,
			IsActive:     true,
		}
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			_, err := services.GetOrCreateCart(tx, services.CartOwner{UserID: user.ID})
			return err
		})
		if err != nil {
			response.ServiceError(c, err)
			return
		}

		mergeStatus := mergeGuest(db, log, req.GuestID, user.ID)
		respondWithToken(c, http.StatusCreated, tokens, &user, mergeStatus)
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	GuestID  string `json:"guest_id"`
}

// POST /auth/login
func Login(db *gorm.DB, tokens *Tokens, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err)
			return
		}

		var user models.User
		err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !utils.CheckPassword(user.PasswordHash, req.Password)) {
			response.Error(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		if !user.IsActive {
			response.Error(c, http.StatusForbidden, "Account is disabled")
			return
		}

		now := time.Now()
		if err := db.Model(&user).Update("last_login_at", now).Error; err != nil {
			log.Warn("failed to record last login", "user_id", user.ID, "error", err)
		}
		user.LastLoginAt = &now

		mergeStatus := mergeGuest(db, log, req.GuestID, user.ID)
		respondWithToken(c, http.StatusOK, tokens, &user, mergeStatus)
	}
}

// mergeGuest folds a guest cart into the user's cart and reports the outcome for the client.
func mergeGuest(db *gorm.DB, log logger.Logger, guestID, userID string) string {
	if guestID == "" {
		return "no-guest-cart"
	}
	merged, err := services.MergeGuestCart(db, guestID, userID)
	switch {
	case err != nil:
		log.Error("guest cart merge failed", "guest_id", guestID, "user_id", userID, "error", err)
		return "merge-failed"
	case merged:
		return "merged-success"
	default:
		return "guest-cart-empty"
	}
}

func respondWithToken(c *gin.Context, status int, tokens *Tokens, user *models.User, mergeStatus string) {
	token, expiresAt, err := tokens.Issue(user.ID, user.Email, string(user.Role))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Token generation failed")
		return
	}
	c.JSON(status, gin.H{
		"token":        token,
		"expires_at":   expiresAt,
		"user":         user,
		"merge_status": mergeStatus,
	})
}
