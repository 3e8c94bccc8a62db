package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/config"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/logger"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/services"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

// Identity is the verified profile behind a third-party ID token.
type Identity struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

// IdentityVerifier checks a Google/Firebase ID token.
type IdentityVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*Identity, error)
}

type firebaseClient interface {
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseVerifier verifies ID tokens with the Firebase Admin SDK.
type FirebaseVerifier struct {
	projectID string
	client    firebaseClient
}

// NewFirebaseVerifier returns a nil verifier when Firebase is not configured.
func NewFirebaseVerifier(ctx context.Context, settings config.AuthSettings) (IdentityVerifier, error) {
	if settings.FirebaseProjectID == "" || settings.FirebaseCredentialsJSON == "" {
		return nil, nil
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: settings.FirebaseProjectID},
		option.WithCredentialsJSON([]byte(settings.FirebaseCredentialsJSON)))
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Firebase Auth client: %w", err)
	}

	return &FirebaseVerifier{projectID: settings.FirebaseProjectID, client: client}, nil
}

func (v *FirebaseVerifier) VerifyIDToken(ctx context.Context, idToken string) (*Identity, error) {
	token, err := v.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return nil, err
	}
	if token.Audience != v.projectID {
		return nil, errors.New("invalid token audience")
	}
	email, _ := token.Claims["email"].(string)
	if email == "" {
		return nil, errors.New("email not found in token")
	}
	name, _ := token.Claims["name"].(string)
	picture, _ := token.Claims["picture"].(string)
	return &Identity{UID: token.UID, Email: strings.ToLower(email), Name: name, Picture: picture}, nil
}

// POST /auth/google
func GoogleLogin(db *gorm.DB, tokens *Tokens, verifier IdentityVerifier, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			response.Error(c, http.StatusServiceUnavailable, "Google sign-in is not configured")
			return
		}

		var req struct {
			IDToken string `json:"idToken" binding:"required"`
			GuestID string `json:"guest_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid request payload")
			return
		}

		identity, err := verifier.VerifyIDToken(c.Request.Context(), req.IDToken)
		if err != nil {
			log.Warn("ID token verification failed", "error", err)
			response.Error(c, http.StatusUnauthorized, "Invalid or revoked ID token")
			return
		}

		user, err := upsertGoogleUser(db, identity)
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		if !user.IsActive {
			response.Error(c, http.StatusForbidden, "Account is disabled")
			return
		}

		mergeStatus := mergeGuest(db, log, req.GuestID, user.ID)
		respondWithToken(c, http.StatusOK, tokens, user, mergeStatus)
	}
}

// upsertGoogleUser links the identity to an existing account by email or creates a customer.
func upsertGoogleUser(db *gorm.DB, identity *Identity) (*models.User, error) {
	var user models.User
	err := db.Where("email = ?", identity.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			ID:       identity.UID,
			Email:    identity.Email,
			Name:     identity.Name,
			Picture:  identity.Picture,
			Provider: "google",
			Role:     models.RoleCustomer,
			IsActive: true,
		}
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			_, err := services.GetOrCreateCart(tx, services.CartOwner{UserID: user.ID})
			return err
		})
		return &user, err
	}
	if err != nil {
		return nil, err
	}

	if err := db.Model(&user).Updates(map[string]interface{}{
		"name":    identity.Name,
		"picture": identity.Picture,
	}).Error; err != nil {
		return nil, err
	}
	user.Name = identity.Name
	user.Picture = identity.Picture
	return &user, nil
}
