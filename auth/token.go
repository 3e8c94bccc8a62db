package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/config"
	"github.com/golang-jwt/jwt/v5"
)

// RoleGuest marks tokens issued to anonymous shoppers.
const RoleGuest = "guest"

const guestTokenTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carried by every API token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens issues and parses HS256 API tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(settings config.AuthSettings) *Tokens {
	ttl := settings.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{secret: []byte(settings.JWTSecret), ttl: ttl, now: time.Now}
}

// Issue signs a token for a registered user.
func (t *Tokens) Issue(userID, email, role string) (string, time.Time, error) {
	return t.sign(userID, email, role, t.ttl)
}

// IssueGuest signs a 24h token for a guest id.
func (t *Tokens) IssueGuest(guestID string) (string, time.Time, error) {
	return t.sign(guestID, "", RoleGuest, guestTokenTTL)
}

func (t *Tokens) sign(userID, email, role string, ttl time.Duration) (string, time.Time, error) {
	now := t.now()
	expiresAt := now.Add(ttl)
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse validates the signature and expiry of tokenString.
func (t *Tokens) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
