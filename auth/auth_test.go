package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/config"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/logger"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/services"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testTokens() *Tokens {
	return NewTokens(config.AuthSettings{JWTSecret: testutil.TestJWTSecret, TokenTTL: time.Hour})
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestTokens(t *testing.T) {
	tokens := testTokens()

	signed, expiresAt, err := tokens.Issue("u1", "a@example.com", "customer")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "customer", claims.Role)

	other := NewTokens(config.AuthSettings{JWTSecret: "another-secret-0123456", TokenTTL: time.Hour})
	_, err = other.Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	guest, _, err := tokens.IssueGuest("guest_1")
	require.NoError(t, err)
	tokens.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	_, err = tokens.Parse(guest)
	assert.ErrorIs(t, err, ErrInvalidToken, "guest tokens last a day")
}

func authRouter(db *gorm.DB, verifier IdentityVerifier) *gin.Engine {
	tokens := testTokens()
	log := logger.Discard()
	r := gin.New()
	r.POST("/auth/register", Register(db, tokens, log))
	r.POST("/auth/login", Login(db, tokens, log))
	r.POST("/auth/guest", CreateGuestUser(db, tokens))
	r.POST("/auth/google", GoogleLogin(db, tokens, verifier, log))
	return r
}

func TestRegisterAndLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	r := authRouter(db, nil)

	w, body := doJSON(t, r, http.MethodPost, "/auth/register", gin.H{
		"email": "Lan@Example.com", "password": "short", "name": "Lan",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = doJSON(t, r, http.MethodPost, "/auth/register", gin.H{
		"email": "Lan@Example.com", "password": "secret-pass", "name": "Lan",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "lan@example.com", user["email"])
	assert.Equal(t, "customer", user["role"])

	var carts int64
	db.Model(&models.Cart{}).Where("user_id = ?", user["id"]).Count(&carts)
	assert.Equal(t, int64(1), carts)

	w, _ = doJSON(t, r, http.MethodPost, "/auth/register", gin.H{
		"email": "lan@example.com", "password": "secret-pass", "name": "Lan",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/auth/login", gin.H{"email": "lan@example.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body = doJSON(t, r, http.MethodPost, "/auth/login", gin.H{"email": "LAN@example.com", "password": "secret-pass"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-guest-cart", body["merge_status"])

	claims, err := testTokens().Parse(body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, user["id"], claims.UserID)
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, models.RoleCustomer)
	require.NoError(t, db.Model(user).Update("is_active", false).Error)

	w, _ := doJSON(t, authRouter(db, nil), http.MethodPost, "/auth/login", gin.H{"email": user.Email, "password": "password123"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLoginMergesGuestCart(t *testing.T) {
	db := testutil.SetupTestDB(t)
	r := authRouter(db, nil)
	user := testutil.CreateUser(t, db, models.RoleCustomer)
	product := testutil.CreateProduct(t, db, "Polo", 300000, 10)

	w, body := doJSON(t, r, http.MethodPost, "/auth/guest", nil)
	require.Equal(t, http.StatusOK, w.Code)
	guestID := body["guest_id"].(string)
	assert.Regexp(t, `^guest_[0-9a-f]{32}$`, guestID)

	claims, err := testTokens().Parse(body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, RoleGuest, claims.Role)

	guestCart, err := services.GetOrCreateCart(db, services.CartOwner{GuestID: guestID})
	require.NoError(t, err)
	_, err = services.SetCartItem(db, guestCart, product.ID, nil, 2)
	require.NoError(t, err)

	w, body = doJSON(t, r, http.MethodPost, "/auth/login", gin.H{
		"email": user.Email, "password": "password123", "guest_id": guestID,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "merged-success", body["merge_status"])

	cart, err := services.GetOrCreateCart(db, services.CartOwner{UserID: user.ID})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

type stubVerifier struct {
	identity *Identity
	err      error
}

func (s stubVerifier) VerifyIDToken(context.Context, string) (*Identity, error) {
	return s.identity, s.err
}

func TestGoogleLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)

	w, _ := doJSON(t, authRouter(db, nil), http.MethodPost, "/auth/google", gin.H{"idToken": "x"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w, _ = doJSON(t, authRouter(db, stubVerifier{err: errors.New("revoked")}), http.MethodPost, "/auth/google", gin.H{"idToken": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	r := authRouter(db, stubVerifier{identity: &Identity{UID: "fb-1", Email: "mai@example.com", Name: "Mai"}})
	w, body := doJSON(t, r, http.MethodPost, "/auth/google", gin.H{"idToken": "x"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "fb-1", body["user"].(map[string]interface{})["id"])

	r = authRouter(db, stubVerifier{identity: &Identity{UID: "fb-1", Email: "mai@example.com", Name: "Mai Nguyen"}})
	w, _ = doJSON(t, r, http.MethodPost, "/auth/google", gin.H{"idToken": "x"})
	require.Equal(t, http.StatusOK, w.Code)

	var users []models.User
	require.NoError(t, db.Where("email = ?", "mai@example.com").Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, "Mai Nguyen", users[0].Name)
	assert.Equal(t, "google", users[0].Provider)
}

func TestApplySeller(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, models.RoleCustomer)

	r := gin.New()
	r.POST("/auth/seller/apply", func(c *gin.Context) {
		SetIdentity(c, &Claims{UserID: user.ID, Role: "customer"})
	}, ApplySeller(db))

	w, _ := doJSON(t, r, http.MethodPost, "/auth/seller/apply", gin.H{"shop_name": "Tailor"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	application := gin.H{"shop_name": "Tiệm May Hà", "phone": "0901234567"}
	w, body := doJSON(t, r, http.MethodPost, "/auth/seller/apply", application)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	seller := body["seller"].(map[string]interface{})
	assert.Equal(t, "pending", seller["status"])
	assert.Regexp(t, `^tiem-may-ha-`, seller["slug"])

	w, _ = doJSON(t, r, http.MethodPost, "/auth/seller/apply", application)
	assert.Equal(t, http.StatusConflict, w.Code)

	_, err := services.ReviewSeller(context.Background(), db, user.ID, models.SellerStatusRejected, "missing tax code")
	require.NoError(t, err)

	w, _ = doJSON(t, r, http.MethodPost, "/auth/seller/apply", gin.H{"shop_name": "Tiệm May Hà", "phone": "0901234567", "tax_code": "0312345678"})
	require.Equal(t, http.StatusCreated, w.Code)

	var profile models.SellerProfile
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.Equal(t, models.SellerStatusPending, profile.Status)
	assert.Equal(t, "0312345678", profile.TaxCode)
}
