// Package testutil holds database fixtures shared by package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/config"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/database"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestJWTSecret signs tokens in handler tests.
const TestJWTSecret = "test-secret-0123456789"

func init() {
	gin.SetMode(gin.TestMode)
}

// SetupTestDB opens a private in-memory SQLite database with the full schema.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	db, err := database.Open(config.DatabaseSettings{
		Type: config.SqliteDbType,
		DSN:  fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name),
	})
	require.NoError(t, err, "Failed to create database connection")

	t.Cleanup(func() {
		_ = database.Close(db)
	})

	require.NoError(t, database.Migrate(db), "Failed to migrate schema")
	return db
}

// CreateUser inserts an active user with the given role and password "password123".
func CreateUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()

	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)

	id := uuid.NewString()
	user := &models.User{
		ID:           id,
		Email:        id[:8] + "@example.com",
		PasswordHash: hash,
		Name:         "Test " + string(role),
		Provider:     "local",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateProduct inserts an approved, active product.
func CreateProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:           name,
		Slug:           utils.UniqueSlug(name),
		SKU:            "SKU-" + strings.ToUpper(uuid.NewString()[:8]),
		Price:          models.NewMoney(price),
		Stock:          stock,
		ApprovalStatus: models.ApprovalApproved,
		IsActive:       true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// CreateSellerProduct inserts a product owned by sellerID in the given approval state.
func CreateSellerProduct(t *testing.T, db *gorm.DB, sellerID string, price float64, stock int, status models.ApprovalStatus) *models.Product {
	t.Helper()

	product := CreateProduct(t, db, "Seller item "+sellerID[:4], price, stock)
	require.NoError(t, db.Model(product).Updates(map[string]interface{}{
		"seller_id":       sellerID,
		"approval_status": status,
	}).Error)
	product.SellerID = &sellerID
	product.ApprovalStatus = status
	return product
}

// CreateCartWithItems gives userID a cart holding the products with the given quantities.
func CreateCartWithItems(t *testing.T, db *gorm.DB, userID string, lines map[*models.Product]int) *models.Cart {
	t.Helper()

	cart := &models.Cart{UserID: &userID}
	require.NoError(t, db.Create(cart).Error)
	for p, qty := range lines {
		item := models.CartItem{
			CartID:      cart.CartID,
			ProductID:   p.ID,
			ProductName: p.Name,
			UnitPrice:   p.EffectivePrice(),
			Quantity:    qty,
		}
		require.NoError(t, db.Create(&item).Error)
		cart.Items = append(cart.Items, item)
	}
	return cart
}

// ShippingAddress is a complete address for checkout tests.
func ShippingAddress() models.AddressSnapshot {
	return models.AddressSnapshot{
		FullName: "Nguyen Van A",
		Phone:    "0901234567",
		Line1:    "12 Le Loi",
		Ward:     "Phường Bến Nghé",
		District: "Quận 1",
		Province: "Thành phố Hồ Chí Minh",
		Country:  "VN",
	}
}

// CreateShippingMethod inserts an active shipping method.
func CreateShippingMethod(t *testing.T, db *gorm.DB, code string, fee, freeThreshold float64) *models.ShippingMethod {
	t.Helper()

	method := &models.ShippingMethod{
		Code:          code,
		Name:          strings.ToUpper(code),
		Fee:           models.NewMoney(fee),
		FreeThreshold: models.NewMoney(freeThreshold),
		EstimatedDays: 3,
		IsActive:      true,
	}
	require.NoError(t, db.Create(method).Error)
	return method
}

// CreateCoupon inserts an active coupon with no date window or limits.
func CreateCoupon(t *testing.T, db *gorm.DB, code string, typ models.CouponType, value float64) *models.Coupon {
	t.Helper()

	coupon := &models.Coupon{
		Code:     code,
		Type:     typ,
		Value:    models.NewMoney(value),
		IsActive: true,
	}
	require.NoError(t, db.Create(coupon).Error)
	return coupon
}
