package adminController

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/auth"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/cache"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/logger"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func as(userID string, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth.SetIdentity(c, &auth.Claims{UserID: userID, Role: string(role)})
	}
}

func call(t *testing.T, r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func id(n uint) string { return strconv.FormatUint(uint64(n), 10) }

func TestCouponAdminAndValidate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	admin := testutil.CreateUser(t, db, models.RoleAdmin)
	customer := testutil.CreateUser(t, db, models.RoleCustomer)

	r := gin.New()
	a := r.Group("/api/admin", as(admin.ID, models.RoleAdmin))
	a.GET("/coupons", GetCoupons(db))
	a.POST("/coupons", CreateCoupon(db))
	a.PUT("/coupons/:id", UpdateCoupon(db))
	a.DELETE("/coupons/:id", DeleteCoupon(db))
	r.POST("/api/coupons/validate", as(customer.ID, models.RoleCustomer), ValidateCoupon(db))

	w, body := call(t, r, http.MethodPost, "/api/admin/coupons", gin.H{"code": " summer10 ", "type": "percent", "value": "10", "max_discount": "40000"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "SUMMER10", body["code"])
	couponID := uint(body["id"].(float64))

	w, _ = call(t, r, http.MethodPost, "/api/admin/coupons", gin.H{"code": "SUMMER10", "type": "fixed", "value": "5000"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, body = call(t, r, http.MethodPost, "/api/admin/coupons", gin.H{"code": "TOOMUCH", "type": "percent", "value": "150"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])

	w, body = call(t, r, http.MethodPost, "/api/coupons/validate", gin.H{"code": "summer10", "subtotal": "300000"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "30000", body["discount"])

	w, body = call(t, r, http.MethodPost, "/api/coupons/validate", gin.H{"code": "summer10", "subtotal": "900000"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "40000", body["discount"])

	w, _ = call(t, r, http.MethodPost, "/api/coupons/validate", gin.H{"code": "NOPE", "subtotal": "900000"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = call(t, r, http.MethodPut, "/api/admin/coupons/"+id(couponID), gin.H{"code": "SUMMER10", "type": "percent", "value": "10", "is_active": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w, _ = call(t, r, http.MethodPost, "/api/coupons/validate", gin.H{"code": "SUMMER10", "subtotal": "300000"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	require.NoError(t, db.Create(&models.CouponUsage{CouponID: couponID, UserID: customer.ID, OrderID: 1}).Error)
	w, _ = call(t, r, http.MethodDelete, "/api/admin/coupons/"+id(couponID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var kept int64
	db.Model(&models.Coupon{}).Where("id = ?", couponID).Count(&kept)
	assert.EqualValues(t, 1, kept)
}

func TestShippingMethods(t *testing.T) {
	db := testutil.SetupTestDB(t)
	admin := testutil.CreateUser(t, db, models.RoleAdmin)
	testutil.CreateShippingMethod(t, db, "standard", 30000, 500000)

	r := gin.New()
	r.GET("/api/shipping-methods", GetShippingMethods(db))
	a := r.Group("/api/admin", as(admin.ID, models.RoleAdmin))
	a.POST("/shipping-methods", CreateShippingMethod(db))
	a.DELETE("/shipping-methods/:id", DeleteShippingMethod(db))

	w, body := call(t, r, http.MethodPost, "/api/admin/shipping-methods", gin.H{"code": "EXPRESS", "name": "Express", "fee": "60000", "estimated_days": 1})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "express", body["code"])
	expressID := uint(body["id"].(float64))

	w, _ = call(t, r, http.MethodPost, "/api/admin/shipping-methods", gin.H{"code": "standard", "name": "Again", "fee": "1"})
	assert.Equal(t, http.StatusConflict, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/shipping-methods?subtotal=600000", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var quoted []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quoted))
	require.Len(t, quoted, 2)
	assert.Equal(t, "standard", quoted[0]["code"])
	assert.Equal(t, "0", quoted[0]["quote"])
	assert.Equal(t, "60000", quoted[1]["quote"])

	w, _ = call(t, r, http.MethodDelete, "/api/admin/shipping-methods/"+id(expressID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/shipping-methods", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quoted))
	assert.Len(t, quoted, 1)
}

func TestBannerLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := cache.NewMemoryCache()
	uploadDir := t.TempDir()
	admin := testutil.CreateUser(t, db, models.RoleAdmin)

	r := gin.New()
	r.GET("/api/banners", GetBanners(db, store))
	a := r.Group("/api/admin", as(admin.ID, models.RoleAdmin))
	a.POST("/banners", UploadBanner(db, store, uploadDir))
	a.PUT("/banners/:id", UpdateBanner(db, store, uploadDir))
	a.DELETE("/banners/:id", DeleteBanner(db, store, uploadDir))

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("title", "Autumn collection"))
	require.NoError(t, mw.WriteField("position", "home_hero"))
	part, err := mw.CreateFormFile("image", "autumn banner.jpg")
	require.NoError(t, err)
	_, _ = part.Write([]byte("jpeg"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/banners", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var banner models.Banner
	require.NoError(t, db.First(&banner).Error)
	onDisk := filepath.Join(uploadDir, filepath.FromSlash(banner.ImageURL[len("/uploads/"):]))
	_, err = os.Stat(onDisk)
	require.NoError(t, err)

	listLive := func() []models.Banner {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/banners?position=home_hero", nil))
		var out []models.Banner
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}
	assert.Len(t, listLive(), 1)

	form := &bytes.Buffer{}
	fw := multipart.NewWriter(form)
	require.NoError(t, fw.WriteField("ends_at", time.Now().Add(-time.Hour).Format(time.RFC3339)))
	require.NoError(t, fw.Close())
	req = httptest.NewRequest(http.MethodPut, "/api/admin/banners/"+id(banner.ID), form)
	req.Header.Set("Content-Type", fw.FormDataContentType())
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, listLive())

	w2, _ := call(t, r, http.MethodDelete, "/api/admin/banners/"+id(banner.ID), nil)
	require.Equal(t, http.StatusOK, w2.Code)
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))
}

func TestProductAndSellerApproval(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := cache.NewMemoryCache()
	admin := testutil.CreateUser(t, db, models.RoleAdmin)
	seller := testutil.CreateUser(t, db, models.RoleSeller)
	applicant := testutil.CreateUser(t, db, models.RoleCustomer)
	product := testutil.CreateSellerProduct(t, db, seller.ID, 420000, 5, models.ApprovalPending)
	require.NoError(t, db.Create(&models.SellerProfile{
		UserID: applicant.ID, ShopName: "Applicant Shop", Slug: "applicant-shop", Status: models.SellerStatusPending,
	}).Error)

	r := gin.New()
	a := r.Group("/api/admin", as(admin.ID, models.RoleAdmin))
	a.GET("/approvals/products", ListPendingProducts(db))
	a.POST("/approvals/products/:id/approve", ApproveProduct(db, store))
	a.POST("/approvals/products/:id/reject", RejectProduct(db, store))
	a.GET("/sellers", ListSellers(db))
	a.PUT("/sellers/:id/status", ReviewSeller(db, store))

	_, body := call(t, r, http.MethodGet, "/api/admin/approvals/products", nil)
	assert.EqualValues(t, 1, body["total"])

	w, _ := call(t, r, http.MethodPost, "/api/admin/approvals/products/"+id(product.ID)+"/reject", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = call(t, r, http.MethodPost, "/api/admin/approvals/products/"+id(product.ID)+"/reject", gin.H{"note": "Photos are blurry"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "rejected", body["data"].(map[string]interface{})["approval_status"])

	w, _ = call(t, r, http.MethodPost, "/api/admin/approvals/products/"+id(product.ID)+"/approve", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	_, body = call(t, r, http.MethodGet, "/api/admin/sellers?status=pending", nil)
	assert.EqualValues(t, 1, body["total"])

	w, _ = call(t, r, http.MethodPut, "/api/admin/sellers/"+applicant.ID+"/status", gin.H{"status": "approved"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var promoted models.User
	require.NoError(t, db.First(&promoted, "id = ?", applicant.ID).Error)
	assert.Equal(t, models.RoleSeller, promoted.Role)
}

func TestInventoryAdjustments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := cache.NewMemoryCache()
	admin := testutil.CreateUser(t, db, models.RoleAdmin)
	product := testutil.CreateProduct(t, db, "Linen Shirt", 390000, 5)

	r := gin.New()
	a := r.Group("/api/admin", as(admin.ID, models.RoleAdmin))
	a.POST("/inventory/adjust", AdjustStock(db, store))
	a.GET("/inventory/movements", GetMovements(db))
	a.GET("/inventory/low-stock", GetLowStock(db, 5))

	w, _ := call(t, r, http.MethodPost, "/api/admin/inventory/adjust", gin.H{"product_id": product.ID, "delta": -10, "reason": "damaged"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, body := call(t, r, http.MethodPost, "/api/admin/inventory/adjust", gin.H{"product_id": product.ID, "delta": 3, "reason": "recount"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 8, body["data"].(map[string]interface{})["stock_after"])

	_, body = call(t, r, http.MethodGet, "/api/admin/inventory/movements?product_id="+id(product.ID), nil)
	assert.EqualValues(t, 1, body["total"])

	_, body = call(t, r, http.MethodGet, "/api/admin/inventory/low-stock", nil)
	assert.Empty(t, body["items"])
	_, body = call(t, r, http.MethodGet, "/api/admin/inventory/low-stock?threshold=10", nil)
	assert.Len(t, body["items"], 1)
}

func TestDashboardIsCachedAndReportExports(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := cache.NewMemoryCache()
	admin := testutil.CreateUser(t, db, models.RoleAdmin)
	customer := testutil.CreateUser(t, db, models.RoleCustomer)
	testutil.CreateProduct(t, db, "Wool Coat", 1500000, 2)
	require.NoError(t, db.Create(&models.Order{
		OrderNumber: "JH20261019000000AAAAAA", UserID: customer.ID,
		Subtotal: models.NewMoney(1500000), Total: models.NewMoney(1500000),
		Status: models.OrderStatusConfirmed, PaymentStatus: models.PaymentStatusPaid,
		PaymentMethod: models.PaymentMethodVNPay, ShippingAddress: testutil.ShippingAddress(),
	}).Error)

	r := gin.New()
	a := r.Group("/api/admin", as(admin.ID, models.RoleAdmin))
	a.GET("/dashboard/stats", GetDashboardStats(db, store))
	a.GET("/reports/sales", GetSalesReport(db))
	a.GET("/reports/sales/export", ExportSalesReport(db))

	_, body := call(t, r, http.MethodGet, "/api/admin/dashboard/stats", nil)
	stats := body["data"].(map[string]interface{})
	assert.EqualValues(t, 1, stats["total_products"])
	assert.Equal(t, "1500000", stats["total_revenue"])

	testutil.CreateProduct(t, db, "Cashmere Scarf", 800000, 2)
	_, body = call(t, r, http.MethodGet, "/api/admin/dashboard/stats", nil)
	assert.EqualValues(t, 1, body["data"].(map[string]interface{})["total_products"])

	w, body := call(t, r, http.MethodGet, "/api/admin/reports/sales?from=bad", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	_, body = call(t, r, http.MethodGet, "/api/admin/reports/sales", nil)
	assert.EqualValues(t, 1, body["data"].(map[string]interface{})["paid_orders"])

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/reports/sales/export", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	book, err := xlsx.OpenBinary(rec.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, book.Sheets, 2)
	orders := book.Sheets[1]
	require.Len(t, orders.Rows, 2)
	assert.Equal(t, "JH20261019000000AAAAAA", orders.Rows[1].Cells[0].String())
}

func TestSupportDesk(t *testing.T) {
	db := testutil.SetupTestDB(t)
	staff := testutil.CreateUser(t, db, models.RoleStaff)
	customer := testutil.CreateUser(t, db, models.RoleCustomer)
	ticket := models.SupportTicket{
		TicketNumber: "TK-ABCDEF12", UserID: customer.ID, Subject: "Wrong size",
		Priority: models.PriorityHigh, Status: models.TicketOpen,
	}
	require.NoError(t, db.Create(&ticket).Error)

	r := gin.New()
	a := r.Group("/api/admin", as(staff.ID, models.RoleStaff))
	a.GET("/tickets", ListTickets(db))
	a.GET("/tickets/:id", GetTicket(db))
	a.PUT("/tickets/:id/assign", AssignTicket(db))
	a.PUT("/tickets/:id/status", SetTicketStatus(db))

	w, _ := call(t, r, http.MethodPut, "/api/admin/tickets/"+id(ticket.ID)+"/assign", gin.H{"assigned_to": customer.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = call(t, r, http.MethodPut, "/api/admin/tickets/"+id(ticket.ID)+"/assign", gin.H{"assigned_to": staff.ID})
	require.Equal(t, http.StatusOK, w.Code)

	_, body := call(t, r, http.MethodGet, "/api/admin/tickets?assigned_to=me&priority=high", nil)
	assert.EqualValues(t, 1, body["total"])

	w, _ = call(t, r, http.MethodPut, "/api/admin/tickets/"+id(ticket.ID)+"/status", gin.H{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, body = call(t, r, http.MethodPut, "/api/admin/tickets/"+id(ticket.ID)+"/status", gin.H{"status": "closed"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, body["data"].(map[string]interface{})["closed_at"])
}

func TestPermissionGrants(t *testing.T) {
	db := testutil.SetupTestDB(t)
	perms := append([]models.Permission(nil), models.DefaultPermissions...)
	require.NoError(t, db.Create(&perms).Error)
	admin := testutil.CreateUser(t, db, models.RoleAdmin)
	staff := testutil.CreateUser(t, db, models.RoleStaff)
	customer := testutil.CreateUser(t, db, models.RoleCustomer)

	r := gin.New()
	a := r.Group("/api/admin", as(admin.ID, models.RoleAdmin))
	a.GET("/permissions", GetPermissions(db))
	a.GET("/users/:id/permissions", GetUserPermissions(db))
	a.POST("/users/:id/permissions", GrantPermission(db))
	a.DELETE("/users/:id/permissions", RevokePermission(db))

	base := "/api/admin/users/" + staff.ID + "/permissions"
	w, _ := call(t, r, http.MethodPost, base, gin.H{"code": models.PermOrdersManage})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w, _ = call(t, r, http.MethodPost, base, gin.H{"code": models.PermOrdersManage})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = call(t, r, http.MethodPost, base, gin.H{"code": "rockets.launch"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = call(t, r, http.MethodPost, "/api/admin/users/"+customer.ID+"/permissions", gin.H{"code": models.PermOrdersManage})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, body := call(t, r, http.MethodGet, base, nil)
	assert.Equal(t, []interface{}{models.PermOrdersManage}, body["permissions"])

	w, _ = call(t, r, http.MethodDelete, base, gin.H{"code": models.PermOrdersManage})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = call(t, r, http.MethodDelete, base, gin.H{"code": models.PermOrdersManage})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSettlementRun(t *testing.T) {
	db := testutil.SetupTestDB(t)
	admin := testutil.CreateUser(t, db, models.RoleAdmin)
	seller := testutil.CreateUser(t, db, models.RoleSeller)
	customer := testutil.CreateUser(t, db, models.RoleCustomer)

	delivered := time.Now()
	order := models.Order{
		OrderNumber: "JH20261019000000SETTLE", UserID: customer.ID,
		Subtotal: models.NewMoney(200000), Total: models.NewMoney(200000),
		Status: models.OrderStatusDelivered, PaymentStatus: models.PaymentStatusPaid,
		PaymentMethod: models.PaymentMethodCOD, ShippingAddress: testutil.ShippingAddress(),
		DeliveredAt: &delivered,
		Items: []models.OrderItem{{
			ProductID: 1, SellerID: &seller.ID, ProductName: "Seller tee",
			UnitPrice: models.NewMoney(100000), Quantity: 2, LineTotal: models.NewMoney(200000),
		}},
	}
	require.NoError(t, db.Create(&order).Error)

	r := gin.New()
	a := r.Group("/api/admin", as(admin.ID, models.RoleAdmin))
	a.POST("/settlements/generate", GenerateSettlements(db, 10, logger.Discard()))
	a.GET("/settlements", ListSettlements(db))
	a.GET("/settlements/:id", GetSettlement(db))
	a.POST("/settlements/:id/paid", MarkSettlementPaid(db))

	period := gin.H{
		"from": delivered.AddDate(0, 0, -1).Format(dateLayout),
		"to":   delivered.AddDate(0, 0, 1).Format(dateLayout),
	}
	w, body := call(t, r, http.MethodPost, "/api/admin/settlements/generate", period)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.EqualValues(t, 1, body["count"])
	settlement := body["data"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "20000", settlement["fee_amount"])
	assert.Equal(t, "180000", settlement["net_amount"])
	settlementID := uint(settlement["id"].(float64))

	_, body = call(t, r, http.MethodPost, "/api/admin/settlements/generate", period)
	assert.EqualValues(t, 0, body["count"])

	_, body = call(t, r, http.MethodGet, "/api/admin/settlements/"+id(settlementID), nil)
	assert.Len(t, body["items"], 1)

	w, _ = call(t, r, http.MethodPost, "/api/admin/settlements/"+id(settlementID)+"/paid", gin.H{"reference": "VCB-0001"})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = call(t, r, http.MethodPost, "/api/admin/settlements/"+id(settlementID)+"/paid", gin.H{"reference": "VCB-0002"})
	assert.Equal(t, http.StatusConflict, w.Code)
}
