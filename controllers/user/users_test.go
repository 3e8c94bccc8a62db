package userControllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/auth"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/cache"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/middleware"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/testutil"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func as(userID string, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth.SetIdentity(c, &auth.Claims{UserID: userID, Role: string(role)})
	}
}

func call(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

func TestProfileAndPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, models.RoleCustomer)

	r := gin.New()
	r.Use(as(user.ID, models.RoleCustomer))
	r.GET("/api/user", GetUser(db))
	r.PUT("/api/user", UpdateUser(db))
	r.PUT("/api/user/password", ChangePassword(db))

	w := call(t, r, http.MethodPut, "/api/user", gin.H{"name": "  Tran Thi B ", "phone": "0909000111"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var profile struct {
		User models.User `json:"user"`
	}
	decode(t, call(t, r, http.MethodGet, "/api/user", nil), &profile)
	assert.Equal(t, "Tran Thi B", profile.User.Name)
	assert.Equal(t, "0909000111", profile.User.Phone)

	w = call(t, r, http.MethodPut, "/api/user/password", gin.H{"current_password": "wrong-pass", "new_password": "newpassword1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = call(t, r, http.MethodPut, "/api/user/password", gin.H{"current_password": "password123", "new_password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = call(t, r, http.MethodPut, "/api/user/password", gin.H{"current_password": "password123", "new_password": "newpassword1"})
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	assert.True(t, utils.CheckPassword(stored.PasswordHash, "newpassword1"))
}

func TestAdminUserManagement(t *testing.T) {
	db := testutil.SetupTestDB(t)
	admin := testutil.CreateUser(t, db, models.RoleAdmin)
	customer := testutil.CreateUser(t, db, models.RoleCustomer)
	testutil.CreateUser(t, db, models.RoleSeller)
	staff := testutil.CreateUser(t, db, models.RoleStaff)
	require.NoError(t, db.Create(&models.Permission{Code: models.PermOrdersManage}).Error)
	var perm models.Permission
	require.NoError(t, db.First(&perm).Error)
	require.NoError(t, db.Create(&models.UserPermission{UserID: staff.ID, PermissionID: perm.ID}).Error)

	r := gin.New()
	a := r.Group("/api/admin", as(admin.ID, models.RoleAdmin))
	a.GET("/users", GetAllUsers(db))
	a.PUT("/users/:id/status", SetUserActive(db))
	a.PUT("/users/:id/role", SetUserRole(db))

	var page struct {
		Items []models.User `json:"items"`
		Total int64         `json:"total"`
	}
	decode(t, call(t, r, http.MethodGet, "/api/admin/users?role=customer", nil), &page)
	assert.EqualValues(t, 1, page.Total)

	decode(t, call(t, r, http.MethodGet, "/api/admin/users?search="+customer.Email[:6], nil), &page)
	require.EqualValues(t, 1, page.Total)
	assert.Equal(t, customer.ID, page.Items[0].ID)

	w := call(t, r, http.MethodPut, "/api/admin/users/"+admin.ID+"/status", gin.H{"is_active": false})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = call(t, r, http.MethodPut, "/api/admin/users/"+customer.ID+"/status", gin.H{"is_active": false})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, call(t, r, http.MethodGet, "/api/admin/users?active=false", nil), &page)
	assert.EqualValues(t, 1, page.Total)

	w = call(t, r, http.MethodPut, "/api/admin/users/missing/status", gin.H{"is_active": true})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = call(t, r, http.MethodPut, "/api/admin/users/"+customer.ID+"/role", gin.H{"role": "seller"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = call(t, r, http.MethodPut, "/api/admin/users/"+staff.ID+"/role", gin.H{"role": "customer"})
	require.Equal(t, http.StatusOK, w.Code)
	var grants int64
	db.Model(&models.UserPermission{}).Where("user_id = ?", staff.ID).Count(&grants)
	assert.Zero(t, grants)
}

func TestAddressBookKeepsSingleDefault(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, models.RoleCustomer)

	r := gin.New()
	r.Use(as(user.ID, models.RoleCustomer))
	r.GET("/api/addresses", ListAddresses(db))
	r.POST("/api/addresses", CreateAddress(db))
	r.PUT("/api/addresses/:id", UpdateAddress(db))
	r.PUT("/api/addresses/:id/default", SetDefaultAddress(db))
	r.DELETE("/api/addresses/:id", DeleteAddress(db))

	home := testutil.ShippingAddress()
	var first, second models.Address
	w := call(t, r, http.MethodPost, "/api/addresses", home)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decode(t, w, &first)
	assert.True(t, first.IsDefault)

	w = call(t, r, http.MethodPost, "/api/addresses", gin.H{"full_name": "Office", "phone": "0281234567", "line1": "2 Hai Ba Trung"})
	require.Equal(t, http.StatusCreated, w.Code)
	decode(t, w, &second)
	assert.False(t, second.IsDefault)
	assert.Equal(t, "VN", second.Country)

	w = call(t, r, http.MethodPost, "/api/addresses", gin.H{"full_name": "No phone", "line1": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(t, r, http.MethodPut, "/api/addresses/"+strconv.Itoa(int(second.ID))+"/default", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []models.Address
	decode(t, call(t, r, http.MethodGet, "/api/addresses", nil), &list)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.True(t, list[0].IsDefault)
	assert.False(t, list[1].IsDefault)

	w = call(t, r, http.MethodDelete, "/api/addresses/"+strconv.Itoa(int(second.ID)), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, call(t, r, http.MethodGet, "/api/addresses", nil), &list)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsDefault)

	other := testutil.CreateUser(t, db, models.RoleCustomer)
	r2 := gin.New()
	r2.DELETE("/api/addresses/:id", as(other.ID, models.RoleCustomer), DeleteAddress(db))
	w = call(t, r2, http.MethodDelete, "/api/addresses/"+strconv.Itoa(int(first.ID)), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegionsAreCached(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := cache.NewMemoryCache()
	require.NoError(t, db.Create(&models.Province{Code: "79", Name: "Thành phố Hồ Chí Minh"}).Error)
	require.NoError(t, db.Create(&models.District{Code: "760", ProvinceCode: "79", Name: "Quận 1"}).Error)
	require.NoError(t, db.Create(&models.Ward{Code: "26734", DistrictCode: "760", Name: "Phường Bến Nghé"}).Error)

	r := gin.New()
	r.GET("/api/AddressApi/provinces", GetProvinces(db, store))
	r.GET("/api/AddressApi/districts", GetDistricts(db, store))
	r.GET("/api/AddressApi/wards", GetWards(db, store))

	var provinces []models.Province
	decode(t, call(t, r, http.MethodGet, "/api/AddressApi/provinces", nil), &provinces)
	require.Len(t, provinces, 1)

	require.NoError(t, db.Create(&models.Province{Code: "01", Name: "Thành phố Hà Nội"}).Error)
	decode(t, call(t, r, http.MethodGet, "/api/AddressApi/provinces", nil), &provinces)
	assert.Len(t, provinces, 1)

	assert.Equal(t, http.StatusBadRequest, call(t, r, http.MethodGet, "/api/AddressApi/districts", nil).Code)
	var districts []models.District
	decode(t, call(t, r, http.MethodGet, "/api/AddressApi/districts?province_code=79", nil), &districts)
	assert.Len(t, districts, 1)
	var wards []models.Ward
	decode(t, call(t, r, http.MethodGet, "/api/AddressApi/wards?district_code=760", nil), &wards)
	require.Len(t, wards, 1)
	assert.Equal(t, "Phường Bến Nghé", wards[0].Name)
}

func TestSellerArea(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seller := testutil.CreateUser(t, db, models.RoleSeller)
	testutil.CreateSellerProduct(t, db, seller.ID, 200000, 2, models.ApprovalApproved)
	require.NoError(t, db.Create(&models.SellerSettlement{
		SellerID: seller.ID, GrossAmount: models.NewMoney(100), FeeAmount: models.NewMoney(10),
		NetAmount: models.NewMoney(90), Status: models.SettlementStatusPending,
	}).Error)
	other := testutil.CreateUser(t, db, models.RoleSeller)
	require.NoError(t, db.Create(&models.SellerSettlement{
		SellerID: other.ID, GrossAmount: models.NewMoney(1), FeeAmount: models.NewMoney(0),
		NetAmount: models.NewMoney(1), Status: models.SettlementStatusPending,
	}).Error)

	r := gin.New()
	r.Use(as(seller.ID, models.RoleSeller))
	r.GET("/api/seller/dashboard", GetSellerDashboard(db, 5))
	r.GET("/api/seller/settlements", GetSellerSettlements(db))
	r.GET("/api/seller/settlements/:id", GetSellerSettlement(db))
	r.GET("/api/seller/profile", GetSellerProfile(db))

	var dash struct {
		ProductsByStatus map[string]int64 `json:"products_by_status"`
		LowStock         []models.Product `json:"low_stock"`
	}
	decode(t, call(t, r, http.MethodGet, "/api/seller/dashboard", nil), &dash)
	assert.EqualValues(t, 1, dash.ProductsByStatus["approved"])
	assert.Len(t, dash.LowStock, 1)

	var page struct {
		Total int64 `json:"total"`
	}
	decode(t, call(t, r, http.MethodGet, "/api/seller/settlements", nil), &page)
	assert.EqualValues(t, 1, page.Total)

	assert.Equal(t, http.StatusNotFound, call(t, r, http.MethodGet, "/api/seller/settlements/2", nil).Code)
	assert.Equal(t, http.StatusNotFound, call(t, r, http.MethodGet, "/api/seller/profile", nil).Code)
}

func TestSupportTickets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	customer := testutil.CreateUser(t, db, models.RoleCustomer)
	staff := testutil.CreateUser(t, db, models.RoleStaff)

	r := gin.New()
	c := r.Group("/api/support", as(customer.ID, models.RoleCustomer))
	c.POST("/tickets", CreateTicket(db))
	c.GET("/tickets", ListMyTickets(db))
	c.GET("/tickets/:id", GetMyTicket(db))
	c.POST("/tickets/:id/replies", ReplyToTicket(db))
	r.POST("/api/admin/tickets/:id/replies", as(staff.ID, models.RoleStaff), ReplyToTicket(db))

	w := call(t, r, http.MethodPost, "/api/support/tickets", gin.H{"subject": "Late delivery", "message": "Where is my order?", "order_number": "JHNOPE"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(t, r, http.MethodPost, "/api/support/tickets", gin.H{"subject": "Late delivery", "message": "Where is my order?", "priority": "high"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var ticket models.SupportTicket
	decode(t, w, &ticket)
	assert.Regexp(t, `^TK-[0-9A-F]{8}$`, ticket.TicketNumber)
	assert.Equal(t, models.TicketOpen, ticket.Status)
	path := strconv.Itoa(int(ticket.ID))

	w = call(t, r, http.MethodPost, "/api/admin/tickets/"+path+"/replies", gin.H{"message": "Checking with the courier"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var detail models.SupportTicket
	decode(t, call(t, r, http.MethodGet, "/api/support/tickets/"+path, nil), &detail)
	assert.Equal(t, models.TicketInProgress, detail.Status)
	require.Len(t, detail.Replies, 2)
	assert.True(t, detail.Replies[1].IsStaff)

	require.NoError(t, db.Model(&models.SupportTicket{}).Where("id = ?", ticket.ID).Update("status", models.TicketClosed).Error)
	w = call(t, r, http.MethodPost, "/api/support/tickets/"+path+"/replies", gin.H{"message": "Any news?"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestReplyToTicket_APIKeyRepliesAsStaff(t *testing.T) {
	db := testutil.SetupTestDB(t)
	customer := testutil.CreateUser(t, db, models.RoleCustomer)
	ticket := models.SupportTicket{
		TicketNumber: "TK-0000A1B2", UserID: customer.ID, Subject: "Wrong size",
		Category: "order", Status: models.TicketOpen, Priority: models.PriorityMedium,
	}
	require.NoError(t, db.Create(&ticket).Error)

	r := gin.New()
	r.POST("/api/admin/tickets/:id/replies", middleware.ValidateAPIKey("ops-key"), ReplyToTicket(db))
	r.POST("/api/admin/forged/:id/replies", as(auth.APIKeyUserID, models.RoleCustomer), ReplyToTicket(db))

	path := strconv.Itoa(int(ticket.ID))
	req := httptest.NewRequest(http.MethodPost, "/api/admin/tickets/"+path+"/replies",
		bytes.NewBufferString(`{"message":"Exchange approved"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", "ops-key")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var reply models.TicketReply
	decode(t, w, &reply)
	assert.True(t, reply.IsStaff)
	assert.Equal(t, auth.APIKeyUserID, reply.AuthorID)

	var stored models.SupportTicket
	require.NoError(t, db.First(&stored, ticket.ID).Error)
	assert.Equal(t, models.TicketInProgress, stored.Status)

	w = call(t, r, http.MethodPost, "/api/admin/forged/"+path+"/replies", gin.H{"message": "hi"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
