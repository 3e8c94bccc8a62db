package productcontroller

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/auth"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/cache"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/services"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

func as(userID string, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth.SetIdentity(c, &auth.Claims{UserID: userID, Role: string(role)})
	}
}

func form(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func send(r http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestGetProducts_ListsApprovedAndCaches(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := cache.NewMemoryCache()
	admin := testutil.CreateUser(t, db, models.RoleAdmin)
	seller := testutil.CreateUser(t, db, models.RoleSeller)

	shirt := testutil.CreateProduct(t, db, "Oxford Shirt", 550000, 10)
	testutil.CreateProduct(t, db, "Chino Pants", 650000, 4)
	testutil.CreateSellerProduct(t, db, seller.ID, 300000, 3, models.ApprovalPending)

	category := models.Category{Name: "Shirts", Slug: "shirts", IsActive: true}
	require.NoError(t, db.Create(&category).Error)
	require.NoError(t, db.Model(shirt).Association("Categories").Append(&category))

	r := gin.New()
	r.GET("/api/products", GetProducts(db, store))
	r.POST("/api/admin/products", as(admin.ID, models.RoleAdmin), CreateProduct(db, store, t.TempDir()))

	_, body := send(r, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	assert.EqualValues(t, 2, body["total"])

	_, body = send(r, httptest.NewRequest(http.MethodGet, "/api/products?search=OXFORD", nil))
	assert.EqualValues(t, 1, body["total"])

	_, body = send(r, httptest.NewRequest(http.MethodGet, "/api/products?category_id="+itoa(category.ID), nil))
	require.EqualValues(t, 1, body["total"])
	items := body["items"].([]interface{})
	assert.Equal(t, "Oxford Shirt", items[0].(map[string]interface{})["name"])

	_, body = send(r, httptest.NewRequest(http.MethodGet, "/api/products?sort_by=price&order=asc", nil))
	items = body["items"].([]interface{})
	assert.Equal(t, "Oxford Shirt", items[0].(map[string]interface{})["name"])

	w, _ := send(r, httptest.NewRequest(http.MethodGet, "/api/products?sort_by=password", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Written behind the handler's back: the cached page is still served.
	testutil.CreateProduct(t, db, "Polo", 350000, 2)
	_, body = send(r, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	assert.EqualValues(t, 2, body["total"])

	payload, ct := form(t, map[string]string{"name": "Blazer", "price": "1200000", "stock": "3"})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/products", payload)
	req.Header.Set("Content-Type", ct)
	w, created := send(r, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, string(models.ApprovalApproved), created["approval_status"])

	_, body = send(r, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	assert.EqualValues(t, 4, body["total"], "writes through the handler invalidate the listing cache")
}

func TestGetProducts_CacheKeyFollowsFilterCase(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := cache.NewMemoryCache()

	shirt := testutil.CreateProduct(t, db, "Oxford Shirt", 550000, 10)
	testutil.CreateProduct(t, db, "Chino Pants", 650000, 4)
	require.NoError(t, db.Create(&models.ProductVariant{ProductID: shirt.ID, SKU: "OX-M", Size: "M", Color: "White", Stock: 5}).Error)
	require.NoError(t, db.Model(shirt).Update("is_featured", true).Error)

	r := gin.New()
	r.GET("/api/products", GetProducts(db, store))
	total := func(query string) interface{} {
		_, body := send(r, httptest.NewRequest(http.MethodGet, "/api/products"+query, nil))
		return body["total"]
	}

	assert.EqualValues(t, 1, total("?size=M"))
	assert.EqualValues(t, 0, total("?size=m"))
	assert.EqualValues(t, 1, total("?size=M"), "a lower-case size must not share the cached page")

	assert.EqualValues(t, 2, total("?featured=TRUE"))
	assert.EqualValues(t, 1, total("?featured=true"), "an unmatched featured flag must not fill the featured page")

	assert.EqualValues(t, 1, total("?color=white"))
	assert.EqualValues(t, 1, total("?color=WHITE"))
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestGetProduct_BySlugHidesUnapproved(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seller := testutil.CreateUser(t, db, models.RoleSeller)
	product := testutil.CreateProduct(t, db, "Wool Coat", 2500000, 2)
	pending := testutil.CreateSellerProduct(t, db, seller.ID, 100000, 1, models.ApprovalPending)

	r := gin.New()
	r.GET("/api/products/:ref", GetProduct(db))

	w, body := send(r, httptest.NewRequest(http.MethodGet, "/api/products/"+product.Slug, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Wool Coat", body["product"].(map[string]interface{})["name"])
	assert.EqualValues(t, 0, body["rating"].(map[string]interface{})["count"])

	w, _ = send(r, httptest.NewRequest(http.MethodGet, "/api/products/"+itoa(pending.ID), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSellerProductLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := cache.NewMemoryCache()
	seller := testutil.CreateUser(t, db, models.RoleSeller)
	other := testutil.CreateUser(t, db, models.RoleSeller)
	dir := t.TempDir()

	r := gin.New()
	r.POST("/seller/:as/products", func(c *gin.Context) {
		as(c.Param("as"), models.RoleSeller)(c)
	}, CreateProduct(db, store, dir))
	r.PUT("/seller/:as/products/:id", func(c *gin.Context) {
		as(c.Param("as"), models.RoleSeller)(c)
	}, UpdateProduct(db, store, dir))
	r.DELETE("/seller/:as/products/:id", func(c *gin.Context) {
		as(c.Param("as"), models.RoleSeller)(c)
	}, DeleteProduct(db, store))

	payload, ct := form(t, map[string]string{"name": "Silk Tie", "price": "250000", "stock": "5", "is_featured": "true"})
	req := httptest.NewRequest(http.MethodPost, "/seller/"+seller.ID+"/products", payload)
	req.Header.Set("Content-Type", ct)
	w, body := send(r, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, string(models.ApprovalPending), body["approval_status"])
	assert.Equal(t, false, body["is_featured"], "sellers cannot feature products")

	var product models.Product
	require.NoError(t, db.Where("name = ?", "Silk Tie").First(&product).Error)
	assert.Equal(t, 5, product.Stock)
	assert.True(t, product.OwnedBy(seller.ID))

	var movements []models.InventoryMovement
	require.NoError(t, db.Where("product_id = ?", product.ID).Find(&movements).Error)
	require.Len(t, movements, 1)
	assert.Equal(t, models.MovementIn, movements[0].Type)

	_, err := services.ReviewProduct(context.Background(), db, product.ID, models.ApprovalApproved, "", "admin")
	require.NoError(t, err)

	payload, ct = form(t, map[string]string{"stock": "2"})
	req = httptest.NewRequest(http.MethodPut, "/seller/"+other.ID+"/products/"+itoa(product.ID), payload)
	req.Header.Set("Content-Type", ct)
	w, _ = send(r, req)
	assert.Equal(t, http.StatusNotFound, w.Code, "other sellers cannot edit")

	payload, ct = form(t, map[string]string{"stock": "2", "price": "260000"})
	req = httptest.NewRequest(http.MethodPut, "/seller/"+seller.ID+"/products/"+itoa(product.ID), payload)
	req.Header.Set("Content-Type", ct)
	w, _ = send(r, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.NoError(t, db.First(&product, product.ID).Error)
	assert.Equal(t, 2, product.Stock)
	assert.Equal(t, "260000", product.Price.String())
	assert.Equal(t, models.ApprovalPending, product.ApprovalStatus, "edits go back to review")

	var adjust models.InventoryMovement
	require.NoError(t, db.Where("product_id = ? AND type = ?", product.ID, models.MovementAdjust).First(&adjust).Error)
	assert.Equal(t, -3, adjust.Quantity)

	w, _ = send(r, httptest.NewRequest(http.MethodDelete, "/seller/"+seller.ID+"/products/"+itoa(product.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.ErrorIs(t, db.First(&models.Product{}, product.ID).Error, gorm.ErrRecordNotFound)
	var archived models.Product
	require.NoError(t, db.Unscoped().First(&archived, product.ID).Error)
}

func TestBuildCategoryTree(t *testing.T) {
	parent := uint(1)
	missing := uint(99)
	tree := buildCategoryTree([]models.Category{
		{ID: 1, Name: "Men"},
		{ID: 2, Name: "Shirts", ParentID: &parent},
		{ID: 3, Name: "Orphan", ParentID: &missing},
	})

	require.Len(t, tree, 2)
	assert.Equal(t, "Men", tree[0].Name)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "Shirts", tree[0].Children[0].Name)
	assert.Equal(t, "Orphan", tree[1].Name)
}

func TestCategoryCRUD(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := cache.NewMemoryCache()
	dir := t.TempDir()

	r := gin.New()
	r.GET("/api/categories", GetCategories(db))
	r.POST("/api/admin/categories", CreateCategory(db, store, dir))
	r.DELETE("/api/admin/categories/:id", DeleteCategory(db, store, dir))

	create := func(fields map[string]string) map[string]interface{} {
		payload, ct := form(t, fields)
		req := httptest.NewRequest(http.MethodPost, "/api/admin/categories", payload)
		req.Header.Set("Content-Type", ct)
		w, body := send(r, req)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		return body
	}
	men := create(map[string]string{"name": "Thời trang nam"})
	assert.Equal(t, "thoi-trang-nam", men["slug"])
	create(map[string]string{"name": "Áo sơ mi", "parent_id": itoa(uint(men["id"].(float64)))})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	var tree []models.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tree))
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)

	w, _ = send(r, httptest.NewRequest(http.MethodDelete, "/api/admin/categories/"+itoa(tree[0].ID), nil))
	require.Equal(t, http.StatusOK, w.Code)

	var child models.Category
	require.NoError(t, db.First(&child, tree[0].Children[0].ID).Error)
	assert.Nil(t, child.ParentID, "children are promoted")
}

func TestWishlist(t *testing.T) {
	db := testutil.SetupTestDB(t)
	customer := testutil.CreateUser(t, db, models.RoleCustomer)
	product := testutil.CreateProduct(t, db, "Loafers", 900000, 5)

	r := gin.New()
	r.Use(as(customer.ID, models.RoleCustomer))
	r.GET("/api/wishlist", GetWishlist(db))
	r.POST("/api/wishlist/:productId", AddToWishlist(db))
	r.DELETE("/api/wishlist/:productId", RemoveFromWishlist(db))

	path := "/api/wishlist/" + itoa(product.ID)
	for i := 0; i < 2; i++ {
		w, _ := send(r, httptest.NewRequest(http.MethodPost, path, nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
	var count int64
	db.Model(&models.WishlistItem{}).Where("user_id = ?", customer.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	w, _ := send(r, httptest.NewRequest(http.MethodPost, "/api/wishlist/9999", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = send(r, httptest.NewRequest(http.MethodDelete, path, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = send(r, httptest.NewRequest(http.MethodDelete, path, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateReview_RequiresDelivery(t *testing.T) {
	db := testutil.SetupTestDB(t)
	customer := testutil.CreateUser(t, db, models.RoleCustomer)
	product := testutil.CreateProduct(t, db, "Belt", 300000, 5)

	r := gin.New()
	r.POST("/api/products/:ref/reviews", as(customer.ID, models.RoleCustomer), CreateReview(db))

	raw, _ := json.Marshal(gin.H{"rating": 5, "comment": "great"})
	req := httptest.NewRequest(http.MethodPost, "/api/products/"+product.Slug+"/reviews", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w, body := send(r, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, services.ErrNotPurchased.Error(), body["error"])
}

func TestProductsWorkbookRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	product := testutil.CreateProduct(t, db, "Denim Jacket", 800000, 4)

	var buf bytes.Buffer
	require.NoError(t, WriteProductsWorkbook(db, &buf))

	workbook, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	sheet := workbook.Sheets[0]
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "Denim Jacket", sheet.Rows[1].Cells[1].String())

	sheet.Rows[1].Cells[7].SetInt(9)

	added := sheet.AddRow()
	for _, v := range []string{"", "Canvas Sneakers", "", "", "700000", "", "", "6", "", "", ""} {
		added.AddCell().SetString(v)
	}
	broken := sheet.AddRow()
	for _, v := range []string{"", "No Price", "", "", "abc", "", "", "", "", "", ""} {
		broken.AddCell().SetString(v)
	}

	result := ImportProducts(db, sheet, "admin")
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 1)

	require.NoError(t, db.First(product, product.ID).Error)
	assert.Equal(t, 9, product.Stock)

	var sneakers models.Product
	require.NoError(t, db.Where("name = ?", "Canvas Sneakers").First(&sneakers).Error)
	assert.Equal(t, 6, sneakers.Stock)
	assert.True(t, sneakers.Visible())
}
