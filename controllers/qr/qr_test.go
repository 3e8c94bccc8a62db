package qrcontroller

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

	"github.com/InfinityZero3000/John-Henry-Website-sub003/logger"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upload(t *testing.T, r http.Handler, filename string) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("bank_name", "Vietcombank"))
	require.NoError(t, mw.WriteField("account_number", "0071000123456"))
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, _ = part.Write([]byte("png"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/qr", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPaymentQRLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	dir := t.TempDir()
	log := logger.Discard()

	r := gin.New()
	r.GET("/api/payment-qr", GetPaymentQRs(db))
	r.POST("/api/admin/qr", HandleQRFileUpload(db, dir, "https://api.johnhenry.test/", log))
	r.DELETE("/api/admin/qr/:id", DeleteQRFileHandler(db, dir, log))

	assert.Equal(t, http.StatusBadRequest, upload(t, r, "notes.txt").Code)

	w := upload(t, r, "vcb qr.png")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		FileURL string           `json:"file_url"`
		Data    models.PaymentQR `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Contains(t, created.FileURL, "https://api.johnhenry.test/uploads/qrfiles/")
	onDisk := filepath.Join(dir, "qrfiles", created.Data.FileName)
	_, err := os.Stat(onDisk)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/payment-qr", nil))
	var listed []models.PaymentQR
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Vietcombank", listed[0].BankName)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/admin/qr/"+strconv.Itoa(int(created.Data.ID)), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/admin/qr/"+strconv.Itoa(int(created.Data.ID)), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
