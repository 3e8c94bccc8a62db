package qrcontroller

import (
	"net/http"
	"path"
	"strings"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/logger"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var qrImageTypes = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".webp": true}

// HandleQRFileUpload stores a bank-transfer QR image and returns its public URL.
func HandleQRFileUpload(db *gorm.DB, uploadDir, publicBaseURL string, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("file")
		if err != nil {
			response.Error(c, http.StatusBadRequest, "No file uploaded")
			return
		}
		if !qrImageTypes[strings.ToLower(path.Ext(file.Filename))] {
			response.Error(c, http.StatusBadRequest, "QR code must be a PNG, JPEG or WebP image")
			return
		}

		publicPath, err := utils.SaveUpload(c, file, uploadDir, "qrfiles")
		if err != nil {
			response.ServiceError(c, err)
			return
		}

		qr := models.PaymentQR{
			BankName:      c.PostForm("bank_name"),
			AccountName:   c.PostForm("account_name"),
			AccountNumber: c.PostForm("account_number"),
			FileName:      path.Base(publicPath),
			FileURL:       strings.TrimRight(publicBaseURL, "/") + publicPath,
			IsActive:      c.DefaultPostForm("is_active", "true") == "true",
		}
		if err := db.Create(&qr).Error; err != nil {
			utils.RemoveUpload(uploadDir, publicPath)
			response.ServiceError(c, err)
			return
		}

		log.Info("payment qr uploaded", "id", qr.ID, "file", qr.FileName)
		c.JSON(http.StatusCreated, gin.H{
			"file_url": qr.FileURL,
			"message":  "File uploaded successfully",
			"data":     qr,
		})
	}
}

// GetPaymentQRs lists QR codes; the storefront sees active ones, ?all=true shows every one.
func GetPaymentQRs(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.Order("id DESC")
		if c.Query("all") != "true" {
			q = q.Where("is_active = ?", true)
		}
		var qrs []models.PaymentQR
		if err := q.Find(&qrs).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, qrs)
	}
}
