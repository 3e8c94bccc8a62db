package qrcontroller

import (
	"net/http"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/logger"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func DeleteQRFileHandler(db *gorm.DB, uploadDir string, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var qr models.PaymentQR
		if err := db.First(&qr, "id = ?", c.Param("id")).Error; err != nil {
			response.ServiceError(c, err)
			return
		}

		if err := db.Delete(&qr).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		utils.RemoveUpload(uploadDir, "/uploads/qrfiles/"+qr.FileName)

		log.Info("payment qr deleted", "id", qr.ID, "file", qr.FileName)
		c.JSON(http.StatusOK, gin.H{"message": "QR file deleted successfully"})
	}
}
