package adminController

import (
	"errors"
	"net/http"
	"strings"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type shippingMethodRequest struct {
	Code          string          `json:"code" binding:"required,max=30"`
	Name          string          `json:"name" binding:"required"`
	Fee           decimal.Decimal `json:"fee"`
	FreeThreshold decimal.Decimal `json:"free_threshold"`
	EstimatedDays int             `json:"estimated_days" binding:"min=0"`
	IsActive      *bool           `json:"is_active"`
}

// GetShippingMethods lists active methods with the fee quoted for ?subtotal= when given.
func GetShippingMethods(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var methods []models.ShippingMethod
		if err := db.Where("is_active = ?", true).Order("fee ASC").Find(&methods).Error; err != nil {
			response.ServiceError(c, err)
			return
		}

		raw := c.Query("subtotal")
		if raw == "" {
			c.JSON(http.StatusOK, methods)
			return
		}
		subtotal, err := decimal.NewFromString(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid subtotal")
			return
		}
		type quoted struct {
			models.ShippingMethod
			Quote models.Money `json:"quote"`
		}
		out := make([]quoted, 0, len(methods))
		for _, m := range methods {
			out = append(out, quoted{ShippingMethod: m, Quote: services.QuoteShipping(&m, subtotal)})
		}
		c.JSON(http.StatusOK, out)
	}
}

// GetAllShippingMethods is the back-office list.
func GetAllShippingMethods(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var methods []models.ShippingMethod
		if err := db.Order("id ASC").Find(&methods).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, methods)
	}
}

func bindShippingMethod(c *gin.Context, method *models.ShippingMethod) bool {
	var req shippingMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return false
	}
	if req.Fee.IsNegative() || req.FreeThreshold.IsNegative() {
		response.BadRequest(c, errors.New("fee and free_threshold cannot be negative"))
		return false
	}
	method.Code = strings.ToLower(strings.TrimSpace(req.Code))
	method.Name = req.Name
	method.Fee = req.Fee
	method.FreeThreshold = req.FreeThreshold
	method.EstimatedDays = req.EstimatedDays
	if req.IsActive != nil {
		method.IsActive = *req.IsActive
	}
	return true
}

func CreateShippingMethod(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := models.ShippingMethod{IsActive: true}
		if !bindShippingMethod(c, &method) {
			return
		}
		var n int64
		db.Model(&models.ShippingMethod{}).Where("code = ?", method.Code).Count(&n)
		if n > 0 {
			response.Error(c, http.StatusConflict, "Shipping method code already exists")
			return
		}
		if err := db.Create(&method).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, method)
	}
}

func UpdateShippingMethod(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var method models.ShippingMethod
		if err := db.First(&method, id).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		if !bindShippingMethod(c, &method) {
			return
		}
		var n int64
		db.Model(&models.ShippingMethod{}).Where("code = ? AND id <> ?", method.Code, method.ID).Count(&n)
		if n > 0 {
			response.Error(c, http.StatusConflict, "Shipping method code already exists")
			return
		}
		if err := db.Save(&method).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, method)
	}
}

// DeleteShippingMethod deactivates the method; orders keep referring to its code.
func DeleteShippingMethod(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		res := db.Model(&models.ShippingMethod{}).Where("id = ?", id).Update("is_active", false)
		if res.Error != nil {
			response.ServiceError(c, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			response.Error(c, http.StatusNotFound, "Shipping method not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Shipping method disabled"})
	}
}
