package adminController

import (
	"errors"
	"net/http"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/auth"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/services"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type couponRequest struct {
	Code           string            `json:"code" binding:"required,max=40"`
	Description    string            `json:"description"`
	Type           models.CouponType `json:"type" binding:"required,oneof=percent fixed"`
	Value          decimal.Decimal   `json:"value"`
	MinOrderAmount decimal.Decimal   `json:"min_order_amount"`
	MaxDiscount    decimal.Decimal   `json:"max_discount"`
	StartsAt       *time.Time        `json:"starts_at"`
	EndsAt         *time.Time        `json:"ends_at"`
	UsageLimit     int               `json:"usage_limit" binding:"min=0"`
	PerUserLimit   int               `json:"per_user_limit" binding:"min=0"`
	IsActive       *bool             `json:"is_active"`
}

func (r couponRequest) validate() error {
	if !r.Value.IsPositive() {
		return errors.New("value must be positive")
	}
	if r.Type == models.CouponPercent && r.Value.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("percent value cannot exceed 100")
	}
	if r.MinOrderAmount.IsNegative() || r.MaxDiscount.IsNegative() {
		return errors.New("amounts cannot be negative")
	}
	if r.StartsAt != nil && r.EndsAt != nil && r.EndsAt.Before(*r.StartsAt) {
		return errors.New("ends_at must be after starts_at")
	}
	return nil
}

func (r couponRequest) apply(coupon *models.Coupon) {
	coupon.Code = services.NormalizeCouponCode(r.Code)
	coupon.Description = r.Description
	coupon.Type = r.Type
	coupon.Value = r.Value
	coupon.MinOrderAmount = r.MinOrderAmount
	coupon.MaxDiscount = r.MaxDiscount
	coupon.StartsAt = r.StartsAt
	coupon.EndsAt = r.EndsAt
	coupon.UsageLimit = r.UsageLimit
	coupon.PerUserLimit = r.PerUserLimit
	if r.IsActive != nil {
		coupon.IsActive = *r.IsActive
	}
}

func codeTaken(db *gorm.DB, code string, exceptID uint) (bool, error) {
	var n int64
	err := db.Model(&models.Coupon{}).Where("code = ? AND id <> ?", code, exceptID).Count(&n).Error
	return n > 0, err
}

// GET /api/admin/coupons?active=
func GetCoupons(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := utils.PageFromQuery(c)
		q := db.Model(&models.Coupon{})
		if v := c.Query("active"); v != "" {
			q = q.Where("is_active = ?", v == "true")
		}
		var total int64
		if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		var coupons []models.Coupon
		if err := q.Session(&gorm.Session{}).Scopes(page.Scope).Order("created_at DESC").Find(&coupons).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, utils.NewPaged(coupons, total, page))
	}
}

func CreateCoupon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req couponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err)
			return
		}
		if err := req.validate(); err != nil {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}

		coupon := models.Coupon{IsActive: true}
		req.apply(&coupon)
		if taken, err := codeTaken(db, coupon.Code, 0); err != nil {
			response.ServiceError(c, err)
			return
		} else if taken {
			response.Error(c, http.StatusConflict, "Coupon code already exists")
			return
		}
		if err := db.Create(&coupon).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, coupon)
	}
}

func UpdateCoupon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var coupon models.Coupon
		if err := db.First(&coupon, id).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		var req couponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err)
			return
		}
		if err := req.validate(); err != nil {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}

		req.apply(&coupon)
		if taken, err := codeTaken(db, coupon.Code, coupon.ID); err != nil {
			response.ServiceError(c, err)
			return
		} else if taken {
			response.Error(c, http.StatusConflict, "Coupon code already exists")
			return
		}
		if err := db.Save(&coupon).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, coupon)
	}
}

// DeleteCoupon removes an unused coupon; redeemed coupons are deactivated instead.
func DeleteCoupon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var coupon models.Coupon
		if err := db.First(&coupon, id).Error; err != nil {
			response.ServiceError(c, err)
			return
		}

		var used int64
		if err := db.Model(&models.CouponUsage{}).Where("coupon_id = ?", coupon.ID).Count(&used).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		if used > 0 {
			if err := db.Model(&coupon).Update("is_active", false).Error; err != nil {
				response.ServiceError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "Coupon has been redeemed and was deactivated"})
			return
		}
		if err := db.Delete(&coupon).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Coupon deleted"})
	}
}

type validateCouponRequest struct {
	Code     string          `json:"code" binding:"required"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// POST /api/coupons/validate
// Quotes the discount without redeeming the coupon.
func ValidateCoupon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validateCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err)
			return
		}
		userID := ""
		if !auth.IsGuest(c) {
			userID = auth.UserID(c)
		}

		coupon, discount, err := services.ApplyCoupon(db, req.Code, userID, req.Subtotal, time.Now(), false)
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"valid":    true,
			"code":     coupon.Code,
			"type":     coupon.Type,
			"value":    coupon.Value,
			"discount": discount,
		})
	}
}
