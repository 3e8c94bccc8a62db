package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type sellerApplication struct {
	ShopName    string `json:"shop_name" binding:"required"`
	Description string `json:"description"`
	Phone       string `json:"phone" binding:"required"`
	TaxCode     string `json:"tax_code"`
	BankName    string `json:"bank_name"`
	BankAccount string `json:"bank_account"`
}

// POST /auth/seller/apply
// A rejected application may be resubmitted; anything else is a conflict.
func ApplySeller(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sellerApplication
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err)
			return
		}
		userID := UserID(c)

		var profile models.SellerProfile
		err := db.Where("user_id = ?", userID).First(&profile).Error
		switch {
		case err == nil && profile.Status != models.SellerStatusRejected:
			response.Error(c, http.StatusConflict, "Seller application already exists")
			return
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			response.ServiceError(c, err)
			return
		}

		profile.UserID = userID
		profile.ShopName = strings.TrimSpace(req.ShopName)
		profile.Description = req.Description
		profile.Phone = req.Phone
		profile.TaxCode = req.TaxCode
		profile.BankName = req.BankName
		profile.BankAccount = req.BankAccount
		profile.Status = models.SellerStatusPending
		profile.ReviewNote = ""
		if profile.Slug == "" {
			profile.Slug = utils.UniqueSlug(profile.ShopName)
		}

		if err := db.Save(&profile).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Application submitted", "seller": profile})
	}
}
