package userControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/auth"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/cache"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const regionCacheTTL = 24 * time.Hour

type addressInput struct {
	models.AddressSnapshot
	IsDefault bool `json:"is_default"`
}

func ownAddress(c *gin.Context, db *gorm.DB) (*models.Address, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid address id")
		return nil, false
	}
	var addr models.Address
	if err := db.Where("id = ? AND user_id = ?", id, auth.UserID(c)).First(&addr).Error; err != nil {
		response.Error(c, http.StatusNotFound, "Address not found")
		return nil, false
	}
	return &addr, true
}

func clearDefault(tx *gorm.DB, userID string, exceptID uint) error {
	return tx.Model(&models.Address{}).
		Where("user_id = ? AND id <> ? AND is_default = ?", userID, exceptID, true).
		Update("is_default", false).Error
}

func fillAddress(addr *models.Address, in addressInput) {
	addr.FullName = in.FullName
	addr.Phone = in.Phone
	addr.Line1 = in.Line1
	addr.Ward = in.Ward
	addr.District = in.District
	addr.Province = in.Province
	addr.PostalCode = in.PostalCode
	addr.Country = in.Country
	if addr.Country == "" {
		addr.Country = "VN"
	}
}

// GET /api/addresses
func ListAddresses(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var addrs []models.Address
		if err := db.Where("user_id = ?", auth.UserID(c)).Order("is_default DESC, id ASC").Find(&addrs).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, addrs)
	}
}

// POST /api/addresses
// The first address becomes the default.
func CreateAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in addressInput
		if err := c.ShouldBindJSON(&in); err != nil {
			response.BadRequest(c, err)
			return
		}
		userID := auth.UserID(c)
		addr := models.Address{UserID: userID}
		fillAddress(&addr, in)

		err := db.Transaction(func(tx *gorm.DB) error {
			var existing int64
			if err := tx.Model(&models.Address{}).Where("user_id = ?", userID).Count(&existing).Error; err != nil {
				return err
			}
			addr.IsDefault = in.IsDefault || existing == 0
			if err := tx.Create(&addr).Error; err != nil {
				return err
			}
			if addr.IsDefault {
				return clearDefault(tx, userID, addr.ID)
			}
			return nil
		})
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, addr)
	}
}

// PUT /api/addresses/:id
func UpdateAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		addr, ok := ownAddress(c, db)
		if !ok {
			return
		}
		var in addressInput
		if err := c.ShouldBindJSON(&in); err != nil {
			response.BadRequest(c, err)
			return
		}
		fillAddress(addr, in)
		if in.IsDefault {
			addr.IsDefault = true
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Save(addr).Error; err != nil {
				return err
			}
			if addr.IsDefault {
				return clearDefault(tx, addr.UserID, addr.ID)
			}
			return nil
		})
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, addr)
	}
}

// PUT /api/addresses/:id/default
func SetDefaultAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		addr, ok := ownAddress(c, db)
		if !ok {
			return
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(addr).Update("is_default", true).Error; err != nil {
				return err
			}
			return clearDefault(tx, addr.UserID, addr.ID)
		})
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		addr.IsDefault = true
		c.JSON(http.StatusOK, addr)
	}
}

// DELETE /api/addresses/:id
// Deleting the default promotes the oldest remaining address.
func DeleteAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		addr, ok := ownAddress(c, db)
		if !ok {
			return
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(addr).Error; err != nil {
				return err
			}
			if !addr.IsDefault {
				return nil
			}
			var next models.Address
			err := tx.Where("user_id = ?", addr.UserID).Order("id ASC").First(&next).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			return tx.Model(&next).Update("is_default", true).Error
		})
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
	}
}

// GET /api/AddressApi/provinces
func GetProvinces(db *gorm.DB, store cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var provinces []models.Province
		err := cache.Remember(c.Request.Context(), store, cache.PrefixAddress+"provinces", regionCacheTTL, &provinces, func() (interface{}, error) {
			var out []models.Province
			err := db.Order("name ASC").Find(&out).Error
			return out, err
		})
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, provinces)
	}
}

// GET /api/AddressApi/districts?province_code=
func GetDistricts(db *gorm.DB, store cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Query("province_code")
		if code == "" {
			response.Error(c, http.StatusBadRequest, "province_code is required")
			return
		}
		var districts []models.District
		err := cache.Remember(c.Request.Context(), store, cache.PrefixAddress+"districts:"+code, regionCacheTTL, &districts, func() (interface{}, error) {
			var out []models.District
			err := db.Where("province_code = ?", code).Order("name ASC").Find(&out).Error
			return out, err
		})
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, districts)
	}
}

// GET /api/AddressApi/wards?district_code=
func GetWards(db *gorm.DB, store cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Query("district_code")
		if code == "" {
			response.Error(c, http.StatusBadRequest, "district_code is required")
			return
		}
		var wards []models.Ward
		err := cache.Remember(c.Request.Context(), store, cache.PrefixAddress+"wards:"+code, regionCacheTTL, &wards, func() (interface{}, error) {
			var out []models.Ward
			err := db.Where("district_code = ?", code).Order("name ASC").Find(&out).Error
			return out, err
		})
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, wards)
	}
}
