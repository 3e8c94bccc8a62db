package adminController

import (
	"net/http"
	"strconv"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/cache"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const bannerCacheTTL = 10 * time.Minute

func invalidateBanners(c *gin.Context, store cache.Cache) {
	if err := store.DeletePrefix(c.Request.Context(), cache.PrefixBanners); err != nil {
		_ = c.Error(err)
	}
}

// applyBannerForm copies the optional multipart fields onto banner.
func applyBannerForm(c *gin.Context, banner *models.Banner) bool {
	if v, ok := c.GetPostForm("title"); ok {
		banner.Title = v
	}
	if v, ok := c.GetPostForm("link_url"); ok {
		banner.LinkURL = v
	}
	if v, ok := c.GetPostForm("position"); ok {
		banner.Position = v
	}
	if v, ok := c.GetPostForm("sort_order"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid sort_order")
			return false
		}
		banner.SortOrder = n
	}
	if v, ok := c.GetPostForm("is_active"); ok {
		banner.IsActive = v == "true" || v == "1"
	}
	for field, dst := range map[string]**time.Time{"starts_at": &banner.StartsAt, "ends_at": &banner.EndsAt} {
		v, ok := c.GetPostForm(field)
		if !ok {
			continue
		}
		t, err := parseTimeField(v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid "+field)
			return false
		}
		*dst = t
	}
	if banner.StartsAt != nil && banner.EndsAt != nil && banner.EndsAt.Before(*banner.StartsAt) {
		response.Error(c, http.StatusBadRequest, "ends_at must be after starts_at")
		return false
	}
	return true
}

// UploadBanner stores the image under the upload dir and creates the banner.
func UploadBanner(db *gorm.DB, store cache.Cache, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("image")
		if err != nil {
			response.Error(c, http.StatusBadRequest, "No image uploaded")
			return
		}

		banner := models.Banner{Position: "home_hero", IsActive: true}
		if !applyBannerForm(c, &banner) {
			return
		}

		imageURL, err := utils.SaveUpload(c, file, uploadDir, "banners")
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		banner.ImageURL = imageURL

		if err := db.Create(&banner).Error; err != nil {
			utils.RemoveUpload(uploadDir, imageURL)
			response.ServiceError(c, err)
			return
		}
		invalidateBanners(c, store)
		c.JSON(http.StatusCreated, gin.H{"message": "Banner uploaded", "data": banner})
	}
}

// UpdateBanner edits banner fields; a new image replaces the old file.
func UpdateBanner(db *gorm.DB, store cache.Cache, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var banner models.Banner
		if err := db.First(&banner, id).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		if !applyBannerForm(c, &banner) {
			return
		}

		oldImage := ""
		if file, err := c.FormFile("image"); err == nil {
			imageURL, err := utils.SaveUpload(c, file, uploadDir, "banners")
			if err != nil {
				response.ServiceError(c, err)
				return
			}
			oldImage, banner.ImageURL = banner.ImageURL, imageURL
		}

		if err := db.Save(&banner).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		if oldImage != "" {
			utils.RemoveUpload(uploadDir, oldImage)
		}
		invalidateBanners(c, store)
		c.JSON(http.StatusOK, gin.H{"message": "Banner updated", "data": banner})
	}
}

// GetBanners lists the banners live right now, optionally for one ?position=.
func GetBanners(db *gorm.DB, store cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		position := c.Query("position")
		var live []models.Banner
		err := cache.Remember(c.Request.Context(), store, cache.PrefixBanners+position, bannerCacheTTL, &live, func() (interface{}, error) {
			q := db.Where("is_active = ?", true)
			if position != "" {
				q = q.Where("position = ?", position)
			}
			var banners []models.Banner
			if err := q.Order("sort_order ASC, id ASC").Find(&banners).Error; err != nil {
				return nil, err
			}
			now := time.Now()
			out := make([]models.Banner, 0, len(banners))
			for i := range banners {
				if banners[i].Live(now) {
					out = append(out, banners[i])
				}
			}
			return out, nil
		})
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, live)
	}
}

// GetAllBanners is the back-office list, inactive and scheduled banners included.
func GetAllBanners(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var banners []models.Banner
		if err := db.Order("position ASC, sort_order ASC, id ASC").Find(&banners).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, banners)
	}
}

// DeleteBanner removes the record and its image file.
func DeleteBanner(db *gorm.DB, store cache.Cache, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var banner models.Banner
		if err := db.First(&banner, id).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		if err := db.Delete(&banner).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		utils.RemoveUpload(uploadDir, banner.ImageURL)
		invalidateBanners(c, store)
		c.JSON(http.StatusOK, gin.H{"message": "Banner deleted"})
	}
}
