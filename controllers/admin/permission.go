package adminController

import (
	"net/http"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/auth"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func GetPermissions(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var perms []models.Permission
		if err := db.Order("code ASC").Find(&perms).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, perms)
	}
}

// GET /api/admin/users/:id/permissions
func GetUserPermissions(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var grants []models.UserPermission
		if err := db.Preload("Permission").Where("user_id = ?", c.Param("id")).
			Order("id ASC").Find(&grants).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		codes := make([]string, 0, len(grants))
		for _, g := range grants {
			codes = append(codes, g.Permission.Code)
		}
		c.JSON(http.StatusOK, gin.H{"user_id": c.Param("id"), "permissions": codes, "grants": grants})
	}
}

type grantRequest struct {
	Code string `json:"code" binding:"required"`
}

func lookupGrant(c *gin.Context, db *gorm.DB) (*models.User, *models.Permission, bool) {
	var req grantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return nil, nil, false
	}
	var user models.User
	if err := db.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		response.ServiceError(c, err)
		return nil, nil, false
	}
	var perm models.Permission
	if err := db.Where("code = ?", req.Code).First(&perm).Error; err != nil {
		response.Error(c, http.StatusBadRequest, "Unknown permission "+req.Code)
		return nil, nil, false
	}
	return &user, &perm, true
}

// POST /api/admin/users/:id/permissions
// Permissions only apply to staff; admins bypass checks.
func GrantPermission(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, perm, ok := lookupGrant(c, db)
		if !ok {
			return
		}
		if user.Role != models.RoleStaff {
			response.Error(c, http.StatusBadRequest, "Permissions can only be granted to staff")
			return
		}
		grant := models.UserPermission{UserID: user.ID, PermissionID: perm.ID, GrantedBy: auth.UserID(c)}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&grant).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Permission granted", "code": perm.Code})
	}
}

// DELETE /api/admin/users/:id/permissions
func RevokePermission(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, perm, ok := lookupGrant(c, db)
		if !ok {
			return
		}
		res := db.Where("user_id = ? AND permission_id = ?", user.ID, perm.ID).Delete(&models.UserPermission{})
		if res.Error != nil {
			response.ServiceError(c, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			response.Error(c, http.StatusNotFound, "Permission not granted")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Permission revoked", "code": perm.Code})
	}
}
