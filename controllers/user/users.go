package userControllers

import (
	"net/http"
	"strings"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/auth"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UpdateUserInput struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=120"`
	Phone   *string `json:"phone" binding:"omitempty,max=20"`
	Picture *string `json:"picture" binding:"omitempty,max=500"`
}

// GET /api/user
func GetUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := db.Preload("Addresses", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("is_default DESC, id ASC")
		}).First(&user, "id = ?", auth.UserID(c)).Error; err != nil {
			response.Error(c, http.StatusNotFound, "User not found")
			return
		}

		resp := gin.H{"user": user}
		var seller models.SellerProfile
		if err := db.Where("user_id = ?", user.ID).First(&seller).Error; err == nil {
			resp["seller"] = seller
		}
		c.JSON(http.StatusOK, resp)
	}
}

// PUT /api/user
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := db.First(&user, "id = ?", auth.UserID(c)).Error; err != nil {
			response.Error(c, http.StatusNotFound, "User not found")
			return
		}

		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.BadRequest(c, err)
			return
		}

		updates := make(map[string]interface{})
		if input.Name != nil {
			updates["name"] = strings.TrimSpace(*input.Name)
		}
		if input.Phone != nil {
			updates["phone"] = strings.TrimSpace(*input.Phone)
		}
		if input.Picture != nil {
			updates["picture"] = *input.Picture
		}

		if len(updates) > 0 {
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				response.ServiceError(c, err)
				return
			}
		}
		c.JSON(http.StatusOK, user)
	}
}

type changePasswordInput struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// PUT /api/user/password
func ChangePassword(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input changePasswordInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.BadRequest(c, err)
			return
		}
		var user models.User
		if err := db.First(&user, "id = ?", auth.UserID(c)).Error; err != nil {
			response.Error(c, http.StatusNotFound, "User not found")
			return
		}
		if user.PasswordHash == "" || !utils.CheckPassword(user.PasswordHash, input.CurrentPassword) {
			response.Error(c, http.StatusUnauthorized, "Current password is incorrect")
			return
		}
		hash, err := utils.HashPassword(input.NewPassword)
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		if err := db.Model(&user).Update("password_hash", hash).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
	}
}

// GET /api/admin/users?search=&role=&active=
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := utils.PageFromQuery(c)
		q := db.Model(&models.User{})
		if s := strings.TrimSpace(c.Query("search")); s != "" {
			like := "%" + strings.ToLower(s) + "%"
			q = q.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ? OR phone LIKE ?", like, like, like)
		}
		if role := c.Query("role"); role != "" {
			q = q.Where("role = ?", role)
		}
		if active := c.Query("active"); active != "" {
			q = q.Where("is_active = ?", active == "true")
		}

		var total int64
		if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		var users []models.User
		if err := q.Session(&gorm.Session{}).Scopes(page.Scope).Order("created_at DESC").Find(&users).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, utils.NewPaged(users, total, page))
	}
}

type userStatusInput struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// PUT /api/admin/users/:id/status
// Admins cannot deactivate themselves.
func SetUserActive(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input userStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.BadRequest(c, err)
			return
		}
		target := c.Param("id")
		if target == auth.UserID(c) && !*input.IsActive {
			response.Error(c, http.StatusBadRequest, "You cannot deactivate your own account")
			return
		}
		res := db.Model(&models.User{}).Where("id = ?", target).Update("is_active", *input.IsActive)
		if res.Error != nil {
			response.ServiceError(c, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			response.Error(c, http.StatusNotFound, "User not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "User updated", "is_active": *input.IsActive})
	}
}

type userRoleInput struct {
	Role models.Role `json:"role" binding:"required"`
}

// PUT /api/admin/users/:id/role
// Sellers are promoted through the seller review, not here.
func SetUserRole(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input userRoleInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.BadRequest(c, err)
			return
		}
		if !input.Role.Valid() || input.Role == models.RoleSeller {
			response.Error(c, http.StatusBadRequest, "Role must be customer, staff or admin")
			return
		}
		if c.Param("id") == auth.UserID(c) {
			response.Error(c, http.StatusBadRequest, "You cannot change your own role")
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.User{}).Where("id = ?", c.Param("id")).Update("role", input.Role)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
			if input.Role != models.RoleStaff {
				return tx.Where("user_id = ?", c.Param("id")).Delete(&models.UserPermission{}).Error
			}
			return nil
		})
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Role updated", "role": input.Role})
	}
}
