package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/cache"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// buildCategoryTree nests categories under their parents. Orphans whose parent is missing become roots.
func buildCategoryTree(flat []models.Category) []models.Category {
	byParent := make(map[uint][]models.Category)
	known := make(map[uint]bool, len(flat))
	for _, cat := range flat {
		known[cat.ID] = true
	}
	var roots []models.Category
	for _, cat := range flat {
		if cat.ParentID == nil || !known[*cat.ParentID] {
			roots = append(roots, cat)
			continue
		}
		byParent[*cat.ParentID] = append(byParent[*cat.ParentID], cat)
	}

	var attach func(nodes []models.Category) []models.Category
	attach = func(nodes []models.Category) []models.Category {
		for i := range nodes {
			nodes[i].Children = attach(byParent[nodes[i].ID])
		}
		return nodes
	}
	if roots == nil {
		roots = []models.Category{}
	}
	return attach(roots)
}

// GET /api/categories
// Returns the active category tree; ?all=true (back office) includes inactive ones.
func GetCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Order("sort_order ASC, name ASC")
		if c.Query("all") != "true" {
			query = query.Where("is_active = ?", true)
		}

		var flat []models.Category
		if err := query.Find(&flat).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to fetch categories")
			return
		}
		c.JSON(http.StatusOK, buildCategoryTree(flat))
	}
}

// GET /api/categories/:ref
// Looks the category up by id or slug and returns one page of its visible products.
func GetCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref := c.Param("ref")
		query := db
		if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
			query = query.Where("id = ?", id)
		} else {
			query = query.Where("slug = ?", ref)
		}

		var category models.Category
		if err := query.Preload("Children", "is_active = ?", true).First(&category).Error; err != nil || !category.IsActive {
			response.Error(c, http.StatusNotFound, "Category not found")
			return
		}

		page := utils.PageFromQuery(c)
		products := db.Model(&models.Product{}).
			Joins("JOIN product_categories pc ON pc.product_id = products.id").
			Where("pc.category_id = ? AND products.is_active = ? AND products.approval_status = ?",
				category.ID, true, models.ApprovalApproved)

		var total int64
		if err := products.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		var items []models.Product
		if err := products.Session(&gorm.Session{}).Scopes(page.Scope).
			Order("products.created_at DESC").Find(&items).Error; err != nil {
			response.ServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"category": category,
			"products": utils.NewPaged(items, total, page),
		})
	}
}

func parseParentID(db *gorm.DB, raw string, self uint) (*uint, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "0" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || uint(id) == self {
		return nil, false
	}
	var count int64
	db.Model(&models.Category{}).Where("id = ?", id).Count(&count)
	if count == 0 {
		return nil, false
	}
	parent := uint(id)
	return &parent, true
}

// POST /api/admin/categories
func CreateCategory(db *gorm.DB, store cache.Cache, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimSpace(c.PostForm("name"))
		if name == "" {
			response.Error(c, http.StatusBadRequest, "name is required")
			return
		}

		parentID, ok := parseParentID(db, c.PostForm("parent_id"), 0)
		if !ok {
			response.Error(c, http.StatusBadRequest, "Invalid parent_id")
			return
		}

		category := models.Category{
			Name:        name,
			Slug:        utils.Slugify(name),
			Description: c.PostForm("description"),
			ParentID:    parentID,
			IsActive:    c.DefaultPostForm("is_active", "true") == "true",
		}
		if v := c.PostForm("slug"); v != "" {
			category.Slug = utils.Slugify(v)
		}
		if v, err := strconv.Atoi(c.PostForm("sort_order")); err == nil {
			category.SortOrder = v
		}

		var taken int64
		db.Model(&models.Category{}).Where("slug = ?", category.Slug).Count(&taken)
		if taken > 0 {
			category.Slug = utils.UniqueSlug(name)
		}

		if file, err := c.FormFile("image"); err == nil {
			url, err := utils.SaveUpload(c, file, uploadDir, "categories")
			if err != nil {
				response.Error(c, http.StatusInternalServerError, "Failed to save image")
				return
			}
			category.Image = url
		}

		if err := db.Create(&category).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to create category")
			return
		}

		invalidateCatalog(c, store)
		c.JSON(http.StatusCreated, category)
	}
}

// PUT /api/admin/categories/:id
func UpdateCategory(db *gorm.DB, store cache.Cache, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		var category models.Category
		if err := db.First(&category, id).Error; err != nil {
			response.Error(c, http.StatusNotFound, "Category not found")
			return
		}

		if v := strings.TrimSpace(c.PostForm("name")); v != "" {
			category.Name = v
		}
		if v, sent := c.GetPostForm("description"); sent {
			category.Description = v
		}
		if v, sent := c.GetPostForm("parent_id"); sent {
			parentID, ok := parseParentID(db, v, category.ID)
			if !ok {
				response.Error(c, http.StatusBadRequest, "Invalid parent_id")
				return
			}
			category.ParentID = parentID
		}
		if v, err := strconv.Atoi(c.PostForm("sort_order")); err == nil {
			category.SortOrder = v
		}
		if v, sent := c.GetPostForm("is_active"); sent {
			category.IsActive = v == "true" || v == "1"
		}

		if file, err := c.FormFile("image"); err == nil {
			url, err := utils.SaveUpload(c, file, uploadDir, "categories")
			if err != nil {
				response.Error(c, http.StatusInternalServerError, "Failed to save image")
				return
			}
			utils.RemoveUpload(uploadDir, category.Image)
			category.Image = url
		}

		if err := db.Save(&category).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to update category")
			return
		}

		invalidateCatalog(c, store)
		c.JSON(http.StatusOK, category)
	}
}

// DELETE /api/admin/categories/:id
// Children are promoted to the deleted category's parent.
func DeleteCategory(db *gorm.DB, store cache.Cache, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		var category models.Category
		if err := db.First(&category, id).Error; err != nil {
			response.Error(c, http.StatusNotFound, "Category not found")
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&category).Association("Products").Clear(); err != nil {
				return err
			}
			if err := tx.Model(&models.Category{}).Where("parent_id = ?", category.ID).
				Update("parent_id", category.ParentID).Error; err != nil {
				return err
			}
			return tx.Delete(&category).Error
		})
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to delete category")
			return
		}

		utils.RemoveUpload(uploadDir, category.Image)
		invalidateCatalog(c, store)
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
	}
}
