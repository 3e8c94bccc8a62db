package database

import (
	"errors"
	"fmt"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/logger"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedOptions controls the bootstrap admin account.
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
}

// Seed idempotently inserts reference data and the bootstrap admin.
func Seed(db *gorm.DB, log logger.Logger, opts SeedOptions) error {
	steps := []struct {
		name string
		fn   func(*gorm.DB) error
	}{
		{"permissions", seedPermissions},
		{"categories", seedCategories},
		{"brands", seedBrands},
		{"shipping methods", seedShippingMethods},
		{"provinces", seedProvinces},
	}
	for _, step := range steps {
		if err := step.fn(db); err != nil {
			return fmt.Errorf("failed to seed %s: %w", step.name, err)
		}
		log.Info("Seeded ", step.name)
	}

	if opts.AdminEmail != "" {
		created, err := seedAdmin(db, opts)
		if err != nil {
			return fmt.Errorf("failed to seed admin: %w", err)
		}
		if created {
			log.Info("Created admin account ", opts.AdminEmail)
		}
	}
	return nil
}

func seedPermissions(db *gorm.DB) error {
	perms := make([]models.Permission, len(models.DefaultPermissions))
	copy(perms, models.DefaultPermissions)
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"description"}),
	}).Create(&perms).Error
}

func seedCategories(db *gorm.DB) error {
	roots := []struct {
		name     string
		children []string
	}{
		{"Nam", []string{"Áo Sơ Mi Nam", "Áo Polo Nam", "Quần Tây Nam", "Quần Jeans Nam"}},
		{"Nữ", []string{"Đầm", "Áo Kiểu Nữ", "Chân Váy", "Quần Nữ"}},
		{"Phụ Kiện", []string{"Thắt Lưng", "Ví", "Cà Vạt"}},
	}

	for i, root := range roots {
		parent := models.Category{Name: root.name, Slug: utils.Slugify(root.name), SortOrder: i, IsActive: true}
		if err := db.Where(models.Category{Slug: parent.Slug}).FirstOrCreate(&parent).Error; err != nil {
			return err
		}
		for j, name := range root.children {
			child := models.Category{Name: name, Slug: utils.Slugify(name), ParentID: &parent.ID, SortOrder: j, IsActive: true}
			if err := db.Where(models.Category{Slug: child.Slug}).FirstOrCreate(&child).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func seedBrands(db *gorm.DB) error {
	for _, name := range []string{"John Henry", "Freelancer"} {
		brand := models.Brand{Name: name, Slug: utils.Slugify(name), IsActive: true}
		if err := db.Where(models.Brand{Slug: brand.Slug}).FirstOrCreate(&brand).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedShippingMethods(db *gorm.DB) error {
	methods := []models.ShippingMethod{
		{Code: "standard", Name: "Giao hàng tiêu chuẩn", Fee: models.NewMoney(30000), FreeThreshold: models.NewMoney(500000), EstimatedDays: 4, IsActive: true},
		{Code: "express", Name: "Giao hàng nhanh", Fee: models.NewMoney(50000), EstimatedDays: 1, IsActive: true},
	}
	for i := range methods {
		if err := db.Where(models.ShippingMethod{Code: methods[i].Code}).FirstOrCreate(&methods[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedProvinces(db *gorm.DB) error {
	provinces := []models.Province{
		{Code: "01", Name: "Thành phố Hà Nội"},
		{Code: "48", Name: "Thành phố Đà Nẵng"},
		{Code: "79", Name: "Thành phố Hồ Chí Minh"},
	}
	districts := []models.District{
		{Code: "001", ProvinceCode: "01", Name: "Quận Ba Đình"},
		{Code: "002", ProvinceCode: "01", Name: "Quận Hoàn Kiếm"},
		{Code: "490", ProvinceCode: "48", Name: "Quận Liên Chiểu"},
		{Code: "760", ProvinceCode: "79", Name: "Quận 1"},
		{Code: "769", ProvinceCode: "79", Name: "Thành phố Thủ Đức"},
	}
	wards := []models.Ward{
		{Code: "00001", DistrictCode: "001", Name: "Phường Phúc Xá"},
		{Code: "00037", DistrictCode: "002", Name: "Phường Phúc Tân"},
		{Code: "20194", DistrictCode: "490", Name: "Phường Hòa Hiệp Bắc"},
		{Code: "26734", DistrictCode: "760", Name: "Phường Tân Định"},
		{Code: "26737", DistrictCode: "760", Name: "Phường Đa Kao"},
		{Code: "26794", DistrictCode: "769", Name: "Phường Linh Xuân"},
	}

	onConflict := clause.OnConflict{DoNothing: true}
	if err := db.Clauses(onConflict).Create(&provinces).Error; err != nil {
		return err
	}
	if err := db.Clauses(onConflict).Create(&districts).Error; err != nil {
		return err
	}
	return db.Clauses(onConflict).Create(&wards).Error
}

func seedAdmin(db *gorm.DB, opts SeedOptions) (bool, error) {
	var existing models.User
	err := db.Where("email = ?", opts.AdminEmail).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if len(opts.AdminPassword) < 8 {
		return false, errors.New("admin password must be at least 8 characters")
	}

	hash, err := utils.HashPassword(opts.AdminPassword)
	if err != nil {
		return false, err
	}
	admin := models.User{
		ID:           uuid.NewString(),
		Email:        opts.AdminEmail,
		PasswordHash: hash,
		Name:         "Administrator",
		Provider:     "local",
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	return true, db.Create(&admin).Error
}
