package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"gorm.io/gorm"
)

type ReviewInput struct {
	Rating  int
	Title   string
	Comment string
}

// CreateReview records a customer's review of a product they have received.
// Each customer may review a product once; reviews wait for moderation.
func CreateReview(ctx context.Context, db *gorm.DB, user *models.User, productID uint, in ReviewInput) (*models.ProductReview, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	db = db.WithContext(ctx)

	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var delivered int64
	if err := db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND orders.status = ? AND order_items.product_id = ?",
			user.ID, models.OrderStatusDelivered, productID).
		Count(&delivered).Error; err != nil {
		return nil, err
	}
	if delivered == 0 {
		return nil, ErrNotPurchased
	}

	var existing int64
	if err := db.Model(&models.ProductReview{}).
		Where("product_id = ? AND user_id = ?", productID, user.ID).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrAlreadyReviewed
	}

	review := models.ProductReview{
		ProductID: productID,
		UserID:    user.ID,
		UserName:  user.Name,
		Rating:    in.Rating,
		Title:     strings.TrimSpace(in.Title),
		Comment:   strings.TrimSpace(in.Comment),
	}
	if err := db.Create(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}
