package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"gorm.io/gorm"
)

// ReviewProduct approves or rejects a pending product. Rejection requires a note.
func ReviewProduct(ctx context.Context, db *gorm.DB, productID uint, decision models.ApprovalStatus, note, reviewer string) (*models.Product, error) {
	if decision != models.ApprovalApproved && decision != models.ApprovalRejected {
		return nil, fmt.Errorf("%w: decision must be approved or rejected", ErrInvalidInput)
	}
	if decision == models.ApprovalRejected && strings.TrimSpace(note) == "" {
		return nil, ErrRejectionNote
	}

	var product models.Product
	if err := db.WithContext(ctx).First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !product.ApprovalStatus.CanTransitionTo(decision) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, product.ApprovalStatus, decision)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"approval_status": decision,
		"reviewed_at":     now,
		"reviewed_by":     reviewer,
		"rejection_note":  "",
	}
	if decision == models.ApprovalRejected {
		updates["rejection_note"] = note
	}
	if err := db.WithContext(ctx).Model(&product).Updates(updates).Error; err != nil {
		return nil, err
	}
	product.ApprovalStatus = decision
	product.ReviewedAt = &now
	product.ReviewedBy = reviewer
	product.RejectionNote = updates["rejection_note"].(string)
	return &product, nil
}

// SubmitForReview moves a seller's product back into the review queue after an edit.
func SubmitForReview(tx *gorm.DB, product *models.Product) error {
	if product.ApprovalStatus == models.ApprovalPending {
		return nil
	}
	if !product.ApprovalStatus.CanTransitionTo(models.ApprovalPending) {
		return ErrInvalidTransition
	}
	now := time.Now()
	product.ApprovalStatus = models.ApprovalPending
	product.SubmittedAt = &now
	return tx.Model(product).Updates(map[string]interface{}{
		"approval_status": models.ApprovalPending,
		"submitted_at":    now,
	}).Error
}

// ReviewSeller approves, rejects or suspends a seller application and adjusts the user's role.
func ReviewSeller(ctx context.Context, db *gorm.DB, userID string, status models.SellerStatus, note string) (*models.SellerProfile, error) {
	var profile models.SellerProfile
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).First(&profile).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		allowed := map[models.SellerStatus][]models.SellerStatus{
			models.SellerStatusPending:   {models.SellerStatusApproved, models.SellerStatusRejected},
			models.SellerStatusApproved:  {models.SellerStatusSuspended},
			models.SellerStatusSuspended: {models.SellerStatusApproved},
			models.SellerStatusRejected:  {models.SellerStatusPending},
		}
		ok := false
		for _, s := range allowed[profile.Status] {
			if s == status {
				ok = true
			}
		}
		if !ok {
			return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, profile.Status, status)
		}
		if status == models.SellerStatusRejected && strings.TrimSpace(note) == "" {
			return ErrRejectionNote
		}

		updates := map[string]interface{}{"status": status, "review_note": note}
		role := models.RoleCustomer
		if status == models.SellerStatusApproved {
			now := time.Now()
			updates["approved_at"] = now
			profile.ApprovedAt = &now
			role = models.RoleSeller
		}
		if err := tx.Model(&profile).Updates(updates).Error; err != nil {
			return err
		}

		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}
		// staff and admins keep their role
		if user.Role == models.RoleCustomer || user.Role == models.RoleSeller {
			if err := tx.Model(&user).Update("role", role).Error; err != nil {
				return err
			}
		}
		if status == models.SellerStatusSuspended {
			if err := tx.Model(&models.Product{}).Where("seller_id = ?", userID).
				Update("is_active", false).Error; err != nil {
				return err
			}
		}

		profile.Status = status
		profile.ReviewNote = note
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
