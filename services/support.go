package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewTicketNumber returns TK- followed by eight upper-case characters.
func NewTicketNumber() string {
	return "TK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// ReplyToTicket appends a reply and moves the ticket: a staff reply picks up an open ticket,
// a customer reply reopens a resolved one. Closed tickets take no replies.
func ReplyToTicket(ctx context.Context, db *gorm.DB, ticketID uint, author *models.User, message string) (*models.TicketReply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrInvalidInput
	}

	var reply models.TicketReply
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ticket models.SupportTicket
		if err := tx.First(&ticket, ticketID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		staff := author.IsStaffOrAdmin()
		if !staff && ticket.UserID != author.ID {
			return ErrNotFound
		}
		if ticket.Status == models.TicketClosed {
			return ErrTicketClosed
		}

		reply = models.TicketReply{TicketID: ticket.ID, AuthorID: author.ID, IsStaff: staff, Message: message}
		if err := tx.Create(&reply).Error; err != nil {
			return err
		}

		next := ticket.Status
		switch {
		case staff && ticket.Status == models.TicketOpen:
			next = models.TicketInProgress
		case !staff && ticket.Status == models.TicketResolved:
			next = models.TicketOpen
		}
		return tx.Model(&ticket).Updates(map[string]interface{}{"status": next, "updated_at": time.Now()}).Error
	})
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

// SetTicketStatus changes the status; closing stamps ClosedAt.
func SetTicketStatus(ctx context.Context, db *gorm.DB, ticketID uint, status models.TicketStatus) (*models.SupportTicket, error) {
	if !status.Valid() {
		return nil, ErrInvalidInput
	}
	var ticket models.SupportTicket
	if err := db.WithContext(ctx).First(&ticket, ticketID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{"status": status}
	if status == models.TicketClosed {
		now := time.Now()
		updates["closed_at"] = now
		ticket.ClosedAt = &now
	}
	if err := db.WithContext(ctx).Model(&ticket).Updates(updates).Error; err != nil {
		return nil, err
	}
	ticket.Status = status
	return &ticket, nil
}
