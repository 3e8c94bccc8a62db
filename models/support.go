package models

import "time"

type TicketStatus string
type TicketPriority string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketResolved   TicketStatus = "resolved"
	TicketClosed     TicketStatus = "closed"

	PriorityLow    TicketPriority = "low"
	PriorityMedium TicketPriority = "medium"
	PriorityHigh   TicketPriority = "high"
	PriorityUrgent TicketPriority = "urgent"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketOpen, TicketInProgress, TicketResolved, TicketClosed:
		return true
	}
	return false
}

func (p TicketPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type SupportTicket struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	TicketNumber string         `gorm:"uniqueIndex;not null" json:"ticket_number"`
	UserID       string         `gorm:"index;size:64;not null" json:"user_id"`
	OrderNumber  string         `json:"order_number,omitempty"`
	Subject      string         `gorm:"not null" json:"subject"`
	Category     string         `json:"category"` // order, payment, product, account, other
	Priority     TicketPriority `gorm:"type:varchar(10);not null;index" json:"priority"`
	Status       TicketStatus   `gorm:"type:varchar(20);not null;index" json:"status"`
	AssignedTo   *string        `gorm:"index;size:64" json:"assigned_to,omitempty"`
	Replies      []TicketReply  `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE" json:"replies,omitempty"`
	ClosedAt     *time.Time     `json:"closed_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

type TicketReply struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TicketID  uint      `gorm:"index;not null" json:"ticket_id"`
	AuthorID  string    `gorm:"size:64;not null" json:"author_id"`
	IsStaff   bool      `json:"is_staff"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
