package userControllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/auth"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/services"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ticketInput struct {
	Subject     string                `json:"subject" binding:"required,max=200"`
	Category    string                `json:"category" binding:"omitempty,oneof=order payment product account other"`
	Priority    models.TicketPriority `json:"priority"`
	Message     string                `json:"message" binding:"required"`
	OrderNumber string                `json:"order_number"`
}

// POST /api/support/tickets
func CreateTicket(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in ticketInput
		if err := c.ShouldBindJSON(&in); err != nil {
			response.BadRequest(c, err)
			return
		}
		if in.Priority == "" {
			in.Priority = models.PriorityMedium
		}
		if !in.Priority.Valid() {
			response.Error(c, http.StatusBadRequest, "Invalid priority")
			return
		}
		if in.Category == "" {
			in.Category = "other"
		}
		userID := auth.UserID(c)

		if in.OrderNumber != "" {
			var n int64
			db.Model(&models.Order{}).Where("order_number = ? AND user_id = ?", in.OrderNumber, userID).Count(&n)
			if n == 0 {
				response.Error(c, http.StatusBadRequest, "Order not found")
				return
			}
		}

		ticket := models.SupportTicket{
			TicketNumber: services.NewTicketNumber(),
			UserID:       userID,
			OrderNumber:  in.OrderNumber,
			Subject:      strings.TrimSpace(in.Subject),
			Category:     in.Category,
			Priority:     in.Priority,
			Status:       models.TicketOpen,
			Replies:      []models.TicketReply{{AuthorID: userID, Message: in.Message}},
		}
		if err := db.Create(&ticket).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, ticket)
	}
}

// GET /api/support/tickets
func ListMyTickets(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := utils.PageFromQuery(c)
		q := db.Model(&models.SupportTicket{}).Where("user_id = ?", auth.UserID(c))
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}
		var total int64
		if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		var tickets []models.SupportTicket
		if err := q.Session(&gorm.Session{}).Scopes(page.Scope).Order("updated_at DESC").Find(&tickets).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, utils.NewPaged(tickets, total, page))
	}
}

// GET /api/support/tickets/:id
func GetMyTicket(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ticket models.SupportTicket
		if err := db.Preload("Replies", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC, id ASC")
		}).Where("id = ? AND user_id = ?", c.Param("id"), auth.UserID(c)).First(&ticket).Error; err != nil {
			response.Error(c, http.StatusNotFound, "Ticket not found")
			return
		}
		c.JSON(http.StatusOK, ticket)
	}
}

type replyInput struct {
	Message string `json:"message" binding:"required"`
}

// replyAuthor resolves who is replying. API-key callers have no user row and reply as staff.
func replyAuthor(c *gin.Context, db *gorm.DB) (*models.User, bool) {
	if auth.UserID(c) == auth.APIKeyUserID && auth.Role(c) == string(models.RoleAdmin) {
		return &models.User{ID: auth.APIKeyUserID, Role: models.RoleStaff}, true
	}
	var author models.User
	if err := db.First(&author, "id = ?", auth.UserID(c)).Error; err != nil {
		return nil, false
	}
	return &author, true
}

// ReplyToTicket serves both the owner route and the back-office route.
func ReplyToTicket(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid ticket id")
			return
		}
		var in replyInput
		if err := c.ShouldBindJSON(&in); err != nil {
			response.BadRequest(c, err)
			return
		}
		author, ok := replyAuthor(c, db)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "User not found")
			return
		}

		reply, err := services.ReplyToTicket(c.Request.Context(), db, uint(id), author, in.Message)
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, reply)
	}
}
