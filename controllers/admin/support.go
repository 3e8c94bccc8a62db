package adminController

import (
	"net/http"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/auth"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/services"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GET /api/admin/tickets?status=&priority=&assigned_to=
func ListTickets(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := utils.PageFromQuery(c)
		q := db.Model(&models.SupportTicket{})
		if v := c.Query("status"); v != "" {
			q = q.Where("status = ?", v)
		}
		if v := c.Query("priority"); v != "" {
			q = q.Where("priority = ?", v)
		}
		switch v := c.Query("assigned_to"); v {
		case "":
		case "none":
			q = q.Where("assigned_to IS NULL")
		case "me":
			q = q.Where("assigned_to = ?", auth.UserID(c))
		default:
			q = q.Where("assigned_to = ?", v)
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

func GetTicket(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var ticket models.SupportTicket
		if err := db.Preload("Replies", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC, id ASC")
		}).First(&ticket, id).Error; err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, ticket)
	}
}

type assignRequest struct {
	AssignedTo *string `json:"assigned_to"`
}

// AssignTicket hands the ticket to a staff member; null unassigns.
func AssignTicket(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var req assignRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err)
			return
		}
		if req.AssignedTo != nil {
			var staff models.User
			if err := db.First(&staff, "id = ?", *req.AssignedTo).Error; err != nil {
				response.ServiceError(c, err)
				return
			}
			if !staff.IsStaffOrAdmin() {
				response.Error(c, http.StatusBadRequest, "Tickets can only be assigned to staff")
				return
			}
		}

		res := db.Model(&models.SupportTicket{}).Where("id = ?", id).Update("assigned_to", req.AssignedTo)
		if res.Error != nil {
			response.ServiceError(c, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			response.Error(c, http.StatusNotFound, "Ticket not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Ticket assigned"})
	}
}

type ticketStatusRequest struct {
	Status models.TicketStatus `json:"status" binding:"required"`
}

func SetTicketStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var req ticketStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err)
			return
		}
		ticket, err := services.SetTicketStatus(c.Request.Context(), db, id, req.Status)
		if err != nil {
			response.ServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": ticket})
	}
}
