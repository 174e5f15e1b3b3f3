package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/swordshop/backend/internal/services"
	"github.com/swordshop/backend/internal/utils"
)

// SupportHandler serves user reports and support tickets.
type SupportHandler struct {
	supportService *services.SupportService
}

func NewSupportHandler(supportService *services.SupportService) *SupportHandler {
	return &SupportHandler{
		supportService: supportService,
	}
}

// GET /api/reports
func (h *SupportHandler) ListReports(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	reports, total, err := h.supportService.ListReports(c.Request.Context(), utils.CurrentUser(c), params.Window())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.ListResponse(c, reports, total, params)
}

// POST /api/reports
func (h *SupportHandler) CreateReport(c *gin.Context) {
	var req services.CreateReportRequest
	if !bindJSON(c, &req) {
		return
	}

	report, err := h.supportService.CreateReport(c.Request.Context(), utils.CurrentUser(c), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.CreatedResponse(c, report)
}

// PATCH /api/reports/:id/status
func (h *SupportHandler) UpdateReportStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req services.UpdateReportStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	report, err := h.supportService.UpdateReportStatus(c.Request.Context(), utils.CurrentUser(c), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, report)
}

// GET /api/support
func (h *SupportHandler) ListTickets(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	tickets, total, err := h.supportService.ListTickets(c.Request.Context(), utils.CurrentUser(c), params.Window())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.ListResponse(c, tickets, total, params)
}

// GET /api/support/my-tickets
func (h *SupportHandler) MyTickets(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	tickets, total, err := h.supportService.MyTickets(c.Request.Context(), utils.CurrentUser(c), params.Window())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.ListResponse(c, tickets, total, params)
}

// POST /api/support
func (h *SupportHandler) CreateTicket(c *gin.Context) {
	var req services.CreateTicketRequest
	if !bindJSON(c, &req) {
		return
	}

	ticket, err := h.supportService.CreateTicket(c.Request.Context(), utils.CurrentUser(c), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.CreatedResponse(c, ticket)
}

// PATCH /api/support/:id/status
func (h *SupportHandler) UpdateTicketStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req services.UpdateTicketStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	ticket, err := h.supportService.UpdateTicketStatus(c.Request.Context(), utils.CurrentUser(c), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, ticket)
}

// GET /api/support/:id/messages
func (h *SupportHandler) ListMessages(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	messages, err := h.supportService.Messages(c.Request.Context(), utils.CurrentUser(c), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, messages)
}

// POST /api/support/:id/messages
func (h *SupportHandler) PostMessage(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req services.PostMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	msg, err := h.supportService.PostMessage(c.Request.Context(), utils.CurrentUser(c), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.CreatedResponse(c, msg)
}
