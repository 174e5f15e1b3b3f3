// internal/handlers/admin.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/swordshop/backend/internal/services"
	"github.com/swordshop/backend/internal/utils"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// GET /api/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, total, err := h.adminService.ListUsers(c.Request.Context(), utils.CurrentUser(c), params.Window())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.ListResponse(c, users, total, params)
}

// GET /api/admin/statistics
func (h *AdminHandler) Statistics(c *gin.Context) {
	stats, err := h.adminService.Statistics(c.Request.Context(), utils.CurrentUser(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, stats)
}

// GET /api/admin/activity?limit=N&action=...
func (h *AdminHandler) RecentActivity(c *gin.Context) {
	// A malformed limit falls back to the default.
	limit, _ := strconv.Atoi(c.Query("limit"))
	query := services.ActivityQuery{
		Actions: c.QueryArray("action"),
		Limit:   limit,
	}

	entries, err := h.adminService.RecentActivity(c.Request.Context(), utils.CurrentUser(c), query)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, entries)
}
