// internal/handlers/user.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/swordshop/backend/internal/services"
	"github.com/swordshop/backend/internal/utils"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GET /api/users/:id
func (h *UserHandler) GetProfile(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	profile, err := h.userService.Profile(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, profile)
}

// GET /api/categories
func (h *UserHandler) ListCategories(c *gin.Context) {
	categories, err := h.userService.Categories(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, categories)
}

// POST /api/categories
func (h *UserHandler) CreateCategory(c *gin.Context) {
	var req services.CreateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.userService.CreateCategory(c.Request.Context(), utils.CurrentUser(c), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.CreatedResponse(c, category)
}
