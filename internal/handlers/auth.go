// internal/handlers/auth.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/swordshop/backend/internal/apperrors"
	"github.com/swordshop/backend/internal/config"
	"github.com/swordshop/backend/internal/i18n"
	"github.com/swordshop/backend/internal/models"
	"github.com/swordshop/backend/internal/services"
	"github.com/swordshop/backend/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
	cookie      config.SessionConfig
}

// sessionResponse is the signed-in user plus the session token for clients
// that send it as a bearer token instead of the cookie.
type sessionResponse struct {
	*models.User
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func NewAuthHandler(authService *services.AuthService, cookie config.SessionConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
	}
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	h.setSessionCookie(c, result)
	utils.CreatedResponse(c, sessionResponse{User: result.User, Token: result.Token, ExpiresAt: result.ExpiresAt})
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	h.login(c, h.authService.Login)
}

// POST /api/auth/admin/login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	h.login(c, h.authService.AdminLogin)
}

func (h *AuthHandler) login(c *gin.Context, authenticate func(ctx context.Context, req *services.LoginRequest) (*services.AuthResult, error)) {
	var req services.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := authenticate(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	h.setSessionCookie(c, result)
	utils.SuccessResponse(c, sessionResponse{User: result.User, Token: result.Token, ExpiresAt: result.ExpiresAt})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user := utils.CurrentUser(c)
	if user == nil {
		utils.HandleError(c, apperrors.Unauthenticated(i18n.KeyAuthRequired))
		return
	}
	utils.SuccessResponse(c, user)
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), utils.GetSessionToken(c)); err != nil {
		utils.HandleError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, "", -1, "/", "", h.cookie.Secure, true)
	utils.MessageResponse(c, i18n.KeyAuthLogoutSuccess)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, result *services.AuthResult) {
	maxAge := int(time.Until(result.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, result.Token, maxAge, "/", "", h.cookie.Secure, true)
}
