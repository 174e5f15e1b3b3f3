// internal/middleware/auth.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/swordshop/backend/internal/apperrors"
	"github.com/swordshop/backend/internal/i18n"
	"github.com/swordshop/backend/internal/models"
	"github.com/swordshop/backend/internal/utils"
)

// ResolveFunc turns a session token into the user it belongs to.
type ResolveFunc func(c *gin.Context, token string) (*models.User, error)

// Auth carries the session cookie name and the resolver shared by the
// authentication middleware.
type Auth struct {
	cookieName string
	resolve    ResolveFunc
}

// NewAuth builds the middleware set. resolve is usually
// AuthorizationService.Resolve bound to the request context.
func NewAuth(cookieName string, resolve ResolveFunc) *Auth {
	return &Auth{cookieName: cookieName, resolve: resolve}
}

// Token extracts the session token from the cookie, falling back to an
// "Authorization: Bearer" header.
func (a *Auth) Token(c *gin.Context) string {
	if cookie, err := c.Cookie(a.cookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func (a *Auth) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := a.Token(c)
		if token == "" {
			utils.HandleError(c, apperrors.Unauthenticated(i18n.KeyAuthRequired))
			return
		}

		user, err := a.resolve(c, token)
		if err != nil {
			utils.HandleError(c, err)
			return
		}

		utils.SetCurrentUser(c, user, token)
		c.Next()
	}
}

// AdminRequired must run after Required.
func (a *Auth) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := utils.CurrentUser(c)
		if user == nil {
			utils.HandleError(c, apperrors.Unauthenticated(i18n.KeyAuthRequired))
			return
		}
		if !user.IsAdmin {
			utils.HandleError(c, apperrors.Forbidden(i18n.KeyAdminRequired))
			return
		}
		c.Next()
	}
}

// Optional resolves the caller when a valid token is present and lets
// anonymous requests through otherwise.
func (a *Auth) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := a.Token(c)
		if token == "" {
			c.Next()
			return
		}

		if user, err := a.resolve(c, token); err == nil {
			utils.SetCurrentUser(c, user, token)
		}
		c.Next()
	}
}
