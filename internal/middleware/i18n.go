// internal/middleware/i18n.go
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/swordshop/backend/internal/i18n"
	"github.com/swordshop/backend/internal/utils"
)

// I18nMiddleware picks the response locale from Accept-Language.
func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(utils.ContextKeyLang, i18n.Normalize(c.GetHeader("Accept-Language")))
		c.Next()
	}
}
