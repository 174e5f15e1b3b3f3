// internal/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/swordshop/backend/internal/apperrors"
	"github.com/swordshop/backend/internal/i18n"
	"github.com/swordshop/backend/internal/models"
)

// Context keys shared by middleware and handlers.
const (
	ContextKeyLang    = "lang"
	ContextKeyUser    = "user"
	ContextKeyUserID  = "user_id"
	ContextKeyToken   = "session_token"
	ContextKeyErrCode = "error_code"
)

type MessageBody struct {
	Message string `json:"message"`
}

type ErrorBody struct {
	Error string `json:"error"`
}

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// MessageResponse writes {"message": ...} translated for the caller.
func MessageResponse(c *gin.Context, key string, args ...interface{}) {
	c.JSON(http.StatusOK, MessageBody{Message: i18n.T(GetLangFromContext(c), key, args...)})
}

// ListResponse writes items as a bare array with the pagination headers set.
func ListResponse(c *gin.Context, items interface{}, total int64, params PaginationParams) {
	SetPaginationHeaders(c, total, params)
	c.JSON(http.StatusOK, items)
}

// HandleError maps err onto its HTTP status and writes {"error": ...}.
// Internal causes are logged and never sent to the client.
func HandleError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	lang := GetLangFromContext(c)

	if appErr.Status >= http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"code":   appErr.Code,
		}).WithError(appErr.Err).Error("Request failed")
	}

	c.Set(ContextKeyErrCode, appErr.Code)
	c.AbortWithStatusJSON(appErr.Status, ErrorBody{
		Error: i18n.T(lang, appErr.Message, appErr.Args...),
	})
}

func GetLangFromContext(c *gin.Context) string {
	if lang, exists := c.Get(ContextKeyLang); exists {
		if langStr, ok := lang.(string); ok {
			return langStr
		}
	}
	return i18n.DefaultLanguage()
}

func SetCurrentUser(c *gin.Context, user *models.User, token string) {
	c.Set(ContextKeyUser, user)
	c.Set(ContextKeyUserID, user.ID.String())
	c.Set(ContextKeyToken, token)
}

// CurrentUser returns the authenticated caller, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	if user, exists := c.Get(ContextKeyUser); exists {
		if u, ok := user.(*models.User); ok {
			return u
		}
	}
	return nil
}

func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userID, exists := c.Get(ContextKeyUserID); exists {
		if userIDStr, ok := userID.(string); ok {
			return userIDStr, true
		}
	}
	return "", false
}

func GetSessionToken(c *gin.Context) string {
	return c.GetString(ContextKeyToken)
}
