// Package handlers adapts HTTP requests to the service layer. Handlers bind
// and parse input, call one service operation, and write its result; every
// failure goes through utils.HandleError.
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/swordshop/backend/internal/apperrors"
	"github.com/swordshop/backend/internal/i18n"
	"github.com/swordshop/backend/internal/utils"
)

// pathID parses the :id route parameter.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	return parseID(c, c.Param("id"))
}

func parseID(c *gin.Context, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.HandleError(c, apperrors.Validation(i18n.KeyValidationInvalidID, err))
		return uuid.Nil, false
	}
	return id, true
}

// optionalID parses a query parameter holding an id. An absent parameter
// yields nil.
func optionalID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, ok := parseID(c, raw)
	if !ok {
		return nil, false
	}
	return &id, true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.HandleError(c, utils.BindFailure(err))
		return false
	}
	return true
}
