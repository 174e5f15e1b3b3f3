// internal/utils/pagination.go
package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/swordshop/backend/internal/repository"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// PaginationParams is the window a list request asked for. Limit is zero
// when the client sent neither page nor limit, which selects every row.
type PaginationParams struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func GetPaginationParams(c *gin.Context) PaginationParams {
	pageRaw, hasPage := c.GetQuery("page")
	limitRaw, hasLimit := c.GetQuery("limit")
	if !hasPage && !hasLimit {
		return PaginationParams{Page: 1}
	}

	page, _ := strconv.Atoi(pageRaw)
	limit, _ := strconv.Atoi(limitRaw)

	// Validate and set defaults
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageLimit {
		limit = defaultPageLimit
	}

	return PaginationParams{Page: page, Limit: limit}
}

// Window converts the params into the repository page selector.
func (p PaginationParams) Window() repository.Page {
	return repository.Page{Page: p.Page, Limit: p.Limit}
}

func SetPaginationHeaders(c *gin.Context, total int64, params PaginationParams) {
	perPage := params.Limit
	totalPages := 0
	switch {
	case params.Limit > 0:
		totalPages = int(math.Ceil(float64(total) / float64(params.Limit)))
	case total > 0:
		perPage = int(total)
		totalPages = 1
	}

	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	c.Header("X-Page", strconv.Itoa(params.Page))
	c.Header("X-Per-Page", strconv.Itoa(perPage))
	c.Header("X-Total-Pages", strconv.Itoa(totalPages))
}
