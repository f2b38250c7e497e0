package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type Pagination struct {
	Page  int
	Limit int
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// parsePagination reads page/limit query params. Bad or missing values fall
// back to defaults rather than erroring; limit is clamped to maxPageSize.
func parsePagination(ctx *gin.Context) Pagination {
	page, err := strconv.Atoi(ctx.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(ctx.Query("limit"))
	if err != nil || limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	return Pagination{Page: page, Limit: limit}
}

// optionalQuery returns a pointer to the trimmed query value, or nil when
// the param is absent or blank.
func optionalQuery(ctx *gin.Context, name string) *string {
	v := strings.TrimSpace(ctx.Query(name))
	if v == "" {
		return nil
	}
	return &v
}

func listEnvelope(items any, total int, p Pagination) gin.H {
	return gin.H{
		"items": items,
		"total": total,
		"page":  p.Page,
		"limit": p.Limit,
	}
}
