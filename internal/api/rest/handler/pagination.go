package handler

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

// PaginationParams holds pagination parameters
type PaginationParams struct {
	Page     int
	PageSize int
}

// ParsePagination parses pagination parameters from context. A missing or
// invalid page_size is left as 0 so the caller can apply its own default.
// "limit" is accepted as an alias of page_size.
func ParsePagination(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	sizeStr := c.Query("page_size")
	if sizeStr == "" {
		sizeStr = c.Query("limit")
	}
	pageSize, _ := strconv.Atoi(sizeStr)

	if page < 1 {
		page = 1
	}
	if pageSize < 0 {
		pageSize = 0
	}

	return PaginationParams{
		Page:     page,
		PageSize: pageSize,
	}
}

// ClampPage bounds Page so the row offset of the last page fits in an int32.
func (p *PaginationParams) ClampPage() {
	if p.PageSize > 0 {
		p.Page = min(p.Page, math.MaxInt32/p.PageSize)
	}
}

// NewPaginationResponse creates a standardized pagination response
func NewPaginationResponse(data any, params PaginationParams, total int64) gin.H {
	totalPages := 0
	if params.PageSize > 0 {
		totalPages = (int(total) + params.PageSize - 1) / params.PageSize
	}

	return gin.H{
		"data": data,
		"pagination": gin.H{
			"page":        params.Page,
			"page_size":   params.PageSize,
			"total":       total,
			"total_pages": totalPages,
		},
	}
}
