package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "github.com/soapbox/bible-verses/internal/errors"
	"github.com/soapbox/bible-verses/internal/lookup"
	"github.com/soapbox/bible-verses/internal/search"
)

// VerseHandler handles verse-related requests
type VerseHandler struct {
	svc *lookup.Service
}

// NewVerseHandler creates a new verse handler
func NewVerseHandler(svc *lookup.Service) *VerseHandler {
	return &VerseHandler{svc: svc}
}

// GetVerse returns one verse, creating it on first request.
//
//	GET /verses/:book/:chapter/:verse?translation=KJV
func (h *VerseHandler) GetVerse(c *gin.Context) {
	chapter, ok := parsePositiveInt(c, "chapter")
	if !ok {
		return
	}

	verse, err := h.svc.GetVerseInstant(
		c.Request.Context(),
		c.Param("book"),
		chapter,
		c.Param("verse"),
		c.Query("translation"),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, formatVerse(verse))
}

// GetReference resolves a free-form reference such as "Psalm 23:1".
//
//	GET /verses?ref=Psalm+23:1&translation=NIV
func (h *VerseHandler) GetReference(c *gin.Context) {
	ref := c.Query("ref")
	if ref == "" {
		respondAPIError(c, apierrors.InvalidRequest("Query parameter 'ref' is required"))
		return
	}

	verse, err := h.svc.GetReference(c.Request.Context(), ref, c.Query("translation"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, formatVerse(verse))
}

// SearchVerses runs a paged, case-insensitive substring search.
//
//	GET /verses/search?q=love&translation=NIV&type=text&page=1&page_size=20&authentic_only=true
func (h *VerseHandler) SearchVerses(c *gin.Context) {
	pagination := ParsePagination(c)
	pagination.PageSize = h.svc.ClampLimit(pagination.PageSize)
	pagination.ClampPage()
	authenticOnly, _ := strconv.ParseBool(c.Query("authentic_only"))

	result, err := h.svc.Search(c.Request.Context(), search.SearchParams{
		Query:         c.Query("q"),
		Translation:   c.Query("translation"),
		SearchType:    search.ParseSearchType(c.Query("type")),
		AuthenticOnly: authenticOnly,
		Page:          pagination.Page,
		PageSize:      pagination.PageSize,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := NewPaginationResponse(formatVerses(result.Verses), pagination, int64(result.TotalCount))
	resp["has_more"] = result.HasMore
	c.JSON(http.StatusOK, resp)
}

// RandomVerse returns a random popular verse.
//
//	GET /verses/random?translation=ESV
func (h *VerseHandler) RandomVerse(c *gin.Context) {
	verse, err := h.svc.RandomVerse(c.Request.Context(), c.Query("translation"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, formatVerse(verse))
}
