package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/soapbox/bible-verses/internal/canon"
	"github.com/soapbox/bible-verses/internal/database"
	"github.com/soapbox/bible-verses/internal/translation"
)

// BookHandler serves the canon and the translation catalogue.
type BookHandler struct {
	canon *canon.Canon
	repo  database.RepositoryInterface
}

// NewBookHandler creates a new book handler
func NewBookHandler(c *canon.Canon, repo database.RepositoryInterface) *BookHandler {
	return &BookHandler{canon: c, repo: repo}
}

// ListBooks returns all books in canonical order. With ?translation= each
// book also carries the number of verses stored for that translation.
func (h *BookHandler) ListBooks(c *gin.Context) {
	var stored map[string]int64
	if tr := c.Query("translation"); tr != "" {
		code, err := translation.Parse(tr)
		if err != nil {
			respondError(c, err)
			return
		}
		stored, err = h.repo.CountByBook(c.Request.Context(), string(code))
		if err != nil {
			respondError(c, err)
			return
		}
	}

	books := h.canon.Books()
	data := make([]map[string]any, len(books))
	for i, b := range books {
		n := int64(-1)
		if stored != nil {
			n = stored[b.Name]
		}
		data[i] = formatBook(h.canon, b, n)
	}

	respondOK(c, data)
}

// GetBook returns one book with its per-chapter verse counts.
func (h *BookHandler) GetBook(c *gin.Context) {
	b, err := h.canon.Book(c.Param("book"))
	if err != nil {
		respondError(c, err)
		return
	}

	chapters := make([]gin.H, 0, b.Chapters)
	for ch := 1; ch <= b.Chapters; ch++ {
		n, exact, err := h.canon.VerseCount(b.Name, ch)
		if err != nil {
			respondError(c, err)
			return
		}
		chapters = append(chapters, gin.H{"chapter": ch, "verses": n, "exact": exact})
	}

	data := formatBook(h.canon, b, -1)
	data["chapter_verses"] = chapters
	respondOK(c, data)
}

// ListTranslations returns the supported translation codes.
func (h *BookHandler) ListTranslations(c *gin.Context) {
	codes := translation.All()
	data := make([]gin.H, len(codes))
	for i, code := range codes {
		data[i] = gin.H{
			"code":  string(code),
			"name":  code.Name(),
			"style": string(code.Style()),
		}
	}
	respondOK(c, data)
}
