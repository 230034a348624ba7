package search

import (
	"context"
	"fmt"
	"math"
	"strings"

	"gorm.io/gorm"

	"github.com/soapbox/bible-verses/internal/classifier"
	"github.com/soapbox/bible-verses/internal/database"
)

// Engine handles all search operations
type Engine struct {
	db *database.DB
}

// NewEngine creates a new search engine
func NewEngine(db *database.DB) *Engine {
	return &Engine{db: db}
}

// SearchType defines the type of search
type SearchType string

const (
	SearchTypeAll       SearchType = "all"
	SearchTypeText      SearchType = "text"
	SearchTypeReference SearchType = "reference"
	SearchTypeBook      SearchType = "book"
)

// ParseSearchType maps a user supplied value to a SearchType, defaulting to all.
func ParseSearchType(s string) SearchType {
	switch t := SearchType(strings.ToLower(strings.TrimSpace(s))); t {
	case SearchTypeText, SearchTypeReference, SearchTypeBook:
		return t
	default:
		return SearchTypeAll
	}
}

// SearchParams contains search parameters
type SearchParams struct {
	Query         string
	Translation   string
	SearchType    SearchType
	AuthenticOnly bool
	Page          int
	PageSize      int
}

// SearchResult contains search results
type SearchResult struct {
	Verses     []database.VerseRecord
	TotalCount int
	HasMore    bool
}

// Search matches the query case-insensitively as a substring of the selected
// columns among active rows of one translation. Results are ordered by
// popularity, then canonical order.
func (e *Engine) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = 20
	}
	// Keep the offset within int32 so no driver sees an overflowed value.
	params.Page = min(params.Page, math.MaxInt32/params.PageSize)
	offset := (params.Page - 1) * params.PageSize

	db := e.baseQuery(ctx, params.Translation, params.AuthenticOnly)
	// New session so the count and find chains don't share statement state.
	db = matchQuery(db, params.SearchType, e.normalizeQuery(params.Query)).Session(&gorm.Session{})

	var count int64
	if err := db.Count(&count).Error; err != nil {
		return nil, fmt.Errorf("count search results: %w", err)
	}

	var verses []database.VerseRecord
	err := db.
		Order("popularity_score DESC").
		Order("book_order").
		Order("chapter").
		Order("verse_number").
		Limit(params.PageSize).
		Offset(offset).
		Find(&verses).Error
	if err != nil {
		return nil, fmt.Errorf("search verses: %w", err)
	}

	return &SearchResult{
		Verses:     verses,
		TotalCount: int(count),
		HasMore:    offset+len(verses) < int(count),
	}, nil
}

// normalizeQuery folds case the way the database's LOWER() does: Unicode on
// PostgreSQL, ASCII only on SQLite. On SQLite a lowercase non-ASCII query
// ("é") therefore does not match uppercase stored text ("É").
func (e *Engine) normalizeQuery(query string) string {
	if e.db.Dialector.Name() == "postgres" {
		return classifier.NormalizeQuery(query)
	}
	return classifier.NormalizeQueryASCII(query)
}

// baseQuery restricts to active rows of a translation
func (e *Engine) baseQuery(ctx context.Context, translation string, authenticOnly bool) *gorm.DB {
	db := e.db.WithContext(ctx).Model(&database.VerseRecord{}).
		Where("translation = ? AND is_active = ?", translation, true)
	if authenticOnly {
		db = db.Where("is_authentic = ?", true)
	}
	return db
}

func matchQuery(db *gorm.DB, searchType SearchType, query string) *gorm.DB {
	pattern := "%" + escapeLike(query) + "%"

	switch searchType {
	case SearchTypeText:
		return db.Where(`LOWER(text) LIKE ? ESCAPE '\'`, pattern)
	case SearchTypeReference:
		return db.Where(`LOWER(reference) LIKE ? ESCAPE '\'`, pattern)
	case SearchTypeBook:
		return db.Where(`LOWER(book) LIKE ? ESCAPE '\'`, pattern)
	default:
		return db.Where(
			`LOWER(text) LIKE ? ESCAPE '\' OR LOWER(reference) LIKE ? ESCAPE '\' OR LOWER(book) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern,
		)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in user input match literally
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
