// Package lookup exposes the read side of the verse store: instant lookup
// (which writes on a miss), search and random selection.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/soapbox/bible-verses/internal/canon"
	"github.com/soapbox/bible-verses/internal/database"
	"github.com/soapbox/bible-verses/internal/logger"
	"github.com/soapbox/bible-verses/internal/provider"
	"github.com/soapbox/bible-verses/internal/search"
	"github.com/soapbox/bible-verses/internal/translation"
)

// ErrEmptyQuery is returned by searches without any query text.
var ErrEmptyQuery = errors.New("empty search query")

// Searcher runs verse searches.
type Searcher interface {
	Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error)
}

// Options tunes the accessors.
type Options struct {
	DefaultLimit      int
	MaxResults        int
	MinPopularity     int
	FallbackReference string
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		DefaultLimit:      20,
		MaxResults:        100,
		MinPopularity:     50,
		FallbackReference: "John 3:16",
	}
}

// Service implements the verse accessors.
type Service struct {
	repo     database.RepositoryInterface
	provider *provider.Provider
	searcher Searcher
	opts     Options

	// misses coalesces concurrent write-on-read for the same key
	misses singleflight.Group
}

// NewService creates a lookup service.
func NewService(repo database.RepositoryInterface, prov *provider.Provider, searcher Searcher, opts Options) *Service {
	def := DefaultOptions()
	if opts.MaxResults <= 0 {
		opts.MaxResults = def.MaxResults
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = min(def.DefaultLimit, opts.MaxResults)
	}
	if opts.FallbackReference == "" {
		opts.FallbackReference = def.FallbackReference
	}
	return &Service{repo: repo, provider: prov, searcher: searcher, opts: opts}
}

// Canon returns the canon references are validated against.
func (s *Service) Canon() *canon.Canon {
	return s.provider.Canon()
}

// GetVerseInstant returns the verse, creating it on a miss. The reference is
// validated against the canon first; a miss builds the record through the
// provider, upserts it and returns the stored row. A lookup can therefore
// write to the store.
func (s *Service) GetVerseInstant(ctx context.Context, book string, chapter int, verse string, tr string) (*database.VerseRecord, error) {
	code, err := translation.Parse(tr)
	if err != nil {
		return nil, err
	}
	ref, err := s.Canon().NewReference(book, chapter, verse)
	if err != nil {
		return nil, err
	}
	return s.getOrCreate(ctx, ref, code)
}

// GetReference is GetVerseInstant for a reference string such as "Psalm 23:1".
func (s *Service) GetReference(ctx context.Context, reference string, tr string) (*database.VerseRecord, error) {
	code, err := translation.Parse(tr)
	if err != nil {
		return nil, err
	}
	ref, err := s.Canon().ParseReference(reference)
	if err != nil {
		return nil, err
	}
	return s.getOrCreate(ctx, ref, code)
}

func (s *Service) getOrCreate(ctx context.Context, ref canon.Reference, tr translation.Code) (*database.VerseRecord, error) {
	verse, err := s.repo.GetVerse(ctx, ref.String(), string(tr))
	if err == nil {
		return verse, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	key := database.VerseKey(ref.String(), string(tr))
	v, err, _ := s.misses.Do(key, func() (any, error) {
		// Waiters share this call, so one caller's cancellation must not fail
		// the others.
		ctx := context.WithoutCancel(ctx)
		rec, err := s.provider.Build(ref, tr)
		if err != nil {
			return nil, err
		}
		// Concurrent writers from other processes converge on the
		// (reference, translation) conflict rule.
		if err := s.repo.UpsertVerse(ctx, rec); err != nil {
			return nil, err
		}
		logger.Debug("Created verse on lookup",
			zap.String("reference", rec.Reference),
			zap.String("translation", rec.Translation),
			zap.Bool("authentic", rec.IsAuthentic),
		)
		return s.repo.GetVerse(ctx, ref.String(), string(tr))
	})
	if err != nil {
		return nil, fmt.Errorf("create %s (%s): %w", ref, tr, err)
	}
	return v.(*database.VerseRecord), nil
}

// ClampLimit maps a requested result count into [1, MaxResults], using
// DefaultLimit for non-positive values.
func (s *Service) ClampLimit(limit int) int {
	if limit <= 0 {
		return s.opts.DefaultLimit
	}
	return min(limit, s.opts.MaxResults)
}

// SearchVerses returns up to limit active verses of tr whose text, reference
// or book contains query, case-insensitively.
func (s *Service) SearchVerses(ctx context.Context, query string, tr string, limit int) ([]database.VerseRecord, error) {
	result, err := s.Search(ctx, search.SearchParams{Query: query, Translation: tr, PageSize: limit})
	if err != nil {
		return nil, err
	}
	return result.Verses, nil
}

// Search validates params and runs a paged search.
func (s *Service) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	params.Query = strings.TrimSpace(params.Query)
	if params.Query == "" {
		return nil, ErrEmptyQuery
	}
	code, err := translation.Parse(params.Translation)
	if err != nil {
		return nil, err
	}
	params.Translation = string(code)
	params.PageSize = s.ClampLimit(params.PageSize)

	return s.searcher.Search(ctx, params)
}

// RandomVerse returns a random active verse of tr with popularity above the
// configured threshold, or the fallback reference when none qualify.
func (s *Service) RandomVerse(ctx context.Context, tr string) (*database.VerseRecord, error) {
	code, err := translation.Parse(tr)
	if err != nil {
		return nil, err
	}

	verse, err := s.repo.RandomVerse(ctx, string(code), s.opts.MinPopularity)
	if err == nil {
		return verse, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	return s.GetReference(ctx, s.opts.FallbackReference, string(code))
}
