package database

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CachedRepository wraps Repository with an expiring LRU of verse lookups.
// Writes through the wrapper evict the affected keys.
type CachedRepository struct {
	*Repository

	verses *expirable.LRU[string, VerseRecord]
}

// NewCachedRepository creates a new cached repository holding up to size
// verses for ttl each.
func NewCachedRepository(repo *Repository, size int, ttl time.Duration) *CachedRepository {
	if size <= 0 {
		size = 1024
	}
	return &CachedRepository{
		Repository: repo,
		verses:     expirable.NewLRU[string, VerseRecord](size, nil, ttl),
	}
}

// GetVerse returns a verse, consulting the cache first.
func (r *CachedRepository) GetVerse(ctx context.Context, reference, translation string) (*VerseRecord, error) {
	key := VerseKey(reference, translation)
	if v, ok := r.verses.Get(key); ok {
		return &v, nil
	}

	verse, err := r.Repository.GetVerse(ctx, reference, translation)
	if err != nil {
		return nil, err
	}

	r.verses.Add(key, *verse)
	return verse, nil
}

// UpsertVerse writes a verse and evicts its cached copy.
func (r *CachedRepository) UpsertVerse(ctx context.Context, verse *VerseRecord) error {
	defer r.verses.Remove(verse.Key())
	return r.Repository.UpsertVerse(ctx, verse)
}

// UpsertVerses writes verses and evicts their cached copies.
func (r *CachedRepository) UpsertVerses(ctx context.Context, verses []*VerseRecord) (*BatchResult, error) {
	defer func() {
		for _, v := range verses {
			r.verses.Remove(v.Key())
		}
	}()
	return r.Repository.UpsertVerses(ctx, verses)
}

// CacheLen returns the number of cached verses.
func (r *CachedRepository) CacheLen() int {
	return r.verses.Len()
}

// Purge empties the cache.
func (r *CachedRepository) Purge() {
	r.verses.Purge()
}
