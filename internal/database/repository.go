package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no row matches a lookup.
	ErrNotFound = errors.New("verse not found")
	// ErrUnavailable is returned when the database cannot be reached.
	ErrUnavailable = errors.New("database unavailable")
)

// RepositoryInterface defines the interface for repository operations
type RepositoryInterface interface {
	UpsertVerse(ctx context.Context, verse *VerseRecord) error
	UpsertVerses(ctx context.Context, verses []*VerseRecord) (*BatchResult, error)
	GetVerse(ctx context.Context, reference, translation string) (*VerseRecord, error)
	RandomVerse(ctx context.Context, translation string, minPopularity int) (*VerseRecord, error)
	PlaceholderKeys(ctx context.Context, references []string) (map[string]bool, error)
	CountVerses(ctx context.Context) (int64, error)
	CountByBook(ctx context.Context, translation string) (map[string]int64, error)
	GetStatistics(ctx context.Context) (*Statistics, error)
}

// Repository handles database operations
type Repository struct {
	db *DB

	// statementSize bounds the rows per INSERT inside a batch transaction.
	statementSize int
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db, statementSize: 500}
}

// DB returns the underlying handle.
func (r *Repository) DB() *DB {
	return r.db
}

// GetVerse returns the row for (reference, translation) or ErrNotFound.
func (r *Repository) GetVerse(ctx context.Context, reference, translation string) (*VerseRecord, error) {
	var verse VerseRecord
	err := r.db.WithContext(ctx).
		Where("reference = ? AND translation = ?", reference, translation).
		First(&verse).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get verse %s (%s): %w", reference, translation, err)
	}
	return &verse, nil
}

// RandomVerse picks one active row in translation whose popularity exceeds
// minPopularity. Returns ErrNotFound when none qualify.
func (r *Repository) RandomVerse(ctx context.Context, translation string, minPopularity int) (*VerseRecord, error) {
	var verse VerseRecord
	result := r.db.WithContext(ctx).
		Where("translation = ? AND is_active = ? AND popularity_score > ?", translation, true, minPopularity).
		Order("RANDOM()").
		Limit(1).
		Find(&verse)
	if result.Error != nil {
		return nil, fmt.Errorf("random verse (%s): %w", translation, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &verse, nil
}

// PlaceholderKeys returns the VerseKey of every non-authentic row whose
// reference is in references.
func (r *Repository) PlaceholderKeys(ctx context.Context, references []string) (map[string]bool, error) {
	keys := make(map[string]bool)
	if len(references) == 0 {
		return keys, nil
	}

	var rows []VerseRecord
	err := r.db.WithContext(ctx).
		Select("reference", "translation").
		Where("reference IN ? AND is_authentic = ?", references, false).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find placeholder rows: %w", err)
	}

	for i := range rows {
		keys[rows[i].Key()] = true
	}
	return keys, nil
}
