package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/soapbox/bible-verses/internal/logger"
)

// Write operations for population and write-on-read lookups

// Writes never send id: the conflict target is (reference, translation), and a
// back-filled id from an earlier write would collide on the primary key.

// upsertClause updates an existing (reference, translation) row in place
// unless that would replace authentic text with a placeholder.
func upsertClause() clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "reference"}, {Name: "translation"}},
		DoUpdates: clause.AssignmentColumns(upsertColumns),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: preserveAuthenticSQL, Vars: []any{false, true}},
		}},
	}
}

// UpsertVerse inserts or updates a single verse keyed by (reference, translation).
func (r *Repository) UpsertVerse(ctx context.Context, verse *VerseRecord) error {
	if err := r.db.WithContext(ctx).Clauses(upsertClause()).Omit("id").Create(verse).Error; err != nil {
		return fmt.Errorf("upsert %s (%s): %w", verse.Reference, verse.Translation, err)
	}
	return nil
}

// UpsertVerses writes verses in one transaction. If the transaction fails the
// verses are retried one by one so a bad row is isolated; each failing row is
// logged and reported, and the rest are still written.
// The returned error is non-nil when ctx is done or the database is
// unreachable (ErrUnavailable); per-record failures are reported in the result.
func (r *Repository) UpsertVerses(ctx context.Context, verses []*VerseRecord) (*BatchResult, error) {
	result := &BatchResult{}
	if len(verses) == 0 {
		return result, nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(upsertClause()).Omit("id").CreateInBatches(verses, r.statementSize).Error
	})
	if err == nil {
		result.Written = len(verses)
		return result, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, ctxErr
	}
	if pingErr := r.db.PingContext(ctx); pingErr != nil {
		return result, fmt.Errorf("%w: %w", ErrUnavailable, errors.Join(err, pingErr))
	}

	logger.Warn("Batch upsert failed, retrying per record",
		zap.Int("batch_size", len(verses)),
		zap.Error(err),
	)
	result.FallbackCount++

	connLost := 0
	for _, verse := range verses {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		if err := r.UpsertVerse(ctx, verse); err != nil {
			logger.Error("Failed to upsert verse",
				zap.String("reference", verse.Reference),
				zap.String("translation", verse.Translation),
				zap.Error(err),
			)
			result.Failed++
			if isConnError(err) {
				connLost++
			}
			result.Failures = append(result.Failures, Failure{
				Reference:   verse.Reference,
				Translation: verse.Translation,
				Err:         err,
			})
			continue
		}
		result.Written++
	}

	if connLost == len(verses) {
		return result, fmt.Errorf("%w: every record lost its connection", ErrUnavailable)
	}
	return result, nil
}

func isConnError(err error) bool {
	return errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn)
}
