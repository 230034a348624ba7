package database

import (
	"context"
	"fmt"
)

// CountVerses returns the total number of rows.
func (r *Repository) CountVerses(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&VerseRecord{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count verses: %w", err)
	}
	return count, nil
}

// CountByBook returns the number of stored verses per book for a translation.
func (r *Repository) CountByBook(ctx context.Context, translation string) (map[string]int64, error) {
	var rows []struct {
		Book  string
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&VerseRecord{}).
		Select("book, COUNT(*) AS count").
		Where("translation = ?", translation).
		Group("book").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count by book: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Book] = row.Count
	}
	return counts, nil
}

// GetStatistics returns overall and per-translation statistics
func (r *Repository) GetStatistics(ctx context.Context) (*Statistics, error) {
	db := r.db.WithContext(ctx)
	stats := &Statistics{}

	var rows []struct {
		Translation string
		Total       int
		Authentic   int
	}
	err := db.Model(&VerseRecord{}).
		Select("translation, COUNT(*) AS total, SUM(CASE WHEN is_authentic THEN 1 ELSE 0 END) AS authentic").
		Group("translation").
		Order("translation").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("translation stats: %w", err)
	}

	stats.ByTranslation = make([]TranslationStats, 0, len(rows))
	for _, row := range rows {
		stats.ByTranslation = append(stats.ByTranslation, TranslationStats{
			Translation: row.Translation,
			Total:       row.Total,
			Authentic:   row.Authentic,
			Placeholder: row.Total - row.Authentic,
		})
		stats.TotalVerses += row.Total
		stats.AuthenticVerses += row.Authentic
	}
	stats.PlaceholderVerses = stats.TotalVerses - stats.AuthenticVerses

	var distinct int64
	if err := db.Model(&VerseRecord{}).Distinct("reference").Count(&distinct).Error; err != nil {
		return nil, fmt.Errorf("count references: %w", err)
	}
	stats.DistinctReferences = int(distinct)

	return stats, nil
}
