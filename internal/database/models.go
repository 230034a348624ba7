package database

import (
	"time"

	"gorm.io/datatypes"
)

// VerseRecord is one verse in one translation. (Reference, Translation) is
// unique and is the upsert key for every write path.
type VerseRecord struct {
	ID              int64                       `gorm:"primaryKey;autoIncrement"                                                   json:"id"`
	Reference       string                      `gorm:"not null;size:64;uniqueIndex:idx_bible_verses_reference_translation,priority:1" json:"reference"`
	Translation     string                      `gorm:"not null;size:8;uniqueIndex:idx_bible_verses_reference_translation,priority:2"  json:"translation"`
	Book            string                      `gorm:"not null;size:32;index"                                                      json:"book"`
	BookOrder       int                         `gorm:"not null"                                                                    json:"-"`
	Chapter         int                         `gorm:"not null;check:chk_bible_verses_chapter,chapter > 0"                         json:"chapter"`
	Verse           string                      `gorm:"not null;size:16"                                                            json:"verse"`
	VerseNumber     int                         `gorm:"not null;check:chk_bible_verses_verse_number,verse_number > 0"               json:"-"`
	Text            string                      `gorm:"type:text;not null"                                                          json:"text"`
	Category        string                      `gorm:"size:16;index"                                                               json:"category"`
	TopicTags       datatypes.JSONSlice[string] `json:"topic_tags"`
	IsActive        bool                        `gorm:"not null"                                                                    json:"is_active"`
	IsAuthentic     bool                        `gorm:"not null;index"                                                              json:"is_authentic"`
	PopularityScore int                         `gorm:"not null;index"                                                              json:"popularity_score"`
	CreatedAt       time.Time                   `gorm:"autoCreateTime"                                                              json:"created_at"`
	UpdatedAt       time.Time                   `gorm:"autoUpdateTime"                                                              json:"updated_at"`
}

// TableName specifies the table name for VerseRecord
func (VerseRecord) TableName() string {
	return "bible_verses"
}

// Key returns the upsert key as "reference|translation".
func (v *VerseRecord) Key() string {
	return VerseKey(v.Reference, v.Translation)
}

// VerseKey joins a reference and translation into a cache/map key.
func VerseKey(reference, translation string) string {
	return reference + "|" + translation
}

// Metadata is a key/value row for schema bookkeeping.
type Metadata struct {
	Key       string    `gorm:"primaryKey;size:64"`
	Value     string    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Metadata
func (Metadata) TableName() string {
	return "metadata"
}

// TranslationStats counts rows for one translation.
type TranslationStats struct {
	Translation string `json:"translation"`
	Total       int    `json:"total"`
	Authentic   int    `json:"authentic"`
	Placeholder int    `json:"placeholder"`
}

// Statistics holds overall statistics
type Statistics struct {
	TotalVerses        int                `json:"total_verses"`
	AuthenticVerses    int                `json:"authentic_verses"`
	PlaceholderVerses  int                `json:"placeholder_verses"`
	DistinctReferences int                `json:"distinct_references"`
	ByTranslation      []TranslationStats `json:"by_translation"`
}

// Failure records one row that could not be written.
type Failure struct {
	Reference   string `json:"reference"`
	Translation string `json:"translation"`
	Err         error  `json:"-"`
}

// BatchResult summarizes a batched upsert.
type BatchResult struct {
	Written       int
	Failed        int
	FallbackCount int // batches that fell back to per-record writes
	Failures      []Failure
}
