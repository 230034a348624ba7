package database

const (
	// Schema version for migrations
	SchemaVersion = 1
)

// CreateIndexesSQL holds indexes AutoMigrate cannot express. The ordering
// index backs search and random selection per translation.
var CreateIndexesSQL = []string{
	`CREATE INDEX IF NOT EXISTS idx_bible_verses_ordering ON bible_verses(translation, popularity_score DESC, book_order, chapter, verse_number)`,
	`CREATE INDEX IF NOT EXISTS idx_bible_verses_book_chapter ON bible_verses(book_order, chapter)`,
}

// upsertColumns are overwritten when a (reference, translation) row exists.
var upsertColumns = []string{
	"book",
	"book_order",
	"chapter",
	"verse",
	"verse_number",
	"text",
	"category",
	"topic_tags",
	"is_active",
	"is_authentic",
	"popularity_score",
	"updated_at",
}

// preserveAuthenticSQL stops placeholder text from replacing authored text.
const preserveAuthenticSQL = "bible_verses.is_authentic = ? OR excluded.is_authentic = ?"
