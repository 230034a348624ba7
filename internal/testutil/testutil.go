// Package testutil provides shared utilities for testing.
package testutil

import (
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/soapbox/bible-verses/internal/database"
)

// SetupTestDB creates an in-memory SQLite database with migrations applied.
// Returns the DB wrapper and Repository. Automatically cleans up on test completion.
func SetupTestDB(t testing.TB) (*database.DB, *database.Repository) {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "Failed to open in-memory database")

	// A second pooled connection would open a different empty database.
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db := database.NewDBFromGorm(gormDB)
	require.NoError(t, db.Migrate(), "Failed to run migrations")

	repo := database.NewRepository(db)

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db, repo
}

// SetupTestGin creates a test Gin engine with test mode enabled.
func SetupTestGin() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// GormDB returns the underlying GORM database from a database.DB wrapper.
// This is useful for direct database manipulation in tests.
func GormDB(db *database.DB) *gorm.DB {
	return db.DB
}

// Verse builds an active verse row for fixtures.
func Verse(book string, order, chapter, verse int, translation, text string, popularity int, authentic bool) *database.VerseRecord {
	v := strconv.Itoa(verse)
	return &database.VerseRecord{
		Reference:       book + " " + strconv.Itoa(chapter) + ":" + v,
		Translation:     translation,
		Book:            book,
		BookOrder:       order,
		Chapter:         chapter,
		Verse:           v,
		VerseNumber:     verse,
		Text:            text,
		Category:        "Gospels",
		TopicTags:       []string{},
		IsActive:        true,
		IsAuthentic:     authentic,
		PopularityScore: popularity,
	}
}

// SeedVerses upserts fixtures and fails the test on error.
func SeedVerses(t testing.TB, repo database.RepositoryInterface, verses ...*database.VerseRecord) {
	t.Helper()
	for _, v := range verses {
		require.NoError(t, repo.UpsertVerse(t.Context(), v))
	}
}
