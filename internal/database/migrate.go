package database

import (
	"fmt"
	"strconv"

	"gorm.io/gorm/clause"
)

// Migrate creates tables, indexes and records the schema version.
func (db *DB) Migrate() error {
	if err := db.AutoMigrate(&VerseRecord{}, &Metadata{}); err != nil {
		return fmt.Errorf("failed to auto-migrate: %w", err)
	}

	for _, stmt := range CreateIndexesSQL {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	meta := Metadata{Key: "schema_version", Value: strconv.Itoa(SchemaVersion)}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&meta).Error
	if err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	return nil
}

// GetSchemaVersion returns the recorded schema version, or 0 when unset.
func (db *DB) GetSchemaVersion() (int, error) {
	var meta Metadata
	result := db.Where(&Metadata{Key: "schema_version"}).Limit(1).Find(&meta)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, nil
	}
	return strconv.Atoi(meta.Value)
}
