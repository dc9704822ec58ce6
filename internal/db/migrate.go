package db

import (
	"fmt"
	"log/slog"
	"rab-dashboard/internal/kv"

	"gorm.io/gorm"
)

// Migrate creates the key-value table used by the SQL substrate.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&kv.Entry{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	slog.Info("database schema migrated successfully")
	return nil
}
