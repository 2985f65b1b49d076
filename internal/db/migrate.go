package db

import (
	"fmt"

	"github.com/lumahq/settings-server/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema for the three record sets. It is
// idempotent: repeated calls against an up-to-date database are no-ops.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}

	if errAutoMigrate := conn.AutoMigrate(
		&models.User{},
		&models.Setting{},
		&models.ChatMessage{},
	); errAutoMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errAutoMigrate)
	}

	// ddl defines an index or DDL statement to apply.
	type ddl struct {
		name string // Human-readable name for error reporting.
		sql  string // SQL to execute.
	}
	ddls := []ddl{
		{
			name: "idx_chat_messages_user_id_id",
			sql: `
				CREATE INDEX IF NOT EXISTS idx_chat_messages_user_id_id
				ON chat_messages (user_id, id)
			`,
		},
		{
			name: "idx_settings_updated_at",
			sql: `
				CREATE INDEX IF NOT EXISTS idx_settings_updated_at
				ON settings (updated_at DESC)
			`,
		},
	}
	for _, item := range ddls {
		if errDDL := conn.Exec(item.sql).Error; errDDL != nil {
			return fmt.Errorf("db: create index %s: %w", item.name, errDDL)
		}
	}

	return nil
}
