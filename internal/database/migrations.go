package database

import (
	"fmt"

	"homefront/server/internal/models"
)

func (d *Database) RunMigrations() error {
	if err := d.db.AutoMigrate(&models.Invocation{}); err != nil {
		return fmt.Errorf("failed to migrate tool_invocations table: %v", err)
	}

	// History queries filter by tool and sort by time
	err := d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tool_invocations_tool_created
		ON tool_invocations(tool, created_at);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
