package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"homefront/server/internal/models"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
	insertBatchSize     = 100
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %v", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	// Readers of the history must not block the batch writer
	if err := db.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

// SaveInvocations writes a batch in one transaction.
func (d *Database) SaveInvocations(ctx context.Context, invocations []*models.Invocation) error {
	if len(invocations) == 0 {
		return nil
	}

	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(invocations, insertBatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert invocations: %w", err)
		}
		return nil
	})
}

// RecentInvocations returns the newest invocations first. limit is clamped to
// [1, MaxHistoryLimit]; zero or less means DefaultHistoryLimit.
func (d *Database) RecentInvocations(ctx context.Context, limit int) ([]models.Invocation, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	invocations := make([]models.Invocation, 0, limit)
	err := d.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&invocations).Error
	if err != nil {
		return nil, err
	}
	return invocations, nil
}

// ToolStats aggregates the invocation log per tool, busiest first.
func (d *Database) ToolStats(ctx context.Context) ([]models.ToolStats, error) {
	var stats []models.ToolStats
	err := d.db.WithContext(ctx).
		Model(&models.Invocation{}).
		Select(`tool,
			COUNT(*) AS calls,
			SUM(CASE WHEN is_error THEN 1 ELSE 0 END) AS errors,
			SUM(CASE WHEN using_mock_data THEN 1 ELSE 0 END) AS mock_data_calls,
			COALESCE(AVG(duration_ms), 0) AS avg_duration_ms`).
		Group("tool").
		Order("calls DESC, tool").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = []models.ToolStats{}
	}
	return stats, nil
}

// PruneInvocations deletes invocations created before the cutoff and
// reports how many were removed.
func (d *Database) PruneInvocations(ctx context.Context, before time.Time) (int64, error) {
	result := d.db.WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&models.Invocation{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune invocations: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) GetDB() *gorm.DB {
	return d.db
}
