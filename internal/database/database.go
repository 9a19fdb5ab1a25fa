package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/config"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Init creates a SQLite database connection with basic tuning. The
// connection is process-lifetime-scoped: opened once at startup, closed at
// shutdown.
func Init(cfg config.DatabaseConfig) (*gorm.DB, error) {
	// ensure parent directory exists (not applicable to :memory: databases)
	if !strings.HasPrefix(cfg.Path, ":memory:") && cfg.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	gormLogger := logger.Default
	if !cfg.LogMode {
		gormLogger = gormLogger.LogMode(logger.Silent)
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	// single-process, single-writer tool: one connection is enough and
	// avoids SQLite lock contention entirely
	sqlDB.SetMaxOpenConns(1)

	// SQLite reliability tuning
	_, _ = sqlDB.Exec("PRAGMA journal_mode = WAL;")
	_, _ = sqlDB.Exec("PRAGMA synchronous = NORMAL;")
	_, _ = sqlDB.Exec("PRAGMA foreign_keys = ON;")

	return db, nil
}
