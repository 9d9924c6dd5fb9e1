package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tasktrack/tasktrack/internal/config"
)

// SQLiteFileName is the database file used by the sqlite driver.
const SQLiteFileName = "tasks.db"

// Open returns the Store selected by cfg.Driver, rooted at cfg.DataDir.
func Open(cfg config.StorageConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Driver {
	case config.DriverFile, "":
		return NewFileStore(cfg.DataDir, logger)
	case config.DriverSQLite:
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		return NewSQLiteStore(filepath.Join(cfg.DataDir, SQLiteFileName), logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
