package sqlite

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang-stock-advisor/pkg/logger"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config holds the settings needed to open the SQLite file.
type Config struct {
	Path        string
	BusyTimeout time.Duration
	LogLevel    string
	// Log receives gorm's statement logs. Nil discards them.
	Log *logger.Logger
}

// DSN builds the mattn/go-sqlite3 data source name for the config.
// The path is percent-encoded so '#', '?' and '%' in it are not read as URI syntax.
func (c Config) DSN() string {
	timeout := c.BusyTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	path := (&url.URL{Path: c.Path}).EscapedPath()
	return fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on", path, timeout.Milliseconds())
}

// Open opens a new gorm handle backed by its own sql.DB. Callers own the handle and must Close it.
func Open(cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.DSN()), &gorm.Config{
		Logger: newGormLogger(cfg.Log, parseLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %q: %w", cfg.Path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		if closer, ok := db.ConnPool.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	// one connection per handle; the handle lives for a single operation
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	return db, nil
}

// Close releases the connection held by db.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func parseLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "info":
		return gormlogger.Info
	case "warn":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Silent
	}
}
