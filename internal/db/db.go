package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"moviedash/internal/apperr"
)

// Connect opens the run archive named by url and migrates its tables.
// postgres:// and postgresql:// URLs use PostgreSQL; sqlite://<path> and
// file: URLs use SQLite.
func Connect(url string) (*gorm.DB, error) {
	dsn := strings.TrimSpace(url)

	var dialector gorm.Dialector
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		// PrepareStmt: true prevents the GORM postgres migrator from forcing simple protocol
		// for "SELECT * FROM table LIMIT 1", which would otherwise trigger "insufficient arguments".
		cfg.PrepareStmt = true
		dialector = postgres.Open(dsn)
	case strings.HasPrefix(dsn, "sqlite://"):
		dialector = sqlite.Open(strings.TrimPrefix(dsn, "sqlite://"))
	case strings.HasPrefix(dsn, "file:"):
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("database url %q: want postgres://, postgresql://, sqlite:// or file: %w", dsn, apperr.ErrInvalidInput)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&Run{}, &MovieRow{}, &RatingRow{}, &GenreStatRow{}); err != nil {
		return nil, err
	}

	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
