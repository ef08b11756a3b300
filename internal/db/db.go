// Package db opens the session store and applies its migrations.
package db

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/diewo77/condo-admin/internal/config"
	"github.com/diewo77/condo-admin/internal/logging"
	"github.com/diewo77/condo-admin/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects using the configured driver. Postgres gets a few retries to
// let the database container come up.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	switch cfg.Driver {
	case "", "sqlite":
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		logging.Logger.Infof("Opening sqlite session store at %s", cfg.SQLitePath)
		return gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
	case "postgres":
		logging.Logger.Infof("Connecting to database: host=%s port=%d dbname=%s user=%s",
			cfg.Host, cfg.Port, cfg.DBName, cfg.User)
		var conn *gorm.DB
		var err error
		for i := 0; i < 5; i++ {
			conn, err = gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
			if err == nil {
				return conn, nil
			}
			logging.Logger.Warnf("Database connection attempt %d/5 failed, retrying", i+1)
			time.Sleep(2 * time.Second)
		}
		return nil, fmt.Errorf("database connection failed: %w", err)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

// Migrate creates or updates the session table.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(&models.Session{}); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}
	return nil
}

// PurgeExpired removes sessions whose token has expired.
func PurgeExpired(conn *gorm.DB, now time.Time) (int64, error) {
	res := conn.Where("expires_at <= ?", now).Delete(&models.Session{})
	return res.RowsAffected, res.Error
}
