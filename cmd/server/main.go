package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/diewo77/condo-admin/auth"
	"github.com/diewo77/condo-admin/internal/config"
	"github.com/diewo77/condo-admin/internal/db"
	"github.com/diewo77/condo-admin/internal/logging"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

const purgeInterval = time.Hour

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	logging.Init("condo-admin")
	cfg := config.Load()
	auth.SetSecret(cfg.Session.Secret)

	dbConn, err := db.Open(cfg.Database)
	if err != nil {
		logging.Logger.WithError(err).Fatal("Failed to connect to database")
	}

	if *migrateOnlyFlag {
		if err := db.Migrate(dbConn); err != nil {
			logging.Logger.WithError(err).Fatal("Migration failed")
		}
		logging.Logger.Info("Migrations completed successfully")
		return
	}

	// Run migrations on startup if enabled
	if cfg.App.Migrations {
		if err := db.Migrate(dbConn); err != nil {
			logging.Logger.WithError(err).Fatal("Migration failed")
		}
		logging.Logger.Info("Migrations completed")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go purgeSessions(ctx, dbConn)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      NewApp(cfg, dbConn),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		logging.Logger.Infof("Server starting on port %s (dev=%v, api=%s)", cfg.Server.Port, cfg.App.Dev, cfg.API.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Logger.WithError(err).Fatal("Server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Logger.Info("Shutdown signal received")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Logger.WithError(err).Error("Error during shutdown")
	}
	logging.Logger.Info("Server stopped gracefully")
}

// purgeSessions deletes expired sessions until ctx is cancelled.
func purgeSessions(ctx context.Context, conn *gorm.DB) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := db.PurgeExpired(conn, now)
			if err != nil {
				logging.Logger.WithError(err).Warn("purging expired sessions")
				continue
			}
			if n > 0 {
				logging.Logger.WithField("count", n).Info("purged expired sessions")
			}
		}
	}
}
