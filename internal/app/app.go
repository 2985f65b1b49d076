// Package app wires configuration, database, store, and HTTP server into a
// running service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lumahq/settings-server/internal/clock"
	"github.com/lumahq/settings-server/internal/config"
	"github.com/lumahq/settings-server/internal/db"
	"github.com/lumahq/settings-server/internal/http/api"
	"github.com/lumahq/settings-server/internal/store"
	log "github.com/sirupsen/logrus"
)

// shutdownTimeout bounds graceful drain after the context is cancelled.
const shutdownTimeout = 5 * time.Second

// RunServer boots the settings API server backed by the configured database.
// It blocks until the context is cancelled or the listener fails.
func RunServer(ctx context.Context, cfg config.AppConfig, defaultPort int) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)

	if level, errParse := log.ParseLevel(config.LoadLogLevel(configPath)); errParse == nil {
		log.SetLevel(level)
	}

	dsn, err := config.LoadDatabaseDSN(configPath)
	if err != nil {
		return err
	}
	apiKey, err := config.LoadAPIKey(configPath)
	if err != nil {
		return err
	}

	conn, err := db.Open(dsn)
	if err != nil {
		return err
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}
	log.WithField("dialect", db.DialectName(conn)).Info("database ready")

	st := store.New(conn, clock.System{})

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), api.RequestLogger())
	api.RegisterRoutes(engine, conn, st, apiKey)

	port := config.LoadPort(configPath)
	if port <= 0 {
		port = defaultPort
	}
	if port <= 0 {
		port = 8080
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.WithField("addr", srv.Addr).Info("settings server listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case errServe := <-errCh:
		if errors.Is(errServe, http.ErrServerClosed) {
			return nil
		}
		return errServe
	}
}
