// Package main is the entry point for the auth-system API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openfield/auth-system/internal/api"
	"github.com/openfield/auth-system/internal/core/authmodel"
	"github.com/openfield/auth-system/internal/core/model"
	"github.com/openfield/auth-system/internal/core/service"
	mongodb "github.com/openfield/auth-system/internal/infrastructure/db/mongo"
	redisdb "github.com/openfield/auth-system/internal/infrastructure/db/redis"
	"github.com/openfield/auth-system/internal/infrastructure/queue"
	"github.com/openfield/auth-system/internal/pkg/config"
	"github.com/openfield/auth-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	log.Info().
		Str("port", cfg.Port).
		Str("env", cfg.Env).
		Bool("require_verification", cfg.Auth.RequireVerification).
		Msg("starting auth-system")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Entity definitions run once, before anything touches storage. A
	// definition error means the deployment is misconfigured; abort.
	settings := model.NewSettings()
	settings.RequireVerification = cfg.Auth.RequireVerification

	registry, err := authmodel.Define(settings)
	if err != nil {
		return fmt.Errorf("define auth model: %w", err)
	}

	// --- Storage ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	if err := mongodb.EnsureIndexes(ctx, db, registry); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Audit pipeline ---
	eventRepo := mongodb.NewEventRepository(db)
	eventService := service.NewEventService(registry, eventRepo, log)
	dispatcher := queue.NewDispatcher(cfg.Auth.AuditWorkers, eventService, log)
	dispatcher.Start(ctx)

	// --- HTTP server ---
	e := api.NewRouter(api.Dependencies{
		DB:         db,
		Redis:      rdb,
		Registry:   registry,
		Settings:   settings,
		Dispatcher: dispatcher,
		Config:     cfg,
		Log:        log,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	log.Info().Str("addr", ":"+cfg.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}
