// Package main is the entry point for the MyEconomy API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/myeconomy/backend/config"
	"github.com/myeconomy/backend/internal/infra/cache"
	"github.com/myeconomy/backend/internal/infra/db"
	"github.com/myeconomy/backend/internal/infra/dependency"
	"github.com/myeconomy/backend/internal/infra/logging"
	"github.com/myeconomy/backend/internal/integration/entrypoint/dto"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped with error", logging.FieldError, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	logging.Setup(os.Stdout, cfg.Log.Level)

	slog.Info("Starting MyEconomy API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	if err := dto.RegisterValidators(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := db.RunMigrations(cfg.Database.URL); err != nil {
			return err
		}
	}

	database, err := db.NewPostgresConnection(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database connection", logging.FieldError, err)
		}
	}()

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Error("Failed to close Redis connection", logging.FieldError, err)
		}
	}()

	injector, err := dependency.NewInjector(cfg, database.DB(), redisClient, dependency.Options{})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var workers sync.WaitGroup
	if cfg.Email.WorkerEnabled {
		workers.Add(1)
		go func() {
			defer workers.Done()
			injector.EmailWorker.Run(ctx)
		}()
	}

	engine := injector.Router.Setup(cfg.Server.Environment, cfg.CORS.AllowedOrigins)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		stop()
		workers.Wait()
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	workers.Wait()

	slog.Info("Server exited properly")
	return nil
}
