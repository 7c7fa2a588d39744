package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/expenses/internal/auth"
	"github.com/mmynk/expenses/internal/config"
	"github.com/mmynk/expenses/internal/middleware"
	"github.com/mmynk/expenses/internal/service"
	"github.com/mmynk/expenses/internal/storage"
	"github.com/mmynk/expenses/internal/storage/postgres"
	"github.com/mmynk/expenses/internal/storage/sqlite"
	"github.com/mmynk/expenses/pkg/logging"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(logging.Options{Level: &cfg.LogLevel, Format: cfg.LogFormat})

	if err := run(cfg, openStore); err != nil {
		slog.Error("Expense server failed", "error", err)
		os.Exit(1)
	}
}

type storeOpener func(config.Config) (storage.Store, error)

// run serves until SIGINT or SIGTERM. The store is closed on every return path.
func run(cfg config.Config, open storeOpener) error {
	store, err := open(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("Failed to close storage", "error", err)
		}
	}()

	opts := service.RouterOptions{Metrics: middleware.NewMetrics()}
	if cfg.AuthEnabled() {
		checker, err := auth.NewPasswordChecker(cfg.PasswordHash)
		if err != nil {
			return fmt.Errorf("failed to initialize auth: %w", err)
		}
		opts.Password = checker
		opts.JWTManager = auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
		slog.Info("Bearer-token auth enabled", "token_ttl", cfg.TokenTTL)
	} else {
		slog.Warn("Auth disabled: set JWT_SECRET and AUTH_PASSWORD_HASH to enable it")
	}

	// Wrap with h2c for HTTP/2 without TLS
	handler := h2c.NewHandler(service.NewRouter(store, opts), &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Shutdown failed", "error", err)
		}
	}()

	slog.Info("Expense server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	slog.Info("Expense server stopped")
	return nil
}

func openStore(cfg config.Config) (storage.Store, error) {
	if cfg.DatabaseURL != "" {
		store, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "backend", "postgres")
		return store, nil
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	slog.Info("Storage initialized", "backend", "sqlite", "database", cfg.DBPath)
	return store, nil
}
