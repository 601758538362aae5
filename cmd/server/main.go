package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/debty-app/debty/internal/auth"
	"github.com/debty-app/debty/internal/config"
	"github.com/debty-app/debty/internal/ledger"
	"github.com/debty-app/debty/internal/metrics"
	"github.com/debty-app/debty/internal/server"
	"github.com/debty-app/debty/internal/service"
	"github.com/debty-app/debty/internal/storage"
	"github.com/debty-app/debty/internal/storage/memory"
	"github.com/debty-app/debty/internal/storage/sqlite"
	"github.com/debty-app/debty/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(logging.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		NoColor:   !cfg.Logging.Colored,
		AddSource: cfg.Logging.IncludeCaller,
	})

	store, err := openStore(logger, cfg.Storage)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Closing storage failed", "error", err)
		}
	}()

	if cfg.Auth.UsingDevSecret() {
		logger.Warn("JWT_SECRET is not set; using the development secret")
	}

	var m *metrics.Metrics
	if cfg.HTTP.MetricsEnabled {
		m = metrics.New()
	}

	// A nil *metrics.Metrics must not reach NewBooks as a non-nil Observer.
	var observer ledger.Observer
	if m != nil {
		observer = m
	}
	books := ledger.NewBooks(store, logger, observer)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:         server.StoreHealth{Store: store},
		Ledger:         service.NewLedgerService(books, logger),
		Auth:           service.NewAuthService(authenticator, jwtManager, books, logger),
		JWT:            jwtManager,
		Metrics:        m,
		AllowedOrigins: cfg.HTTP.AllowedOrigins(),
		StaticDir:      cfg.HTTP.StaticDir,
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("Received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			logger.Error("Server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}

// openStore returns SQLite storage when a database path is configured and
// in-memory storage otherwise.
func openStore(logger *slog.Logger, cfg config.StorageConfig) (storage.Store, error) {
	if cfg.DBPath == "" {
		logger.Warn("DB_PATH is not set; data will not survive a restart")
		return memory.New(), nil
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	logger.Info("Storage initialized", "database", cfg.DBPath)
	return store, nil
}
