package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"

	"pawtrail/internal/announcement/handler"
	"pawtrail/internal/announcement/service"
	"pawtrail/internal/announcement/store"
	"pawtrail/internal/httpapi"
	"pawtrail/internal/photo"
	"pawtrail/internal/platform/config"
	"pawtrail/internal/platform/httpserver"
	"pawtrail/internal/platform/logger"
	"pawtrail/internal/platform/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	photos, err := photo.NewStore(cfg.PhotoDir)
	if err != nil {
		return err
	}

	st, closeStore, err := buildStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := service.New(st, photos, photo.Sniff, cfg.PhotoBaseURL, cfg.MaxPhotoBytes, m, log)
	h := handler.New(svc, log, cfg.MaxBodyBytes, cfg.MaxPhotoBytes)
	router := httpapi.NewRouter(&cfg, h, m, registry, log)

	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func buildStore(cfg config.Config, log *slog.Logger) (store.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Info("using in-memory store")
		return store.NewInMemoryStore(), func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, err
	}

	pg := store.NewPostgres(db)
	if err := pg.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, nil, err
	}

	log.Info("using postgres store")
	return pg, func() { db.Close() }, nil
}
