package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hongminglow/blog-be/internal/config"
	"github.com/hongminglow/blog-be/internal/logging"
	"github.com/hongminglow/blog-be/internal/server"
	"github.com/hongminglow/blog-be/internal/storage"
	"github.com/hongminglow/blog-be/internal/storage/memory"
	"github.com/hongminglow/blog-be/internal/storage/postgres"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.NewJSON(os.Stderr, "info").Error(context.Background(), "load config", "error", err)
		os.Exit(1)
	}

	log := logging.NewJSON(os.Stdout, cfg.LogLevel)
	ctx := context.Background()
	if envErr != nil {
		log.Debug(ctx, "no .env file found; relying on existing environment")
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Error(ctx, "init storage", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	srv := server.New(cfg, store, log)
	if err := srv.Bootstrap(ctx); err != nil {
		log.Error(ctx, "bootstrap admin", "error", err)
		os.Exit(1)
	}

	go func() {
		log.Info(ctx, "blog backend listening", "addr", cfg.HTTPAddress(), "prefix", cfg.APIPrefix, "storage", cfg.StorageDriver)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Error(ctx, "graceful shutdown error", "error", err)
	}
}

func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	if cfg.StorageDriver == config.DriverMemory {
		return memory.New(), nil
	}
	return postgres.Open(ctx, cfg.DatabaseURL)
}
