package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/opencafe/menu-client-go/internal/backend"
	"github.com/opencafe/menu-client-go/internal/catalog"
	"github.com/opencafe/menu-client-go/internal/config"
	"github.com/opencafe/menu-client-go/internal/events"
	httpserver "github.com/opencafe/menu-client-go/internal/http"
	"github.com/opencafe/menu-client-go/internal/menu"
	"github.com/opencafe/menu-client-go/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.Info("Client configuration",
		zap.String("port", cfg.Port),
		zap.String("backend_url", cfg.BackendURL),
		zap.String("store_path", cfg.StorePath))

	cat, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}

	kv, err := store.Open(cfg.StorePath)
	if err != nil {
		logger.Fatal("Failed to open local store", zap.Error(err))
	}
	defer kv.Close()

	api, err := backend.NewClient("pos-backend", cfg.BackendURL, &http.Client{
		Timeout: cfg.BackendTimeout,
	})
	if err != nil {
		logger.Fatal("Failed to create backend client", zap.Error(err))
	}

	bus := events.NewBus()
	vm := menu.New(cat, kv, api, bus, logger, menu.Options{PageURL: cfg.PageURL})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpserver.NewRouter(vm, cat),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("menu-client listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Fatal("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown error", zap.Error(err))
	}
}
