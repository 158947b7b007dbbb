/*
Package main is the entry point for the Teslo shop server.

It loads configuration, initializes logging, opens the database pool, wires the chat gateway
and the HTTP routes, and shuts everything down gracefully on SIGINT or SIGTERM.
*/
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

	"teslo/internal/app/chat"
	"teslo/internal/app/db"
	"teslo/internal/app/storage"
	"teslo/internal/configs"
	"teslo/internal/handler"
	"teslo/internal/pkg/auth/jwt"
	"teslo/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logx.InitGlobalLogger(cfg.IsDevelopment())
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Bool("seed_enabled", cfg.SeedEnabled).
		Bool("storage_enabled", cfg.StorageEnabled()).
		Dur("ws_auth_timeout", cfg.WSAuthTimeout).
		Msg("Configuration loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to connect to database")
	}
	defer pool.Close()

	store := db.NewStore(pool)

	var storageService storage.StorageService
	if cfg.StorageEnabled() {
		storageService, err = storage.NewStorageService(ctx, storage.ConfigFrom(cfg))
		if err != nil {
			logx.Fatal(err, "Failed to initialize object storage")
		}
	} else {
		logx.Warn("Object storage not configured; file routes are disabled")
	}

	registry := chat.NewRegistry(store)
	gateway := chat.NewGateway(registry, jwt.NewVerifier(cfg.JWTSecret), cfg.WSAuthTimeout)

	router := handler.Router(&handler.AppDeps{
		Config:         cfg,
		Gateway:        gateway,
		Users:          store,
		Products:       store,
		Seeder:         store,
		StorageService: storageService,
	})

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logx.Info("Teslo Shop Server starting", "addr", serverAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "Server forced to shutdown")
	}

	gateway.Shutdown()

	logx.Info("Server gracefully stopped.")
}
