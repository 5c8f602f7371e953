// Package main is the entry point for the kopikeliling API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"kopikeliling/internal/domain/auth"
	"kopikeliling/internal/domain/policy"
	"kopikeliling/internal/domain/records"
	v1 "kopikeliling/internal/infrastructure/http/v1"
	"kopikeliling/internal/infrastructure/metrics"
	"kopikeliling/internal/infrastructure/storage"
	"kopikeliling/pkg/logger"
)

var version = "dev"

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)
	log.Infow("starting kopikeliling server", "version", version)

	// --- Policy ---
	pol := policy.Default()
	if path := getEnv("POLICY_FILE", ""); path != "" {
		if pol, err = policy.Load(path); err != nil {
			log.Fatalw("failed to load policy", "path", path, "error", err)
		}
		log.Infow("policy loaded", "path", path)
	}

	// --- Storage ---
	opened, err := storage.Open(ctx, storage.Config{
		Driver:      getEnv("STORAGE_DRIVER", storage.DriverSQLite),
		SQLitePath:  getEnv("SQLITE_PATH", "data/kopikeliling.db"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
	})
	if err != nil {
		log.Fatalw("failed to open storage", "error", err)
	}
	defer func() {
		if err := opened.Close(); err != nil {
			log.Warnw("failed to close storage", "error", err)
		}
	}()

	opts := append(opened.Options(), records.WithObserver(metrics.StoreObserver{}))
	store, err := records.Open(ctx, opened.Backend, opts...)
	if err != nil {
		log.Fatalw("failed to open record store", "error", err)
	}
	log.Infow("record store ready", "transactions", len(store.Snapshot().Transactions))

	// --- Auth ---
	var authService *auth.Service
	if getEnvBool("AUTH_ENABLED", false) {
		hash := getEnv("OWNER_PASSWORD_HASH", "")
		if hash == "" {
			log.Fatalw("AUTH_ENABLED requires OWNER_PASSWORD_HASH")
		}
		jwtConfig := auth.DefaultJWTConfig(mustEnv("JWT_SECRET"))
		jwtConfig.AccessTokenTTL = getEnvDuration("TOKEN_TTL", jwtConfig.AccessTokenTTL)
		authConfig := auth.DefaultServiceConfig()
		authConfig.MaxLoginAttempts = getEnvInt("MAX_LOGIN_ATTEMPTS", authConfig.MaxLoginAttempts)
		authService = auth.NewService(
			auth.Owner{Username: getEnv("OWNER_USERNAME", auth.DefaultUsername), PasswordHash: hash},
			auth.NewJWTService(jwtConfig),
			authConfig,
		)
		log.Infow("owner authentication enabled", "token_ttl", jwtConfig.AccessTokenTTL)
	} else {
		log.Warn("authentication disabled, API is open")
	}

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Store:       store,
		Policy:      pol,
		Logger:      log,
		AuthService: authService,
		Version:     version,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
