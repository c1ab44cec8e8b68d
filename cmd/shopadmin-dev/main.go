// Command shopadmin-dev starts the in-memory development backend.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/craftline/shopadmin/internal/devserver"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// main parses configuration and starts the HTTP dev server with graceful
// shutdown on SIGINT/SIGTERM.
func main() {
	_ = godotenv.Load()

	// Flags (env provides defaults so .env alone is enough)
	addr := flag.String("addr", envOr("SHOPADMIN_DEV_ADDR", ":4000"), "listen address")
	jwtKey := flag.String("jwt-key", os.Getenv("SHOPADMIN_DEV_JWT_KEY"), "HS256 signing key (required)")
	adminEmail := flag.String("admin-email", envOr("SHOPADMIN_DEV_EMAIL", "admin@example.com"), "admin login email")
	adminPassword := flag.String("admin-password", os.Getenv("SHOPADMIN_DEV_PASSWORD"), "admin login password (required)")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", *addr),
	)

	if *jwtKey == "" {
		logger.Fatal("missing jwt signing key (--jwt-key)")
	}
	if *adminPassword == "" {
		logger.Fatal("missing admin password (--admin-password)")
	}

	cfg, err := devserver.NewConfig(*jwtKey, *adminEmail, *adminPassword)
	if err != nil {
		logger.Fatal("build config", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           devserver.New(cfg, logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", *addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}
