// Package main implements the entry point for the Todo API server,
// which exposes CRUD operations on tasks over HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/platform/logger"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "todo-api: %v\n", err)
		os.Exit(1)
	}
}

// run loads configuration, sets up logging, builds the application and
// serves HTTP until SIGINT or SIGTERM is received.
func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("server configuration loaded",
		"addr", cfg.Server.Addr(),
		"log_level", cfg.Server.LogLevel,
		"allowed_origins", cfg.CORS.AllowedOrigins,
		"database_configured", cfg.UsesDatabase())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	return app.Run(ctx)
}
