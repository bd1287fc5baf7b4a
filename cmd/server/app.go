package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/todo-api/internal/api"
	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/platform/memory"
	"github.com/phrazzld/todo-api/internal/platform/postgres"
	"github.com/phrazzld/todo-api/internal/redact"
	"github.com/phrazzld/todo-api/internal/service"
	"github.com/phrazzld/todo-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil when tasks are kept in memory.
	db *sql.DB

	taskStore   store.TaskStore
	taskService service.TaskService
}

// newApplication creates a new application instance with all dependencies initialized.
// With a database URL configured, tasks are stored in PostgreSQL after the
// schema migrations have been applied; otherwise they live in process memory.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	if cfg.UsesDatabase() {
		db, err := openDatabase(ctx, cfg.Database.URL, logger)
		if err != nil {
			return nil, err
		}
		app.db = db
		app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	} else {
		logger.Info("no database configured, tasks are kept in memory")
		app.taskStore = memory.NewTaskStore(logger)
	}

	var err error
	app.taskService, err = service.NewTaskService(app.taskStore, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// openDatabase connects to PostgreSQL and brings the schema up to date.
func openDatabase(ctx context.Context, url string, logger *slog.Logger) (*sql.DB, error) {
	logger.Info("connecting to database", "url", redact.DatabaseURL(url))

	db, err := postgres.Open(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := postgres.Migrate(ctx, db, logger); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("error closing database connection", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// handler builds the HTTP router from the application dependencies.
func (app *application) handler() (http.Handler, error) {
	docs, err := api.NewDocsHandler(app.config.Docs, api.OpenAPIPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create docs handler: %w", err)
	}

	var pinger api.Pinger
	if app.db != nil {
		pinger = app.db
	}

	return api.NewRouter(api.RouterConfig{
		Tasks:          api.NewTaskHandler(app.taskService, app.logger),
		Health:         api.NewHealthHandler(pinger, app.logger),
		Docs:           docs,
		AllowedOrigins: app.config.CORS.AllowedOrigins,
		Logger:         app.logger,
	}), nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router, err := app.handler()
	if err != nil {
		return err
	}

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
		app.db = nil
	}

	app.logger.Info("application shutdown completed")
}
