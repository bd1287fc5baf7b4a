package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phrazzld/todo-api/internal/api/middleware"
	"github.com/phrazzld/todo-api/internal/api/shared"
)

// Documentation routes
const (
	DocsPath    = "/docs"
	OpenAPIPath = "/docs/openapi.json"
)

// RouterConfig holds the handlers and settings NewRouter wires together.
type RouterConfig struct {
	Tasks          *TaskHandler
	Health         *HealthHandler
	Docs           *DocsHandler
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter builds the chi router serving every HTTP route of the service.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.TraceMiddleware(cfg.Logger))
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(chimiddleware.StripSlashes)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.TraceIDHeader},
		ExposedHeaders:   []string{middleware.TraceIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Set before mounting sub-routers so they inherit the JSON handlers.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/", cfg.Health.Check)
	r.Get("/health", cfg.Health.Check)

	if cfg.Docs != nil {
		r.Get(DocsPath, cfg.Docs.ServeUI)
		r.Get(OpenAPIPath, cfg.Docs.ServeSpec)
	}

	r.Route("/api/tasks", func(r chi.Router) {
		r.Get("/", cfg.Tasks.ListTasks)
		r.Post("/", cfg.Tasks.CreateTask)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", cfg.Tasks.GetTask)
			r.Put("/", cfg.Tasks.ReplaceTask)
			r.Patch("/", cfg.Tasks.UpdateTask)
			r.Delete("/", cfg.Tasks.DeleteTask)
		})
	})

	return r
}
