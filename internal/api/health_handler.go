package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/platform/logger"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler serves the liveness endpoints.
type HealthHandler struct {
	db     Pinger
	logger *slog.Logger
}

// NewHealthHandler creates a HealthHandler. db may be nil when tasks are kept
// in memory; otherwise every check also pings the database.
func NewHealthHandler(db Pinger, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		db:     db,
		logger: logger.With(slog.String("component", "health_handler")),
	}
}

// Check handles GET /health and GET /
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := h.db.PingContext(ctx); err != nil {
			logger.FromContextOrDefault(r.Context(), h.logger).Warn("health check failed",
				slog.String("error", err.Error()))
			shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Service unavailable", err)
			return
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Message: "Healthy"})
}
