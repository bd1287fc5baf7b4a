package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/todo-api/internal/service"
)

// getPathID extracts a task ID from the URL path parameters.
// Anything that is not a positive 64-bit integer cannot name a task, so it is
// reported as service.ErrTaskNotFound rather than as a validation error.
func getPathID(r *http.Request, paramName string) (int64, error) {
	raw := chi.URLParam(r, paramName)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, service.ErrTaskNotFound
	}
	return id, nil
}
