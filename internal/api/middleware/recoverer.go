package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/platform/logger"
)

// Recoverer turns a panic in a later handler into a 500 JSON error response
// and logs the panic value with its stack. http.ErrAbortHandler is re-raised.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				// ALLOW-PANIC: net/http relies on this sentinel to abort the response
				panic(rec)
			}

			logger.FromContext(r.Context()).Error("panic recovered",
				slog.String("panic", fmt.Sprint(rec)),
				slog.String("stack", string(debug.Stack())))

			shared.RespondWithError(w, r, http.StatusInternalServerError, "An unexpected error occurred")
		}()

		next.ServeHTTP(w, r)
	})
}
