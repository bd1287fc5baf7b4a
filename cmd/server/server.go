package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

const readHeaderTimeout = 5 * time.Second

// startHTTPServer listens on the configured address and serves router until
// ctx is canceled.
func (app *application) startHTTPServer(ctx context.Context, router http.Handler) error {
	ln, err := net.Listen("tcp", app.config.Server.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", app.config.Server.Addr(), err)
	}
	return app.serve(ctx, ln, router)
}

// serve runs an HTTP server on ln. When ctx is canceled the server stops
// accepting connections and in-flight requests get up to the configured
// shutdown timeout to finish.
func (app *application) serve(ctx context.Context, ln net.Listener, router http.Handler) error {
	server := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		app.logger.Info("starting server", "addr", ln.Addr().String())
		serveErr <- server.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		app.logger.Error("server failed", "error", err)
		return err
	case <-ctx.Done():
		app.logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("server shutdown failed", "error", err)
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	app.logger.Info("server shutdown completed")
	return nil
}
