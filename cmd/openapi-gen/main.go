// Command openapi-gen writes the service's OpenAPI document to a file so it
// can be committed and consumed by client generators.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/phrazzld/todo-api/internal/api"
	"github.com/phrazzld/todo-api/internal/config"
)

func main() {
	out := flag.String("out", "interfaces/openapi.json", "path of the generated OpenAPI document")
	flag.Parse()

	if err := generate(*out); err != nil {
		slog.Error("failed to generate OpenAPI document", "error", err)
		os.Exit(1)
	}
	slog.Info("OpenAPI document written", "path", *out)
}

// generate validates the document built from the loaded docs configuration
// and writes it to path, creating parent directories as needed.
func generate(path string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	doc := api.NewOpenAPISpec(cfg.Docs)
	if err := doc.Validate(context.Background()); err != nil {
		return fmt.Errorf("invalid OpenAPI document: %w", err)
	}

	data, err := api.MarshalOpenAPISpec(doc)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
