package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateWritesValidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "openapi.json")

	require.NoError(t, generate(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	doc, err := openapi3.NewLoader().LoadFromData(data)
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))
	assert.Equal(t, "Todo API", doc.Info.Title)
	assert.NotNil(t, doc.Paths.Value("/api/tasks/{id}"))
}
