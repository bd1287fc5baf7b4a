package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/phrazzld/todo-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var docsConfig = config.DocsConfig{
	Title:        "Todo API",
	Version:      "v1",
	SwaggerUIURL: "https://cdn.jsdelivr.net/npm/swagger-ui-dist",
}

func TestNewOpenAPISpecIsValid(t *testing.T) {
	doc := NewOpenAPISpec(docsConfig)
	require.NoError(t, doc.Validate(context.Background()))

	assert.Equal(t, OpenAPIVersion, doc.OpenAPI)
	assert.Equal(t, "Todo API", doc.Info.Title)
	assert.Equal(t, "v1", doc.Info.Version)

	for _, path := range []string{"/", "/health", "/api/tasks", "/api/tasks/{id}"} {
		assert.NotNil(t, doc.Paths.Value(path), "missing path %s", path)
	}

	item := doc.Paths.Value("/api/tasks/{id}")
	require.NotNil(t, item)
	for method, op := range map[string]*openapi3.Operation{
		http.MethodGet:    item.Get,
		http.MethodPut:    item.Put,
		http.MethodPatch:  item.Patch,
		http.MethodDelete: item.Delete,
	} {
		require.NotNil(t, op, method)
		assert.NotNil(t, op.Responses.Status(http.StatusNotFound), "%s documents 404", method)
	}
	assert.NotNil(t, item.Delete.Responses.Status(http.StatusNoContent))

	for _, name := range []string{"Task", "TaskCreate", "TaskReplace", "TaskUpdate", "Error"} {
		assert.Contains(t, doc.Components.Schemas, name)
	}
}

func TestOpenAPISpecRoundTrip(t *testing.T) {
	data, err := MarshalOpenAPISpec(NewOpenAPISpec(docsConfig))
	require.NoError(t, err)

	loaded, err := openapi3.NewLoader().LoadFromData(data)
	require.NoError(t, err)
	require.NoError(t, loaded.Validate(context.Background()))
	assert.Equal(t, []string{"title"}, loaded.Components.Schemas["TaskCreate"].Value.Required)
}

func TestDocsHandler(t *testing.T) {
	h, err := NewDocsHandler(docsConfig, OpenAPIPath)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.ServeSpec(w, httptest.NewRequest(http.MethodGet, OpenAPIPath, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Contains(t, doc, "paths")

	w = httptest.NewRecorder()
	h.ServeUI(w, httptest.NewRequest(http.MethodGet, DocsPath, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "https://cdn.jsdelivr.net/npm/swagger-ui-dist/swagger-ui-bundle.js")
	assert.Contains(t, body, "<title>Todo API</title>")
}
