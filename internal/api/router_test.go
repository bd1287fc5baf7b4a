package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/todo-api/internal/api"
	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/platform/memory"
	"github.com/phrazzld/todo-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const allowedOrigin = "http://localhost:3000"

var testDocsConfig = config.DocsConfig{
	Title:        "Todo API",
	Version:      "v1",
	SwaggerUIURL: "https://cdn.jsdelivr.net/npm/swagger-ui-dist/",
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	log, _ := logger.NewTestLogger()
	clock := time.Date(2025, time.July, 4, 9, 0, 0, 0, time.UTC)
	svc, err := service.NewTaskService(memory.NewTaskStore(log), log, service.WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}))
	require.NoError(t, err)

	docs, err := api.NewDocsHandler(testDocsConfig, api.OpenAPIPath)
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Tasks:          api.NewTaskHandler(svc, log),
		Health:         api.NewHealthHandler(nil, log),
		Docs:           docs,
		AllowedOrigins: []string{allowedOrigin},
		Logger:         log,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doRequest(t *testing.T, srv *httptest.Server, method, path, body string) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeTask(t *testing.T, resp *http.Response) api.TaskResponse {
	t.Helper()
	var task api.TaskResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&task))
	return task
}

func decodeError(t *testing.T, resp *http.Response) shared.ErrorResponse {
	t.Helper()
	var errResp shared.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	return errResp
}

func TestTaskLifecycleScenario(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, srv, http.MethodPost, "/api/tasks", `{"title":"First task"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	first := decodeTask(t, resp)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "First task", first.Title)
	assert.False(t, first.Completed)
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)

	resp = doRequest(t, srv, http.MethodPost, "/api/tasks", `{"title":"Second task","completed":true}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	second := decodeTask(t, resp)
	assert.Equal(t, int64(2), second.ID)
	assert.True(t, second.Completed)

	resp = doRequest(t, srv, http.MethodPatch, "/api/tasks/2", `{"completed":false}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	patched := decodeTask(t, resp)
	assert.Equal(t, "Second task", patched.Title)
	assert.False(t, patched.Completed)
	assert.True(t, patched.UpdatedAt.After(second.UpdatedAt))
	assert.Equal(t, second.CreatedAt, patched.CreatedAt)

	resp = doRequest(t, srv, http.MethodDelete, "/api/tasks/1", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, srv, http.MethodGet, "/api/tasks/1", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	errResp := decodeError(t, resp)
	assert.Equal(t, "Task not found", errResp.Error)
	assert.True(t, shared.IsTraceID(errResp.TraceID))

	resp = doRequest(t, srv, http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tasks []api.TaskResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, int64(2), tasks[0].ID)
	assert.Equal(t, patched, tasks[0])

	resp = doRequest(t, srv, http.MethodPost, "/api/tasks", `{"title":"Third task"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, int64(3), decodeTask(t, resp).ID, "ids are never reused")
}

func TestGetReturnsWhatCreateReturned(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, srv, http.MethodPost, "/api/tasks", `{"title":"  Padded  ","completed":true}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeTask(t, resp)
	assert.Equal(t, "Padded", created.Title)

	resp = doRequest(t, srv, http.MethodGet, "/api/tasks/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created, decodeTask(t, resp))
}

func TestReplaceTask(t *testing.T) {
	srv := newTestServer(t)
	created := decodeTask(t, doRequest(t, srv, http.MethodPost, "/api/tasks", `{"title":"Original","completed":true}`))

	resp := doRequest(t, srv, http.MethodPut, "/api/tasks/1", `{"title":"x","completed":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	replaced := decodeTask(t, resp)
	assert.Equal(t, "x", replaced.Title)
	assert.True(t, replaced.Completed)
	assert.Equal(t, created.CreatedAt, replaced.CreatedAt)
	assert.True(t, replaced.UpdatedAt.After(created.UpdatedAt))

	resp = doRequest(t, srv, http.MethodPut, "/api/tasks/1", `{"title":"No flag"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decodeTask(t, resp).Completed, "omitted completed resets to false")
}

func TestEmptyListIsArray(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, srv, http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", buf.String())
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"create missing title", http.MethodPost, "/api/tasks", `{"completed":true}`, http.StatusBadRequest, "Invalid title: required field"},
		{"create empty title", http.MethodPost, "/api/tasks", `{"title":""}`, http.StatusBadRequest, "Invalid title: required field"},
		{"create blank title", http.MethodPost, "/api/tasks", `{"title":"   "}`, http.StatusBadRequest, "Invalid title: cannot be empty"},
		{"create unknown field", http.MethodPost, "/api/tasks", `{"title":"x","due":"soon"}`, http.StatusBadRequest, "Invalid request format"},
		{"create wrong type", http.MethodPost, "/api/tasks", `{"title":"x","completed":"yes"}`, http.StatusBadRequest, "Invalid request format"},
		{"create malformed", http.MethodPost, "/api/tasks", `{"title":`, http.StatusBadRequest, "Invalid request format"},
		{"create empty body", http.MethodPost, "/api/tasks", "", http.StatusBadRequest, "Invalid request format"},
		{"get missing", http.MethodGet, "/api/tasks/99", "", http.StatusNotFound, "Task not found"},
		{"get zero id", http.MethodGet, "/api/tasks/0", "", http.StatusNotFound, "Task not found"},
		{"get non numeric id", http.MethodGet, "/api/tasks/abc", "", http.StatusNotFound, "Task not found"},
		{"get negative id", http.MethodGet, "/api/tasks/-1", "", http.StatusNotFound, "Task not found"},
		{"delete non numeric id", http.MethodDelete, "/api/tasks/abc", "", http.StatusNotFound, "Task not found"},
		{"patch negative id", http.MethodPatch, "/api/tasks/-1", `{"completed":true}`, http.StatusNotFound, "Task not found"},
		{"get fractional id", http.MethodGet, "/api/tasks/1.5", "", http.StatusNotFound, "Task not found"},
		{"get overflowing id", http.MethodGet, "/api/tasks/99999999999999999999", "", http.StatusNotFound, "Task not found"},
		{"replace missing", http.MethodPut, "/api/tasks/99", `{"title":"x","completed":true}`, http.StatusNotFound, "Task not found"},
		{"replace blank title", http.MethodPut, "/api/tasks/1", `{"title":" ","completed":true}`, http.StatusBadRequest, "Invalid title: cannot be empty"},
		{"replace invalid before missing", http.MethodPut, "/api/tasks/99", `{"title":" "}`, http.StatusBadRequest, "Invalid title: cannot be empty"},
		{"patch missing", http.MethodPatch, "/api/tasks/99", `{"completed":true}`, http.StatusNotFound, "Task not found"},
		{"patch empty title", http.MethodPatch, "/api/tasks/1", `{"title":""}`, http.StatusBadRequest, "Invalid title: too short"},
		{"patch blank title", http.MethodPatch, "/api/tasks/1", `{"title":"  "}`, http.StatusBadRequest, "Invalid title: cannot be empty"},
		{"patch empty object", http.MethodPatch, "/api/tasks/1", `{}`, http.StatusBadRequest, "Invalid request: at least one of title or completed must be provided"},
		{"delete missing", http.MethodDelete, "/api/tasks/99", "", http.StatusNotFound, "Task not found"},
		{"unknown route", http.MethodGet, "/api/unknown", "", http.StatusNotFound, "Not found"},
		{"method not allowed", http.MethodPost, "/api/tasks/1", `{"title":"x"}`, http.StatusMethodNotAllowed, "Method not allowed"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t)
			seed := doRequest(t, srv, http.MethodPost, "/api/tasks", `{"title":"Seed"}`)
			require.Equal(t, http.StatusCreated, seed.StatusCode)

			resp := doRequest(t, srv, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
			assert.Equal(t, tc.wantError, decodeError(t, resp).Error)

			// Failed requests never change the stored task
			got := decodeTask(t, doRequest(t, srv, http.MethodGet, "/api/tasks/1", ""))
			assert.Equal(t, "Seed", got.Title)
			assert.False(t, got.Completed)
		})
	}
}

func TestTrailingSlashes(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, srv, http.MethodPost, "/api/tasks/", `{"title":"Slash"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doRequest(t, srv, http.MethodGet, "/api/tasks/1/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Slash", decodeTask(t, resp).Title)
}

func TestHealthRoutes(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/health", "/"} {
		resp := doRequest(t, srv, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, resp.StatusCode, path)

		var health api.HealthResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
		assert.Equal(t, "Healthy", health.Message)
	}
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t)

	t.Run("allowed origin", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/tasks", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", allowedOrigin)

		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, allowedOrigin, resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Empty(t, resp.Header.Get("Access-Control-Allow-Credentials"))
	})

	t.Run("other origin", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/tasks", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "http://evil.example")

		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/tasks/1", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", allowedOrigin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPatch)

		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Less(t, resp.StatusCode, 300)
		assert.Equal(t, allowedOrigin, resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPatch)
	})
}

func TestDocsRoutes(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, srv, http.MethodGet, api.OpenAPIPath, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var doc map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, api.OpenAPIVersion, doc["openapi"])

	resp = doRequest(t, srv, http.MethodGet, api.DocsPath, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))
}

func TestTraceIDHeader(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, srv, http.MethodGet, "/api/tasks/5", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	traceID := resp.Header.Get("X-Trace-ID")
	assert.True(t, shared.IsTraceID(traceID))
	assert.Equal(t, traceID, decodeError(t, resp).TraceID)
}
