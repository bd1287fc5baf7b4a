package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/service"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
// If logger is nil, a default logger will be used.
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// ListTasks handles GET /api/tasks requests
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.ListTasks(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// CreateTask handles POST /api/tasks requests
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	completed := req.Completed != nil && *req.Completed
	task, err := h.taskService.CreateTask(r.Context(), req.Title, completed)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// GetTask handles GET /api/tasks/{id} requests
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.GetTask(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// ReplaceTask handles PUT /api/tasks/{id} requests.
// The body is decoded and validated before the ID is resolved.
func (h *TaskHandler) ReplaceTask(w http.ResponseWriter, r *http.Request) {
	var req ReplaceTaskRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.ReplaceTask(r.Context(), id, req.Title, req.Completed)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UpdateTask handles PATCH /api/tasks/{id} requests
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req UpdateTaskRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), id, req.ToPatch())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /api/tasks/{id} requests
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeAndValidate decodes the JSON body into req and runs struct validation.
// It writes a 400 response and returns false on failure.
func (h *TaskHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if err := shared.DecodeJSON(r, req); err != nil {
		log.Debug("failed to decode request body", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return false
	}

	if err := shared.ValidateRequest(req); err != nil {
		log.Debug("request validation failed", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return false
	}
	return true
}
