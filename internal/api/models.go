package api

import (
	"time"

	"github.com/phrazzld/todo-api/internal/domain"
)

// CreateTaskRequest defines the payload for POST /api/tasks.
type CreateTaskRequest struct {
	Title     string `json:"title"     validate:"required"`
	Completed *bool  `json:"completed"`
}

// ReplaceTaskRequest defines the payload for PUT /api/tasks/{id}.
// An omitted completed flag replaces the stored value with false.
type ReplaceTaskRequest struct {
	Title     string `json:"title"     validate:"required"`
	Completed bool   `json:"completed"`
}

// UpdateTaskRequest defines the payload for PATCH /api/tasks/{id}.
// Only the fields present in the body are changed.
type UpdateTaskRequest struct {
	Title     *string `json:"title"     validate:"omitempty,min=1"`
	Completed *bool   `json:"completed"`
}

// ToPatch converts the request into a domain patch.
func (r UpdateTaskRequest) ToPatch() domain.TaskPatch {
	return domain.TaskPatch{Title: r.Title, Completed: r.Completed}
}

// TaskResponse is the JSON representation of a task.
type TaskResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Message string `json:"message"`
}

func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:        task.ID,
		Title:     task.Title,
		Completed: task.Completed,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
}

// tasksToResponse never returns nil so that an empty list encodes as [].
func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, taskToResponse(task))
	}
	return out
}
