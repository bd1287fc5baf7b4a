package store

import (
	"context"

	"github.com/phrazzld/todo-api/internal/domain"
)

// TaskMutator edits a task in place inside TaskStore.Update.
// Returning an error aborts the update and leaves the stored task unchanged.
type TaskMutator func(task *domain.Task) error

// TaskStore defines the interface for task data persistence.
//
// Implementations must be safe for concurrent use. Every method is a single
// atomic step: no caller can observe a half-applied write, and two concurrent
// creates never receive the same ID. Returned tasks are copies; mutating them
// does not affect the stored records.
type TaskStore interface {
	// List returns all tasks ordered by ID, which is also insertion order.
	// Returns an empty slice if no tasks exist.
	List(ctx context.Context) ([]*domain.Task, error)

	// Create assigns the next ID to the task and stores it.
	// IDs are strictly increasing and never reused, even after deletion.
	// The task's ID field is set on success.
	// Returns ErrInvalidEntity if the task fails domain validation.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// Update loads the task, applies mutate to it and saves the result,
	// all while holding exclusive access to that task.
	// Returns ErrTaskNotFound if the task does not exist, or the error
	// returned by mutate unchanged.
	Update(ctx context.Context, id int64, mutate TaskMutator) (*domain.Task, error)

	// Delete removes a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id int64) error
}
