package memory

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/store"
)

// TaskStore implements store.TaskStore with a map guarded by a single RWMutex.
// Reads share the lock; every write holds it exclusively, which also
// serializes ID assignment.
type TaskStore struct {
	mu     sync.RWMutex
	tasks  map[int64]*domain.Task
	order  []int64 // IDs in insertion order; ascending because IDs only grow
	lastID int64
	logger *slog.Logger
}

// Compile-time check
var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates an empty TaskStore. A nil logger falls back to slog.Default().
func NewTaskStore(logger *slog.Logger) *TaskStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{
		tasks:  make(map[int64]*domain.Task),
		logger: logger.With(slog.String("component", "memory_task_store")),
	}
}

// List returns copies of all tasks in insertion order.
func (s *TaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tasks[id].Clone())
	}
	return out, nil
}

// Create assigns the next ID and stores a copy of task.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return store.NewStoreError("task", "create", "validation failed",
			errors.Join(store.ErrInvalidEntity, err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// IDs come from a counter that only grows, so deleted IDs are never reused
	s.lastID++
	task.ID = s.lastID
	// Store a copy so the caller cannot modify the stored record
	s.tasks[task.ID] = task.Clone()
	s.order = append(s.order, task.ID)

	s.logger.Debug("task stored", slog.Int64("task_id", task.ID))
	return nil
}

// GetByID returns a copy of the task with the given ID.
func (s *TaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return task.Clone(), nil
}

// Update applies mutate to a working copy of the task under the write lock
// and stores the copy only if mutate succeeds and the result is valid.
func (s *TaskStore) Update(ctx context.Context, id int64, mutate store.TaskMutator) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}

	// Mutate a copy; the stored task stays untouched if anything fails
	working := current.Clone()
	if err := mutate(working); err != nil {
		return nil, err
	}

	// The ID and creation time are immutable whatever mutate did.
	working.ID = current.ID
	working.CreatedAt = current.CreatedAt
	if err := working.Validate(); err != nil {
		return nil, store.NewStoreError("task", "update", "validation failed",
			errors.Join(store.ErrInvalidEntity, err))
	}

	s.tasks[id] = working
	s.logger.Debug("task replaced", slog.Int64("task_id", id))
	return working.Clone(), nil
}

// Delete removes the task with the given ID. Its ID is never handed out again.
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(s.tasks, id)

	// Keep insertion order for List
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	s.logger.Debug("task removed", slog.Int64("task_id", id))
	return nil
}
