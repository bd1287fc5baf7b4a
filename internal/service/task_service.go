package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/store"
)

// TaskService provides task-related operations
type TaskService interface {
	// ListTasks returns every task in creation order.
	ListTasks(ctx context.Context) ([]*domain.Task, error)

	// CreateTask validates the title and stores a new task.
	CreateTask(ctx context.Context, title string, completed bool) (*domain.Task, error)

	// GetTask retrieves a task by its ID.
	GetTask(ctx context.Context, id int64) (*domain.Task, error)

	// ReplaceTask overwrites both mutable fields of an existing task.
	ReplaceTask(ctx context.Context, id int64, title string, completed bool) (*domain.Task, error)

	// UpdateTask overwrites only the fields present in patch.
	UpdateTask(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error)

	// DeleteTask removes a task permanently.
	DeleteTask(ctx context.Context, id int64) error
}

// Option configures a task service.
type Option func(*taskServiceImpl)

// WithClock replaces time.Now as the source of timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *taskServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	tasks  store.TaskStore
	logger *slog.Logger
	now    func() time.Time
}

// NewTaskService creates a new TaskService.
// It returns an error if the store is nil.
func NewTaskService(tasks store.TaskStore, logger *slog.Logger, opts ...Option) (TaskService, error) {
	if tasks == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "task store cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &taskServiceImpl{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_service")),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		s.log(ctx).Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}
	return tasks, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(ctx context.Context, title string, completed bool) (*domain.Task, error) {
	log := s.log(ctx)

	// Build and validate the task before touching the store
	task, err := domain.NewTask(title, completed, s.now())
	if err != nil {
		log.Debug("rejected task creation", slog.String("error", err.Error()))
		return nil, err
	}

	// The store assigns the ID
	if err := s.tasks.Create(ctx, task); err != nil {
		log.Error("failed to create task", slog.String("error", err.Error()))
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}

	log.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.Bool("completed", task.Completed))
	return task, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	// IDs start at 1, so anything lower cannot exist
	if id <= 0 {
		return nil, ErrTaskNotFound
	}

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if !store.IsNotFoundError(err) {
			s.log(ctx).Error("failed to get task",
				slog.Int64("task_id", id),
				slog.String("error", err.Error()))
		}
		return nil, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}
	return task, nil
}

// ReplaceTask implements TaskService.ReplaceTask
// The title is validated before the task is looked up.
func (s *taskServiceImpl) ReplaceTask(
	ctx context.Context,
	id int64,
	title string,
	completed bool,
) (*domain.Task, error) {
	// Reject an invalid title before checking whether the task exists
	if _, err := domain.NormalizeTitle(title); err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, ErrTaskNotFound
	}

	// Overwrite both fields atomically inside the store
	task, err := s.tasks.Update(ctx, id, func(task *domain.Task) error {
		return task.Replace(title, completed, s.now())
	})
	if err != nil {
		return nil, s.mutationError(ctx, "replace_task", id, err)
	}

	s.log(ctx).Info("task replaced",
		slog.Int64("task_id", task.ID),
		slog.Bool("completed", task.Completed))
	return task, nil
}

// UpdateTask implements TaskService.UpdateTask
// The patch is validated before the task is looked up.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	id int64,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	// Reject an empty patch or a blank title before checking whether the task exists
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, ErrTaskNotFound
	}

	// Only the fields present in the patch change
	task, err := s.tasks.Update(ctx, id, func(task *domain.Task) error {
		return task.Apply(patch, s.now())
	})
	if err != nil {
		return nil, s.mutationError(ctx, "update_task", id, err)
	}

	s.log(ctx).Info("task updated",
		slog.Int64("task_id", task.ID),
		slog.Bool("title_changed", patch.Title != nil),
		slog.Bool("completed_changed", patch.Completed != nil))
	return task, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrTaskNotFound
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return s.mutationError(ctx, "delete_task", id, err)
	}

	s.log(ctx).Info("task deleted", slog.Int64("task_id", id))
	return nil
}

// mutationError logs a failed store mutation and wraps it for the caller.
// Expected outcomes (missing task, invalid input) are logged at debug level.
func (s *taskServiceImpl) mutationError(ctx context.Context, operation string, id int64, err error) error {
	switch {
	case store.IsNotFoundError(err), errors.Is(err, domain.ErrValidation):
		s.log(ctx).Debug("task mutation rejected",
			slog.String("operation", operation),
			slog.Int64("task_id", id),
			slog.String("error", err.Error()))
	default:
		s.log(ctx).Error("task mutation failed",
			slog.String("operation", operation),
			slog.Int64("task_id", id),
			slog.String("error", err.Error()))
	}
	return NewTaskServiceError(operation, "failed to modify task", err)
}

func (s *taskServiceImpl) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}
