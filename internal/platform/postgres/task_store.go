package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/store"
)

const taskColumns = "id, title, completed, created_at, updated_at"

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
//
// IDs come from an identity column, so they increase monotonically and are
// never handed out twice even after rows are deleted.
type PostgresTaskStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// The caller owns db and is responsible for closing it.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db *sql.DB, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// List implements store.TaskStore.List
func (s *PostgresTaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, "SELECT "+taskColumns+" FROM tasks ORDER BY id")
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	log.Debug("tasks listed", slog.Int("count", len(tasks)))
	return tasks, nil
}

// Create implements store.TaskStore.Create
// The generated ID and the stored timestamps are written back to task.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create", slog.String("error", err.Error()))
		return store.NewStoreError("task", "create", "validation failed",
			errors.Join(store.ErrInvalidEntity, err))
	}

	// PostgreSQL keeps timestamps at microsecond precision, so the stored
	// values are read back and replace the ones generated in Go.
	query := `
		INSERT INTO tasks (title, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	var (
		id                   int64
		createdAt, updatedAt time.Time
	)
	err := s.db.QueryRowContext(ctx, query,
		task.Title,
		task.Completed,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&id, &createdAt, &updatedAt)
	if err != nil {
		log.Error("failed to create task", slog.String("error", err.Error()))
		return MapError(err)
	}

	task.ID = id
	task.CreatedAt = createdAt.UTC()
	task.UpdatedAt = updatedAt.UTC()
	log.Debug("task created", slog.Int64("task_id", id))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := getTask(ctx, s.db, id, false)
	if err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			log.Error("failed to get task by ID",
				slog.String("error", err.Error()),
				slog.Int64("task_id", id))
		}
		return nil, err
	}
	return task, nil
}

// Update implements store.TaskStore.Update
// The row is locked with SELECT ... FOR UPDATE for the duration of the
// transaction, so concurrent updates of the same task are applied one by one.
func (s *PostgresTaskStore) Update(
	ctx context.Context,
	id int64,
	mutate store.TaskMutator,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		// Lock the row so concurrent updates queue behind this one
		current, err := getTask(ctx, tx, id, true)
		if err != nil {
			return err
		}

		// Apply the caller's changes to a copy; identity fields are not theirs to change
		working := current.Clone()
		if err := mutate(working); err != nil {
			return err
		}
		working.ID = current.ID
		working.CreatedAt = current.CreatedAt
		if err := working.Validate(); err != nil {
			return store.NewStoreError("task", "update", "validation failed",
				errors.Join(store.ErrInvalidEntity, err))
		}

		// Write the mutated fields and take updated_at as stored
		var updatedAt time.Time
		err = tx.QueryRowContext(ctx,
			"UPDATE tasks SET title = $1, completed = $2, updated_at = $3 WHERE id = $4 RETURNING updated_at",
			working.Title,
			working.Completed,
			working.UpdatedAt,
			working.ID,
		).Scan(&updatedAt)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return store.ErrTaskNotFound
			}
			return MapError(err)
		}
		working.UpdatedAt = updatedAt.UTC()

		updated = working
		return nil
	})
	if err != nil {
		log.Debug("task update aborted",
			slog.Int64("task_id", id),
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("task updated", slog.Int64("task_id", id))
	return updated, nil
}

// Delete implements store.TaskStore.Delete
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return MapError(err)
	}

	// Zero affected rows means there was nothing to delete
	if err := CheckRowsAffected(result, "task"); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrTaskNotFound
		}
		return err
	}

	log.Debug("task deleted", slog.Int64("task_id", id))
	return nil
}

// getTask loads one task through db, which may be the pool or a transaction.
func getTask(ctx context.Context, db store.DBTX, id int64, forUpdate bool) (*domain.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE id = $1"
	if forUpdate {
		query += " FOR UPDATE"
	}

	task, err := scanTask(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	return &task, nil
}
