package domain

import (
	"fmt"
	"strings"
	"time"
)

// Task-specific validation errors
var (
	// ErrEmptyTaskTitle is returned when a task title is missing, empty or
	// consists only of whitespace.
	ErrEmptyTaskTitle = fmt.Errorf("%w: task title cannot be empty", ErrValidation)

	// ErrEmptyTaskPatch is returned when a partial update supplies no fields.
	ErrEmptyTaskPatch = fmt.Errorf("%w: no fields to update", ErrValidation)

	// ErrInvalidTaskTimestamps is returned when UpdatedAt precedes CreatedAt.
	ErrInvalidTaskTimestamps = fmt.Errorf("%w: updated_at precedes created_at", ErrValidation)
)

// Task represents a single to-do item.
// ID is zero until a TaskStore assigns one on creation.
type Task struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskPatch carries the fields of a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title     *string
	Completed *bool
}

// IsEmpty reports whether the patch supplies no fields at all.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Completed == nil
}

// Validate checks the patch without applying it.
func (p TaskPatch) Validate() error {
	if p.IsEmpty() {
		return NewValidationError("", "at least one of title or completed must be provided", ErrEmptyTaskPatch)
	}
	if p.Title != nil {
		if _, err := NormalizeTitle(*p.Title); err != nil {
			return err
		}
	}
	return nil
}

// NormalizeTitle trims surrounding whitespace and rejects empty titles.
func NormalizeTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", NewValidationError("title", "cannot be empty", ErrEmptyTaskTitle)
	}
	return trimmed, nil
}

// NewTask creates a new, not yet stored Task stamped with now.
// Returns a validation error if the title is empty.
func NewTask(title string, completed bool, now time.Time) (*Task, error) {
	normalized, err := NormalizeTitle(title)
	if err != nil {
		return nil, err
	}

	now = now.UTC()
	return &Task{
		Title:     normalized,
		Completed: completed,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID < 0 {
		return NewValidationError("id", "must be positive", ErrInvalidID)
	}

	if strings.TrimSpace(t.Title) == "" {
		return NewValidationError("title", "cannot be empty", ErrEmptyTaskTitle)
	}

	if t.UpdatedAt.Before(t.CreatedAt) {
		return NewValidationError("updated_at", "cannot precede created_at", ErrInvalidTaskTimestamps)
	}

	return nil
}

// Replace overwrites both mutable fields and refreshes UpdatedAt.
func (t *Task) Replace(title string, completed bool, now time.Time) error {
	normalized, err := NormalizeTitle(title)
	if err != nil {
		return err
	}

	t.Title = normalized
	t.Completed = completed
	t.touch(now)
	return nil
}

// Apply overwrites only the fields supplied by the patch and refreshes UpdatedAt.
// The task is left unchanged when the patch is invalid.
func (t *Task) Apply(patch TaskPatch, now time.Time) error {
	if err := patch.Validate(); err != nil {
		return err
	}

	if patch.Title != nil {
		// Already validated above.
		t.Title, _ = NormalizeTitle(*patch.Title)
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	t.touch(now)
	return nil
}

// Clone returns a copy of the task that shares no state with the original.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// touch refreshes UpdatedAt, never letting it fall behind CreatedAt.
func (t *Task) touch(now time.Time) {
	now = now.UTC()
	if now.Before(t.CreatedAt) {
		now = t.CreatedAt
	}
	t.UpdatedAt = now
}
