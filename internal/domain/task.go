package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID        uuid.UUID
	Title     string
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskPatch carries a partial update; nil fields are left untouched.
type TaskPatch struct {
	Title     *string
	Completed *bool
}

// TaskRepository persists tasks. Create assigns the ID. GetByID, Update and
// Delete return ErrTaskNotFound when no task has the given ID.
type TaskRepository interface {
	Create(ctx context.Context, task Task) (*Task, error)
	List(ctx context.Context) ([]Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Task, error)
	Update(ctx context.Context, id uuid.UUID, patch TaskPatch, updatedAt time.Time) (*Task, error)
	Delete(ctx context.Context, id uuid.UUID) (*Task, error)
}
