package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session is a recorded Pomodoro interval. TaskID is a weak reference: deleting
// the task leaves the session in place.
type Session struct {
	ID        uuid.UUID
	TaskID    uuid.UUID
	Duration  float64
	StartTime time.Time
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionWithTask is a session with its task reference expanded. Task is nil
// when the referenced task no longer exists.
type SessionWithTask struct {
	Session
	Task *Task
}

// SessionRepository persists sessions. Create must verify the referenced task
// exists and insert the session atomically, returning ErrTaskNotFound otherwise.
type SessionRepository interface {
	Create(ctx context.Context, session Session) (*Session, error)
	ListWithTasks(ctx context.Context) ([]SessionWithTask, error)
}
