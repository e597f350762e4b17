package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/pomodoro/internal/domain"
)

// Service holds the task and session use cases. Stores are injected; their
// lifecycle belongs to the caller.
type Service struct {
	tasks    domain.TaskRepository
	sessions domain.SessionRepository
	clock    clockwork.Clock
}

func NewService(tasks domain.TaskRepository, sessions domain.SessionRepository, clock clockwork.Clock) *Service {
	return &Service{
		tasks:    tasks,
		sessions: sessions,
		clock:    clock,
	}
}

// CreateTaskRequest mirrors the create-task body; nil means the field was omitted.
type CreateTaskRequest struct {
	Title     *string
	Completed *bool
}

// UpdateTaskRequest mirrors the partial update body.
type UpdateTaskRequest struct {
	Title     *string
	Completed *bool
}

// CreateSessionRequest mirrors the create-session body.
type CreateSessionRequest struct {
	TaskID    *string
	Duration  *float64
	StartTime *time.Time
	Completed *bool
}

func (s *Service) CreateTask(ctx context.Context, req CreateTaskRequest) (*domain.Task, error) {
	if req.Title == nil {
		return nil, domain.RequiredFieldError("title")
	}
	title, err := domain.NormalizeTitle(*req.Title)
	if err != nil {
		return nil, err
	}

	now := s.now()
	task := domain.Task{
		Title:     title,
		Completed: req.Completed != nil && *req.Completed,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	slog.DebugContext(ctx, "Task created", "task_id", created.ID.String())
	return created, nil
}

func (s *Service) ListTasks(ctx context.Context) ([]domain.Task, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (s *Service) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// UpdateTask applies the fields present in req. A blank title is rejected
// before the store is touched.
func (s *Service) UpdateTask(ctx context.Context, id uuid.UUID, req UpdateTaskRequest) (*domain.Task, error) {
	patch := domain.TaskPatch{Completed: req.Completed}
	if req.Title != nil {
		title, err := domain.NormalizeTitle(*req.Title)
		if err != nil {
			return nil, err
		}
		patch.Title = &title
	}

	task, err := s.tasks.Update(ctx, id, patch, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

func (s *Service) DeleteTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}

	slog.DebugContext(ctx, "Task deleted", "task_id", id.String())
	return task, nil
}

// CreateSession validates the request and inserts the session. A missing
// referenced task is reported as a validation error on taskId.
func (s *Service) CreateSession(ctx context.Context, req CreateSessionRequest) (*domain.Session, error) {
	if req.TaskID == nil {
		return nil, domain.RequiredFieldError("taskId")
	}
	if req.Duration == nil {
		return nil, domain.RequiredFieldError("duration")
	}
	if req.StartTime == nil {
		return nil, domain.RequiredFieldError("startTime")
	}

	taskID, ok := domain.ParseID(*req.TaskID)
	if !ok {
		return nil, domain.InvalidFieldError("taskId", "is not a valid identifier")
	}

	now := s.now()
	session := domain.Session{
		TaskID:    taskID,
		Duration:  *req.Duration,
		StartTime: req.StartTime.UTC().Truncate(time.Microsecond),
		Completed: req.Completed == nil || *req.Completed,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.sessions.Create(ctx, session)
	if errors.Is(err, domain.ErrTaskNotFound) {
		return nil, domain.InvalidFieldError("taskId", "does not reference an existing task")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.DebugContext(ctx, "Session created", "session_id", created.ID.String(), "task_id", taskID.String())
	return created, nil
}

func (s *Service) ListSessions(ctx context.Context) ([]domain.SessionWithTask, error) {
	sessions, err := s.sessions.ListWithTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// now truncates to microseconds so timestamps survive a Postgres round trip unchanged.
func (s *Service) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Microsecond)
}
