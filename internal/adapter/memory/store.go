// Package memory is an in-process task and session store for single-instance
// runs and tests. It enforces the same constraints as the Postgres schema.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pscheid92/pomodoro/internal/domain"
)

// Store keeps tasks and sessions in insertion order. One mutex guards both
// collections so the session task-existence check and insert are atomic.
type Store struct {
	mu       sync.RWMutex
	tasks    map[uuid.UUID]*domain.Task
	order    []uuid.UUID
	sessions []domain.Session
	newID    func() uuid.UUID
}

func NewStore() *Store {
	return &Store{
		tasks: make(map[uuid.UUID]*domain.Task),
		newID: uuid.New,
	}
}

// Tasks returns a domain.TaskRepository view of the store.
func (s *Store) Tasks() *TaskRepo {
	return &TaskRepo{s: s}
}

// Sessions returns a domain.SessionRepository view of the store.
func (s *Store) Sessions() *SessionRepo {
	return &SessionRepo{s: s}
}

func (s *Store) Ping(_ context.Context) error {
	return nil
}

type TaskRepo struct {
	s *Store
}

var _ domain.TaskRepository = (*TaskRepo)(nil)

func (r *TaskRepo) Create(_ context.Context, task domain.Task) (*domain.Task, error) {
	if err := checkTask(task); err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	task.ID = r.s.newID()
	stored := task
	r.s.tasks[task.ID] = &stored
	r.s.order = append(r.s.order, task.ID)
	return &task, nil
}

func (r *TaskRepo) List(_ context.Context) ([]domain.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tasks := make([]domain.Task, 0, len(r.s.order))
	for _, id := range r.s.order {
		tasks = append(tasks, *r.s.tasks[id])
	}
	return tasks, nil
}

func (r *TaskRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	task, ok := r.s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	found := *task
	return &found, nil
}

func (r *TaskRepo) Update(_ context.Context, id uuid.UUID, patch domain.TaskPatch, updatedAt time.Time) (*domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}

	updated := *existing
	if patch.Title != nil {
		updated.Title = *patch.Title
	}
	if patch.Completed != nil {
		updated.Completed = *patch.Completed
	}
	updated.UpdatedAt = updatedAt

	if err := checkTask(updated); err != nil {
		return nil, err
	}

	*existing = updated
	return &updated, nil
}

func (r *TaskRepo) Delete(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	task, ok := r.s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}

	delete(r.s.tasks, id)
	for i, existing := range r.s.order {
		if existing == id {
			r.s.order = append(r.s.order[:i], r.s.order[i+1:]...)
			break
		}
	}
	return task, nil
}

type SessionRepo struct {
	s *Store
}

var _ domain.SessionRepository = (*SessionRepo)(nil)

func (r *SessionRepo) Create(_ context.Context, session domain.Session) (*domain.Session, error) {
	if session.Duration < 0 {
		return nil, fmt.Errorf("duration %v below minimum 0: %w", session.Duration, domain.ErrSchemaValidation)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tasks[session.TaskID]; !ok {
		return nil, domain.ErrTaskNotFound
	}

	session.ID = r.s.newID()
	r.s.sessions = append(r.s.sessions, session)
	return &session, nil
}

func (r *SessionRepo) ListWithTasks(_ context.Context) ([]domain.SessionWithTask, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]domain.SessionWithTask, 0, len(r.s.sessions))
	for _, session := range r.s.sessions {
		entry := domain.SessionWithTask{Session: session}
		if task, ok := r.s.tasks[session.TaskID]; ok {
			expanded := *task
			entry.Task = &expanded
		}
		result = append(result, entry)
	}
	return result, nil
}

func checkTask(task domain.Task) error {
	if strings.TrimSpace(task.Title) == "" {
		return fmt.Errorf("title must not be blank: %w", domain.ErrSchemaValidation)
	}
	return nil
}
