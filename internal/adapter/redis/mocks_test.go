package redis

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pscheid92/pomodoro/internal/domain"
)

// mockTaskRepository implements domain.TaskRepository and counts GetByID calls.
type mockTaskRepository struct {
	createFn  func(ctx context.Context, task domain.Task) (*domain.Task, error)
	listFn    func(ctx context.Context) ([]domain.Task, error)
	getByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	updateFn  func(ctx context.Context, id uuid.UUID, patch domain.TaskPatch, updatedAt time.Time) (*domain.Task, error)
	deleteFn  func(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	getCalls atomic.Int32
}

func (m *mockTaskRepository) Create(ctx context.Context, task domain.Task) (*domain.Task, error) {
	if m.createFn != nil {
		return m.createFn(ctx, task)
	}
	return &task, nil
}

func (m *mockTaskRepository) List(ctx context.Context) ([]domain.Task, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []domain.Task{}, nil
}

func (m *mockTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	m.getCalls.Add(1)
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrTaskNotFound
}

func (m *mockTaskRepository) Update(ctx context.Context, id uuid.UUID, patch domain.TaskPatch, updatedAt time.Time) (*domain.Task, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, patch, updatedAt)
	}
	return nil, domain.ErrTaskNotFound
}

func (m *mockTaskRepository) Delete(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil, domain.ErrTaskNotFound
}
