package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pscheid92/pomodoro/internal/domain"
)

type mockTaskRepository struct {
	createFn  func(ctx context.Context, task domain.Task) (*domain.Task, error)
	listFn    func(ctx context.Context) ([]domain.Task, error)
	getByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	updateFn  func(ctx context.Context, id uuid.UUID, patch domain.TaskPatch, updatedAt time.Time) (*domain.Task, error)
	deleteFn  func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
}

func (m *mockTaskRepository) Create(ctx context.Context, task domain.Task) (*domain.Task, error) {
	if m.createFn != nil {
		return m.createFn(ctx, task)
	}
	task.ID = uuid.New()
	return &task, nil
}

func (m *mockTaskRepository) List(ctx context.Context) ([]domain.Task, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrTaskNotFound
}

func (m *mockTaskRepository) Update(ctx context.Context, id uuid.UUID, patch domain.TaskPatch, updatedAt time.Time) (*domain.Task, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, patch, updatedAt)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskRepository) Delete(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil, domain.ErrTaskNotFound
}

type mockSessionRepository struct {
	createFn        func(ctx context.Context, session domain.Session) (*domain.Session, error)
	listWithTasksFn func(ctx context.Context) ([]domain.SessionWithTask, error)
}

func (m *mockSessionRepository) Create(ctx context.Context, session domain.Session) (*domain.Session, error) {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	session.ID = uuid.New()
	return &session, nil
}

func (m *mockSessionRepository) ListWithTasks(ctx context.Context) ([]domain.SessionWithTask, error) {
	if m.listWithTasksFn != nil {
		return m.listWithTasksFn(ctx)
	}
	return nil, nil
}
