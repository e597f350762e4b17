package httpserver

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/pomodoro/internal/app"
	"github.com/pscheid92/pomodoro/internal/domain"
	"github.com/pscheid92/pomodoro/internal/platform/config"
)

// --- Mock implementations ---

type mockAppService struct {
	createTaskFn    func(ctx context.Context, req app.CreateTaskRequest) (*domain.Task, error)
	listTasksFn     func(ctx context.Context) ([]domain.Task, error)
	getTaskFn       func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	updateTaskFn    func(ctx context.Context, id uuid.UUID, req app.UpdateTaskRequest) (*domain.Task, error)
	deleteTaskFn    func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	createSessionFn func(ctx context.Context, req app.CreateSessionRequest) (*domain.Session, error)
	listSessionsFn  func(ctx context.Context) ([]domain.SessionWithTask, error)
}

var errNotImplemented = errors.New("not implemented")

func (m *mockAppService) CreateTask(ctx context.Context, req app.CreateTaskRequest) (*domain.Task, error) {
	if m.createTaskFn != nil {
		return m.createTaskFn(ctx, req)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) ListTasks(ctx context.Context) ([]domain.Task, error) {
	if m.listTasksFn != nil {
		return m.listTasksFn(ctx)
	}
	return []domain.Task{}, nil
}

func (m *mockAppService) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.getTaskFn != nil {
		return m.getTaskFn(ctx, id)
	}
	return nil, domain.ErrTaskNotFound
}

func (m *mockAppService) UpdateTask(ctx context.Context, id uuid.UUID, req app.UpdateTaskRequest) (*domain.Task, error) {
	if m.updateTaskFn != nil {
		return m.updateTaskFn(ctx, id, req)
	}
	return nil, domain.ErrTaskNotFound
}

func (m *mockAppService) DeleteTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.deleteTaskFn != nil {
		return m.deleteTaskFn(ctx, id)
	}
	return nil, domain.ErrTaskNotFound
}

func (m *mockAppService) CreateSession(ctx context.Context, req app.CreateSessionRequest) (*domain.Session, error) {
	if m.createSessionFn != nil {
		return m.createSessionFn(ctx, req)
	}
	return nil, errNotImplemented
}

func (m *mockAppService) ListSessions(ctx context.Context) ([]domain.SessionWithTask, error) {
	if m.listSessionsFn != nil {
		return m.listSessionsFn(ctx)
	}
	return []domain.SessionWithTask{}, nil
}

// --- Test server ---

type testServerOption func(*testServerOptions)

type testServerOptions struct {
	healthChecks  []HealthCheck
	exposeDetails bool
	registry      *prometheus.Registry
}

func withHealthChecks(checks ...HealthCheck) testServerOption {
	return func(o *testServerOptions) { o.healthChecks = checks }
}

func withExposedErrorDetails() testServerOption {
	return func(o *testServerOptions) { o.exposeDetails = true }
}

func withRegistry(reg *prometheus.Registry) testServerOption {
	return func(o *testServerOptions) { o.registry = reg }
}

func newTestServer(t *testing.T, svc appService, opts ...testServerOption) *Server {
	t.Helper()

	o := testServerOptions{registry: prometheus.NewRegistry()}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := &config.Config{
		AppEnv:             "test",
		Port:               "0",
		StoreBackend:       config.BackendMemory,
		ExposeErrorDetails: o.exposeDetails,
	}
	return NewServer(cfg, svc, o.registry, o.healthChecks)
}
