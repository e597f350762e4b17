package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/pomodoro/internal/adapter/metrics"
	"github.com/pscheid92/pomodoro/internal/app"
	"github.com/pscheid92/pomodoro/internal/domain"
	"github.com/pscheid92/pomodoro/internal/platform/config"
)

type appService interface {
	CreateTask(ctx context.Context, req app.CreateTaskRequest) (*domain.Task, error)
	ListTasks(ctx context.Context) ([]domain.Task, error)
	GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, req app.UpdateTaskRequest) (*domain.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	CreateSession(ctx context.Context, req app.CreateSessionRequest) (*domain.Session, error)
	ListSessions(ctx context.Context) ([]domain.SessionWithTask, error)
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	app          appService
	healthChecks []HealthCheck
	registry     *prometheus.Registry
	httpMetrics  *metrics.HTTPMetrics
	startTime    time.Time
}

func NewServer(cfg *config.Config, app appService, registry *prometheus.Registry, healthChecks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:         e,
		config:       cfg,
		app:          app,
		healthChecks: healthChecks,
		registry:     registry,
		httpMetrics:  metrics.NewHTTPMetrics(registry),
		startTime:    time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port, "store_backend", s.config.StoreBackend)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// ServeHTTP makes the server usable with httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
