package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/pomodoro/internal/app"
	"github.com/pscheid92/pomodoro/internal/domain"
	apperrors "github.com/pscheid92/pomodoro/internal/platform/errors"
)

func (s *Server) registerSessionRoutes() {
	sessions := s.echo.Group("/api/sessions")
	sessions.POST("", s.handleCreateSession)
	sessions.GET("", s.handleListSessions)
}

func (s *Server) handleCreateSession(c echo.Context) error {
	var body createSessionBody
	if err := decodeBody(c, &body); err != nil {
		return err
	}

	startTime, err := parseStartTime(body.StartTime)
	if err != nil {
		return sessionError(err)
	}

	session, err := s.app.CreateSession(c.Request().Context(), app.CreateSessionRequest{
		TaskID:    body.TaskID,
		Duration:  body.Duration,
		StartTime: startTime,
		Completed: body.Completed,
	})
	if err != nil {
		return sessionError(err)
	}

	if err := c.JSON(http.StatusCreated, toSessionResponse(session, nil)); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleListSessions(c echo.Context) error {
	sessions, err := s.app.ListSessions(c.Request().Context())
	if err != nil {
		return apperrors.InternalError("failed to list sessions", err)
	}

	if err := c.JSON(http.StatusOK, toSessionResponses(sessions)); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

// sessionError classifies a session creation failure. Unlike tasks, a
// storage constraint violation here is a server error.
func sessionError(err error) *apperrors.Error {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return apperrors.ValidationError(validationErr.Message).WithField("field", validationErr.Field)
	}
	return apperrors.InternalError("failed to create session", err)
}
