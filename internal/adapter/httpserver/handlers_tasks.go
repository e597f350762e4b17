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

const taskDeletedMessage = "Task deleted successfully"

func (s *Server) registerTaskRoutes() {
	tasks := s.echo.Group("/api/tasks")
	tasks.POST("", s.handleCreateTask)
	tasks.GET("", s.handleListTasks)
	tasks.GET("/:id", s.handleGetTask)
	tasks.PUT("/:id", s.handleUpdateTask)
	tasks.DELETE("/:id", s.handleDeleteTask)
}

func (s *Server) handleCreateTask(c echo.Context) error {
	var body createTaskBody
	if err := decodeBody(c, &body); err != nil {
		return err
	}

	task, err := s.app.CreateTask(c.Request().Context(), app.CreateTaskRequest{
		Title:     body.Title,
		Completed: body.Completed,
	})
	if err != nil {
		return taskError(err, "failed to create task")
	}

	if err := c.JSON(http.StatusCreated, toTaskResponse(task)); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleListTasks(c echo.Context) error {
	tasks, err := s.app.ListTasks(c.Request().Context())
	if err != nil {
		return apperrors.InternalError("failed to list tasks", err)
	}

	if err := c.JSON(http.StatusOK, toTaskResponses(tasks)); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleGetTask(c echo.Context) error {
	rawID := c.Param("id")
	id, ok := domain.ParseID(rawID)
	if !ok {
		return taskNotFound(rawID)
	}

	task, err := s.app.GetTask(c.Request().Context(), id)
	if err != nil {
		return taskError(err, "failed to get task").WithField("task_id", rawID)
	}

	if err := c.JSON(http.StatusOK, toTaskResponse(task)); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleUpdateTask(c echo.Context) error {
	rawID := c.Param("id")
	id, ok := domain.ParseID(rawID)
	if !ok {
		return taskNotFound(rawID)
	}

	var body updateTaskBody
	if err := decodeBody(c, &body); err != nil {
		return err
	}

	req, err := body.request()
	if err != nil {
		return taskError(err, "failed to update task").WithField("task_id", rawID)
	}

	task, err := s.app.UpdateTask(c.Request().Context(), id, req)
	if err != nil {
		return taskError(err, "failed to update task").WithField("task_id", rawID)
	}

	if err := c.JSON(http.StatusOK, toTaskResponse(task)); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleDeleteTask(c echo.Context) error {
	rawID := c.Param("id")
	id, ok := domain.ParseID(rawID)
	if !ok {
		return taskNotFound(rawID)
	}

	task, err := s.app.DeleteTask(c.Request().Context(), id)
	if err != nil {
		return taskError(err, "failed to delete task").WithField("task_id", rawID)
	}

	response := deleteTaskResponse{
		Message: taskDeletedMessage,
		Task:    toTaskResponse(task),
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func taskNotFound(rawID string) *apperrors.Error {
	return apperrors.NotFoundError("no task exists with the given id").WithField("task_id", rawID)
}

// taskError classifies a task operation failure. Storage constraint
// violations on tasks are client errors.
func taskError(err error, action string) *apperrors.Error {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return apperrors.ValidationError(validationErr.Message).WithField("field", validationErr.Field)
	case errors.Is(err, domain.ErrTaskNotFound):
		return apperrors.NotFoundError("no task exists with the given id")
	case errors.Is(err, domain.ErrSchemaValidation):
		return apperrors.ValidationError("task failed schema validation").WithField("cause", err.Error())
	default:
		return apperrors.InternalError(action, err)
	}
}
