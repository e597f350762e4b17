package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pscheid92/pomodoro/internal/app"
	"github.com/pscheid92/pomodoro/internal/domain"
	apperrors "github.com/pscheid92/pomodoro/internal/platform/errors"
)

// Request bodies use pointer fields so an omitted field can be told apart
// from its zero value.

type createTaskBody struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

// updateTaskBody keeps explicit nulls apart from omitted fields: a field that
// is present must carry a value.
type updateTaskBody struct {
	Title     optional[string] `json:"title"`
	Completed optional[bool]   `json:"completed"`
}

func (b updateTaskBody) request() (app.UpdateTaskRequest, error) {
	if b.Title.Set && b.Title.Value == nil {
		return app.UpdateTaskRequest{}, domain.InvalidFieldError("title", "must not be null")
	}
	if b.Completed.Set && b.Completed.Value == nil {
		return app.UpdateTaskRequest{}, domain.InvalidFieldError("completed", "must not be null")
	}
	return app.UpdateTaskRequest{Title: b.Title.Value, Completed: b.Completed.Value}, nil
}

// optional records whether a JSON field was present at all. Value is nil for
// an explicit null.
type optional[T any] struct {
	Set   bool
	Value *T
}

func (o *optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

type createSessionBody struct {
	TaskID    *string  `json:"taskId"`
	Duration  *float64 `json:"duration"`
	StartTime *string  `json:"startTime"`
	Completed *bool    `json:"completed"`
}

type taskResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type deleteTaskResponse struct {
	Message string       `json:"message"`
	Task    taskResponse `json:"task"`
}

type sessionResponse struct {
	ID        string    `json:"id"`
	TaskID    taskRef   `json:"taskId"`
	Duration  float64   `json:"duration"`
	StartTime time.Time `json:"startTime"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// taskRef renders as the full task object when expanded and as the bare id
// string otherwise.
type taskRef struct {
	id   uuid.UUID
	task *taskResponse
}

func (r taskRef) MarshalJSON() ([]byte, error) {
	if r.task != nil {
		return json.Marshal(r.task)
	}
	return json.Marshal(r.id.String())
}

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:        t.ID.String(),
		Title:     t.Title,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt.UTC(),
		UpdatedAt: t.UpdatedAt.UTC(),
	}
}

func toTaskResponses(tasks []domain.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, toTaskResponse(&tasks[i]))
	}
	return out
}

func toSessionResponse(s *domain.Session, task *domain.Task) sessionResponse {
	ref := taskRef{id: s.TaskID}
	if task != nil {
		expanded := toTaskResponse(task)
		ref.task = &expanded
	}
	return sessionResponse{
		ID:        s.ID.String(),
		TaskID:    ref,
		Duration:  s.Duration,
		StartTime: s.StartTime.UTC(),
		Completed: s.Completed,
		CreatedAt: s.CreatedAt.UTC(),
		UpdatedAt: s.UpdatedAt.UTC(),
	}
}

func toSessionResponses(sessions []domain.SessionWithTask) []sessionResponse {
	out := make([]sessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, toSessionResponse(&sessions[i].Session, sessions[i].Task))
	}
	return out
}

// decodeBody reads exactly one JSON value from the request body regardless of
// Content-Type. An empty body decodes as an empty object. Decoder details go
// to the log through the cause field, never to the client.
func decodeBody(c echo.Context, dst any) error {
	body := c.Request().Body
	if body == nil {
		return nil
	}

	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return bodyError(err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return apperrors.ValidationError("request body must contain a single JSON object").
			WithField("cause", "unexpected data after the JSON object")
	}
	return nil
}

func bodyError(err error) *apperrors.Error {
	var (
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
		message   string
	)
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		message = typeErr.Field + " has the wrong type"
	case errors.As(err, &typeErr):
		message = "request body must be a JSON object"
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		message = "request body is not valid JSON"
	default:
		message = "request body could not be read"
	}
	return apperrors.ValidationError(message).WithField("cause", err.Error())
}

// parseStartTime accepts RFC 3339 timestamps with optional fractional seconds.
func parseStartTime(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, *raw)
	if err != nil {
		return nil, domain.InvalidFieldError("startTime", "must be an RFC 3339 timestamp")
	}
	return &t, nil
}
