package httpserver

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/pomodoro/internal/adapter/metrics"
	"github.com/pscheid92/pomodoro/internal/platform/correlation"
	apperrors "github.com/pscheid92/pomodoro/internal/platform/errors"
)

// correlationMiddleware adopts the caller's correlation ID when it is
// well-formed, generates one otherwise, and echoes it on the response.
func correlationMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := correlation.FromHeader(c.Request().Header.Get(correlation.HeaderName))
		ctx := correlation.WithID(c.Request().Context(), id)
		c.SetRequest(c.Request().WithContext(ctx))
		c.Response().Header().Set(correlation.HeaderName, id)
		return next(c)
	}
}

// ErrorHandlingMiddleware renders every error returned by a handler as the
// uniform {"error","message"} body. Echo's own HTTP errors (unknown route,
// method not allowed) pass through to the default handler.
func ErrorHandlingMiddleware(exposeDetails bool, m *metrics.HTTPMetrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			var structuredErr *apperrors.Error
			if !errors.As(err, &structuredErr) {
				var httpErr *echo.HTTPError
				if errors.As(err, &httpErr) {
					return err
				}
				structuredErr = apperrors.AsStructuredError(err)
			}

			logError(c, structuredErr)
			if m != nil {
				m.RecordError(string(structuredErr.Type))
			}

			if c.Response().Committed {
				return nil
			}
			if err := c.JSON(structuredErr.HTTPStatus(), structuredErr.ToResponse(exposeDetails)); err != nil {
				return fmt.Errorf("failed to write error response: %w", err)
			}
			return nil
		}
	}
}

func logError(c echo.Context, err *apperrors.Error) {
	attrs := []any{
		"error_type", err.Type,
		"message", err.Message,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"status", err.HTTPStatus(),
	}

	for k, v := range err.Context {
		attrs = append(attrs, k, v)
	}

	ctx := c.Request().Context()
	switch err.Type {
	case apperrors.TypeValidation:
		slog.InfoContext(ctx, "Validation error", attrs...)
	case apperrors.TypeNotFound:
		slog.InfoContext(ctx, "Not found", attrs...)
	case apperrors.TypeInternal:
		if err.Cause != nil {
			attrs = append(attrs, "cause", err.Cause)
		}
		slog.ErrorContext(ctx, "Internal error", attrs...)
	default:
		slog.ErrorContext(ctx, "Unknown error type", attrs...)
	}
}
