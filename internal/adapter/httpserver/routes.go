package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pscheid92/pomodoro/internal/adapter/metrics"
)

func (s *Server) registerRoutes() {
	s.echo.Use(correlationMiddleware)
	s.echo.Use(s.setupRequestLoggerMiddleware())
	s.echo.Use(s.httpMetrics.Middleware())
	s.echo.Use(ErrorHandlingMiddleware(s.config.ExposeErrorDetails, s.httpMetrics))
	// Recovered panics flow back into the error middleware as errors.
	s.echo.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{DisableErrorHandler: true}))

	s.echo.GET("/", s.handleRoot)
	s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler(s.registry)))

	s.registerHealthRoutes()
	s.registerTaskRoutes()
	s.registerSessionRoutes()
}

func (s *Server) setupRequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			slog.InfoContext(c.Request().Context(), "Request", attrs...)
			return nil
		},
	})
}

type rootResponse struct {
	Message   string        `json:"message"`
	Status    string        `json:"status"`
	Endpoints rootEndpoints `json:"endpoints"`
}

type rootEndpoints struct {
	Tasks    string `json:"tasks"`
	Sessions string `json:"sessions"`
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, rootResponse{
		Message: "Pomodoro API",
		Status:  "running",
		Endpoints: rootEndpoints{
			Tasks:    "/api/tasks",
			Sessions: "/api/sessions",
		},
	})
}
