package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/pomodoro/internal/platform/version"
)

const readinessTimeout = 5 * time.Second

const (
	checkOK      = "ok"
	checkFailing = "failing"
)

// HealthCheck is a named dependency check run by the readiness endpoint.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type livenessResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime"`
}

// readinessResponse reports every check. A failing check shows "failing", or
// the error text when error details are exposed.
type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (s *Server) registerHealthRoutes() {
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/version", s.handleVersion)
}

func (s *Server) handleLiveness(c echo.Context) error {
	return writeJSON(c, http.StatusOK, livenessResponse{
		Status:        "ok",
		UptimeSeconds: time.Since(s.startTime).Seconds(),
	})
}

func (s *Server) handleReadiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	resp := readinessResponse{Status: "ready", Checks: make(map[string]string, len(s.healthChecks))}
	status := http.StatusOK
	for _, hc := range s.healthChecks {
		err := hc.Check(ctx)
		if err == nil {
			resp.Checks[hc.Name] = checkOK
			continue
		}

		resp.Status = "unhealthy"
		status = http.StatusServiceUnavailable
		resp.Checks[hc.Name] = checkFailing
		if s.config.ExposeErrorDetails {
			resp.Checks[hc.Name] = err.Error()
		}
	}

	return writeJSON(c, status, resp)
}

func (s *Server) handleVersion(c echo.Context) error {
	return writeJSON(c, http.StatusOK, version.Get())
}

func writeJSON(c echo.Context, status int, body any) error {
	if err := c.JSON(status, body); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
