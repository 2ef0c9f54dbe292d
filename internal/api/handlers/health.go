package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bmgvallo/hirearchy-gateway/internal/dashboard"
	"github.com/bmgvallo/hirearchy-gateway/internal/session"
	"github.com/bmgvallo/hirearchy-gateway/pkg/models"
)

var startTime = time.Now()

const version = "1.0.0" // TODO: inject from build info

// HealthHandler handles health check requests
func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   version,
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api": "ok",
		},
	})
}

// ReadinessHandler reports whether the gateway can serve traffic, checking
// the session store it depends on
func ReadinessHandler(sessions session.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		checks := map[string]string{"api": "ok"}
		status := "ready"
		code := http.StatusOK

		if err := sessions.Ping(c.Request().Context()); err != nil {
			checks["sessions"] = err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		} else {
			checks["sessions"] = "ok"
		}

		return c.JSON(code, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   version,
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   version,
		Uptime:    time.Since(startTime),
	})
}

// StatusHandler provides service status including live dashboard count
func StatusHandler(registry *dashboard.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":          "operational",
			"version":         version,
			"uptime":          time.Since(startTime).String(),
			"live_dashboards": registry.Size(),
		})
	}
}
