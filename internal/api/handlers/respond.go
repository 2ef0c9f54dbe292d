package handlers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/bmgvallo/hirearchy-gateway/internal/api/middleware"
	"github.com/bmgvallo/hirearchy-gateway/pkg/models"
	"github.com/bmgvallo/hirearchy-gateway/pkg/utils"
)

var validate = validator.New()

// respondError renders any error through the gateway error taxonomy
func respondError(c echo.Context, err error) error {
	code := utils.ErrorCode(err)
	return c.JSON(code, models.ErrorResponse{
		Error:     errorSlug(code),
		Message:   err.Error(),
		RequestID: middleware.RequestID(c),
		Timestamp: time.Now(),
	})
}

func respondBadRequest(c echo.Context, slug, message string) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:     slug,
		Message:   message,
		RequestID: middleware.RequestID(c),
		Timestamp: time.Now(),
	})
}

// searchParam accepts both the long and short keyword parameter names
func searchParam(c echo.Context) string {
	if s := c.QueryParam("search"); s != "" {
		return s
	}
	return c.QueryParam("q")
}

func errorSlug(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "validation_failed"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "permission_denied"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusRequestTimeout:
		return "timeout"
	case http.StatusConflict:
		return "status_conflict"
	case http.StatusBadGateway:
		return "backend_unavailable"
	default:
		return "internal_error"
	}
}
