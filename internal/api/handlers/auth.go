package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bmgvallo/hirearchy-gateway/internal/api/middleware"
	"github.com/bmgvallo/hirearchy-gateway/internal/backend"
	"github.com/bmgvallo/hirearchy-gateway/internal/dashboard"
	"github.com/bmgvallo/hirearchy-gateway/internal/logging"
	"github.com/bmgvallo/hirearchy-gateway/internal/session"
	"github.com/bmgvallo/hirearchy-gateway/pkg/models"
	"github.com/bmgvallo/hirearchy-gateway/pkg/utils"
)

// Authenticator is the slice of the upstream client the auth handlers use
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*backend.LoginResult, error)
	Register(ctx context.Context, role models.Role, req *models.RegisterRequest) error
}

// LoginHandler authenticates against the upstream and establishes a session
func LoginHandler(auth Authenticator, sessions session.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.GetGlobalLogger()

		var req models.LoginRequest
		if err := c.Bind(&req); err != nil {
			return respondBadRequest(c, "invalid_request", "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return respondBadRequest(c, "validation_failed", err.Error())
		}

		result, err := auth.Login(c.Request().Context(), req.Username, req.Password)
		if err != nil {
			logger.Warn("Login failed", map[string]interface{}{
				"request_id": middleware.RequestID(c),
				"username":   req.Username,
				"error":      err.Error(),
			})
			return respondError(c, err)
		}

		sess := &models.Session{
			Token:       utils.GenerateRequestID(),
			Role:        result.Role,
			Student:     result.Student,
			Company:     result.Company,
			Coordinator: result.Coordinator,
			CreatedAt:   time.Now().UTC(),
		}
		if err := sessions.Put(c.Request().Context(), sess); err != nil {
			logger.Error("Failed to persist session", map[string]interface{}{
				"request_id": middleware.RequestID(c),
				"error":      err.Error(),
			})
			return respondError(c, utils.NewInternalServerError("failed to establish session"))
		}

		logger.Info("Session established", map[string]interface{}{
			"request_id": middleware.RequestID(c),
			"role":       string(result.Role),
			"user_id":    result.UserID(),
		})

		return c.JSON(http.StatusOK, models.LoginResponse{
			Token:       sess.Token,
			Role:        sess.Role,
			Student:     sess.Student,
			Company:     sess.Company,
			Coordinator: sess.Coordinator,
		})
	}
}

// RegisterHandler creates an account for the role in the path
func RegisterHandler(auth Authenticator) echo.HandlerFunc {
	return func(c echo.Context) error {
		role := models.Role(c.Param("role"))
		if !role.IsValid() {
			return respondBadRequest(c, "invalid_role", "Role must be student, company, or coordinator")
		}

		var req models.RegisterRequest
		if err := c.Bind(&req); err != nil {
			return respondBadRequest(c, "invalid_request", "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return respondBadRequest(c, "validation_failed", err.Error())
		}
		if err := validateRoleFields(role, &req); err != nil {
			return respondError(c, err)
		}

		if err := auth.Register(c.Request().Context(), role, &req); err != nil {
			return respondError(c, err)
		}

		return c.JSON(http.StatusCreated, map[string]string{
			"message": "Registration successful. Please log in.",
		})
	}
}

// validateRoleFields enforces the per-role required fields the shared request
// struct cannot express
func validateRoleFields(role models.Role, req *models.RegisterRequest) error {
	switch role {
	case models.RoleStudent:
		if req.Name == "" || req.Course == "" || req.YearLevel == "" {
			return utils.NewValidationError("student registration requires name, course, and year_level")
		}
	case models.RoleCompany:
		if req.CompanyName == "" || req.ContactPerson == "" {
			return utils.NewValidationError("company registration requires company_name and contact_person")
		}
	case models.RoleCoordinator:
		if req.Name == "" || req.Department == "" {
			return utils.NewValidationError("coordinator registration requires name and department")
		}
	}
	return nil
}

// LogoutHandler deletes the session and evicts its dashboard bundle
func LogoutHandler(sessions session.Store, registry *dashboard.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess := middleware.CurrentSession(c)
		if err := sessions.Delete(c.Request().Context(), sess.Token); err != nil {
			return respondError(c, utils.NewInternalServerError("failed to end session"))
		}
		registry.Evict(sess.Token)

		logging.GetGlobalLogger().Info("Session ended", map[string]interface{}{
			"request_id": middleware.RequestID(c),
			"role":       string(sess.Role),
		})
		return c.NoContent(http.StatusNoContent)
	}
}
