package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bmgvallo/hirearchy-gateway/internal/session"
	"github.com/bmgvallo/hirearchy-gateway/pkg/models"
)

const sessionContextKey = "session"

// SessionAuth resolves the bearer token to a live session and injects it into
// the request context. Requests without a valid session are rejected.
func SessionAuth(sessions session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return authError(c, "Missing bearer token")
			}

			sess, err := sessions.Get(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, session.ErrNotFound) {
					return authError(c, "Session expired or unknown")
				}
				return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
					Error:     "session_lookup_failed",
					Message:   "Failed to resolve session",
					RequestID: RequestID(c),
					Timestamp: time.Now(),
				})
			}

			c.Set(sessionContextKey, sess)
			return next(c)
		}
	}
}

// RequireRole rejects sessions whose role is not in the allowed set
func RequireRole(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := CurrentSession(c)
			if sess == nil {
				return authError(c, "No session")
			}
			for _, role := range roles {
				if sess.Role == role {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, models.ErrorResponse{
				Error:     "permission_denied",
				Message:   "This dashboard does not belong to your role",
				RequestID: RequestID(c),
				Timestamp: time.Now(),
			})
		}
	}
}

// CurrentSession returns the session injected by SessionAuth, or nil
func CurrentSession(c echo.Context) *models.Session {
	if sess, ok := c.Get(sessionContextKey).(*models.Session); ok {
		return sess
	}
	return nil
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

func authError(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
		Error:     "unauthorized",
		Message:   message,
		RequestID: RequestID(c),
		Timestamp: time.Now(),
	})
}
