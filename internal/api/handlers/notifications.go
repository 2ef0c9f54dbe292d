package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bmgvallo/hirearchy-gateway/internal/api/middleware"
	"github.com/bmgvallo/hirearchy-gateway/internal/dashboard"
	"github.com/bmgvallo/hirearchy-gateway/pkg/models"
)

// ListNotificationsHandler returns the session user's notification feed
func ListNotificationsHandler(registry *dashboard.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		bundle := registry.Bundle(middleware.CurrentSession(c))
		if err := bundle.Notifications.Refresh(c.Request().Context()); err != nil {
			return respondError(c, err)
		}

		items, unread := bundle.Notifications.Snapshot()
		return c.JSON(http.StatusOK, models.NotificationsResponse{
			Notifications: items,
			UnreadCount:   unread,
		})
	}
}

// MarkNotificationReadHandler marks one notification read
func MarkNotificationReadHandler(registry *dashboard.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		bundle := registry.Bundle(middleware.CurrentSession(c))
		if err := bundle.Notifications.MarkRead(c.Request().Context(), c.Param("id")); err != nil {
			return respondError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// MarkAllNotificationsReadHandler marks the whole feed read
func MarkAllNotificationsReadHandler(registry *dashboard.Registry) echo.HandlerFunc {
	return func(c echo.Context) error {
		bundle := registry.Bundle(middleware.CurrentSession(c))
		if err := bundle.Notifications.MarkAllRead(c.Request().Context()); err != nil {
			return respondError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
