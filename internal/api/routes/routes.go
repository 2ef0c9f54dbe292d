package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/bmgvallo/hirearchy-gateway/internal/api/handlers"
	"github.com/bmgvallo/hirearchy-gateway/internal/api/middleware"
	"github.com/bmgvallo/hirearchy-gateway/internal/backend"
	"github.com/bmgvallo/hirearchy-gateway/internal/config"
	"github.com/bmgvallo/hirearchy-gateway/internal/dashboard"
	"github.com/bmgvallo/hirearchy-gateway/internal/session"
	"github.com/bmgvallo/hirearchy-gateway/internal/storage"
	"github.com/bmgvallo/hirearchy-gateway/pkg/models"
)

// SetupRoutes configures all API routes
func SetupRoutes(
	e *echo.Echo,
	cfg *config.Config,
	client *backend.Client,
	sessions session.Store,
	registry *dashboard.Registry,
	resumes storage.ResumeStorage,
) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	e.Use(middleware.RequestContext())
	e.Use(middleware.TimeoutConfig(cfg.Server.ReadTimeout))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(sessions))
		health.GET("/live", handlers.LivenessHandler)
	}

	// Status route
	e.GET("/status", handlers.StatusHandler(registry))

	// API v1 routes
	v1 := e.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/login", handlers.LoginHandler(client, sessions))
		auth.POST("/register/:role", handlers.RegisterHandler(client))
		auth.POST("/logout", handlers.LogoutHandler(sessions, registry), middleware.SessionAuth(sessions))
	}

	authed := v1.Group("", middleware.SessionAuth(sessions))

	listings := authed.Group("/listings")
	{
		listings.GET("", handlers.ListListingsHandler(registry))
		listings.POST("", handlers.CreateListingHandler(registry), middleware.RequireRole(models.RoleCompany))
		listings.PUT("/:id", handlers.UpdateListingHandler(registry), middleware.RequireRole(models.RoleCompany))
		listings.DELETE("/:id", handlers.DeleteListingHandler(registry), middleware.RequireRole(models.RoleCompany))
		listings.POST("/:id/approve", handlers.ApproveListingHandler(registry), middleware.RequireRole(models.RoleCoordinator))
		listings.POST("/:id/reject", handlers.RejectListingHandler(registry), middleware.RequireRole(models.RoleCoordinator))
	}

	applications := authed.Group("/applications")
	{
		applications.GET("", handlers.ListApplicationsHandler(registry), middleware.RequireRole(models.RoleStudent, models.RoleCompany))
		applications.POST("", handlers.CreateApplicationHandler(registry), middleware.RequireRole(models.RoleStudent))
		applications.PATCH("/:id/status", handlers.ApplicationStatusHandler(registry), middleware.RequireRole(models.RoleCompany))
		applications.DELETE("/:id", handlers.WithdrawApplicationHandler(registry), middleware.RequireRole(models.RoleStudent))
	}

	notifications := authed.Group("/notifications")
	{
		notifications.GET("", handlers.ListNotificationsHandler(registry))
		notifications.POST("/:id/read", handlers.MarkNotificationReadHandler(registry))
		notifications.POST("/read-all", handlers.MarkAllNotificationsReadHandler(registry))
	}

	authed.POST("/resumes", handlers.UploadResumeHandler(resumes), middleware.RequireRole(models.RoleStudent))
	authed.GET("/stats", handlers.StatsHandler(registry))

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "Hirearchy Dashboard Gateway",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}
