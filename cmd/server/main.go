package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bmgvallo/hirearchy-gateway/internal/api/routes"
	"github.com/bmgvallo/hirearchy-gateway/internal/backend"
	"github.com/bmgvallo/hirearchy-gateway/internal/config"
	"github.com/bmgvallo/hirearchy-gateway/internal/dashboard"
	"github.com/bmgvallo/hirearchy-gateway/internal/logging"
	"github.com/bmgvallo/hirearchy-gateway/internal/session"
	"github.com/bmgvallo/hirearchy-gateway/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logging
	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	logger := logging.GetGlobalLogger()
	logger.Info("Starting Hirearchy Dashboard Gateway")

	// Upstream job board client
	client := backend.NewClient(cfg, logger)

	// Session store: Redis when reachable, in-memory otherwise
	var sessions session.Store
	redisStore := session.NewRedisStore(cfg, logger)
	pingCtx, cancel := context.WithTimeout(context.Background(), cfg.Redis.Timeout)
	if err := redisStore.Ping(pingCtx); err != nil {
		logger.Warn("Redis unavailable, using in-memory session store", map[string]interface{}{
			"error": err.Error(),
		})
		_ = redisStore.Close()
		sessions = session.NewMemoryStore(cfg.Sessions.TTL)
	} else {
		sessions = redisStore
	}
	cancel()

	// Per-session dashboard state
	registry := dashboard.NewRegistry(client, logger)

	// Resume storage is optional; uploads return 503 when unconfigured
	var resumes storage.ResumeStorage
	if spaces, err := storage.NewSpacesClient(cfg, logger); err != nil {
		logger.Warn("Resume storage disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		resumes = spaces
	}

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Setup routes
	routes.SetupRoutes(e, cfg, client, sessions, registry, resumes)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", map[string]interface{}{
				"error": err.Error(),
			})
		}

		if err := sessions.Close(); err != nil {
			logger.Error("Error closing session store", map[string]interface{}{
				"error": err.Error(),
			})
		}

		logger.Info("Server shutdown complete")
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", map[string]interface{}{
		"address": address,
	})

	if err := e.Start(address); err != nil {
		logger.Error("Server stopped", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
