package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/clientdesk/clientdesk-backend/internal/http/handlers"
	httpMW "github.com/clientdesk/clientdesk-backend/internal/http/middleware"
	"github.com/clientdesk/clientdesk-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware
	UserHandler    *httpH.UserHandler

	ClientHandler   *httpH.ClientHandler
	DocumentHandler *httpH.DocumentHandler
	AutofillHandler *httpH.AutofillHandler
	IngestHandler   *httpH.IngestHandler
	ActivityHandler *httpH.ActivityHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.CORS())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/refresh", cfg.AuthHandler.Refresh)
			protected.POST("/logout", cfg.AuthHandler.Logout)
			protected.GET("/auth/check", cfg.AuthHandler.Check)
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
		}

		// Clients
		if cfg.ClientHandler != nil {
			protected.GET("/clients", cfg.ClientHandler.List)
			protected.POST("/clients", cfg.ClientHandler.Create)
			protected.PUT("/clients", cfg.ClientHandler.Update)
			protected.DELETE("/clients", cfg.ClientHandler.Delete)
		}

		// Documents
		if cfg.DocumentHandler != nil {
			protected.GET("/documents", cfg.DocumentHandler.List)
			protected.POST("/documents", cfg.DocumentHandler.Upload)
		}

		// Autofill
		if cfg.AutofillHandler != nil {
			protected.POST("/autofill", cfg.AutofillHandler.Autofill)
		}

		// Ingest
		if cfg.IngestHandler != nil {
			protected.POST("/ingest", cfg.IngestHandler.Ingest)
		}

		// Activity feed
		if cfg.ActivityHandler != nil {
			protected.GET("/activity", cfg.ActivityHandler.List)
		}
	}

	return r
}
