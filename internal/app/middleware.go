package app

import (
	"github.com/clientdesk/clientdesk-backend/internal/http/middleware"
	"github.com/clientdesk/clientdesk-backend/internal/pkg/logger"
)

type Middleware struct {
	Auth *middleware.AuthMiddleware
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: middleware.NewAuthMiddleware(log, services.Auth),
	}
}
