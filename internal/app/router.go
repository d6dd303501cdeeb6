package app

import (
	"github.com/gin-gonic/gin"

	inhttp "github.com/clientdesk/clientdesk-backend/internal/http"
	"github.com/clientdesk/clientdesk-backend/internal/pkg/logger"
)

func wireRouter(log *logger.Logger, handlers Handlers, middleware Middleware) *gin.Engine {
	return inhttp.NewRouter(inhttp.RouterConfig{
		Log:             log,
		AuthHandler:     handlers.Auth,
		AuthMiddleware:  middleware.Auth,
		UserHandler:     handlers.User,
		ClientHandler:   handlers.Client,
		DocumentHandler: handlers.Document,
		AutofillHandler: handlers.Autofill,
		IngestHandler:   handlers.Ingest,
		ActivityHandler: handlers.Activity,
		HealthHandler:   handlers.Health,
	})
}
