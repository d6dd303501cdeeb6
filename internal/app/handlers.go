package app

import (
	handlers "github.com/clientdesk/clientdesk-backend/internal/http/handlers"
	"github.com/clientdesk/clientdesk-backend/internal/pkg/logger"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	User     *handlers.UserHandler
	Client   *handlers.ClientHandler
	Document *handlers.DocumentHandler
	Autofill *handlers.AutofillHandler
	Ingest   *handlers.IngestHandler
	Activity *handlers.ActivityHandler
	Health   *handlers.HealthHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:     handlers.NewAuthHandler(services.Auth, services.User),
		User:     handlers.NewUserHandler(services.User),
		Client:   handlers.NewClientHandler(services.Client),
		Document: handlers.NewDocumentHandler(log, services.Document),
		Autofill: handlers.NewAutofillHandler(log, services.Autofill),
		Ingest:   handlers.NewIngestHandler(log, services.Ingest),
		Activity: handlers.NewActivityHandler(services.Activity),
		Health:   handlers.NewHealthHandler(),
	}
}
