package app

import (
	"gorm.io/gorm"

	"github.com/clientdesk/clientdesk-backend/internal/pkg/logger"
	"github.com/clientdesk/clientdesk-backend/internal/services"
)

type Services struct {
	Auth     services.AuthService
	User     services.UserService
	Client   services.ClientService
	Document services.DocumentService
	Autofill services.AutofillService
	Ingest   services.IngestService
	Activity services.ActivityService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients) Services {
	log.Info("Wiring services...")

	authService := services.NewAuthService(
		db, log,
		repos.User,
		repos.UserToken,
		cfg.JWTSecretKey,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
	)

	userService := services.NewUserService(db, log, repos.User)
	clientService := services.NewClientService(db, log, repos.Client)
	activityService := services.NewActivityService(db, log, repos.Activity)

	documentService := services.NewDocumentService(
		db, log,
		repos.Client,
		repos.Document,
		activityService,
		clients.GcpBucket,
	)

	autofillService := services.NewAutofillService(
		db, log,
		repos.Document,
		repos.Client,
		activityService,
		clients.GcpBucket,
		clients.Filler,
	)

	ingestService := services.NewIngestService(
		db, log,
		repos.Client,
		repos.Document,
		activityService,
		clients.GcpBucket,
		clients.Extractor,
	)

	return Services{
		Auth:     authService,
		User:     userService,
		Client:   clientService,
		Document: documentService,
		Autofill: autofillService,
		Ingest:   ingestService,
		Activity: activityService,
	}
}
