package app

import (
	"gorm.io/gorm"

	"github.com/clientdesk/clientdesk-backend/internal/data/repos"
	"github.com/clientdesk/clientdesk-backend/internal/pkg/logger"
)

type Repos struct {
	User      repos.UserRepo
	UserToken repos.UserTokenRepo
	Client    repos.ClientRepo
	Document  repos.DocumentRepo
	Activity  repos.ActivityRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      repos.NewUserRepo(db, log),
		UserToken: repos.NewUserTokenRepo(db, log),
		Client:    repos.NewClientRepo(db, log),
		Document:  repos.NewDocumentRepo(db, log),
		Activity:  repos.NewActivityRepo(db, log),
	}
}
