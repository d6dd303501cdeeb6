package db

import (
	types "github.com/clientdesk/clientdesk-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.User{},
		&types.UserToken{},

		&types.Client{},
		&types.Document{},

		&types.Activity{},
	)
}
