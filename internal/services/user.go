package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clientdesk/clientdesk-backend/internal/data/repos"
	types "github.com/clientdesk/clientdesk-backend/internal/domain"
	"github.com/clientdesk/clientdesk-backend/internal/pkg/apierr"
	"github.com/clientdesk/clientdesk-backend/internal/pkg/ctxutil"
	"github.com/clientdesk/clientdesk-backend/internal/pkg/logger"
)

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{db: db, log: log.With("service", "UserService"), userRepo: userRepo}
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.New(401, "unauthorized", errors.New("missing user session"))
	}
	users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{rd.UserID})
	if err != nil {
		return nil, apierr.New(500, "user_lookup_failed", err)
	}
	if len(users) == 0 {
		return nil, apierr.New(404, "user_not_found", errors.New("user not found"))
	}
	return users[0], nil
}
