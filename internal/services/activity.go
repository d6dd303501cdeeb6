package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/clientdesk/clientdesk-backend/internal/data/repos"
	types "github.com/clientdesk/clientdesk-backend/internal/domain"
	"github.com/clientdesk/clientdesk-backend/internal/pkg/apierr"
	"github.com/clientdesk/clientdesk-backend/internal/pkg/logger"
)

const activityFeedLimit = 20

type ActivityService interface {
	ListRecent(ctx context.Context) ([]*types.Activity, error)

	// Record is best-effort: a failed insert is logged and swallowed so the
	// operation that produced the activity still succeeds.
	Record(ctx context.Context, userID uuid.UUID, activityType, message string, clientID, documentID *uuid.UUID, metadata map[string]interface{})
}

type activityService struct {
	db           *gorm.DB
	log          *logger.Logger
	activityRepo repos.ActivityRepo
}

func NewActivityService(db *gorm.DB, log *logger.Logger, activityRepo repos.ActivityRepo) ActivityService {
	return &activityService{db: db, log: log.With("service", "ActivityService"), activityRepo: activityRepo}
}

func (s *activityService) ListRecent(ctx context.Context) ([]*types.Activity, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.activityRepo.GetByUserID(ctx, nil, userID, activityFeedLimit)
	if err != nil {
		return nil, apierr.New(500, "activity_list_failed", err)
	}
	return rows, nil
}

func (s *activityService) Record(ctx context.Context, userID uuid.UUID, activityType, message string, clientID, documentID *uuid.UUID, metadata map[string]interface{}) {
	row := &types.Activity{
		ID:         uuid.New(),
		UserID:     userID,
		Type:       activityType,
		Message:    message,
		ClientID:   clientID,
		DocumentID: documentID,
	}
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			s.log.Warn("Failed to marshal activity metadata", "type", activityType, "error", err)
		} else {
			row.Metadata = datatypes.JSON(raw)
		}
	}
	if _, err := s.activityRepo.Create(ctx, nil, []*types.Activity{row}); err != nil {
		s.log.Warn("Failed to record activity", "type", activityType, "error", err)
	}
}
