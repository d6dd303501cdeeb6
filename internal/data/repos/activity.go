package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/clientdesk/clientdesk-backend/internal/domain"
	"github.com/clientdesk/clientdesk-backend/internal/pkg/logger"
)

// ActivityRepo is append-only: no update or delete methods on purpose.
type ActivityRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Activity) ([]*types.Activity, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Activity, error)
}

type activityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityRepo(db *gorm.DB, baseLog *logger.Logger) ActivityRepo {
	return &activityRepo{db: db, log: baseLog.With("repo", "ActivityRepo")}
}

func (r *activityRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Activity) ([]*types.Activity, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Activity{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *activityRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Activity, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Activity
	if userID == uuid.Nil {
		return out, nil
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if err := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
