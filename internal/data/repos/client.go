package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/clientdesk/clientdesk-backend/internal/domain"
	"github.com/clientdesk/clientdesk-backend/internal/pkg/logger"
)

type ClientRepo interface {
	Create(ctx context.Context, tx *gorm.DB, clients []*types.Client) ([]*types.Client, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Client, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Client, error)
	FindByEmail(ctx context.Context, tx *gorm.DB, userID uuid.UUID, email string) (*types.Client, error)
	FindByName(ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string) (*types.Client, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type clientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClientRepo(db *gorm.DB, baseLog *logger.Logger) ClientRepo {
	return &clientRepo{db: db, log: baseLog.With("repo", "ClientRepo")}
}

func (r *clientRepo) Create(ctx context.Context, tx *gorm.DB, clients []*types.Client) ([]*types.Client, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(clients) == 0 {
		return []*types.Client{}, nil
	}
	if err := t.WithContext(ctx).Create(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *clientRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Client, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Client
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *clientRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Client, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Client
	if userID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *clientRepo) FindByEmail(ctx context.Context, tx *gorm.DB, userID uuid.UUID, email string) (*types.Client, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil || email == "" {
		return nil, nil
	}
	var row types.Client
	err := t.WithContext(ctx).
		Where("user_id = ? AND email = ?", userID, email).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *clientRepo) FindByName(ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string) (*types.Client, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil || name == "" {
		return nil, nil
	}
	var row types.Client
	err := t.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *clientRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return t.WithContext(ctx).
		Model(&types.Client{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *clientRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(ctx).Unscoped().Where("id IN ?", ids).Delete(&types.Client{}).Error
}
