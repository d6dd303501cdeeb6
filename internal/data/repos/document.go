package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/clientdesk/clientdesk-backend/internal/domain"
	"github.com/clientdesk/clientdesk-backend/internal/pkg/logger"
)

type DocumentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, docs []*types.Document) ([]*types.Document, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Document, error)
	GetByClientID(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) ([]*types.Document, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type documentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRepo {
	return &documentRepo{db: db, log: baseLog.With("repo", "DocumentRepo")}
}

func (r *documentRepo) Create(ctx context.Context, tx *gorm.DB, docs []*types.Document) ([]*types.Document, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(docs) == 0 {
		return []*types.Document{}, nil
	}
	if err := t.WithContext(ctx).Create(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *documentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Document, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Document
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *documentRepo) GetByClientID(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) ([]*types.Document, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Document
	if clientID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *documentRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
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
		Model(&types.Document{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *documentRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(ctx).Unscoped().Where("id IN ?", ids).Delete(&types.Document{}).Error
}
