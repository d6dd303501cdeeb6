package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/clientdesk/clientdesk-backend/internal/clients/gcp"
	"github.com/clientdesk/clientdesk-backend/internal/data/repos"
	types "github.com/clientdesk/clientdesk-backend/internal/domain"
	"github.com/clientdesk/clientdesk-backend/internal/pkg/apierr"
	"github.com/clientdesk/clientdesk-backend/internal/pkg/logger"
)

type DocumentService interface {
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*types.Document, error)
	Upload(ctx context.Context, clientID uuid.UUID, fileName string, file io.Reader) (*types.Document, error)
}

type documentService struct {
	db           *gorm.DB
	log          *logger.Logger
	clientRepo   repos.ClientRepo
	documentRepo repos.DocumentRepo
	activity     ActivityService
	bucket       gcp.BucketService
	now          func() time.Time
}

func NewDocumentService(
	db *gorm.DB,
	log *logger.Logger,
	clientRepo repos.ClientRepo,
	documentRepo repos.DocumentRepo,
	activity ActivityService,
	bucket gcp.BucketService,
) DocumentService {
	return &documentService{
		db:           db,
		log:          log.With("service", "DocumentService"),
		clientRepo:   clientRepo,
		documentRepo: documentRepo,
		activity:     activity,
		bucket:       bucket,
		now:          time.Now,
	}
}

func (s *documentService) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*types.Document, error) {
	client, err := s.ownedClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	docs, err := s.documentRepo.GetByClientID(ctx, nil, client.ID)
	if err != nil {
		return nil, apierr.New(500, "document_list_failed", err)
	}
	return docs, nil
}

func (s *documentService) Upload(ctx context.Context, clientID uuid.UUID, fileName string, file io.Reader) (*types.Document, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	client, err := s.ownedClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if fileName == "" {
		return nil, apierr.New(400, "file_required", errors.New("missing file"))
	}

	key := fmt.Sprintf("%s/%s/%d-%s", userID, client.ID, s.now().UnixMilli(), fileName)
	if err := s.bucket.UploadFile(ctx, key, file); err != nil {
		return nil, apierr.New(500, "document_upload_failed", fmt.Errorf("store uploaded file: %w", err))
	}

	doc := &types.Document{
		ID:              uuid.New(),
		ClientID:        client.ID,
		FileName:        fileName,
		StorageKey:      key,
		ExtractedFields: datatypes.JSONMap{},
	}
	created, err := s.documentRepo.Create(ctx, nil, []*types.Document{doc})
	if err != nil {
		return nil, apierr.New(500, "document_create_failed", err)
	}
	doc = created[0]

	s.activity.Record(ctx, userID, types.ActivityDocumentUploaded,
		fmt.Sprintf("Uploaded %s", fileName), &client.ID, &doc.ID, nil)
	return doc, nil
}

func (s *documentService) ownedClient(ctx context.Context, clientID uuid.UUID) (*types.Client, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if clientID == uuid.Nil {
		return nil, apierr.New(400, "client_id_required", errors.New("missing client_id"))
	}
	rows, err := s.clientRepo.GetByIDs(ctx, nil, []uuid.UUID{clientID})
	if err != nil {
		return nil, apierr.New(500, "client_lookup_failed", err)
	}
	if len(rows) == 0 {
		return nil, apierr.New(404, "client_not_found", errors.New("client not found"))
	}
	if rows[0].UserID != userID {
		return nil, apierr.New(403, "forbidden", errors.New("client does not belong to you"))
	}
	return rows[0], nil
}
