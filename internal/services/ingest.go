package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
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

type IngestService interface {
	// Ingest extracts contact fields from an uploaded document, matches or
	// creates the client they belong to, stores the original file, and
	// returns both rows.
	Ingest(ctx context.Context, fileName string, content []byte) (*types.Client, *types.Document, error)
}

type ingestService struct {
	db           *gorm.DB
	log          *logger.Logger
	clientRepo   repos.ClientRepo
	documentRepo repos.DocumentRepo
	activity     ActivityService
	bucket       gcp.BucketService
	extractor    FillClient
	now          func() time.Time
}

func NewIngestService(
	db *gorm.DB,
	log *logger.Logger,
	clientRepo repos.ClientRepo,
	documentRepo repos.DocumentRepo,
	activity ActivityService,
	bucket gcp.BucketService,
	extract FillClient,
) IngestService {
	return &ingestService{
		db:           db,
		log:          log.With("service", "IngestService"),
		clientRepo:   clientRepo,
		documentRepo: documentRepo,
		activity:     activity,
		bucket:       bucket,
		extractor:    extract,
		now:          time.Now,
	}
}

func mockExtractedRecord() map[string]string {
	return map[string]string{
		"name":         "John Doe",
		"email":        "john.doe@example.com",
		"phone":        "555-1234",
		"organization": "Acme",
	}
}

func (s *ingestService) Ingest(ctx context.Context, fileName string, content []byte) (*types.Client, *types.Document, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, nil, err
	}

	extracted := s.extract(ctx, fileName, content)

	client, err := s.matchClient(ctx, userID, extracted)
	if err != nil {
		return nil, nil, err
	}

	key := fmt.Sprintf("%s/%s/%d-%s", userID, client.ID, s.now().UnixMilli(), fileName)
	if err := s.bucket.UploadFile(ctx, key, bytes.NewReader(content)); err != nil {
		return nil, nil, apierr.New(500, "document_upload_failed", fmt.Errorf("store ingested file: %w", err))
	}

	fields := datatypes.JSONMap{}
	for k, v := range extracted {
		fields[k] = v
	}
	doc := &types.Document{
		ID:              uuid.New(),
		ClientID:        client.ID,
		FileName:        fileName,
		StorageKey:      key,
		ExtractedFields: fields,
	}
	created, err := s.documentRepo.Create(ctx, nil, []*types.Document{doc})
	if err != nil {
		return nil, nil, apierr.New(500, "document_create_failed", err)
	}
	doc = created[0]

	metadata := map[string]interface{}{}
	for k, v := range extracted {
		metadata[k] = v
	}
	s.activity.Record(ctx, userID, types.ActivityDocumentIngested,
		fmt.Sprintf("Ingested %s", fileName), &client.ID, &doc.ID, metadata)

	return client, doc, nil
}

// extract asks the configured extract endpoint for contact fields. Every
// failure mode degrades to the fixed mock record so ingestion keeps working
// without the collaborator.
func (s *ingestService) extract(ctx context.Context, fileName string, content []byte) map[string]string {
	if !s.extractor.Configured() {
		return mockExtractedRecord()
	}
	resp, err := s.extractor.Send(ctx, fileName, content)
	if err != nil {
		s.log.Warn("Extractor unreachable, using mock record", "error", err)
		return mockExtractedRecord()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.log.Warn("Extractor returned error, using mock record",
			"error", fmt.Sprintf("Extractor error %d: %s", resp.StatusCode, string(resp.Body)))
		return mockExtractedRecord()
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		s.log.Warn("Extractor response not JSON, using mock record", "error", err)
		return mockExtractedRecord()
	}
	out := map[string]string{}
	for k, v := range payload {
		if v == nil {
			continue
		}
		if str, ok := v.(string); ok {
			out[k] = str
			continue
		}
		out[k] = fmt.Sprint(v)
	}
	if len(out) == 0 {
		return mockExtractedRecord()
	}
	return out
}

// matchClient finds the owner's client for an extracted record: email
// equality first, then exact name, else a new client built from the record.
func (s *ingestService) matchClient(ctx context.Context, userID uuid.UUID, extracted map[string]string) (*types.Client, error) {
	email := strings.TrimSpace(extracted["email"])
	name := strings.TrimSpace(extracted["name"])

	if email != "" {
		found, err := s.clientRepo.FindByEmail(ctx, nil, userID, email)
		if err != nil {
			return nil, apierr.New(500, "client_match_failed", err)
		}
		if found != nil {
			return found, nil
		}
	}
	if name != "" {
		found, err := s.clientRepo.FindByName(ctx, nil, userID, name)
		if err != nil {
			return nil, apierr.New(500, "client_match_failed", err)
		}
		if found != nil {
			return found, nil
		}
	}

	if name == "" {
		name = "Unknown"
	}
	client := &types.Client{
		ID:           uuid.New(),
		UserID:       userID,
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(extracted["phone"]),
		Organization: strings.TrimSpace(extracted["organization"]),
		Address:      strings.TrimSpace(extracted["address"]),
	}
	created, err := s.clientRepo.Create(ctx, nil, []*types.Client{client})
	if err != nil {
		return nil, apierr.New(500, "client_create_failed", err)
	}
	return created[0], nil
}
