package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/clientdesk/clientdesk-backend/internal/clients/extractor"
	"github.com/clientdesk/clientdesk-backend/internal/clients/gcp"
	"github.com/clientdesk/clientdesk-backend/internal/data/repos"
	types "github.com/clientdesk/clientdesk-backend/internal/domain"
	"github.com/clientdesk/clientdesk-backend/internal/pkg/apierr"
	"github.com/clientdesk/clientdesk-backend/internal/pkg/logger"
)

const autofillURLTTL = 7 * 24 * time.Hour

// FillClient is the slice of the extractor client the autofill flow needs.
type FillClient interface {
	Configured() bool
	Send(ctx context.Context, fileName string, content []byte) (*extractor.Response, error)
}

type AutofillService interface {
	// Autofill runs the fill flow for one document and returns the updated
	// row. Anything that goes wrong on the fill leg itself (fetching the
	// original, the endpoint, its response) resolves the run as failed but
	// still returns normally; only artifact-publishing and database errors
	// surface as errors.
	Autofill(ctx context.Context, docID uuid.UUID) (*types.Document, error)
}

type autofillService struct {
	db           *gorm.DB
	log          *logger.Logger
	documentRepo repos.DocumentRepo
	clientRepo   repos.ClientRepo
	activity     ActivityService
	bucket       gcp.BucketService
	filler       FillClient
	now          func() time.Time
}

func NewAutofillService(
	db *gorm.DB,
	log *logger.Logger,
	documentRepo repos.DocumentRepo,
	clientRepo repos.ClientRepo,
	activity ActivityService,
	bucket gcp.BucketService,
	filler FillClient,
) AutofillService {
	return &autofillService{
		db:           db,
		log:          log.With("service", "AutofillService"),
		documentRepo: documentRepo,
		clientRepo:   clientRepo,
		activity:     activity,
		bucket:       bucket,
		filler:       filler,
		now:          time.Now,
	}
}

func (s *autofillService) Autofill(ctx context.Context, docID uuid.UUID) (*types.Document, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	doc, client, err := s.locate(ctx, docID, userID)
	if err != nil {
		return nil, err
	}

	if !s.filler.Configured() {
		return s.finishSkipped(ctx, userID, doc, client)
	}

	fields, pdf, runErr := s.runFill(ctx, doc)
	if runErr != nil {
		return s.finishFailed(ctx, userID, doc, client, runErr)
	}

	updates := map[string]interface{}{}
	if len(fields) > 0 {
		updates["extracted_fields"] = datatypes.JSONMap(fields)
	}
	if len(pdf) > 0 {
		key := filledObjectKey(userID, doc.ClientID, doc.FileName, s.now().Unix())
		if err := s.bucket.UploadFile(ctx, key, bytes.NewReader(pdf)); err != nil {
			return nil, apierr.New(500, "artifact_upload_failed", fmt.Errorf("upload filled pdf: %w", err))
		}
		url, err := s.bucket.SignedURL(key, autofillURLTTL)
		if err != nil {
			return nil, apierr.New(500, "artifact_sign_failed", fmt.Errorf("sign filled pdf url: %w", err))
		}
		updates["autofilled_url"] = url
	}

	updated, err := s.applyUpdates(ctx, doc, updates)
	if err != nil {
		return nil, apierr.New(500, "document_update_failed", err)
	}
	s.activity.Record(ctx, userID, types.ActivityDocumentAutofilled,
		fmt.Sprintf("Autofilled %s", doc.FileName), &client.ID, &doc.ID, nil)
	return updated, nil
}

// locate resolves the document and its parent client, then checks the
// caller owns the chain. The client id always comes from the stored row,
// never from the request.
func (s *autofillService) locate(ctx context.Context, docID, userID uuid.UUID) (*types.Document, *types.Client, error) {
	docs, err := s.documentRepo.GetByIDs(ctx, nil, []uuid.UUID{docID})
	if err != nil {
		return nil, nil, apierr.New(500, "document_lookup_failed", err)
	}
	if len(docs) == 0 {
		return nil, nil, apierr.New(404, "document_not_found", errors.New("document not found"))
	}
	doc := docs[0]

	clients, err := s.clientRepo.GetByIDs(ctx, nil, []uuid.UUID{doc.ClientID})
	if err != nil {
		return nil, nil, apierr.New(500, "client_lookup_failed", err)
	}
	// A document whose client is gone reads the same as one the caller
	// doesn't own: the ownership chain cannot be established.
	if len(clients) == 0 || clients[0].UserID != userID {
		return nil, nil, apierr.New(403, "forbidden", errors.New("document does not belong to you"))
	}
	return doc, clients[0], nil
}

// runFill covers the whole external leg of the flow: fetch the original
// bytes, send them to the fill endpoint, and make sense of the answer. An
// error from any of it resolves the run as failed rather than failing the
// request, so the document ends up annotated instead of untouched.
func (s *autofillService) runFill(ctx context.Context, doc *types.Document) (map[string]interface{}, []byte, error) {
	if doc.StorageKey == "" {
		return nil, nil, errors.New("document has no stored file")
	}
	rc, err := s.bucket.DownloadFile(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("download original: %w", err)
	}
	defer rc.Close()
	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, nil, fmt.Errorf("read original: %w", err)
	}

	resp, err := s.filler.Send(ctx, doc.FileName, content)
	if err != nil {
		return nil, nil, err
	}
	return s.interpret(ctx, resp)
}

// interpret turns the fill endpoint's response into fields and/or PDF
// bytes. Errors here mean the run failed, not the request.
func (s *autofillService) interpret(ctx context.Context, resp *extractor.Response) (map[string]interface{}, []byte, error) {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, fmt.Errorf("Filler error %d: %s", resp.StatusCode, string(resp.Body))
	}
	if !strings.Contains(strings.ToLower(resp.ContentType), "application/json") {
		// Non-JSON 2xx: the whole body is the filled PDF.
		return nil, resp.Body, nil
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, nil, fmt.Errorf("parse filler response: %w", err)
	}
	fields := normalizeFilledFields(payload)
	pdf, err := resolveFilledPDF(ctx, payload)
	if err != nil {
		return nil, nil, err
	}
	return fields, pdf, nil
}

func (s *autofillService) finishSkipped(ctx context.Context, userID uuid.UUID, doc *types.Document, client *types.Client) (*types.Document, error) {
	updated, err := s.applyUpdates(ctx, doc, map[string]interface{}{
		"extracted_fields": datatypes.JSONMap{"autofill": "skipped (no extractor configured)"},
	})
	if err != nil {
		return nil, apierr.New(500, "document_update_failed", err)
	}
	s.activity.Record(ctx, userID, types.ActivityDocumentAutofillSkipped,
		fmt.Sprintf("Autofill skipped for %s", doc.FileName), &client.ID, &doc.ID, nil)
	return updated, nil
}

func (s *autofillService) finishFailed(ctx context.Context, userID uuid.UUID, doc *types.Document, client *types.Client, runErr error) (*types.Document, error) {
	s.log.Warn("Autofill run failed", "document_id", doc.ID.String(), "error", runErr)
	updated, err := s.applyUpdates(ctx, doc, map[string]interface{}{
		"extracted_fields": datatypes.JSONMap{"autofill_error": runErr.Error()},
	})
	if err != nil {
		return nil, apierr.New(500, "document_update_failed", err)
	}
	s.activity.Record(ctx, userID, types.ActivityDocumentAutofillFailed,
		fmt.Sprintf("Autofill failed for %s", doc.FileName), &client.ID, &doc.ID, nil)
	return updated, nil
}

func (s *autofillService) applyUpdates(ctx context.Context, doc *types.Document, updates map[string]interface{}) (*types.Document, error) {
	if len(updates) == 0 {
		return doc, nil
	}
	if err := s.documentRepo.UpdateFields(ctx, nil, doc.ID, updates); err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}
	rows, err := s.documentRepo.GetByIDs(ctx, nil, []uuid.UUID{doc.ID})
	if err != nil {
		return nil, fmt.Errorf("reload document: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("document disappeared during update")
	}
	return rows[0], nil
}

func filledObjectKey(userID, clientID uuid.UUID, fileName string, unixTS int64) string {
	ext := filepath.Ext(fileName)
	stem := strings.TrimSuffix(filepath.Base(fileName), ext)
	if stem == "" || stem == "." {
		stem = "document"
	}
	if ext == "" {
		ext = ".pdf"
	}
	return fmt.Sprintf("%s/%s/%s_%d_filled%s", userID, clientID, stem, unixTS, ext)
}
