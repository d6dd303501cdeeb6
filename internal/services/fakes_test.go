package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/clientdesk/clientdesk-backend/internal/domain"
	"github.com/clientdesk/clientdesk-backend/internal/pkg/ctxutil"
	"github.com/clientdesk/clientdesk-backend/internal/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("production")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func authedContext(userID uuid.UUID) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: userID})
}

// fakeClientRepo is an in-memory ClientRepo.
type fakeClientRepo struct {
	rows []*types.Client
}

func (f *fakeClientRepo) Create(ctx context.Context, tx *gorm.DB, clients []*types.Client) ([]*types.Client, error) {
	f.rows = append(f.rows, clients...)
	return clients, nil
}

func (f *fakeClientRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Client, error) {
	var out []*types.Client
	for _, row := range f.rows {
		for _, id := range ids {
			if row.ID == id {
				out = append(out, row)
			}
		}
	}
	return out, nil
}

func (f *fakeClientRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Client, error) {
	var out []*types.Client
	for _, row := range f.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeClientRepo) FindByEmail(ctx context.Context, tx *gorm.DB, userID uuid.UUID, email string) (*types.Client, error) {
	for _, row := range f.rows {
		if row.UserID == userID && row.Email == email && email != "" {
			return row, nil
		}
	}
	return nil, nil
}

func (f *fakeClientRepo) FindByName(ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string) (*types.Client, error) {
	for _, row := range f.rows {
		if row.UserID == userID && row.Name == name && name != "" {
			return row, nil
		}
	}
	return nil, nil
}

func (f *fakeClientRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	return nil
}

func (f *fakeClientRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	var kept []*types.Client
	for _, row := range f.rows {
		remove := false
		for _, id := range ids {
			if row.ID == id {
				remove = true
			}
		}
		if !remove {
			kept = append(kept, row)
		}
	}
	f.rows = kept
	return nil
}

// fakeDocumentRepo is an in-memory DocumentRepo. UpdateFields applies the
// subset of columns the services under test touch.
type fakeDocumentRepo struct {
	rows      []*types.Document
	updateErr error
}

func (f *fakeDocumentRepo) Create(ctx context.Context, tx *gorm.DB, docs []*types.Document) ([]*types.Document, error) {
	f.rows = append(f.rows, docs...)
	return docs, nil
}

func (f *fakeDocumentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Document, error) {
	var out []*types.Document
	for _, row := range f.rows {
		for _, id := range ids {
			if row.ID == id {
				out = append(out, row)
			}
		}
	}
	return out, nil
}

func (f *fakeDocumentRepo) GetByClientID(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) ([]*types.Document, error) {
	var out []*types.Document
	for _, row := range f.rows {
		if row.ClientID == clientID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeDocumentRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	for _, row := range f.rows {
		if row.ID != id {
			continue
		}
		if v, ok := updates["extracted_fields"].(datatypes.JSONMap); ok {
			row.ExtractedFields = v
		}
		if v, ok := updates["autofilled_url"].(string); ok {
			row.AutofilledURL = v
		}
	}
	return nil
}

func (f *fakeDocumentRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	var kept []*types.Document
	for _, row := range f.rows {
		remove := false
		for _, id := range ids {
			if row.ID == id {
				remove = true
			}
		}
		if !remove {
			kept = append(kept, row)
		}
	}
	f.rows = kept
	return nil
}

// fakeActivityRepo records inserts and can be forced to fail.
type fakeActivityRepo struct {
	rows      []*types.Activity
	createErr error
}

func (f *fakeActivityRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Activity) ([]*types.Activity, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.rows = append(f.rows, rows...)
	return rows, nil
}

func (f *fakeActivityRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Activity, error) {
	var out []*types.Activity
	for _, row := range f.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeActivityRepo) lastType() string {
	if len(f.rows) == 0 {
		return ""
	}
	return f.rows[len(f.rows)-1].Type
}

// fakeBucket is an in-memory BucketService.
type fakeBucket struct {
	objects   map[string][]byte
	uploadErr error
	signErr   error
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string][]byte{}}
}

func (f *fakeBucket) UploadFile(ctx context.Context, key string, file io.Reader) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeBucket) DownloadFile(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %q not found", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeBucket) DeleteFile(ctx context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeBucket) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var out []string
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out, nil
}

func (f *fakeBucket) SignedURL(key string, ttl time.Duration) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	return "https://signed.example.com/" + key, nil
}

func (f *fakeBucket) GetPublicURL(key string) string {
	return "https://storage.googleapis.com/test-bucket/" + key
}
