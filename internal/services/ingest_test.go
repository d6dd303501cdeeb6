package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/clientdesk/clientdesk-backend/internal/domain"
	"github.com/clientdesk/clientdesk-backend/internal/pkg/apierr"
)

type ingestFixture struct {
	svc      *ingestService
	clients  *fakeClientRepo
	docs     *fakeDocumentRepo
	activity *fakeActivityRepo
	bucket   *fakeBucket
	userID   uuid.UUID
}

func newIngestFixture(t *testing.T, extract FillClient) *ingestFixture {
	t.Helper()
	log := testLogger(t)

	clients := &fakeClientRepo{}
	docs := &fakeDocumentRepo{}
	activity := &fakeActivityRepo{}
	bucket := newFakeBucket()

	svc := NewIngestService(nil, log, clients, docs,
		NewActivityService(nil, log, activity), bucket, extract).(*ingestService)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }

	return &ingestFixture{
		svc:      svc,
		clients:  clients,
		docs:     docs,
		activity: activity,
		bucket:   bucket,
		userID:   uuid.New(),
	}
}

func TestIngestFallsBackToMockRecord(t *testing.T) {
	fx := newIngestFixture(t, unconfiguredFiller(t))

	client, doc, err := fx.svc.Ingest(authedContext(fx.userID), "scan.pdf", []byte("content"))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if client.Name != "John Doe" || client.Email != "john.doe@example.com" {
		t.Fatalf("client=%+v, want mock record", client)
	}
	if client.Phone != "555-1234" || client.Organization != "Acme" {
		t.Fatalf("client=%+v, want mock phone and organization", client)
	}
	if doc.ExtractedFields["name"] != "John Doe" {
		t.Fatalf("ExtractedFields=%v, want mock record", doc.ExtractedFields)
	}
	if fx.activity.lastType() != types.ActivityDocumentIngested {
		t.Fatalf("last activity=%q, want %q", fx.activity.lastType(), types.ActivityDocumentIngested)
	}
}

func TestIngestExtractorErrorFallsBackToMock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	fx := newIngestFixture(t, fillerAt(t, srv.URL))

	client, _, err := fx.svc.Ingest(authedContext(fx.userID), "scan.pdf", []byte("content"))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if client.Name != "John Doe" {
		t.Fatalf("client=%+v, want mock record on extractor error", client)
	}
}

func TestIngestMatchesClientByEmailFirst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"name":  "Misspelled Name",
			"email": "jane@acme.com",
		})
	}))
	defer srv.Close()

	fx := newIngestFixture(t, fillerAt(t, srv.URL))
	existing := &types.Client{ID: uuid.New(), UserID: fx.userID, Name: "Jane Smith", Email: "jane@acme.com"}
	fx.clients.rows = append(fx.clients.rows, existing)

	client, _, err := fx.svc.Ingest(authedContext(fx.userID), "scan.pdf", []byte("content"))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if client.ID != existing.ID {
		t.Fatalf("matched client %s, want existing %s via email", client.ID, existing.ID)
	}
	if len(fx.clients.rows) != 1 {
		t.Fatalf("ingest created %d extra clients, want reuse", len(fx.clients.rows)-1)
	}
}

func TestIngestMatchesClientByNameWhenEmailMisses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"name":  "Jane Smith",
			"email": "new-address@acme.com",
		})
	}))
	defer srv.Close()

	fx := newIngestFixture(t, fillerAt(t, srv.URL))
	existing := &types.Client{ID: uuid.New(), UserID: fx.userID, Name: "Jane Smith", Email: "old@acme.com"}
	fx.clients.rows = append(fx.clients.rows, existing)

	client, _, err := fx.svc.Ingest(authedContext(fx.userID), "scan.pdf", []byte("content"))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if client.ID != existing.ID {
		t.Fatalf("matched client %s, want existing %s via name", client.ID, existing.ID)
	}
}

func TestIngestCreatesClientFromRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"name":         "New Person",
			"email":        "new@people.com",
			"phone":        "555-9999",
			"organization": "People Inc",
		})
	}))
	defer srv.Close()

	fx := newIngestFixture(t, fillerAt(t, srv.URL))

	client, doc, err := fx.svc.Ingest(authedContext(fx.userID), "scan.pdf", []byte("content"))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if client.Name != "New Person" || client.Email != "new@people.com" {
		t.Fatalf("client=%+v, want created from extracted record", client)
	}
	if client.UserID != fx.userID {
		t.Fatalf("client.UserID=%s, want caller %s", client.UserID, fx.userID)
	}
	if doc.ClientID != client.ID {
		t.Fatalf("doc.ClientID=%s, want %s", doc.ClientID, client.ID)
	}
}

func TestIngestNamelessRecordGetsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"email": "mystery@acme.com",
		})
	}))
	defer srv.Close()

	fx := newIngestFixture(t, fillerAt(t, srv.URL))

	client, _, err := fx.svc.Ingest(authedContext(fx.userID), "scan.pdf", []byte("content"))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if client.Name != "Unknown" {
		t.Fatalf("client.Name=%q, want Unknown", client.Name)
	}
}

func TestIngestNonStringValuesStringified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name":"Jane Smith","age":42}`)
	}))
	defer srv.Close()

	fx := newIngestFixture(t, fillerAt(t, srv.URL))

	_, doc, err := fx.svc.Ingest(authedContext(fx.userID), "scan.pdf", []byte("content"))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if doc.ExtractedFields["age"] != "42" {
		t.Fatalf("ExtractedFields[age]=%v, want %q", doc.ExtractedFields["age"], "42")
	}
}

func TestIngestStoresOriginalFile(t *testing.T) {
	fx := newIngestFixture(t, unconfiguredFiller(t))
	content := []byte("original bytes")

	client, doc, err := fx.svc.Ingest(authedContext(fx.userID), "scan.pdf", content)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	wantKey := fmt.Sprintf("%s/%s/1700000000000-scan.pdf", fx.userID, client.ID)
	if doc.StorageKey != wantKey {
		t.Fatalf("StorageKey=%q, want %q", doc.StorageKey, wantKey)
	}
	if string(fx.bucket.objects[wantKey]) != string(content) {
		t.Fatalf("bucket[%q]=%q, want original content", wantKey, fx.bucket.objects[wantKey])
	}
}

func TestIngestStorageFailureIsFatal(t *testing.T) {
	fx := newIngestFixture(t, unconfiguredFiller(t))
	fx.bucket.uploadErr = errors.New("bucket down")

	_, _, err := fx.svc.Ingest(authedContext(fx.userID), "scan.pdf", []byte("content"))
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Status != 500 {
		t.Fatalf("Ingest with failing storage: err=%v, want status 500", err)
	}
	if len(fx.docs.rows) != 0 {
		t.Fatalf("failed ingest still created %d documents", len(fx.docs.rows))
	}
}

func TestIngestActivityCarriesExtractedMetadata(t *testing.T) {
	fx := newIngestFixture(t, unconfiguredFiller(t))

	if _, _, err := fx.svc.Ingest(authedContext(fx.userID), "scan.pdf", []byte("content")); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if len(fx.activity.rows) != 1 {
		t.Fatalf("recorded %d activities, want 1", len(fx.activity.rows))
	}
	row := fx.activity.rows[0]
	if !strings.Contains(row.Message, "scan.pdf") {
		t.Fatalf("activity message=%q, want file name mentioned", row.Message)
	}
	var meta map[string]interface{}
	if err := json.Unmarshal(row.Metadata, &meta); err != nil {
		t.Fatalf("unmarshal activity metadata: %v", err)
	}
	if meta["email"] != "john.doe@example.com" {
		t.Fatalf("metadata=%v, want extracted record", meta)
	}
}

func TestIngestUnauthenticated(t *testing.T) {
	fx := newIngestFixture(t, unconfiguredFiller(t))

	_, _, err := fx.svc.Ingest(authedContext(uuid.Nil), "scan.pdf", []byte("content"))
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Status != 401 {
		t.Fatalf("Ingest without user: err=%v, want status 401", err)
	}
}
