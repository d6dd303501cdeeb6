package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	types "github.com/clientdesk/clientdesk-backend/internal/domain"
	"github.com/clientdesk/clientdesk-backend/internal/pkg/apierr"
)

func newClientFixture(t *testing.T) (*clientService, *fakeClientRepo, uuid.UUID) {
	t.Helper()
	log := testLogger(t)
	repo := &fakeClientRepo{}
	svc := NewClientService(nil, log, repo).(*clientService)
	return svc, repo, uuid.New()
}

func strPtr(s string) *string { return &s }

func TestClientCreate(t *testing.T) {
	svc, repo, userID := newClientFixture(t)

	created, err := svc.Create(authedContext(userID), &types.Client{Name: "  Jane Smith  "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Name != "Jane Smith" {
		t.Fatalf("Name=%q, want trimmed", created.Name)
	}
	if created.UserID != userID {
		t.Fatalf("UserID=%s, want caller %s", created.UserID, userID)
	}
	if len(repo.rows) != 1 {
		t.Fatalf("repo holds %d rows, want 1", len(repo.rows))
	}
}

func TestClientCreateRequiresName(t *testing.T) {
	svc, _, userID := newClientFixture(t)

	_, err := svc.Create(authedContext(userID), &types.Client{Name: "   "})
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Status != 400 {
		t.Fatalf("Create without name: err=%v, want status 400", err)
	}
}

func TestClientGetForeignReadsAsNotFound(t *testing.T) {
	svc, repo, userID := newClientFixture(t)
	foreign := &types.Client{ID: uuid.New(), UserID: uuid.New(), Name: "Someone Else's"}
	repo.rows = append(repo.rows, foreign)

	_, err := svc.Get(authedContext(userID), foreign.ID)
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Status != 404 {
		t.Fatalf("Get of foreign client: err=%v, want status 404", err)
	}
}

func TestClientListScopesToOwner(t *testing.T) {
	svc, repo, userID := newClientFixture(t)
	mine := &types.Client{ID: uuid.New(), UserID: userID, Name: "Mine"}
	repo.rows = append(repo.rows,
		mine,
		&types.Client{ID: uuid.New(), UserID: uuid.New(), Name: "Theirs"},
	)

	got, err := svc.List(authedContext(userID))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].ID != mine.ID {
		t.Fatalf("List=%+v, want only the caller's client", got)
	}
}

func TestClientUpdateRejectsEmptyName(t *testing.T) {
	svc, repo, userID := newClientFixture(t)
	row := &types.Client{ID: uuid.New(), UserID: userID, Name: "Jane"}
	repo.rows = append(repo.rows, row)

	_, err := svc.Update(authedContext(userID), row.ID, ClientUpdate{Name: strPtr("  ")})
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Status != 400 {
		t.Fatalf("Update with empty name: err=%v, want status 400", err)
	}
}

func TestClientUpdateNoFieldsReturnsExisting(t *testing.T) {
	svc, repo, userID := newClientFixture(t)
	row := &types.Client{ID: uuid.New(), UserID: userID, Name: "Jane"}
	repo.rows = append(repo.rows, row)

	got, err := svc.Update(authedContext(userID), row.ID, ClientUpdate{})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.ID != row.ID {
		t.Fatalf("Update returned %+v, want the existing row", got)
	}
}

func TestClientDeleteForeignReadsAsNotFound(t *testing.T) {
	svc, repo, userID := newClientFixture(t)
	foreign := &types.Client{ID: uuid.New(), UserID: uuid.New(), Name: "Theirs"}
	repo.rows = append(repo.rows, foreign)

	err := svc.Delete(authedContext(userID), foreign.ID)
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Status != 404 {
		t.Fatalf("Delete of foreign client: err=%v, want status 404", err)
	}
	if len(repo.rows) != 1 {
		t.Fatalf("foreign delete removed rows")
	}
}

func TestClientDelete(t *testing.T) {
	svc, repo, userID := newClientFixture(t)
	row := &types.Client{ID: uuid.New(), UserID: userID, Name: "Doomed"}
	repo.rows = append(repo.rows, row)

	if err := svc.Delete(authedContext(userID), row.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(repo.rows) != 0 {
		t.Fatalf("client survived delete: %+v", repo.rows)
	}
}
