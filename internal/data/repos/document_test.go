package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/clientdesk/clientdesk-backend/internal/data/repos/testutil"
	types "github.com/clientdesk/clientdesk-backend/internal/domain"
)

func TestDocumentRepoCreateAndGetByClientID(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewDocumentRepo(db, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "owner@docs.test")
	client := testutil.SeedClient(t, ctx, tx, user.ID, "Jane", "")
	other := testutil.SeedClient(t, ctx, tx, user.ID, "Other", "")

	created, err := repo.Create(ctx, tx, []*types.Document{{
		ID:              uuid.New(),
		ClientID:        client.ID,
		FileName:        "lease.pdf",
		StorageKey:      "k/lease.pdf",
		ExtractedFields: datatypes.JSONMap{"field": "value"},
	}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	testutil.SeedDocument(t, ctx, tx, other.ID, "noise.pdf", "k/noise.pdf")

	got, err := repo.GetByClientID(ctx, tx, client.ID)
	if err != nil {
		t.Fatalf("GetByClientID: %v", err)
	}
	if len(got) != 1 || got[0].ID != created[0].ID {
		t.Fatalf("GetByClientID=%+v, want only the client's document", got)
	}
	if got[0].ExtractedFields["field"] != "value" {
		t.Fatalf("ExtractedFields=%v, want jsonb round trip", got[0].ExtractedFields)
	}
}

func TestDocumentRepoUpdateFields(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewDocumentRepo(db, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "owner2@docs.test")
	client := testutil.SeedClient(t, ctx, tx, user.ID, "Jane", "")
	doc := testutil.SeedDocument(t, ctx, tx, client.ID, "lease.pdf", "k/lease.pdf")

	err := repo.UpdateFields(ctx, tx, doc.ID, map[string]interface{}{
		"extracted_fields": datatypes.JSONMap{"first_name": "Ada"},
		"autofilled_url":   "https://signed.example.com/k",
	})
	if err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	got, err := repo.GetByIDs(ctx, tx, []uuid.UUID{doc.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("GetByIDs returned %d rows, want 1", len(got))
	}
	if got[0].ExtractedFields["first_name"] != "Ada" {
		t.Fatalf("ExtractedFields=%v, want updated map", got[0].ExtractedFields)
	}
	if got[0].AutofilledURL != "https://signed.example.com/k" {
		t.Fatalf("AutofilledURL=%q, want updated url", got[0].AutofilledURL)
	}
}

func TestDocumentRepoFullDelete(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewDocumentRepo(db, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "owner3@docs.test")
	client := testutil.SeedClient(t, ctx, tx, user.ID, "Jane", "")
	doc := testutil.SeedDocument(t, ctx, tx, client.ID, "lease.pdf", "k/lease.pdf")

	if err := repo.FullDeleteByIDs(ctx, tx, []uuid.UUID{doc.ID}); err != nil {
		t.Fatalf("FullDeleteByIDs: %v", err)
	}
	got, err := repo.GetByIDs(ctx, tx, []uuid.UUID{doc.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("document survived full delete: %+v", got)
	}
}
