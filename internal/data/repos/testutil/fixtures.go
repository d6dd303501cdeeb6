package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/clientdesk/clientdesk-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedClient(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, name, email string) *types.Client {
	tb.Helper()
	c := &types.Client{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
		Email:  email,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed client: %v", err)
	}
	return c
}

func SeedDocument(tb testing.TB, ctx context.Context, tx *gorm.DB, clientID uuid.UUID, fileName, storageKey string) *types.Document {
	tb.Helper()
	d := &types.Document{
		ID:              uuid.New(),
		ClientID:        clientID,
		FileName:        fileName,
		StorageKey:      storageKey,
		ExtractedFields: datatypes.JSONMap{},
	}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed document: %v", err)
	}
	return d
}

func PtrUUID(id uuid.UUID) *uuid.UUID { return &id }
