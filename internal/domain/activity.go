package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ActivityDocumentUploaded        = "document.uploaded"
	ActivityDocumentIngested        = "document.ingested"
	ActivityDocumentAutofilled      = "document.autofilled"
	ActivityDocumentAutofillSkipped = "document.autofill.skipped"
	ActivityDocumentAutofillFailed  = "document.autofill.failed"
)

// Activity is append-only; rows are never updated or deleted.
type Activity struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User    *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Type    string    `gorm:"column:type;not null;index" json:"type"`
	Message string    `gorm:"column:message" json:"message"`

	ClientID   *uuid.UUID `gorm:"type:uuid;column:client_id;index" json:"client_id,omitempty"`
	DocumentID *uuid.UUID `gorm:"type:uuid;column:document_id;index" json:"document_id,omitempty"`

	Metadata datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (Activity) TableName() string { return "activity" }
