package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Document rows are immutable after upload except for extracted_fields and
// autofilled_url, which the autofill flow rewrites.
type Document struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ClientID uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	Client   *Client   `gorm:"foreignKey:ClientID;references:ID" json:"client,omitempty"`

	FileName        string            `gorm:"column:file_name;not null" json:"file_name"`
	StorageKey      string            `gorm:"column:storage_key" json:"storage_key"`
	ExtractedFields datatypes.JSONMap `gorm:"type:jsonb;column:extracted_fields" json:"extracted_fields"`
	AutofilledURL   string            `gorm:"column:autofilled_url" json:"autofilled_url"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Document) TableName() string { return "document" }
