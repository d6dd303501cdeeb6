package domain

import (
	"time"

	"github.com/google/uuid"
)

type Client struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User         *User     `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Name         string    `gorm:"not null;column:name" json:"name"`
	Phone        string    `gorm:"column:phone" json:"phone"`
	Email        string    `gorm:"column:email;index" json:"email"`
	Address      string    `gorm:"column:address" json:"address"`
	Organization string    `gorm:"column:organization" json:"organization"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Client) TableName() string { return "client" }
