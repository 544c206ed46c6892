package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Model is the base embedded by every persisted record: a UUID primary key
// assigned on insert plus timestamps.
type Model struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *Model) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Audit records who created and last touched a row.
type Audit struct {
	CreatedBy string  `gorm:"size:64" json:"created_by,omitempty"`
	UpdatedBy *string `gorm:"size:64" json:"updated_by,omitempty"`
}
