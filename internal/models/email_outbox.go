package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmailOutbox stores outbound emails enqueued inside the transaction that
// produced them. A row with a nil SentAt is pending; delivery failures keep
// the row and record the last error so dispatch can be retried.
type EmailOutbox struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"type:uuid;index" json:"user_id"`

	Recipient string `gorm:"not null" json:"recipient"`
	Subject   string `gorm:"not null" json:"subject"`
	Body      string `gorm:"not null" json:"body"`

	Attempts  int        `gorm:"default:0" json:"attempts"`
	LastError string     `json:"last_error"`
	SentAt    *time.Time `gorm:"index" json:"sent_at"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *EmailOutbox) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
