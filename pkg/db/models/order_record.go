package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderRecord is the local journal entry for an order accepted upstream.
// Rows are write-once; the upstream store owns the order after creation.
type OrderRecord struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	UpstreamID    int64     `gorm:"not null;index"`
	Number        string    `gorm:"size:64"`
	Status        string    `gorm:"size:32"`
	Total         string    `gorm:"size:32"`
	SessionID     string    `gorm:"size:64;index"`
	PaymentMethod string    `gorm:"size:64"`
	HasAddons     bool
	CreatedAt     time.Time
}
