package orderlog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lmarceau/privastore-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository journals orders accepted upstream so confirmations survive the
// client session. Rows are write-once.
type Repository interface {
	Record(ctx context.Context, record *models.OrderRecord) error
	BySession(ctx context.Context, sessionID string) ([]models.OrderRecord, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Record(ctx context.Context, record *models.OrderRecord) error {
	if record == nil {
		return fmt.Errorf("order record required")
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) BySession(ctx context.Context, sessionID string) ([]models.OrderRecord, error) {
	var records []models.OrderRecord
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
