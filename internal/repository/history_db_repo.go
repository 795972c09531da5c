package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/rubricai-api/internal/models"
)

type dbHistoryRepository struct {
	db *gorm.DB
}

// NewDBHistoryRepository stores history in the evaluation_records table.
func NewDBHistoryRepository(db *gorm.DB) HistoryRepository {
	return &dbHistoryRepository{db: db}
}

func (r *dbHistoryRepository) Append(ctx context.Context, record models.EvaluationRecord) error {
	record.ID = 0
	return r.db.WithContext(ctx).Create(&record).Error
}

func (r *dbHistoryRepository) List(ctx context.Context) ([]models.EvaluationRecord, error) {
	records := make([]models.EvaluationRecord, 0)
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *dbHistoryRepository) Clear(ctx context.Context) (bool, error) {
	result := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.EvaluationRecord{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
