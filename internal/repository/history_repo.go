package repository

import (
	"context"

	"github.com/noah-isme/rubricai-api/internal/models"
)

// HistoryRepository persists evaluation records in insertion order.
type HistoryRepository interface {
	// Append stores one record at the end of the history.
	Append(ctx context.Context, record models.EvaluationRecord) error
	// List returns every readable record, newest first.
	List(ctx context.Context) ([]models.EvaluationRecord, error)
	// Clear removes the whole history and reports whether anything was removed.
	Clear(ctx context.Context) (bool, error)
}
