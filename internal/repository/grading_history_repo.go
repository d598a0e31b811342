package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/noah-isme/lms-go-api/internal/models"
)

// GradingHistoryRepository persists the append-only grading audit trail.
type GradingHistoryRepository interface {
	Create(ctx context.Context, entry *models.GradingHistoryEntry) error
	CreateBatch(ctx context.Context, entries []models.GradingHistoryEntry) error
	ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]models.GradingHistoryEntry, error)
}

type gradingHistoryRepository struct {
	db *gorm.DB
}

// NewGradingHistoryRepository instantiates a GORM-backed repository.
func NewGradingHistoryRepository(db *gorm.DB) GradingHistoryRepository {
	return &gradingHistoryRepository{db: db}
}

func (r *gradingHistoryRepository) Create(ctx context.Context, entry *models.GradingHistoryEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *gradingHistoryRepository) CreateBatch(ctx context.Context, entries []models.GradingHistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

func (r *gradingHistoryRepository) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]models.GradingHistoryEntry, error) {
	var entries []models.GradingHistoryEntry
	if err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}
