package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/lms-go-api/internal/models"
)

// TaxonomyRepository exposes the catalog filter taxonomies.
type TaxonomyRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListDifficulties(ctx context.Context) ([]models.DifficultyLevel, error)
}

type taxonomyRepository struct {
	db *gorm.DB
}

// NewTaxonomyRepository instantiates the repository.
func NewTaxonomyRepository(db *gorm.DB) TaxonomyRepository {
	return &taxonomyRepository{db: db}
}

func (r *taxonomyRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *taxonomyRepository) ListDifficulties(ctx context.Context) ([]models.DifficultyLevel, error) {
	var difficulties []models.DifficultyLevel
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("level ASC").
		Find(&difficulties).Error; err != nil {
		return nil, err
	}

	return difficulties, nil
}
