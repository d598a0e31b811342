package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/noah-isme/lms-go-api/internal/models"
)

// AssignmentRepository defines persistence operations for assignments.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	GetByID(ctx context.Context, id uuid.UUID) (models.Assignment, error)
	GetWithCourse(ctx context.Context, id uuid.UUID) (models.Assignment, error)
	Update(ctx context.Context, assignment *models.Assignment) error
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Assignment, error)
	ListByCourses(ctx context.Context, courseIDs []uuid.UUID) ([]models.Assignment, error)
	ListPublishedDueBetween(ctx context.Context, courseIDs []uuid.UUID, from, to time.Time) ([]models.Assignment, error)
	AutoCloseDue(ctx context.Context, now time.Time) (int64, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository instantiates a GORM-backed repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).First(&assignment, "id = ?", id).Error; err != nil {
		return models.Assignment{}, err
	}

	return assignment, nil
}

// GetWithCourse loads the assignment together with its owning course so
// callers can resolve ownership in one repository call.
func (r *assignmentRepository) GetWithCourse(ctx context.Context, id uuid.UUID) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).
		Preload("Course").
		First(&assignment, "id = ?", id).Error; err != nil {
		return models.Assignment{}, err
	}

	return assignment, nil
}

func (r *assignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

func (r *assignmentRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Assignment, error) {
	var assignments []models.Assignment
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("due_date ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *assignmentRepository) ListByCourses(ctx context.Context, courseIDs []uuid.UUID) ([]models.Assignment, error) {
	if len(courseIDs) == 0 {
		return []models.Assignment{}, nil
	}

	var assignments []models.Assignment
	if err := r.db.WithContext(ctx).
		Where("course_id IN ?", courseIDs).
		Order("due_date ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *assignmentRepository) ListPublishedDueBetween(ctx context.Context, courseIDs []uuid.UUID, from, to time.Time) ([]models.Assignment, error) {
	if len(courseIDs) == 0 {
		return []models.Assignment{}, nil
	}

	var assignments []models.Assignment
	if err := r.db.WithContext(ctx).
		Where("course_id IN ?", courseIDs).
		Where("status = ?", models.AssignmentStatusPublished).
		Where("due_date >= ? AND due_date <= ?", from, to).
		Order("due_date ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

// AutoCloseDue bulk-closes published assignments whose deadline has passed
// and returns how many rows were affected. Running it twice in a row closes
// nothing on the second pass.
func (r *assignmentRepository) AutoCloseDue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("status = ?", models.AssignmentStatusPublished).
		Where("due_date <= ?", now).
		Updates(map[string]interface{}{
			"status":    models.AssignmentStatusClosed,
			"closed_at": now,
		})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
