package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/noah-isme/lms-go-api/internal/models"
)

// EnrollmentRepository defines persistence operations for enrollments.
// Rows are never deleted; cancellation sets cancelled_at.
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, id uuid.UUID) (models.Enrollment, error)
	GetActive(ctx context.Context, courseID, learnerID uuid.UUID) (models.Enrollment, error)
	ListActiveByLearner(ctx context.Context, learnerID uuid.UUID) ([]models.Enrollment, error)
	ActiveForCourses(ctx context.Context, learnerID uuid.UUID, courseIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error)
	Cancel(ctx context.Context, id uuid.UUID, cancelledAt time.Time) error
	CountActive(ctx context.Context) (int64, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository instantiates a GORM-backed repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.db.WithContext(ctx).First(&enrollment, "id = ?", id).Error; err != nil {
		return models.Enrollment{}, err
	}

	return enrollment, nil
}

func (r *enrollmentRepository) GetActive(ctx context.Context, courseID, learnerID uuid.UUID) (models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Where("learner_id = ?", learnerID).
		Where("cancelled_at IS NULL").
		First(&enrollment).Error; err != nil {
		return models.Enrollment{}, err
	}

	return enrollment, nil
}

func (r *enrollmentRepository) ListActiveByLearner(ctx context.Context, learnerID uuid.UUID) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	if err := r.db.WithContext(ctx).
		Preload("Course").
		Where("learner_id = ?", learnerID).
		Where("cancelled_at IS NULL").
		Order("enrolled_at DESC").
		Find(&enrollments).Error; err != nil {
		return nil, err
	}

	return enrollments, nil
}

// ActiveForCourses maps course id to the learner's active enrollment id for
// the given course set. Used by catalog projections.
func (r *enrollmentRepository) ActiveForCourses(ctx context.Context, learnerID uuid.UUID, courseIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	lookup := make(map[uuid.UUID]uuid.UUID, len(courseIDs))
	if len(courseIDs) == 0 {
		return lookup, nil
	}

	var enrollments []models.Enrollment
	if err := r.db.WithContext(ctx).
		Where("learner_id = ?", learnerID).
		Where("cancelled_at IS NULL").
		Where("course_id IN ?", courseIDs).
		Find(&enrollments).Error; err != nil {
		return nil, err
	}

	for _, enrollment := range enrollments {
		lookup[enrollment.CourseID] = enrollment.ID
	}

	return lookup, nil
}

func (r *enrollmentRepository) Cancel(ctx context.Context, id uuid.UUID, cancelledAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("id = ?", id).
		Where("cancelled_at IS NULL").
		Update("cancelled_at", cancelledAt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *enrollmentRepository) CountActive(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("cancelled_at IS NULL").
		Count(&total).Error; err != nil {
		return 0, err
	}

	return total, nil
}
