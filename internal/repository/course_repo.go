package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/noah-isme/lms-go-api/internal/models"
)

// CourseFilter describes catalog search, filter, sort and pagination options.
type CourseFilter struct {
	Status       string
	Search       string
	CategoryID   *uuid.UUID
	DifficultyID *uuid.UUID
	Sort         string
	Page         int
	PageSize     int
}

// CourseRepository defines persistence operations for courses. The enrolled
// counter is only ever mutated through the two atomic counter methods.
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uuid.UUID) (models.Course, error)
	GetDetail(ctx context.Context, id uuid.UUID) (models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, publishedAt, archivedAt *time.Time) error
	ListCatalog(ctx context.Context, filter CourseFilter) ([]models.Course, int64, error)
	ListByInstructor(ctx context.Context, instructorID uuid.UUID) ([]models.Course, error)
	IncrementEnrolled(ctx context.Context, id uuid.UUID) (bool, error)
	DecrementEnrolled(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository instantiates a GORM-backed repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		return models.Course{}, err
	}

	return course, nil
}

func (r *courseRepository) GetDetail(ctx context.Context, id uuid.UUID) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Difficulty").
		Preload("Instructor").
		First(&course, "id = ?", id).Error; err != nil {
		return models.Course{}, err
	}

	return course, nil
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *courseRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, publishedAt, archivedAt *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if publishedAt != nil {
		updates["published_at"] = *publishedAt
	}
	if archivedAt != nil {
		updates["archived_at"] = *archivedAt
	}

	result := r.db.WithContext(ctx).Model(&models.Course{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *courseRepository) ListCatalog(ctx context.Context, filter CourseFilter) ([]models.Course, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Course{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.ReplaceAll(strings.TrimSpace(filter.Search), "%", "")) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(summary) LIKE ? OR LOWER(description) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}

	if filter.DifficultyID != nil {
		query = query.Where("difficulty_id = ?", *filter.DifficultyID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Sort == "popular" {
		query = query.Order("enrolled_count DESC")
	} else {
		query = query.Order("published_at DESC")
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var courses []models.Course
	if err := query.
		Preload("Category").
		Preload("Difficulty").
		Preload("Instructor").
		Find(&courses).Error; err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

func (r *courseRepository) ListByInstructor(ctx context.Context, instructorID uuid.UUID) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.WithContext(ctx).
		Where("instructor_id = ?", instructorID).
		Order("created_at DESC").
		Find(&courses).Error; err != nil {
		return nil, err
	}

	return courses, nil
}

// IncrementEnrolled bumps the enrolled counter as a single conditional update
// so concurrent enrollments cannot overshoot max_students. Returns false when
// the course was already full.
func (r *courseRepository) IncrementEnrolled(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Course{}).
		Where("id = ?", id).
		Where("max_students IS NULL OR max_students <= 0 OR enrolled_count < max_students").
		UpdateColumn("enrolled_count", gorm.Expr("enrolled_count + 1"))
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// DecrementEnrolled lowers the counter, floored at zero.
func (r *courseRepository) DecrementEnrolled(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Course{}).
		Where("id = ?", id).
		Where("enrolled_count > 0").
		UpdateColumn("enrolled_count", gorm.Expr("enrolled_count - 1")).Error
}

func (r *courseRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Course{}).Count(&total).Error; err != nil {
		return 0, err
	}

	return total, nil
}
