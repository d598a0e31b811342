package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/lms-go-api/internal/models"
)

// SubmissionRepository defines persistence operations for submissions and
// their derived instructor projections.
type SubmissionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (models.Submission, error)
	GetWithOwnership(ctx context.Context, id uuid.UUID) (models.Submission, error)
	GetByAssignmentAndLearner(ctx context.Context, assignmentID, learnerID uuid.UUID) (models.Submission, error)
	Upsert(ctx context.Context, submission *models.Submission) error
	Update(ctx context.Context, submission *models.Submission) error
	ListByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]models.Submission, error)
	ListByLearnerForCourse(ctx context.Context, learnerID, courseID uuid.UUID) ([]models.Submission, error)
	ListRecentFeedbackByLearner(ctx context.Context, learnerID uuid.UUID, limit int) ([]models.Submission, error)
	ListRecentByInstructor(ctx context.Context, instructorID uuid.UUID, limit int) ([]models.Submission, error)
	CountPendingByInstructor(ctx context.Context, instructorID uuid.UUID) (int64, error)
	FilterOwnedIDs(ctx context.Context, ids []uuid.UUID, instructorID uuid.UUID) ([]uuid.UUID, error)
	BatchGrade(ctx context.Context, ids []uuid.UUID, score int, feedback string, gradedAt time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates a GORM-backed repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).First(&submission, "id = ?", id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

// GetWithOwnership resolves the submission together with its assignment and
// owning course in one repository call so grading can verify the instructor.
func (r *submissionRepository) GetWithOwnership(ctx context.Context, id uuid.UUID) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).
		Preload("Assignment").
		Preload("Assignment.Course").
		First(&submission, "id = ?", id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) GetByAssignmentAndLearner(ctx context.Context, assignmentID, learnerID uuid.UUID) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Where("learner_id = ?", learnerID).
		First(&submission).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

// Upsert writes the submission keyed by its (assignment_id, learner_id)
// natural key: one conditional statement instead of select-then-branch.
func (r *submissionRepository) Upsert(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "assignment_id"}, {Name: "learner_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"content", "link_url", "is_late", "status", "submitted_at", "updated_at",
		}),
	}).Create(submission).Error
}

func (r *submissionRepository) Update(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}

func (r *submissionRepository) ListByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("submitted_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) ListByLearnerForCourse(ctx context.Context, learnerID, courseID uuid.UUID) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.db.WithContext(ctx).
		Joins("JOIN assignments ON assignments.id = submissions.assignment_id").
		Where("submissions.learner_id = ?", learnerID).
		Where("assignments.course_id = ?", courseID).
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) ListRecentFeedbackByLearner(ctx context.Context, learnerID uuid.UUID, limit int) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.db.WithContext(ctx).
		Preload("Assignment").
		Preload("Assignment.Course").
		Where("learner_id = ?", learnerID).
		Where("feedback IS NOT NULL").
		Order("updated_at DESC").
		Limit(limit).
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) ListRecentByInstructor(ctx context.Context, instructorID uuid.UUID, limit int) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.db.WithContext(ctx).
		Preload("Assignment").
		Preload("Assignment.Course").
		Joins("JOIN assignments ON assignments.id = submissions.assignment_id").
		Joins("JOIN courses ON courses.id = assignments.course_id").
		Where("courses.instructor_id = ?", instructorID).
		Order("submissions.submitted_at DESC").
		Limit(limit).
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) CountPendingByInstructor(ctx context.Context, instructorID uuid.UUID) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Submission{}).
		Joins("JOIN assignments ON assignments.id = submissions.assignment_id").
		Joins("JOIN courses ON courses.id = assignments.course_id").
		Where("courses.instructor_id = ?", instructorID).
		Where("submissions.status = ?", models.SubmissionStatusSubmitted).
		Where("submissions.score IS NULL").
		Count(&total).Error; err != nil {
		return 0, err
	}

	return total, nil
}

// FilterOwnedIDs keeps only the submission ids whose owning course belongs to
// the given instructor. Batch grading never touches rows outside this set.
func (r *submissionRepository) FilterOwnedIDs(ctx context.Context, ids []uuid.UUID, instructorID uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return []uuid.UUID{}, nil
	}

	var owned []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&models.Submission{}).
		Joins("JOIN assignments ON assignments.id = submissions.assignment_id").
		Joins("JOIN courses ON courses.id = assignments.course_id").
		Where("submissions.id IN ?", ids).
		Where("courses.instructor_id = ?", instructorID).
		Pluck("submissions.id", &owned).Error; err != nil {
		return nil, err
	}

	return owned, nil
}

func (r *submissionRepository) BatchGrade(ctx context.Context, ids []uuid.UUID, score int, feedback string, gradedAt time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"status":    models.SubmissionStatusGraded,
			"score":     score,
			"feedback":  feedback,
			"graded_at": gradedAt,
		})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

func (r *submissionRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Submission{}).Count(&total).Error; err != nil {
		return 0, err
	}

	return total, nil
}
