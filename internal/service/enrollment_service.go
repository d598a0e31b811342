package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lms-go-api/internal/apperr"
	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/models"
	"github.com/noah-isme/lms-go-api/internal/observability"
	"github.com/noah-isme/lms-go-api/internal/repository"
	"github.com/noah-isme/lms-go-api/pkg/events"
)

// EnrollmentService drives the per (course, learner) enrollment lifecycle.
type EnrollmentService interface {
	Enroll(ctx context.Context, learnerID uuid.UUID, payload dto.EnrollRequest) (dto.EnrollResponse, error)
	Cancel(ctx context.Context, learnerID, enrollmentID uuid.UUID) (dto.CancelEnrollmentResponse, error)
	ListMine(ctx context.Context, learnerID uuid.UUID) ([]dto.EnrolledCourse, error)
}

type enrollmentService struct {
	enrollments repository.EnrollmentRepository
	courses     repository.CourseRepository
	validator   *validator.Validate
	publisher   *events.Publisher
	logger      zerolog.Logger
	now         func() time.Time
}

// NewEnrollmentService constructs an EnrollmentService instance.
func NewEnrollmentService(enrollRepo repository.EnrollmentRepository, courseRepo repository.CourseRepository, validate *validator.Validate, publisher *events.Publisher, logger zerolog.Logger) EnrollmentService {
	return &enrollmentService{
		enrollments: enrollRepo,
		courses:     courseRepo,
		validator:   validate,
		publisher:   publisher,
		logger:      logger.With().Str("component", "enrollment_service").Logger(),
		now:         time.Now,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, learnerID uuid.UUID, payload dto.EnrollRequest) (dto.EnrollResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EnrollResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, payload.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollResponse{}, apperr.ErrCourseNotFound
		}
		return dto.EnrollResponse{}, err
	}

	if course.Status != models.CourseStatusPublished {
		return dto.EnrollResponse{}, apperr.ErrCourseNotPublished
	}

	if _, err := s.enrollments.GetActive(ctx, course.ID, learnerID); err == nil {
		return dto.EnrollResponse{}, apperr.ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.EnrollResponse{}, err
	}

	if course.IsFull() {
		observability.Enrollments().WithLabelValues("enroll", "capacity_reached").Inc()
		return dto.EnrollResponse{}, apperr.ErrCapacityReached
	}

	// The conditional increment is the capacity gate: under concurrent
	// enrollment only as many increments succeed as seats remain.
	claimed, err := s.courses.IncrementEnrolled(ctx, course.ID)
	if err != nil {
		return dto.EnrollResponse{}, err
	}
	if !claimed {
		observability.Enrollments().WithLabelValues("enroll", "capacity_reached").Inc()
		return dto.EnrollResponse{}, apperr.ErrCapacityReached
	}

	enrollment := models.Enrollment{
		CourseID:   course.ID,
		LearnerID:  learnerID,
		EnrolledAt: s.now(),
	}
	if err := s.enrollments.Create(ctx, &enrollment); err != nil {
		// Release the claimed seat before surfacing the failure.
		if decErr := s.courses.DecrementEnrolled(ctx, course.ID); decErr != nil {
			s.logger.Error().Err(decErr).Str("course_id", course.ID.String()).Msg("failed to release seat after enrollment failure")
		}
		return dto.EnrollResponse{}, err
	}

	observability.Enrollments().WithLabelValues("enroll", "success").Inc()
	s.publisher.Publish(events.SubjectEnrollmentCreated, map[string]interface{}{
		"enrollment_id": enrollment.ID.String(),
		"course_id":     course.ID.String(),
		"learner_id":    learnerID.String(),
	})

	s.logger.Info().
		Str("enrollment_id", enrollment.ID.String()).
		Str("course_id", course.ID.String()).
		Msg("learner enrolled")

	return dto.EnrollResponse{EnrollmentID: enrollment.ID, CourseID: course.ID}, nil
}

func (s *enrollmentService) Cancel(ctx context.Context, learnerID, enrollmentID uuid.UUID) (dto.CancelEnrollmentResponse, error) {
	enrollment, err := s.enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CancelEnrollmentResponse{}, apperr.ErrEnrollmentNotFound
		}
		return dto.CancelEnrollmentResponse{}, err
	}

	// Someone else's enrollment looks like a missing one to the caller.
	if enrollment.LearnerID != learnerID {
		return dto.CancelEnrollmentResponse{}, apperr.ErrEnrollmentNotFound
	}

	if !enrollment.IsActive() {
		return dto.CancelEnrollmentResponse{}, apperr.ErrEnrollmentCancelled
	}

	cancelledAt := s.now()
	if err := s.enrollments.Cancel(ctx, enrollment.ID, cancelledAt); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CancelEnrollmentResponse{}, apperr.ErrEnrollmentCancelled
		}
		return dto.CancelEnrollmentResponse{}, err
	}

	if err := s.courses.DecrementEnrolled(ctx, enrollment.CourseID); err != nil {
		s.logger.Error().Err(err).Str("course_id", enrollment.CourseID.String()).Msg("failed to decrement enrolled count")
	}

	observability.Enrollments().WithLabelValues("cancel", "success").Inc()
	s.publisher.Publish(events.SubjectEnrollmentCancelled, map[string]interface{}{
		"enrollment_id": enrollment.ID.String(),
		"course_id":     enrollment.CourseID.String(),
		"learner_id":    learnerID.String(),
	})

	s.logger.Info().
		Str("enrollment_id", enrollment.ID.String()).
		Str("course_id", enrollment.CourseID.String()).
		Msg("enrollment cancelled")

	return dto.CancelEnrollmentResponse{CancelledAt: cancelledAt, CourseID: enrollment.CourseID}, nil
}

func (s *enrollmentService) ListMine(ctx context.Context, learnerID uuid.UUID) ([]dto.EnrolledCourse, error) {
	enrollments, err := s.enrollments.ListActiveByLearner(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.EnrolledCourse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		item := dto.EnrolledCourse{
			EnrollmentID: enrollment.ID,
			CourseID:     enrollment.CourseID,
			EnrolledAt:   enrollment.EnrolledAt,
		}
		if enrollment.Course != nil {
			item.Title = enrollment.Course.Title
			item.Summary = enrollment.Course.Summary
			item.ThumbnailURL = enrollment.Course.ThumbnailURL
			item.Status = enrollment.Course.Status
		}
		items = append(items, item)
	}

	return items, nil
}
