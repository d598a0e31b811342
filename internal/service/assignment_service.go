package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lms-go-api/internal/apperr"
	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/models"
	"github.com/noah-isme/lms-go-api/internal/repository"
)

// AssignmentService owns instructor-facing assignment authoring. Lifecycle
// transitions live in AssignmentLifecycleService.
type AssignmentService interface {
	Create(ctx context.Context, instructorID uuid.UUID, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error)
	Update(ctx context.Context, instructorID, assignmentID uuid.UUID, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error)
	Get(ctx context.Context, instructorID, assignmentID uuid.UUID) (dto.AssignmentResponse, error)
	ListByCourse(ctx context.Context, instructorID, courseID uuid.UUID) ([]dto.AssignmentResponse, error)
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	courses     repository.CourseRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
}

// NewAssignmentService constructs an AssignmentService instance.
func NewAssignmentService(assignmentRepo repository.AssignmentRepository, courseRepo repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		assignments: assignmentRepo,
		courses:     courseRepo,
		validator:   validate,
		sanitizer:   bluemonday.UGCPolicy(),
		logger:      logger.With().Str("component", "assignment_service").Logger(),
	}
}

func (s *assignmentService) Create(ctx context.Context, instructorID uuid.UUID, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, payload.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, apperr.ErrCourseNotFound
		}
		return dto.AssignmentResponse{}, err
	}
	if course.InstructorID != instructorID {
		return dto.AssignmentResponse{}, apperr.ErrCourseNotFound
	}

	dueDate, err := time.Parse(time.RFC3339, payload.DueDate)
	if err != nil {
		return dto.AssignmentResponse{}, apperr.Wrap(err, 400, "VALIDATION_ERROR", "invalid due date")
	}

	maxScore := payload.MaxScore
	if maxScore <= 0 {
		maxScore = 100
	}

	assignment := models.Assignment{
		CourseID:          course.ID,
		Title:             payload.Title,
		Description:       s.sanitizer.Sanitize(payload.Description),
		DueDate:           dueDate,
		Weight:            payload.Weight,
		MaxScore:          maxScore,
		AllowLate:         payload.AllowLate,
		AllowResubmission: payload.AllowResubmission,
		Status:            models.AssignmentStatusDraft,
	}

	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().
		Str("assignment_id", assignment.ID.String()).
		Str("course_id", course.ID.String()).
		Msg("assignment created")

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Update(ctx context.Context, instructorID, assignmentID uuid.UUID, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.getOwned(ctx, instructorID, assignmentID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	if payload.Title != nil {
		assignment.Title = *payload.Title
	}
	if payload.Description != nil {
		assignment.Description = s.sanitizer.Sanitize(*payload.Description)
	}
	if payload.DueDate != nil {
		dueDate, err := time.Parse(time.RFC3339, *payload.DueDate)
		if err != nil {
			return dto.AssignmentResponse{}, apperr.Wrap(err, 400, "VALIDATION_ERROR", "invalid due date")
		}
		assignment.DueDate = dueDate
	}
	if payload.Weight != nil {
		assignment.Weight = *payload.Weight
	}
	if payload.AllowLate != nil {
		assignment.AllowLate = *payload.AllowLate
	}
	if payload.AllowResubmission != nil {
		assignment.AllowResubmission = *payload.AllowResubmission
	}

	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Str("assignment_id", assignment.ID.String()).Msg("assignment updated")

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Get(ctx context.Context, instructorID, assignmentID uuid.UUID) (dto.AssignmentResponse, error) {
	assignment, err := s.getOwned(ctx, instructorID, assignmentID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) ListByCourse(ctx context.Context, instructorID, courseID uuid.UUID) ([]dto.AssignmentResponse, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrCourseNotFound
		}
		return nil, err
	}
	if course.InstructorID != instructorID {
		return nil, apperr.ErrCourseNotFound
	}

	assignments, err := s.assignments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentResponseSlice(assignments), nil
}

// getOwned collapses missing and foreign assignments into not-found.
func (s *assignmentService) getOwned(ctx context.Context, instructorID, assignmentID uuid.UUID) (models.Assignment, error) {
	assignment, err := s.assignments.GetWithCourse(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assignment{}, apperr.ErrAssignmentNotFound
		}
		return models.Assignment{}, err
	}

	if assignment.Course == nil || assignment.Course.InstructorID != instructorID {
		return models.Assignment{}, apperr.ErrAssignmentNotFound
	}

	return assignment, nil
}
