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
)

// SubmitResult pairs the response payload with whether a new row was created,
// so the handler can pick 201 vs 200.
type SubmitResult struct {
	Response dto.SubmitResponse
	Created  bool
}

// SubmissionService orchestrates learner submissions and the instructor's
// per-assignment submission history.
type SubmissionService interface {
	Submit(ctx context.Context, learnerID uuid.UUID, payload dto.SubmitRequest) (SubmitResult, error)
	ListForAssignment(ctx context.Context, instructorID, assignmentID uuid.UUID) (dto.AssignmentSubmissionsResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	enrollments repository.EnrollmentRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(subRepo repository.SubmissionRepository, assignmentRepo repository.AssignmentRepository, enrollRepo repository.EnrollmentRepository, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: subRepo,
		assignments: assignmentRepo,
		enrollments: enrollRepo,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

func (s *submissionService) Submit(ctx context.Context, learnerID uuid.UUID, payload dto.SubmitRequest) (SubmitResult, error) {
	if err := s.validator.Struct(payload); err != nil {
		return SubmitResult{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, payload.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SubmitResult{}, apperr.ErrAssignmentNotFound
		}
		return SubmitResult{}, err
	}

	if _, err := s.enrollments.GetActive(ctx, assignment.CourseID, learnerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SubmitResult{}, apperr.ErrAccessDenied
		}
		return SubmitResult{}, err
	}

	if assignment.Status == models.AssignmentStatusClosed {
		observability.Submissions().WithLabelValues("rejected").Inc()
		return SubmitResult{}, apperr.ErrSubmissionNotAllowed
	}

	now := s.now()
	isLate := assignment.IsPastDue(now)
	if isLate && !assignment.AllowLate {
		observability.Submissions().WithLabelValues("rejected").Inc()
		return SubmitResult{}, apperr.ErrSubmissionNotAllowed
	}

	existing, err := s.submissions.GetByAssignmentAndLearner(ctx, assignment.ID, learnerID)
	hasExisting := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return SubmitResult{}, err
	}

	// A submission awaiting rework may always come back in; anything else
	// needs the assignment to permit resubmission.
	if hasExisting && existing.Status != models.SubmissionStatusResubmissionRequired && !assignment.AllowResubmission {
		observability.Submissions().WithLabelValues("rejected").Inc()
		return SubmitResult{}, apperr.ErrSubmissionNotAllowed
	}

	submission := models.Submission{
		AssignmentID: assignment.ID,
		LearnerID:    learnerID,
		Content:      payload.Content,
		LinkURL:      payload.LinkURL,
		IsLate:       isLate,
		Status:       models.SubmissionStatusSubmitted,
		SubmittedAt:  now,
	}
	if hasExisting {
		submission.ID = existing.ID
	}

	if err := s.submissions.Upsert(ctx, &submission); err != nil {
		return SubmitResult{}, err
	}

	// Re-read through the natural key: a racing first submit may have won
	// the insert, in which case the stored row carries its id.
	stored, err := s.submissions.GetByAssignmentAndLearner(ctx, assignment.ID, learnerID)
	if err != nil {
		return SubmitResult{}, err
	}

	observability.Submissions().WithLabelValues("accepted").Inc()
	s.logger.Info().
		Str("submission_id", stored.ID.String()).
		Str("assignment_id", assignment.ID.String()).
		Bool("is_late", isLate).
		Bool("resubmission", hasExisting).
		Msg("submission stored")

	return SubmitResult{
		Response: dto.SubmitResponse{SubmissionID: stored.ID, IsLate: isLate},
		Created:  !hasExisting,
	}, nil
}

func (s *submissionService) ListForAssignment(ctx context.Context, instructorID, assignmentID uuid.UUID) (dto.AssignmentSubmissionsResponse, error) {
	assignment, err := s.assignments.GetWithCourse(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentSubmissionsResponse{}, apperr.ErrForbidden
		}
		return dto.AssignmentSubmissionsResponse{}, err
	}

	if assignment.Course == nil || assignment.Course.InstructorID != instructorID {
		return dto.AssignmentSubmissionsResponse{}, apperr.ErrForbidden
	}

	submissions, err := s.submissions.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return dto.AssignmentSubmissionsResponse{}, err
	}

	return dto.AssignmentSubmissionsResponse{
		AssignmentID:    assignment.ID,
		AssignmentTitle: assignment.Title,
		Submissions:     dto.NewSubmissionResponseSlice(submissions),
	}, nil
}
