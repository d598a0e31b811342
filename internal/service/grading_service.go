package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/lms-go-api/internal/apperr"
	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/models"
	"github.com/noah-isme/lms-go-api/internal/observability"
	"github.com/noah-isme/lms-go-api/internal/repository"
	"github.com/noah-isme/lms-go-api/pkg/events"
)

// GradingService applies grading actions to submissions and maintains the
// append-only grading history.
type GradingService interface {
	Grade(ctx context.Context, instructorID, submissionID uuid.UUID, payload dto.GradeRequest) (dto.GradeResponse, error)
	BatchGrade(ctx context.Context, instructorID uuid.UUID, payload dto.BatchGradeRequest) (dto.BatchGradeResponse, error)
	History(ctx context.Context, instructorID, submissionID uuid.UUID) ([]dto.GradingHistoryResponse, error)
}

type gradingService struct {
	submissions repository.SubmissionRepository
	history     repository.GradingHistoryRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	publisher   *events.Publisher
	tracer      trace.Tracer
	logger      zerolog.Logger
	now         func() time.Time
}

// NewGradingService constructs a GradingService instance.
func NewGradingService(subRepo repository.SubmissionRepository, historyRepo repository.GradingHistoryRepository, validate *validator.Validate, publisher *events.Publisher, logger zerolog.Logger) GradingService {
	return &gradingService{
		submissions: subRepo,
		history:     historyRepo,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		publisher:   publisher,
		tracer:      otel.Tracer("grading-service"),
		logger:      logger.With().Str("component", "grading_service").Logger(),
		now:         time.Now,
	}
}

// getOwned loads the submission with its assignment and course, and verifies
// the caller teaches the owning course.
func (s *gradingService) getOwned(ctx context.Context, instructorID, submissionID uuid.UUID) (models.Submission, error) {
	submission, err := s.submissions.GetWithOwnership(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Submission{}, apperr.ErrSubmissionNotFound
		}
		return models.Submission{}, err
	}

	if submission.Assignment == nil || submission.Assignment.Course == nil ||
		submission.Assignment.Course.InstructorID != instructorID {
		return models.Submission{}, apperr.ErrForbidden
	}

	return submission, nil
}

func (s *gradingService) Grade(ctx context.Context, instructorID, submissionID uuid.UUID, payload dto.GradeRequest) (dto.GradeResponse, error) {
	ctx, span := s.tracer.Start(ctx, "grading.grade", trace.WithAttributes(
		attribute.String("submission.id", submissionID.String()),
		attribute.String("grading.action", payload.Action),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		return dto.GradeResponse{}, err
	}

	if (payload.Action == models.GradingActionGrade || payload.Action == models.GradingActionRegrade) && payload.Score == nil {
		return dto.GradeResponse{}, apperr.New(400, "VALIDATION_ERROR", "score is required for grading")
	}

	submission, err := s.getOwned(ctx, instructorID, submissionID)
	if err != nil {
		return dto.GradeResponse{}, err
	}

	feedback := s.sanitizer.Sanitize(payload.Feedback)
	now := s.now()
	entry := models.GradingHistoryEntry{
		SubmissionID: submission.ID,
		InstructorID: instructorID,
		Action:       payload.Action,
		Feedback:     feedback,
	}

	switch payload.Action {
	case models.GradingActionGrade, models.GradingActionRegrade:
		submission.Status = models.SubmissionStatusGraded
		submission.Score = payload.Score
		submission.Feedback = &feedback
		submission.GradedAt = &now
		entry.Score = payload.Score
	case models.GradingActionResubmissionRequired:
		// Score stays whatever it was; the learner gets feedback and an
		// open door to resubmit.
		submission.Status = models.SubmissionStatusResubmissionRequired
		submission.Feedback = &feedback
	default:
		return dto.GradeResponse{}, apperr.New(400, "VALIDATION_ERROR", "unknown grading action")
	}

	if err := s.submissions.Update(ctx, &submission); err != nil {
		return dto.GradeResponse{}, err
	}

	if err := s.history.Create(ctx, &entry); err != nil {
		s.logger.Error().Err(err).Str("submission_id", submission.ID.String()).Msg("failed to record grading history")
	}

	observability.GradingActions().WithLabelValues(payload.Action).Inc()
	if payload.Action != models.GradingActionResubmissionRequired {
		s.publisher.Publish(events.SubjectSubmissionGraded, map[string]interface{}{
			"submission_id": submission.ID.String(),
			"learner_id":    submission.LearnerID.String(),
			"action":        payload.Action,
		})
	}

	s.logger.Info().
		Str("submission_id", submission.ID.String()).
		Str("action", payload.Action).
		Msg("grading action applied")

	return dto.GradeResponse{ID: submission.ID}, nil
}

func (s *gradingService) BatchGrade(ctx context.Context, instructorID uuid.UUID, payload dto.BatchGradeRequest) (dto.BatchGradeResponse, error) {
	ctx, span := s.tracer.Start(ctx, "grading.batch_grade", trace.WithAttributes(
		attribute.Int("grading.requested", len(payload.SubmissionIDs)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		return dto.BatchGradeResponse{}, err
	}

	// Ownership is enforced per row, not per request: ids outside the
	// instructor's courses are dropped silently.
	owned, err := s.submissions.FilterOwnedIDs(ctx, payload.SubmissionIDs, instructorID)
	if err != nil {
		return dto.BatchGradeResponse{}, err
	}
	if len(owned) == 0 {
		return dto.BatchGradeResponse{}, apperr.ErrForbidden
	}

	feedback := s.sanitizer.Sanitize(payload.Feedback)
	now := s.now()
	updated, err := s.submissions.BatchGrade(ctx, owned, payload.Score, feedback, now)
	if err != nil {
		return dto.BatchGradeResponse{}, err
	}

	score := payload.Score
	entries := make([]models.GradingHistoryEntry, 0, len(owned))
	for _, id := range owned {
		entries = append(entries, models.GradingHistoryEntry{
			SubmissionID: id,
			InstructorID: instructorID,
			Action:       models.GradingActionGrade,
			Score:        &score,
			Feedback:     feedback,
		})
	}
	if err := s.history.CreateBatch(ctx, entries); err != nil {
		s.logger.Error().Err(err).Int("entries", len(entries)).Msg("failed to record batch grading history")
	}

	observability.GradingActions().WithLabelValues(models.GradingActionGrade).Add(float64(updated))
	span.SetAttributes(attribute.Int64("grading.updated", updated))

	s.logger.Info().
		Int("requested", len(payload.SubmissionIDs)).
		Int64("updated", updated).
		Msg("batch grading applied")

	return dto.BatchGradeResponse{Updated: int(updated)}, nil
}

func (s *gradingService) History(ctx context.Context, instructorID, submissionID uuid.UUID) ([]dto.GradingHistoryResponse, error) {
	if _, err := s.getOwned(ctx, instructorID, submissionID); err != nil {
		return nil, err
	}

	entries, err := s.history.ListBySubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	return dto.NewGradingHistoryResponseSlice(entries), nil
}
