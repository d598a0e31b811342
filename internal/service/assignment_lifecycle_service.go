package service

import (
	"context"
	"errors"
	"time"

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

// AssignmentLifecycleService owns the draft/published/closed state machine.
// The auto-close sweep is exposed for an external scheduler to invoke.
type AssignmentLifecycleService interface {
	Publish(ctx context.Context, instructorID, assignmentID uuid.UUID) (dto.AssignmentLifecycleResponse, error)
	Close(ctx context.Context, instructorID, assignmentID uuid.UUID) (dto.AssignmentLifecycleResponse, error)
	ExtendDeadline(ctx context.Context, instructorID, assignmentID uuid.UUID, payload dto.ExtendDeadlineRequest) (dto.ExtendDeadlineResponse, error)
	UpdateStatus(ctx context.Context, instructorID, assignmentID uuid.UUID, payload dto.AssignmentStatusUpdateRequest) (dto.AssignmentLifecycleResponse, error)
	AutoCloseDue(ctx context.Context) (dto.AutoCloseResponse, error)
}

type assignmentLifecycleService struct {
	assignments repository.AssignmentRepository
	publisher   *events.Publisher
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAssignmentLifecycleService constructs the lifecycle service.
func NewAssignmentLifecycleService(assignmentRepo repository.AssignmentRepository, publisher *events.Publisher, logger zerolog.Logger) AssignmentLifecycleService {
	return &assignmentLifecycleService{
		assignments: assignmentRepo,
		publisher:   publisher,
		logger:      logger.With().Str("component", "assignment_lifecycle_service").Logger(),
		now:         time.Now,
	}
}

// getOwned loads the assignment with its course and verifies the caller owns
// it. Not-found and not-owner stay distinct errors internally.
func (s *assignmentLifecycleService) getOwned(ctx context.Context, instructorID, assignmentID uuid.UUID) (models.Assignment, error) {
	assignment, err := s.assignments.GetWithCourse(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assignment{}, apperr.ErrAssignmentNotFound
		}
		return models.Assignment{}, err
	}

	if assignment.Course == nil || assignment.Course.InstructorID != instructorID {
		return models.Assignment{}, apperr.ErrForbidden
	}

	return assignment, nil
}

func (s *assignmentLifecycleService) Publish(ctx context.Context, instructorID, assignmentID uuid.UUID) (dto.AssignmentLifecycleResponse, error) {
	assignment, err := s.getOwned(ctx, instructorID, assignmentID)
	if err != nil {
		return dto.AssignmentLifecycleResponse{}, err
	}

	if assignment.Status != models.AssignmentStatusDraft {
		return dto.AssignmentLifecycleResponse{}, apperr.ErrInvalidState
	}

	publishedAt := s.now()
	assignment.Status = models.AssignmentStatusPublished
	assignment.PublishedAt = &publishedAt
	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentLifecycleResponse{}, err
	}

	s.logger.Info().Str("assignment_id", assignment.ID.String()).Msg("assignment published")

	return dto.AssignmentLifecycleResponse{ID: assignment.ID, Status: assignment.Status}, nil
}

func (s *assignmentLifecycleService) Close(ctx context.Context, instructorID, assignmentID uuid.UUID) (dto.AssignmentLifecycleResponse, error) {
	assignment, err := s.getOwned(ctx, instructorID, assignmentID)
	if err != nil {
		return dto.AssignmentLifecycleResponse{}, err
	}

	if assignment.Status != models.AssignmentStatusPublished {
		return dto.AssignmentLifecycleResponse{}, apperr.ErrInvalidState
	}

	closedAt := s.now()
	assignment.Status = models.AssignmentStatusClosed
	assignment.ClosedAt = &closedAt
	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentLifecycleResponse{}, err
	}

	s.publisher.Publish(events.SubjectAssignmentClosed, map[string]interface{}{
		"assignment_id": assignment.ID.String(),
		"course_id":     assignment.CourseID.String(),
	})
	s.logger.Info().Str("assignment_id", assignment.ID.String()).Msg("assignment closed")

	return dto.AssignmentLifecycleResponse{ID: assignment.ID, Status: assignment.Status}, nil
}

// ExtendDeadline moves the due date and, when the assignment was already
// closed, reopens it through the closed→published edge.
func (s *assignmentLifecycleService) ExtendDeadline(ctx context.Context, instructorID, assignmentID uuid.UUID, payload dto.ExtendDeadlineRequest) (dto.ExtendDeadlineResponse, error) {
	assignment, err := s.getOwned(ctx, instructorID, assignmentID)
	if err != nil {
		return dto.ExtendDeadlineResponse{}, err
	}

	dueDate, err := time.Parse(time.RFC3339, payload.DueDate)
	if err != nil {
		return dto.ExtendDeadlineResponse{}, apperr.Wrap(err, 400, "VALIDATION_ERROR", "invalid due date")
	}

	assignment.DueDate = dueDate
	if assignment.Status == models.AssignmentStatusClosed {
		s.reopen(&assignment)
	}
	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.ExtendDeadlineResponse{}, err
	}

	s.logger.Info().
		Str("assignment_id", assignment.ID.String()).
		Time("due_date", assignment.DueDate).
		Msg("assignment deadline extended")

	return dto.ExtendDeadlineResponse{ID: assignment.ID, Status: assignment.Status, DueDate: assignment.DueDate}, nil
}

// reopen is the named closed→published transition. Kept separate so the
// state machine's edges stay enumerable.
func (s *assignmentLifecycleService) reopen(assignment *models.Assignment) {
	assignment.Status = models.AssignmentStatusPublished
	assignment.ClosedAt = nil
}

func (s *assignmentLifecycleService) UpdateStatus(ctx context.Context, instructorID, assignmentID uuid.UUID, payload dto.AssignmentStatusUpdateRequest) (dto.AssignmentLifecycleResponse, error) {
	assignment, err := s.getOwned(ctx, instructorID, assignmentID)
	if err != nil {
		return dto.AssignmentLifecycleResponse{}, err
	}

	if !models.CanTransitionAssignment(assignment.Status, payload.Status) {
		return dto.AssignmentLifecycleResponse{}, apperr.ErrStatusUpdateFailed
	}

	now := s.now()
	switch payload.Status {
	case models.AssignmentStatusPublished:
		assignment.PublishedAt = &now
		assignment.ClosedAt = nil
	case models.AssignmentStatusClosed:
		assignment.ClosedAt = &now
	}
	assignment.Status = payload.Status

	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentLifecycleResponse{}, err
	}

	s.logger.Info().
		Str("assignment_id", assignment.ID.String()).
		Str("status", assignment.Status).
		Msg("assignment status updated")

	return dto.AssignmentLifecycleResponse{ID: assignment.ID, Status: assignment.Status}, nil
}

func (s *assignmentLifecycleService) AutoCloseDue(ctx context.Context) (dto.AutoCloseResponse, error) {
	closed, err := s.assignments.AutoCloseDue(ctx, s.now())
	if err != nil {
		return dto.AutoCloseResponse{}, apperr.Wrap(err, 500, "LIFECYCLE_FAILED", "auto-close sweep failed")
	}

	if closed > 0 {
		observability.AssignmentsAutoClosed().Add(float64(closed))
		s.publisher.Publish(events.SubjectAssignmentClosed, map[string]interface{}{
			"sweep":  true,
			"closed": closed,
		})
		s.logger.Info().Int64("closed", closed).Msg("auto-close sweep finished")
	}

	return dto.AutoCloseResponse{Closed: int(closed)}, nil
}
