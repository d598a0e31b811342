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

// CourseService owns the instructor-facing course lifecycle.
type CourseService interface {
	Create(ctx context.Context, instructorID uuid.UUID, payload dto.CourseCreateRequest) (dto.CourseStatusResponse, error)
	Update(ctx context.Context, instructorID, courseID uuid.UUID, payload dto.CourseUpdateRequest) (dto.CourseStatusResponse, error)
	UpdateStatus(ctx context.Context, instructorID, courseID uuid.UUID, payload dto.CourseStatusUpdateRequest) (dto.CourseStatusResponse, error)
	ListOwned(ctx context.Context, instructorID uuid.UUID) ([]dto.CourseListItem, error)
}

type courseService struct {
	courses   repository.CourseRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewCourseService constructs a CourseService instance.
func NewCourseService(courseRepo repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) CourseService {
	return &courseService{
		courses:   courseRepo,
		validator: validate,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "course_service").Logger(),
		now:       time.Now,
	}
}

// getOwned loads a course and collapses both missing and foreign courses into
// a not-found so instructors cannot probe each other's drafts.
func (s *courseService) getOwned(ctx context.Context, instructorID, courseID uuid.UUID) (models.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Course{}, apperr.ErrCourseNotFound
		}
		return models.Course{}, err
	}

	if course.InstructorID != instructorID {
		return models.Course{}, apperr.ErrCourseNotFound
	}

	return course, nil
}

func (s *courseService) Create(ctx context.Context, instructorID uuid.UUID, payload dto.CourseCreateRequest) (dto.CourseStatusResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseStatusResponse{}, err
	}

	course := models.Course{
		InstructorID: instructorID,
		Title:        payload.Title,
		Summary:      payload.Summary,
		Description:  s.sanitizer.Sanitize(payload.Description),
		Curriculum:   s.sanitizer.Sanitize(payload.Curriculum),
		ThumbnailURL: payload.ThumbnailURL,
		Status:       models.CourseStatusDraft,
		CategoryID:   payload.CategoryID,
		DifficultyID: payload.DifficultyID,
		MaxStudents:  payload.MaxStudents,
	}

	if err := s.courses.Create(ctx, &course); err != nil {
		return dto.CourseStatusResponse{}, err
	}

	s.logger.Info().Str("course_id", course.ID.String()).Msg("course created")

	return dto.CourseStatusResponse{ID: course.ID, Status: course.Status}, nil
}

func (s *courseService) Update(ctx context.Context, instructorID, courseID uuid.UUID, payload dto.CourseUpdateRequest) (dto.CourseStatusResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseStatusResponse{}, err
	}

	course, err := s.getOwned(ctx, instructorID, courseID)
	if err != nil {
		return dto.CourseStatusResponse{}, err
	}

	if payload.Title != nil {
		course.Title = *payload.Title
	}
	if payload.Summary != nil {
		course.Summary = *payload.Summary
	}
	if payload.Description != nil {
		course.Description = s.sanitizer.Sanitize(*payload.Description)
	}
	if payload.Curriculum != nil {
		course.Curriculum = s.sanitizer.Sanitize(*payload.Curriculum)
	}
	if payload.ThumbnailURL != nil {
		course.ThumbnailURL = *payload.ThumbnailURL
	}
	if payload.CategoryID != nil {
		course.CategoryID = payload.CategoryID
	}
	if payload.DifficultyID != nil {
		course.DifficultyID = payload.DifficultyID
	}
	if payload.MaxStudents != nil {
		course.MaxStudents = payload.MaxStudents
	}

	if err := s.courses.Update(ctx, &course); err != nil {
		return dto.CourseStatusResponse{}, err
	}

	s.logger.Info().Str("course_id", course.ID.String()).Msg("course updated")

	return dto.CourseStatusResponse{ID: course.ID, Status: course.Status}, nil
}

func (s *courseService) UpdateStatus(ctx context.Context, instructorID, courseID uuid.UUID, payload dto.CourseStatusUpdateRequest) (dto.CourseStatusResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseStatusResponse{}, err
	}

	course, err := s.getOwned(ctx, instructorID, courseID)
	if err != nil {
		return dto.CourseStatusResponse{}, err
	}

	if !models.CanTransitionCourse(course.Status, payload.Status) {
		return dto.CourseStatusResponse{}, apperr.ErrStatusUpdateFailed
	}

	now := s.now()
	var publishedAt, archivedAt *time.Time
	switch payload.Status {
	case models.CourseStatusPublished:
		publishedAt = &now
	case models.CourseStatusArchived:
		archivedAt = &now
	}

	if err := s.courses.UpdateStatus(ctx, course.ID, payload.Status, publishedAt, archivedAt); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseStatusResponse{}, apperr.ErrStatusUpdateFailed
		}
		return dto.CourseStatusResponse{}, err
	}

	s.logger.Info().
		Str("course_id", course.ID.String()).
		Str("from", course.Status).
		Str("to", payload.Status).
		Msg("course status updated")

	return dto.CourseStatusResponse{ID: course.ID, Status: payload.Status}, nil
}

func (s *courseService) ListOwned(ctx context.Context, instructorID uuid.UUID) ([]dto.CourseListItem, error) {
	courses, err := s.courses.ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CourseListItem, 0, len(courses))
	for _, course := range courses {
		items = append(items, dto.NewCourseListItem(course, nil))
	}

	return items, nil
}
