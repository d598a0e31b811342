package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lms-go-api/internal/apperr"
	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/models"
	"github.com/noah-isme/lms-go-api/internal/repository"
)

const defaultCatalogPageSize = 20

// Viewer identifies the authenticated caller, when there is one. A zero
// Viewer means an anonymous request.
type Viewer struct {
	ID   uuid.UUID
	Role string
}

// CatalogService serves the public course catalog and course detail pages.
type CatalogService interface {
	List(ctx context.Context, viewer Viewer, filter dto.CatalogFilter) (dto.CourseListResponse, error)
	Detail(ctx context.Context, viewer Viewer, courseID uuid.UUID) (dto.CourseDetailResponse, error)
	Taxonomies(ctx context.Context) (dto.TaxonomiesResponse, error)
}

type catalogService struct {
	courses     repository.CourseRepository
	assignments repository.AssignmentRepository
	enrollments repository.EnrollmentRepository
	taxonomies  repository.TaxonomyRepository
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewCatalogService constructs a CatalogService instance.
func NewCatalogService(courseRepo repository.CourseRepository, assignmentRepo repository.AssignmentRepository, enrollRepo repository.EnrollmentRepository, taxonomyRepo repository.TaxonomyRepository, validate *validator.Validate, logger zerolog.Logger) CatalogService {
	return &catalogService{
		courses:     courseRepo,
		assignments: assignmentRepo,
		enrollments: enrollRepo,
		taxonomies:  taxonomyRepo,
		validator:   validate,
		logger:      logger.With().Str("component", "catalog_service").Logger(),
	}
}

func (s *catalogService) List(ctx context.Context, viewer Viewer, filter dto.CatalogFilter) (dto.CourseListResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return dto.CourseListResponse{}, apperr.ErrInvalidCourseFilters
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultCatalogPageSize
	}

	courses, total, err := s.courses.ListCatalog(ctx, repository.CourseFilter{
		Status:       models.CourseStatusPublished,
		Search:       filter.Search,
		CategoryID:   filter.CategoryID,
		DifficultyID: filter.DifficultyID,
		Sort:         filter.Sort,
		Page:         page,
		PageSize:     limit,
	})
	if err != nil {
		return dto.CourseListResponse{}, err
	}

	enrolled := map[uuid.UUID]uuid.UUID{}
	if viewer.ID != uuid.Nil {
		ids := make([]uuid.UUID, 0, len(courses))
		for _, course := range courses {
			ids = append(ids, course.ID)
		}
		enrolled, err = s.enrollments.ActiveForCourses(ctx, viewer.ID, ids)
		if err != nil {
			return dto.CourseListResponse{}, err
		}
	}

	items := make([]dto.CourseListItem, 0, len(courses))
	for _, course := range courses {
		var enrollmentID *uuid.UUID
		if id, ok := enrolled[course.ID]; ok {
			enrollmentID = &id
		}
		items = append(items, dto.NewCourseListItem(course, enrollmentID))
	}

	return dto.CourseListResponse{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// Detail resolves one course page. Unpublished courses are visible only to
// their owning instructor; everyone else sees a not-found.
func (s *catalogService) Detail(ctx context.Context, viewer Viewer, courseID uuid.UUID) (dto.CourseDetailResponse, error) {
	course, err := s.courses.GetDetail(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseDetailResponse{}, apperr.ErrCourseNotFound
		}
		return dto.CourseDetailResponse{}, err
	}

	isOwner := viewer.ID != uuid.Nil && course.InstructorID == viewer.ID
	if course.Status != models.CourseStatusPublished && !isOwner {
		return dto.CourseDetailResponse{}, apperr.ErrCourseNotFound
	}

	var enrollmentID *uuid.UUID
	if viewer.ID != uuid.Nil && !isOwner {
		if enrollment, err := s.enrollments.GetActive(ctx, course.ID, viewer.ID); err == nil {
			enrollmentID = &enrollment.ID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseDetailResponse{}, err
		}
	}

	listItem := dto.NewCourseListItem(course, enrollmentID)
	detail := dto.CourseDetailResponse{
		ID:            listItem.ID,
		Title:         listItem.Title,
		Summary:       listItem.Summary,
		Description:   course.Description,
		Curriculum:    course.Curriculum,
		Status:        listItem.Status,
		EnrolledCount: listItem.EnrolledCount,
		MaxStudents:   listItem.MaxStudents,
		Category:      listItem.Category,
		Difficulty:    listItem.Difficulty,
		Instructor:    listItem.Instructor,
		EnrollmentID:  listItem.EnrollmentID,
		IsEnrolled:    listItem.IsEnrolled,
		IsFull:        listItem.IsFull,
		CanEnroll:     listItem.CanEnroll,
		PublishedAt:   listItem.PublishedAt,
		ArchivedAt:    course.ArchivedAt,
		Assignments:   []dto.CourseDetailAssignment{},
	}

	// Owners see every assignment; enrolled learners see published ones.
	if isOwner || enrollmentID != nil {
		assignments, err := s.assignments.ListByCourse(ctx, course.ID)
		if err != nil {
			return dto.CourseDetailResponse{}, err
		}
		for _, assignment := range assignments {
			if !isOwner && assignment.Status == models.AssignmentStatusDraft {
				continue
			}
			detail.Assignments = append(detail.Assignments, dto.CourseDetailAssignment{
				ID:                assignment.ID,
				Title:             assignment.Title,
				DueDate:           assignment.DueDate,
				Status:            assignment.Status,
				Weight:            assignment.Weight,
				AllowLate:         assignment.AllowLate,
				AllowResubmission: assignment.AllowResubmission,
			})
		}
	}

	return detail, nil
}

func (s *catalogService) Taxonomies(ctx context.Context) (dto.TaxonomiesResponse, error) {
	categories, err := s.taxonomies.ListCategories(ctx)
	if err != nil {
		return dto.TaxonomiesResponse{}, err
	}

	difficulties, err := s.taxonomies.ListDifficulties(ctx)
	if err != nil {
		return dto.TaxonomiesResponse{}, err
	}

	response := dto.TaxonomiesResponse{
		Categories:   make([]dto.TaxonomyOption, 0, len(categories)),
		Difficulties: make([]dto.TaxonomyOption, 0, len(difficulties)),
	}
	for _, category := range categories {
		response.Categories = append(response.Categories, dto.NewTaxonomyOption(category))
	}
	for _, difficulty := range difficulties {
		response.Difficulties = append(response.Difficulties, dto.NewDifficultyOption(difficulty))
	}

	return response, nil
}
