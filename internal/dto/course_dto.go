package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/lms-go-api/internal/models"
)

// CourseCreateRequest describes the payload for creating a draft course.
type CourseCreateRequest struct {
	Title        string     `json:"title" validate:"required,min=3"`
	Summary      string     `json:"summary"`
	Description  string     `json:"description"`
	Curriculum   string     `json:"curriculum"`
	ThumbnailURL string     `json:"thumbnail_url" validate:"omitempty,url"`
	CategoryID   *uuid.UUID `json:"category_id"`
	DifficultyID *uuid.UUID `json:"difficulty_id"`
	MaxStudents  *int       `json:"max_students" validate:"omitempty,gte=1"`
}

// CourseUpdateRequest describes a partial course update.
type CourseUpdateRequest struct {
	Title        *string    `json:"title" validate:"omitempty,min=3"`
	Summary      *string    `json:"summary"`
	Description  *string    `json:"description"`
	Curriculum   *string    `json:"curriculum"`
	ThumbnailURL *string    `json:"thumbnail_url" validate:"omitempty,url"`
	CategoryID   *uuid.UUID `json:"category_id"`
	DifficultyID *uuid.UUID `json:"difficulty_id"`
	MaxStudents  *int       `json:"max_students" validate:"omitempty,gte=1"`
}

// CourseStatusUpdateRequest carries a target course status.
type CourseStatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=draft published archived"`
}

// CatalogFilter describes catalog search, filter, sort and pagination options.
type CatalogFilter struct {
	Search       string     `query:"search"`
	CategoryID   *uuid.UUID `query:"category"`
	DifficultyID *uuid.UUID `query:"difficulty"`
	Sort         string     `query:"sort" validate:"omitempty,oneof=latest popular"`
	Page         int        `query:"page" validate:"omitempty,gte=1"`
	Limit        int        `query:"limit" validate:"omitempty,gte=1,lte=100"`
}

// TaxonomyOption is a catalog filter option.
type TaxonomyOption struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Level int       `json:"level,omitempty"`
}

// TaxonomiesResponse bundles the catalog filter options.
type TaxonomiesResponse struct {
	Categories   []TaxonomyOption `json:"categories"`
	Difficulties []TaxonomyOption `json:"difficulties"`
}

// CourseListItem is one catalog row enriched with viewer enrollment state.
type CourseListItem struct {
	ID            uuid.UUID       `json:"id"`
	Title         string          `json:"title"`
	Summary       string          `json:"summary"`
	ThumbnailURL  string          `json:"thumbnail_url"`
	Status        string          `json:"status"`
	EnrolledCount int             `json:"enrolled_count"`
	MaxStudents   *int            `json:"max_students"`
	Category      *TaxonomyOption `json:"category"`
	Difficulty    *TaxonomyOption `json:"difficulty"`
	Instructor    *InstructorRef  `json:"instructor"`
	EnrollmentID  *uuid.UUID      `json:"enrollment_id"`
	IsEnrolled    bool            `json:"is_enrolled"`
	IsFull        bool            `json:"is_full"`
	CanEnroll     bool            `json:"can_enroll"`
	PublishedAt   *time.Time      `json:"published_at"`
}

// InstructorRef identifies a course owner in read projections.
type InstructorRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// CourseListResponse is the paginated catalog payload.
type CourseListResponse struct {
	Items []CourseListItem `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// CourseDetailResponse is the full course page payload.
type CourseDetailResponse struct {
	ID            uuid.UUID                `json:"id"`
	Title         string                   `json:"title"`
	Summary       string                   `json:"summary"`
	Description   string                   `json:"description"`
	Curriculum    string                   `json:"curriculum"`
	Status        string                   `json:"status"`
	EnrolledCount int                      `json:"enrolled_count"`
	MaxStudents   *int                     `json:"max_students"`
	Category      *TaxonomyOption          `json:"category"`
	Difficulty    *TaxonomyOption          `json:"difficulty"`
	Instructor    *InstructorRef           `json:"instructor"`
	EnrollmentID  *uuid.UUID               `json:"enrollment_id"`
	IsEnrolled    bool                     `json:"is_enrolled"`
	IsFull        bool                     `json:"is_full"`
	CanEnroll     bool                     `json:"can_enroll"`
	PublishedAt   *time.Time               `json:"published_at"`
	ArchivedAt    *time.Time               `json:"archived_at"`
	Assignments   []CourseDetailAssignment `json:"assignments"`
}

// CourseDetailAssignment is one assignment row on the course page.
type CourseDetailAssignment struct {
	ID                uuid.UUID `json:"id"`
	Title             string    `json:"title"`
	DueDate           time.Time `json:"due_date"`
	Status            string    `json:"status"`
	Weight            int       `json:"weight"`
	AllowLate         bool      `json:"allow_late"`
	AllowResubmission bool      `json:"allow_resubmission"`
}

// CourseStatusResponse reports a completed status transition.
type CourseStatusResponse struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

// NewTaxonomyOption converts a category model to a DTO.
func NewTaxonomyOption(model models.Category) TaxonomyOption {
	return TaxonomyOption{ID: model.ID, Name: model.Name}
}

// NewDifficultyOption converts a difficulty model to a DTO.
func NewDifficultyOption(model models.DifficultyLevel) TaxonomyOption {
	return TaxonomyOption{ID: model.ID, Name: model.Name, Level: model.Level}
}

// NewCourseListItem converts a course model to a catalog row. enrollmentID is
// the viewer's active enrollment for this course, if any.
func NewCourseListItem(model models.Course, enrollmentID *uuid.UUID) CourseListItem {
	item := CourseListItem{
		ID:            model.ID,
		Title:         model.Title,
		Summary:       model.Summary,
		ThumbnailURL:  model.ThumbnailURL,
		Status:        model.Status,
		EnrolledCount: model.EnrolledCount,
		MaxStudents:   model.MaxStudents,
		EnrollmentID:  enrollmentID,
		IsEnrolled:    enrollmentID != nil,
		IsFull:        model.IsFull(),
		PublishedAt:   model.PublishedAt,
	}
	item.CanEnroll = model.Status == models.CourseStatusPublished && !item.IsEnrolled && !item.IsFull
	if model.Category != nil {
		option := NewTaxonomyOption(*model.Category)
		item.Category = &option
	}
	if model.Difficulty != nil {
		option := NewDifficultyOption(*model.Difficulty)
		item.Difficulty = &option
	}
	if model.Instructor != nil {
		item.Instructor = &InstructorRef{ID: model.Instructor.ID, Name: model.Instructor.Name}
	} else {
		item.Instructor = &InstructorRef{ID: model.InstructorID}
	}
	return item
}
