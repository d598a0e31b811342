package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/lms-go-api/internal/models"
)

// AssignmentCreateRequest describes the payload for creating a draft assignment.
type AssignmentCreateRequest struct {
	CourseID          uuid.UUID `json:"course_id" validate:"required"`
	Title             string    `json:"title" validate:"required,min=3"`
	Description       string    `json:"description"`
	DueDate           string    `json:"due_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Weight            int       `json:"weight" validate:"gte=0,lte=100"`
	MaxScore          int       `json:"max_score" validate:"omitempty,gte=1"`
	AllowLate         bool      `json:"allow_late"`
	AllowResubmission bool      `json:"allow_resubmission"`
}

// AssignmentUpdateRequest describes a partial assignment update.
type AssignmentUpdateRequest struct {
	Title             *string `json:"title" validate:"omitempty,min=3"`
	Description       *string `json:"description"`
	DueDate           *string `json:"due_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Weight            *int    `json:"weight" validate:"omitempty,gte=0,lte=100"`
	AllowLate         *bool   `json:"allow_late"`
	AllowResubmission *bool   `json:"allow_resubmission"`
}

// AssignmentStatusUpdateRequest carries a target assignment status.
type AssignmentStatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=draft published closed"`
}

// ExtendDeadlineRequest carries the new due date for an assignment.
type ExtendDeadlineRequest struct {
	DueDate string `json:"due_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

// AssignmentResponse is the serialized assignment returned to API clients.
type AssignmentResponse struct {
	ID                uuid.UUID  `json:"id"`
	CourseID          uuid.UUID  `json:"course_id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	DueDate           time.Time  `json:"due_date"`
	Weight            int        `json:"weight"`
	MaxScore          int        `json:"max_score"`
	AllowLate         bool       `json:"allow_late"`
	AllowResubmission bool       `json:"allow_resubmission"`
	Status            string     `json:"status"`
	PublishedAt       *time.Time `json:"published_at"`
	ClosedAt          *time.Time `json:"closed_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// AssignmentLifecycleResponse reports a completed lifecycle transition.
type AssignmentLifecycleResponse struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

// ExtendDeadlineResponse reports a completed deadline extension.
type ExtendDeadlineResponse struct {
	ID      uuid.UUID `json:"id"`
	Status  string    `json:"status"`
	DueDate time.Time `json:"due_date"`
}

// AutoCloseResponse reports how many assignments the sweep closed.
type AutoCloseResponse struct {
	Closed int `json:"closed"`
}

// NewAssignmentResponse converts a model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:                model.ID,
		CourseID:          model.CourseID,
		Title:             model.Title,
		Description:       model.Description,
		DueDate:           model.DueDate,
		Weight:            model.Weight,
		MaxScore:          model.MaxScore,
		AllowLate:         model.AllowLate,
		AllowResubmission: model.AllowResubmission,
		Status:            model.Status,
		PublishedAt:       model.PublishedAt,
		ClosedAt:          model.ClosedAt,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}

// NewAssignmentResponseSlice converts a slice of models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}

	return responses
}
