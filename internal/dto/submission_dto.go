package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/lms-go-api/internal/models"
)

// SubmitRequest describes the payload for submitting or resubmitting.
type SubmitRequest struct {
	AssignmentID uuid.UUID `json:"assignment_id" validate:"required"`
	Content      string    `json:"content" validate:"required,min=1"`
	LinkURL      *string   `json:"link_url" validate:"omitempty,url"`
}

// SubmitResponse reports the stored submission and its late flag.
type SubmitResponse struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	IsLate       bool      `json:"is_late"`
}

// SubmissionResponse is the serialized submission returned to instructors.
type SubmissionResponse struct {
	ID          uuid.UUID  `json:"id"`
	LearnerID   uuid.UUID  `json:"learner_id"`
	Status      string     `json:"status"`
	Score       *int       `json:"score"`
	Feedback    *string    `json:"feedback"`
	IsLate      bool       `json:"is_late"`
	SubmittedAt time.Time  `json:"submitted_at"`
	GradedAt    *time.Time `json:"graded_at"`
}

// AssignmentSubmissionsResponse lists submissions for one assignment.
type AssignmentSubmissionsResponse struct {
	AssignmentID    uuid.UUID            `json:"assignment_id"`
	AssignmentTitle string               `json:"assignment_title"`
	Submissions     []SubmissionResponse `json:"submissions"`
}

// NewSubmissionResponse converts a model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:          model.ID,
		LearnerID:   model.LearnerID,
		Status:      model.Status,
		Score:       model.Score,
		Feedback:    model.Feedback,
		IsLate:      model.IsLate,
		SubmittedAt: model.SubmittedAt,
		GradedAt:    model.GradedAt,
	}
}

// NewSubmissionResponseSlice converts a slice of models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}
