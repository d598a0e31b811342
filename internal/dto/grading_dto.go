package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/lms-go-api/internal/models"
)

// GradeRequest describes one grading action against a submission. Score is
// required for grade/regrade and ignored for resubmission requests.
type GradeRequest struct {
	Action   string `json:"action" validate:"required,oneof=grade regrade resubmission_required"`
	Score    *int   `json:"score" validate:"omitempty,gte=0,lte=100"`
	Feedback string `json:"feedback" validate:"required,min=1"`
}

// GradeResponse reports the graded submission id.
type GradeResponse struct {
	ID uuid.UUID `json:"id"`
}

// BatchGradeRequest applies one grade to a set of submissions.
type BatchGradeRequest struct {
	SubmissionIDs []uuid.UUID `json:"submission_ids" validate:"required,min=1,dive,required"`
	Score         int         `json:"score" validate:"gte=0,lte=100"`
	Feedback      string      `json:"feedback" validate:"required,min=1"`
}

// BatchGradeResponse reports how many submissions were graded.
type BatchGradeResponse struct {
	Updated int `json:"updated"`
}

// GradingHistoryResponse is one audit trail row.
type GradingHistoryResponse struct {
	ID           uuid.UUID `json:"id"`
	SubmissionID uuid.UUID `json:"submission_id"`
	InstructorID uuid.UUID `json:"instructor_id"`
	Action       string    `json:"action"`
	Score        *int      `json:"score"`
	Feedback     string    `json:"feedback"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewGradingHistoryResponse converts a model into a DTO.
func NewGradingHistoryResponse(model models.GradingHistoryEntry) GradingHistoryResponse {
	return GradingHistoryResponse{
		ID:           model.ID,
		SubmissionID: model.SubmissionID,
		InstructorID: model.InstructorID,
		Action:       model.Action,
		Score:        model.Score,
		Feedback:     model.Feedback,
		CreatedAt:    model.CreatedAt,
	}
}

// NewGradingHistoryResponseSlice converts a slice of models into DTOs.
func NewGradingHistoryResponseSlice(entries []models.GradingHistoryEntry) []GradingHistoryResponse {
	responses := make([]GradingHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, NewGradingHistoryResponse(entry))
	}

	return responses
}
