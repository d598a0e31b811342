package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Grading actions recorded in the audit trail.
const (
	GradingActionGrade                = "grade"
	GradingActionRegrade              = "regrade"
	GradingActionResubmissionRequired = "resubmission_required"
)

// GradingHistoryEntry is an append-only audit record, one row per grading
// action. Batch grading writes one row per affected submission.
type GradingHistoryEntry struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SubmissionID uuid.UUID `gorm:"type:uuid;not null;index" json:"submission_id"`
	InstructorID uuid.UUID `gorm:"type:uuid;not null" json:"instructor_id"`
	Action       string    `gorm:"size:32;not null" json:"action"`
	Score        *int      `json:"score"`
	Feedback     string    `gorm:"type:text" json:"feedback"`
	CreatedAt    time.Time `json:"created_at"`
}

// BeforeCreate assigns an id when none was provided.
func (g *GradingHistoryEntry) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
