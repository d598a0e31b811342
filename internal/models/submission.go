package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Submission status values.
const (
	SubmissionStatusSubmitted            = "submitted"
	SubmissionStatusGraded               = "graded"
	SubmissionStatusResubmissionRequired = "resubmission_required"
)

// Submission is the single mutable row per (assignment, learner). A resubmit
// updates this row in place; the grading history table keeps the audit trail.
type Submission struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AssignmentID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_submissions_assignment_learner" json:"assignment_id"`
	LearnerID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_submissions_assignment_learner" json:"learner_id"`
	Content      string     `gorm:"type:text;not null" json:"content"`
	LinkURL      *string    `gorm:"size:512" json:"link_url"`
	IsLate       bool       `gorm:"not null;default:false" json:"is_late"`
	Status       string     `gorm:"size:32;not null;default:submitted;index" json:"status"`
	Score        *int       `json:"score"`
	Feedback     *string    `gorm:"type:text" json:"feedback"`
	SubmittedAt  time.Time  `gorm:"not null" json:"submitted_at"`
	GradedAt     *time.Time `json:"graded_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Assignment *Assignment `gorm:"foreignKey:AssignmentID" json:"assignment,omitempty"`
}

// BeforeCreate assigns an id and submission timestamp when missing.
func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = time.Now()
	}
	return nil
}

// IsGraded reports whether the submission carries a final grade.
func (s Submission) IsGraded() bool {
	return s.Status == SubmissionStatusGraded
}
