package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Assignment status values.
const (
	AssignmentStatusDraft     = "draft"
	AssignmentStatusPublished = "published"
	AssignmentStatusClosed    = "closed"
)

// Assignment represents a graded task inside a course. Ownership runs through
// the course's instructor.
type Assignment struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"course_id"`
	Title             string     `gorm:"size:255;not null" json:"title"`
	Description       string     `gorm:"type:text" json:"description"`
	DueDate           time.Time  `gorm:"not null" json:"due_date"`
	Weight            int        `gorm:"not null;default:0" json:"weight"`
	MaxScore          int        `gorm:"not null;default:100" json:"max_score"`
	AllowLate         bool       `gorm:"not null;default:false" json:"allow_late"`
	AllowResubmission bool       `gorm:"not null;default:false" json:"allow_resubmission"`
	Status            string     `gorm:"size:32;not null;default:draft;index" json:"status"`
	PublishedAt       *time.Time `json:"published_at"`
	ClosedAt          *time.Time `json:"closed_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	Course *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

// BeforeCreate assigns an id when none was provided.
func (a *Assignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsPastDue reports whether the deadline has passed at the reference time.
func (a Assignment) IsPastDue(reference time.Time) bool {
	return reference.After(a.DueDate)
}

// CanSubmit reports whether a learner submission is currently acceptable.
func (a Assignment) CanSubmit(reference time.Time) bool {
	if a.Status == AssignmentStatusClosed {
		return false
	}
	return !a.IsPastDue(reference) || a.AllowLate
}

// assignmentTransitions enumerates the legal status edges. closed→published
// is the reopen edge used by deadline extension.
var assignmentTransitions = map[string][]string{
	AssignmentStatusDraft:     {AssignmentStatusPublished},
	AssignmentStatusPublished: {AssignmentStatusClosed},
	AssignmentStatusClosed:    {AssignmentStatusPublished},
}

// CanTransitionAssignment reports whether an assignment may move between two
// statuses.
func CanTransitionAssignment(from, to string) bool {
	for _, allowed := range assignmentTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
