package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Enrollment ties a learner to a course. Rows are never hard-deleted;
// cancellation sets CancelledAt so history is preserved. At most one row per
// (course, learner) pair may have CancelledAt = nil, enforced at write time.
type Enrollment struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_enrollments_course_learner" json:"course_id"`
	LearnerID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_enrollments_course_learner" json:"learner_id"`
	EnrolledAt  time.Time  `gorm:"not null" json:"enrolled_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	Course *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

// BeforeCreate assigns an id and enrollment timestamp when missing.
func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.EnrolledAt.IsZero() {
		e.EnrolledAt = time.Now()
	}
	return nil
}

// IsActive reports whether the enrollment has not been cancelled.
func (e Enrollment) IsActive() bool {
	return e.CancelledAt == nil
}
