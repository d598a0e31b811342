package dto

import (
	"time"

	"github.com/google/uuid"
)

// EnrollRequest describes the payload for enrolling into a course.
type EnrollRequest struct {
	CourseID uuid.UUID `json:"course_id" validate:"required"`
}

// EnrollResponse reports a created enrollment.
type EnrollResponse struct {
	EnrollmentID uuid.UUID `json:"enrollment_id"`
	CourseID     uuid.UUID `json:"course_id"`
}

// CancelEnrollmentResponse reports a completed cancellation.
type CancelEnrollmentResponse struct {
	CancelledAt time.Time `json:"cancelled_at"`
	CourseID    uuid.UUID `json:"course_id"`
}

// EnrolledCourse is one active enrollment in the learner's course list.
type EnrolledCourse struct {
	EnrollmentID uuid.UUID `json:"enrollment_id"`
	CourseID     uuid.UUID `json:"course_id"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Status       string    `json:"status"`
	EnrolledAt   time.Time `json:"enrolled_at"`
}
