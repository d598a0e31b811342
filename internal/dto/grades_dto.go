package dto

import "github.com/google/uuid"

// LearnerGradesResponse is the per-course grade report for a learner.
type LearnerGradesResponse struct {
	Courses []CourseGrades `json:"courses"`
}

// CourseGrades aggregates grades inside one enrolled course.
type CourseGrades struct {
	CourseID     uuid.UUID         `json:"course_id"`
	CourseTitle  string            `json:"course_title"`
	Assignments  []AssignmentGrade `json:"assignments"`
	TotalScore   int               `json:"total_score"`
	AverageScore int               `json:"average_score"`
	Progress     int               `json:"progress"`
}

// AssignmentGrade is one assignment row in the grade report. Percentage is
// nil until the submission has been graded.
type AssignmentGrade struct {
	AssignmentID    uuid.UUID `json:"assignment_id"`
	AssignmentTitle string    `json:"assignment_title"`
	Score           *int      `json:"score"`
	Percentage      *int      `json:"percentage"`
	IsLate          *bool     `json:"is_late"`
	Feedback        *string   `json:"feedback"`
}
