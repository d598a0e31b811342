package dto

import (
	"time"

	"github.com/google/uuid"
)

// LearnerDashboardResponse aggregates the learner home view.
type LearnerDashboardResponse struct {
	Courses           []LearnerCourseProgress `json:"courses"`
	UpcomingDeadlines []UpcomingDeadline      `json:"upcoming_deadlines"`
	RecentFeedback    []RecentFeedback        `json:"recent_feedback"`
	Stats             LearnerDashboardStats   `json:"stats"`
}

// LearnerCourseProgress is one enrolled course with progress percentage.
type LearnerCourseProgress struct {
	CourseID uuid.UUID `json:"course_id"`
	Title    string    `json:"title"`
	Progress int       `json:"progress"`
}

// UpcomingDeadline is a published assignment due within the next window.
type UpcomingDeadline struct {
	AssignmentID uuid.UUID `json:"assignment_id"`
	Title        string    `json:"title"`
	DueDate      time.Time `json:"due_date"`
}

// RecentFeedback is one recently updated submission carrying feedback.
type RecentFeedback struct {
	SubmissionID    uuid.UUID `json:"submission_id"`
	CourseTitle     string    `json:"course_title"`
	AssignmentTitle string    `json:"assignment_title"`
	Score           *int      `json:"score"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// LearnerDashboardStats summarises the learner view.
type LearnerDashboardStats struct {
	TotalCourses    int `json:"total_courses"`
	AverageProgress int `json:"average_progress"`
}

// InstructorDashboardResponse aggregates the instructor home view.
type InstructorDashboardResponse struct {
	Courses           []InstructorCourseSummary `json:"courses"`
	PendingGrading    int64                     `json:"pending_grading"`
	RecentSubmissions []RecentSubmission        `json:"recent_submissions"`
	Statistics        InstructorDashboardStats  `json:"statistics"`
}

// InstructorCourseSummary is one owned course with its enrollment count.
type InstructorCourseSummary struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Status          string    `json:"status"`
	EnrollmentCount int       `json:"enrollment_count"`
}

// RecentSubmission is one recently received submission across owned courses.
type RecentSubmission struct {
	SubmissionID    uuid.UUID `json:"submission_id"`
	AssignmentTitle string    `json:"assignment_title"`
	CourseTitle     string    `json:"course_title"`
	Status          string    `json:"status"`
	SubmittedAt     time.Time `json:"submitted_at"`
}

// InstructorDashboardStats summarises the instructor view.
type InstructorDashboardStats struct {
	TotalCourses     int `json:"total_courses"`
	PublishedCourses int `json:"published_courses"`
}

// OperatorDashboardResponse carries platform-wide aggregate counts.
type OperatorDashboardResponse struct {
	Statistics OperatorStatistics `json:"statistics"`
}

// OperatorStatistics is the aggregate count set shown to operators.
type OperatorStatistics struct {
	Users       int64 `json:"users"`
	Courses     int64 `json:"courses"`
	Enrollments int64 `json:"enrollments"`
	Submissions int64 `json:"submissions"`
}
