package service

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/models"
	"github.com/noah-isme/lms-go-api/internal/repository"
)

// GradesService builds the learner's per-course grade report.
type GradesService interface {
	LearnerGrades(ctx context.Context, learnerID uuid.UUID) (dto.LearnerGradesResponse, error)
}

type gradesService struct {
	enrollments repository.EnrollmentRepository
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	logger      zerolog.Logger
}

// NewGradesService constructs a GradesService instance.
func NewGradesService(enrollRepo repository.EnrollmentRepository, assignmentRepo repository.AssignmentRepository, subRepo repository.SubmissionRepository, logger zerolog.Logger) GradesService {
	return &gradesService{
		enrollments: enrollRepo,
		assignments: assignmentRepo,
		submissions: subRepo,
		logger:      logger.With().Str("component", "grades_service").Logger(),
	}
}

func (s *gradesService) LearnerGrades(ctx context.Context, learnerID uuid.UUID) (dto.LearnerGradesResponse, error) {
	enrollments, err := s.enrollments.ListActiveByLearner(ctx, learnerID)
	if err != nil {
		return dto.LearnerGradesResponse{}, err
	}

	response := dto.LearnerGradesResponse{Courses: make([]dto.CourseGrades, 0, len(enrollments))}
	for _, enrollment := range enrollments {
		courseGrades, err := s.courseGrades(ctx, learnerID, enrollment)
		if err != nil {
			return dto.LearnerGradesResponse{}, err
		}
		response.Courses = append(response.Courses, courseGrades)
	}

	return response, nil
}

func (s *gradesService) courseGrades(ctx context.Context, learnerID uuid.UUID, enrollment models.Enrollment) (dto.CourseGrades, error) {
	assignments, err := s.assignments.ListByCourse(ctx, enrollment.CourseID)
	if err != nil {
		return dto.CourseGrades{}, err
	}

	submissions, err := s.submissions.ListByLearnerForCourse(ctx, learnerID, enrollment.CourseID)
	if err != nil {
		return dto.CourseGrades{}, err
	}

	byAssignment := make(map[uuid.UUID]models.Submission, len(submissions))
	for _, submission := range submissions {
		byAssignment[submission.AssignmentID] = submission
	}

	grades := dto.CourseGrades{
		CourseID:    enrollment.CourseID,
		Assignments: []dto.AssignmentGrade{},
	}
	if enrollment.Course != nil {
		grades.CourseTitle = enrollment.Course.Title
	}

	var visible, graded, totalScore int
	for _, assignment := range assignments {
		// Drafts are invisible to learners and excluded from progress.
		if assignment.Status == models.AssignmentStatusDraft {
			continue
		}
		visible++

		row := dto.AssignmentGrade{
			AssignmentID:    assignment.ID,
			AssignmentTitle: assignment.Title,
		}
		if submission, ok := byAssignment[assignment.ID]; ok {
			isLate := submission.IsLate
			row.IsLate = &isLate
			row.Feedback = submission.Feedback
			if submission.IsGraded() && submission.Score != nil {
				score := *submission.Score
				percentage := scorePercentage(score, assignment.MaxScore)
				row.Score = &score
				row.Percentage = &percentage

				graded++
				totalScore += score
			}
		}
		grades.Assignments = append(grades.Assignments, row)
	}

	grades.TotalScore = totalScore
	// Average over raw scores; per-assignment percentages already carry the
	// max-score normalisation.
	if graded > 0 {
		grades.AverageScore = int(math.Round(float64(totalScore) / float64(graded)))
	}
	if visible > 0 {
		grades.Progress = int(math.Round(float64(graded) / float64(visible) * 100))
	}

	return grades, nil
}

// scorePercentage normalises a raw score against the assignment's max score.
func scorePercentage(score, maxScore int) int {
	if maxScore <= 0 {
		maxScore = 100
	}
	return int(math.Round(float64(score) / float64(maxScore) * 100))
}
