package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/models"
	"github.com/noah-isme/lms-go-api/internal/repository"
)

const (
	learnerDashboardCacheTTL = time.Minute
	upcomingDeadlineWindow   = 7 * 24 * time.Hour
	recentFeedbackLimit      = 5
	recentSubmissionsLimit   = 20
)

// DashboardService aggregates the three role-specific home views.
type DashboardService interface {
	LearnerDashboard(ctx context.Context, learnerID uuid.UUID) (dto.LearnerDashboardResponse, error)
	InstructorDashboard(ctx context.Context, instructorID uuid.UUID) (dto.InstructorDashboardResponse, error)
	OperatorDashboard(ctx context.Context) (dto.OperatorDashboardResponse, error)
}

type dashboardService struct {
	enrollments repository.EnrollmentRepository
	courses     repository.CourseRepository
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	profiles    repository.ProfileRepository
	cache       *redis.Client
	logger      zerolog.Logger
	now         func() time.Time
}

// NewDashboardService constructs a DashboardService. cache may be nil, in
// which case every read goes to the database.
func NewDashboardService(enrollRepo repository.EnrollmentRepository, courseRepo repository.CourseRepository, assignmentRepo repository.AssignmentRepository, subRepo repository.SubmissionRepository, profileRepo repository.ProfileRepository, cache *redis.Client, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		enrollments: enrollRepo,
		courses:     courseRepo,
		assignments: assignmentRepo,
		submissions: subRepo,
		profiles:    profileRepo,
		cache:       cache,
		logger:      logger.With().Str("component", "dashboard_service").Logger(),
		now:         time.Now,
	}
}

func learnerDashboardKey(learnerID uuid.UUID) string {
	return fmt.Sprintf("lms:dashboard:learner:%s", learnerID)
}

func (s *dashboardService) LearnerDashboard(ctx context.Context, learnerID uuid.UUID) (dto.LearnerDashboardResponse, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, learnerDashboardKey(learnerID)).Bytes()
		if err == nil {
			var response dto.LearnerDashboardResponse
			if err := json.Unmarshal(cached, &response); err == nil {
				return response, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("dashboard cache read failed")
		}
	}

	response, err := s.buildLearnerDashboard(ctx, learnerID)
	if err != nil {
		return dto.LearnerDashboardResponse{}, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, learnerDashboardKey(learnerID), data, learnerDashboardCacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("dashboard cache write failed")
			}
		}
	}

	return response, nil
}

func (s *dashboardService) buildLearnerDashboard(ctx context.Context, learnerID uuid.UUID) (dto.LearnerDashboardResponse, error) {
	enrollments, err := s.enrollments.ListActiveByLearner(ctx, learnerID)
	if err != nil {
		return dto.LearnerDashboardResponse{}, err
	}

	response := dto.LearnerDashboardResponse{
		Courses:           make([]dto.LearnerCourseProgress, 0, len(enrollments)),
		UpcomingDeadlines: []dto.UpcomingDeadline{},
		RecentFeedback:    []dto.RecentFeedback{},
	}

	courseIDs := make([]uuid.UUID, 0, len(enrollments))
	for _, enrollment := range enrollments {
		courseIDs = append(courseIDs, enrollment.CourseID)
		progress := dto.LearnerCourseProgress{CourseID: enrollment.CourseID}
		if enrollment.Course != nil {
			progress.Title = enrollment.Course.Title
		}
		response.Courses = append(response.Courses, progress)
	}

	now := s.now()
	deadlines, err := s.assignments.ListPublishedDueBetween(ctx, courseIDs, now, now.Add(upcomingDeadlineWindow))
	if err != nil {
		return dto.LearnerDashboardResponse{}, err
	}
	for _, assignment := range deadlines {
		response.UpcomingDeadlines = append(response.UpcomingDeadlines, dto.UpcomingDeadline{
			AssignmentID: assignment.ID,
			Title:        assignment.Title,
			DueDate:      assignment.DueDate,
		})
	}

	feedback, err := s.submissions.ListRecentFeedbackByLearner(ctx, learnerID, recentFeedbackLimit)
	if err != nil {
		return dto.LearnerDashboardResponse{}, err
	}
	for _, submission := range feedback {
		item := dto.RecentFeedback{
			SubmissionID: submission.ID,
			Score:        submission.Score,
			UpdatedAt:    submission.UpdatedAt,
		}
		if submission.Assignment != nil {
			item.AssignmentTitle = submission.Assignment.Title
			if submission.Assignment.Course != nil {
				item.CourseTitle = submission.Assignment.Course.Title
			}
		}
		response.RecentFeedback = append(response.RecentFeedback, item)
	}

	response.Stats = dto.LearnerDashboardStats{TotalCourses: len(enrollments)}

	return response, nil
}

func (s *dashboardService) InstructorDashboard(ctx context.Context, instructorID uuid.UUID) (dto.InstructorDashboardResponse, error) {
	courses, err := s.courses.ListByInstructor(ctx, instructorID)
	if err != nil {
		return dto.InstructorDashboardResponse{}, err
	}

	response := dto.InstructorDashboardResponse{
		Courses:           make([]dto.InstructorCourseSummary, 0, len(courses)),
		RecentSubmissions: []dto.RecentSubmission{},
	}

	published := 0
	for _, course := range courses {
		if course.Status == models.CourseStatusPublished {
			published++
		}
		response.Courses = append(response.Courses, dto.InstructorCourseSummary{
			ID:              course.ID,
			Title:           course.Title,
			Status:          course.Status,
			EnrollmentCount: course.EnrolledCount,
		})
	}
	response.Statistics = dto.InstructorDashboardStats{
		TotalCourses:     len(courses),
		PublishedCourses: published,
	}

	pending, err := s.submissions.CountPendingByInstructor(ctx, instructorID)
	if err != nil {
		return dto.InstructorDashboardResponse{}, err
	}
	response.PendingGrading = pending

	recent, err := s.submissions.ListRecentByInstructor(ctx, instructorID, recentSubmissionsLimit)
	if err != nil {
		return dto.InstructorDashboardResponse{}, err
	}
	for _, submission := range recent {
		item := dto.RecentSubmission{
			SubmissionID: submission.ID,
			Status:       submission.Status,
			SubmittedAt:  submission.SubmittedAt,
		}
		if submission.Assignment != nil {
			item.AssignmentTitle = submission.Assignment.Title
			if submission.Assignment.Course != nil {
				item.CourseTitle = submission.Assignment.Course.Title
			}
		}
		response.RecentSubmissions = append(response.RecentSubmissions, item)
	}

	return response, nil
}

func (s *dashboardService) OperatorDashboard(ctx context.Context) (dto.OperatorDashboardResponse, error) {
	users, err := s.profiles.Count(ctx)
	if err != nil {
		return dto.OperatorDashboardResponse{}, err
	}

	courses, err := s.courses.Count(ctx)
	if err != nil {
		return dto.OperatorDashboardResponse{}, err
	}

	enrollments, err := s.enrollments.CountActive(ctx)
	if err != nil {
		return dto.OperatorDashboardResponse{}, err
	}

	submissions, err := s.submissions.Count(ctx)
	if err != nil {
		return dto.OperatorDashboardResponse{}, err
	}

	return dto.OperatorDashboardResponse{
		Statistics: dto.OperatorStatistics{
			Users:       users,
			Courses:     courses,
			Enrollments: enrollments,
			Submissions: submissions,
		},
	}, nil
}
