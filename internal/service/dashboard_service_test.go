package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-go-api/internal/models"
	"github.com/noah-isme/lms-go-api/internal/repository"
)

func (f *fakeAssignmentRepo) ListPublishedDueBetween(ctx context.Context, courseIDs []uuid.UUID, from, to time.Time) ([]models.Assignment, error) {
	ids := make(map[uuid.UUID]bool, len(courseIDs))
	for _, id := range courseIDs {
		ids[id] = true
	}

	matched := make([]models.Assignment, 0)
	for _, assignment := range f.assignments {
		if !ids[assignment.CourseID] || assignment.Status != models.AssignmentStatusPublished {
			continue
		}
		if assignment.DueDate.Before(from) || assignment.DueDate.After(to) {
			continue
		}
		matched = append(matched, *assignment)
	}
	return matched, nil
}

func (f *fakeGradebookRepo) ListRecentFeedbackByLearner(ctx context.Context, learnerID uuid.UUID, limit int) ([]models.Submission, error) {
	matched := make([]models.Submission, 0)
	for _, submission := range f.submissions {
		if submission.LearnerID == learnerID && submission.Feedback != nil {
			matched = append(matched, *submission)
		}
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakeGradebookRepo) ListRecentByInstructor(ctx context.Context, instructorID uuid.UUID, limit int) ([]models.Submission, error) {
	matched := make([]models.Submission, 0)
	for _, submission := range f.submissions {
		if submission.Assignment == nil || submission.Assignment.Course == nil {
			continue
		}
		if submission.Assignment.Course.InstructorID == instructorID {
			matched = append(matched, *submission)
		}
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakeGradebookRepo) CountPendingByInstructor(ctx context.Context, instructorID uuid.UUID) (int64, error) {
	var total int64
	for _, submission := range f.submissions {
		if submission.Assignment == nil || submission.Assignment.Course == nil {
			continue
		}
		if submission.Assignment.Course.InstructorID == instructorID &&
			submission.Status == models.SubmissionStatusSubmitted && submission.Score == nil {
			total++
		}
	}
	return total, nil
}

func (f *fakeGradebookRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.submissions)), nil
}

func (f *fakeCourseRepo) ListByInstructor(ctx context.Context, instructorID uuid.UUID) ([]models.Course, error) {
	matched := make([]models.Course, 0)
	for _, course := range f.courses {
		if course.InstructorID == instructorID {
			matched = append(matched, *course)
		}
	}
	return matched, nil
}

func (f *fakeCourseRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.courses)), nil
}

func (f *fakeEnrollmentRepo) CountActive(ctx context.Context) (int64, error) {
	var total int64
	for _, enrollment := range f.enrollments {
		if enrollment.CancelledAt == nil {
			total++
		}
	}
	return total, nil
}

type fakeProfileRepo struct {
	repository.ProfileRepository
	profiles map[uuid.UUID]*models.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uuid.UUID]*models.Profile)}
}

func (f *fakeProfileRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.profiles)), nil
}

// countingEnrollmentRepo tracks how many times the learner's enrollments were
// listed so cache hits can be observed.
type countingEnrollmentRepo struct {
	*fakeEnrollmentRepo
	listCalls int
}

func (c *countingEnrollmentRepo) ListActiveByLearner(ctx context.Context, learnerID uuid.UUID) ([]models.Enrollment, error) {
	c.listCalls++
	return c.fakeEnrollmentRepo.ListActiveByLearner(ctx, learnerID)
}

func newTestCache(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestLearnerDashboardCachesResult(t *testing.T) {
	learnerID := uuid.New()
	course := &models.Course{ID: uuid.New(), InstructorID: uuid.New(), Title: "Go 101", Status: models.CourseStatusPublished}

	enrollments := &countingEnrollmentRepo{fakeEnrollmentRepo: newFakeEnrollmentRepo()}
	enrollment := &models.Enrollment{ID: uuid.New(), CourseID: course.ID, LearnerID: learnerID, EnrolledAt: time.Now(), Course: course}
	enrollments.enrollments[enrollment.ID] = enrollment

	svc := NewDashboardService(enrollments, newFakeCourseRepo(course), newFakeAssignmentRepo(), newFakeGradebookRepo(), newFakeProfileRepo(), newTestCache(t), testLogger())

	first, err := svc.LearnerDashboard(context.Background(), learnerID)
	require.NoError(t, err)
	require.Len(t, first.Courses, 1)
	require.Equal(t, 1, first.Stats.TotalCourses)

	second, err := svc.LearnerDashboard(context.Background(), learnerID)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, enrollments.listCalls)
}

func TestLearnerDashboardWorksWithoutCache(t *testing.T) {
	learnerID := uuid.New()
	enrollments := &countingEnrollmentRepo{fakeEnrollmentRepo: newFakeEnrollmentRepo()}

	svc := NewDashboardService(enrollments, newFakeCourseRepo(), newFakeAssignmentRepo(), newFakeGradebookRepo(), newFakeProfileRepo(), nil, testLogger())

	_, err := svc.LearnerDashboard(context.Background(), learnerID)
	require.NoError(t, err)
	_, err = svc.LearnerDashboard(context.Background(), learnerID)
	require.NoError(t, err)
	require.Equal(t, 2, enrollments.listCalls)
}

func TestLearnerDashboardUpcomingDeadlinesWindow(t *testing.T) {
	learnerID := uuid.New()
	course := &models.Course{ID: uuid.New(), InstructorID: uuid.New(), Title: "Go 101", Status: models.CourseStatusPublished}

	enrollments := &countingEnrollmentRepo{fakeEnrollmentRepo: newFakeEnrollmentRepo()}
	enrollment := &models.Enrollment{ID: uuid.New(), CourseID: course.ID, LearnerID: learnerID, EnrolledAt: time.Now(), Course: course}
	enrollments.enrollments[enrollment.ID] = enrollment

	now := time.Date(2026, time.June, 1, 10, 0, 0, 0, time.UTC)
	assignments := newFakeAssignmentRepo(
		&models.Assignment{ID: uuid.New(), CourseID: course.ID, Title: "Due soon", Status: models.AssignmentStatusPublished, DueDate: now.Add(48 * time.Hour)},
		&models.Assignment{ID: uuid.New(), CourseID: course.ID, Title: "Far away", Status: models.AssignmentStatusPublished, DueDate: now.Add(30 * 24 * time.Hour)},
		&models.Assignment{ID: uuid.New(), CourseID: course.ID, Title: "Still draft", Status: models.AssignmentStatusDraft, DueDate: now.Add(24 * time.Hour)},
	)

	svc := NewDashboardService(enrollments, newFakeCourseRepo(course), assignments, newFakeGradebookRepo(), newFakeProfileRepo(), nil, testLogger())
	svc.(*dashboardService).now = func() time.Time { return now }

	dashboard, err := svc.LearnerDashboard(context.Background(), learnerID)
	require.NoError(t, err)
	require.Len(t, dashboard.UpcomingDeadlines, 1)
	require.Equal(t, "Due soon", dashboard.UpcomingDeadlines[0].Title)
}

func TestInstructorDashboardCountsPendingGrading(t *testing.T) {
	instructorID := uuid.New()
	course := &models.Course{ID: uuid.New(), InstructorID: instructorID, Title: "Go 101", Status: models.CourseStatusPublished, EnrolledCount: 4}
	draft := &models.Course{ID: uuid.New(), InstructorID: instructorID, Title: "Go 201", Status: models.CourseStatusDraft}

	assignment := &models.Assignment{ID: uuid.New(), CourseID: course.ID, Title: "Worksheet", Course: course}
	submissions := newFakeGradebookRepo()
	pending := &models.Submission{
		ID:           uuid.New(),
		AssignmentID: assignment.ID,
		LearnerID:    uuid.New(),
		Status:       models.SubmissionStatusSubmitted,
		SubmittedAt:  time.Now(),
		Assignment:   assignment,
	}
	submissions.submissions[pending.ID] = pending

	svc := NewDashboardService(&countingEnrollmentRepo{fakeEnrollmentRepo: newFakeEnrollmentRepo()}, newFakeCourseRepo(course, draft), newFakeAssignmentRepo(), submissions, newFakeProfileRepo(), nil, testLogger())

	dashboard, err := svc.InstructorDashboard(context.Background(), instructorID)
	require.NoError(t, err)
	require.Equal(t, 2, dashboard.Statistics.TotalCourses)
	require.Equal(t, 1, dashboard.Statistics.PublishedCourses)
	require.Equal(t, int64(1), dashboard.PendingGrading)
	require.Len(t, dashboard.RecentSubmissions, 1)
	require.Equal(t, "Worksheet", dashboard.RecentSubmissions[0].AssignmentTitle)
}

func TestOperatorDashboardAggregatesCounts(t *testing.T) {
	profiles := newFakeProfileRepo()
	for i := 0; i < 3; i++ {
		profile := &models.Profile{ID: uuid.New()}
		profiles.profiles[profile.ID] = profile
	}

	course := &models.Course{ID: uuid.New(), InstructorID: uuid.New(), Status: models.CourseStatusPublished}
	enrollments := &countingEnrollmentRepo{fakeEnrollmentRepo: newFakeEnrollmentRepo()}
	active := &models.Enrollment{ID: uuid.New(), CourseID: course.ID, LearnerID: uuid.New(), EnrolledAt: time.Now()}
	cancelledAt := time.Now()
	cancelled := &models.Enrollment{ID: uuid.New(), CourseID: course.ID, LearnerID: uuid.New(), EnrolledAt: time.Now(), CancelledAt: &cancelledAt}
	enrollments.enrollments[active.ID] = active
	enrollments.enrollments[cancelled.ID] = cancelled

	svc := NewDashboardService(enrollments, newFakeCourseRepo(course), newFakeAssignmentRepo(), newFakeGradebookRepo(), profiles, nil, testLogger())

	dashboard, err := svc.OperatorDashboard(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), dashboard.Statistics.Users)
	require.Equal(t, int64(1), dashboard.Statistics.Courses)
	require.Equal(t, int64(1), dashboard.Statistics.Enrollments)
	require.Equal(t, int64(0), dashboard.Statistics.Submissions)
}
