package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/lms-go-api/internal/apperr"
	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/models"
	"github.com/noah-isme/lms-go-api/internal/repository"
)

type fakeAssignmentRepo struct {
	repository.AssignmentRepository
	assignments map[uuid.UUID]*models.Assignment
	courses     map[uuid.UUID]*models.Course
}

func newFakeAssignmentRepo(assignments ...*models.Assignment) *fakeAssignmentRepo {
	repo := &fakeAssignmentRepo{
		assignments: make(map[uuid.UUID]*models.Assignment),
		courses:     make(map[uuid.UUID]*models.Course),
	}
	for _, assignment := range assignments {
		repo.assignments[assignment.ID] = assignment
	}
	return repo
}

func (f *fakeAssignmentRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Assignment, error) {
	if assignment, ok := f.assignments[id]; ok {
		return *assignment, nil
	}
	return models.Assignment{}, gorm.ErrRecordNotFound
}

func (f *fakeAssignmentRepo) GetWithCourse(ctx context.Context, id uuid.UUID) (models.Assignment, error) {
	assignment, ok := f.assignments[id]
	if !ok {
		return models.Assignment{}, gorm.ErrRecordNotFound
	}
	loaded := *assignment
	if course, ok := f.courses[assignment.CourseID]; ok {
		loaded.Course = course
	}
	return loaded, nil
}

func (f *fakeAssignmentRepo) Update(ctx context.Context, assignment *models.Assignment) error {
	stored := *assignment
	stored.Course = nil
	f.assignments[assignment.ID] = &stored
	return nil
}

type fakeSubmissionRepo struct {
	repository.SubmissionRepository
	submissions map[uuid.UUID]*models.Submission
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{submissions: make(map[uuid.UUID]*models.Submission)}
}

func (f *fakeSubmissionRepo) GetByAssignmentAndLearner(ctx context.Context, assignmentID, learnerID uuid.UUID) (models.Submission, error) {
	for _, submission := range f.submissions {
		if submission.AssignmentID == assignmentID && submission.LearnerID == learnerID {
			return *submission, nil
		}
	}
	return models.Submission{}, gorm.ErrRecordNotFound
}

func (f *fakeSubmissionRepo) Upsert(ctx context.Context, submission *models.Submission) error {
	for _, existing := range f.submissions {
		if existing.AssignmentID == submission.AssignmentID && existing.LearnerID == submission.LearnerID {
			submission.ID = existing.ID
			stored := *submission
			f.submissions[existing.ID] = &stored
			return nil
		}
	}
	if submission.ID == uuid.Nil {
		submission.ID = uuid.New()
	}
	stored := *submission
	f.submissions[submission.ID] = &stored
	return nil
}

func (f *fakeSubmissionRepo) Update(ctx context.Context, submission *models.Submission) error {
	stored := *submission
	stored.Assignment = nil
	f.submissions[submission.ID] = &stored
	return nil
}

type submissionFixture struct {
	svc         SubmissionService
	assignment  *models.Assignment
	submissions *fakeSubmissionRepo
	enrollments *fakeEnrollmentRepo
	learnerID   uuid.UUID
	now         time.Time
}

func newSubmissionFixture(t *testing.T, mutate func(*models.Assignment)) *submissionFixture {
	t.Helper()

	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	assignment := &models.Assignment{
		ID:       uuid.New(),
		CourseID: uuid.New(),
		Title:    "Worksheet",
		DueDate:  now.Add(24 * time.Hour),
		MaxScore: 100,
		Status:   models.AssignmentStatusPublished,
	}
	if mutate != nil {
		mutate(assignment)
	}

	learnerID := uuid.New()
	enrollments := newFakeEnrollmentRepo()
	enrollment := &models.Enrollment{ID: uuid.New(), CourseID: assignment.CourseID, LearnerID: learnerID, EnrolledAt: now}
	enrollments.enrollments[enrollment.ID] = enrollment

	submissions := newFakeSubmissionRepo()
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewSubmissionService(submissions, newFakeAssignmentRepo(assignment), enrollments, validate, testLogger())
	svc.(*submissionService).now = func() time.Time { return now }

	return &submissionFixture{
		svc:         svc,
		assignment:  assignment,
		submissions: submissions,
		enrollments: enrollments,
		learnerID:   learnerID,
		now:         now,
	}
}

func (fx *submissionFixture) submit(t *testing.T) SubmitResult {
	t.Helper()
	result, err := fx.svc.Submit(context.Background(), fx.learnerID, dto.SubmitRequest{
		AssignmentID: fx.assignment.ID,
		Content:      "my answer",
	})
	require.NoError(t, err)
	return result
}

func TestSubmitUnknownAssignment(t *testing.T) {
	fx := newSubmissionFixture(t, nil)

	_, err := fx.svc.Submit(context.Background(), fx.learnerID, dto.SubmitRequest{
		AssignmentID: uuid.New(),
		Content:      "my answer",
	})
	require.ErrorIs(t, err, apperr.ErrAssignmentNotFound)
}

func TestSubmitWithoutEnrollmentDenied(t *testing.T) {
	fx := newSubmissionFixture(t, nil)

	_, err := fx.svc.Submit(context.Background(), uuid.New(), dto.SubmitRequest{
		AssignmentID: fx.assignment.ID,
		Content:      "my answer",
	})
	require.ErrorIs(t, err, apperr.ErrAccessDenied)
}

func TestSubmitClosedAssignmentRejected(t *testing.T) {
	fx := newSubmissionFixture(t, func(a *models.Assignment) {
		a.Status = models.AssignmentStatusClosed
	})

	_, err := fx.svc.Submit(context.Background(), fx.learnerID, dto.SubmitRequest{
		AssignmentID: fx.assignment.ID,
		Content:      "my answer",
	})
	require.ErrorIs(t, err, apperr.ErrSubmissionNotAllowed)
}

func TestSubmitLatePolicy(t *testing.T) {
	fx := newSubmissionFixture(t, func(a *models.Assignment) {
		a.DueDate = time.Date(2026, time.March, 9, 12, 0, 0, 0, time.UTC)
	})

	_, err := fx.svc.Submit(context.Background(), fx.learnerID, dto.SubmitRequest{
		AssignmentID: fx.assignment.ID,
		Content:      "my answer",
	})
	require.ErrorIs(t, err, apperr.ErrSubmissionNotAllowed)

	fx = newSubmissionFixture(t, func(a *models.Assignment) {
		a.DueDate = time.Date(2026, time.March, 9, 12, 0, 0, 0, time.UTC)
		a.AllowLate = true
	})

	result := fx.submit(t)
	require.True(t, result.Response.IsLate)
	require.True(t, result.Created)
}

func TestResubmissionGating(t *testing.T) {
	fx := newSubmissionFixture(t, nil)

	first := fx.submit(t)
	require.True(t, first.Created)

	_, err := fx.svc.Submit(context.Background(), fx.learnerID, dto.SubmitRequest{
		AssignmentID: fx.assignment.ID,
		Content:      "second try",
	})
	require.ErrorIs(t, err, apperr.ErrSubmissionNotAllowed)
}

func TestResubmissionAllowedUpdatesSameRow(t *testing.T) {
	fx := newSubmissionFixture(t, func(a *models.Assignment) {
		a.AllowResubmission = true
	})

	first := fx.submit(t)
	second := fx.submit(t)

	require.True(t, first.Created)
	require.False(t, second.Created)
	require.Equal(t, first.Response.SubmissionID, second.Response.SubmissionID)
	require.Len(t, fx.submissions.submissions, 1)
	require.Equal(t, models.SubmissionStatusSubmitted, fx.submissions.submissions[first.Response.SubmissionID].Status)
}

func TestResubmissionRequiredBypassesGate(t *testing.T) {
	fx := newSubmissionFixture(t, nil)

	first := fx.submit(t)

	stored := fx.submissions.submissions[first.Response.SubmissionID]
	stored.Status = models.SubmissionStatusResubmissionRequired

	second := fx.submit(t)
	require.False(t, second.Created)
	require.Equal(t, first.Response.SubmissionID, second.Response.SubmissionID)
	require.Equal(t, models.SubmissionStatusSubmitted, fx.submissions.submissions[first.Response.SubmissionID].Status)
}
