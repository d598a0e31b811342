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

type fakeGradebookRepo struct {
	repository.SubmissionRepository
	submissions map[uuid.UUID]*models.Submission
}

func newFakeGradebookRepo() *fakeGradebookRepo {
	return &fakeGradebookRepo{submissions: make(map[uuid.UUID]*models.Submission)}
}

func (f *fakeGradebookRepo) GetWithOwnership(ctx context.Context, id uuid.UUID) (models.Submission, error) {
	if submission, ok := f.submissions[id]; ok {
		return *submission, nil
	}
	return models.Submission{}, gorm.ErrRecordNotFound
}

func (f *fakeGradebookRepo) Update(ctx context.Context, submission *models.Submission) error {
	stored := *submission
	f.submissions[submission.ID] = &stored
	return nil
}

func (f *fakeGradebookRepo) FilterOwnedIDs(ctx context.Context, ids []uuid.UUID, instructorID uuid.UUID) ([]uuid.UUID, error) {
	owned := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		submission, ok := f.submissions[id]
		if !ok || submission.Assignment == nil || submission.Assignment.Course == nil {
			continue
		}
		if submission.Assignment.Course.InstructorID == instructorID {
			owned = append(owned, id)
		}
	}
	return owned, nil
}

func (f *fakeGradebookRepo) BatchGrade(ctx context.Context, ids []uuid.UUID, score int, feedback string, gradedAt time.Time) (int64, error) {
	var updated int64
	for _, id := range ids {
		submission, ok := f.submissions[id]
		if !ok {
			continue
		}
		submission.Status = models.SubmissionStatusGraded
		submission.Score = &score
		submission.Feedback = &feedback
		submission.GradedAt = &gradedAt
		updated++
	}
	return updated, nil
}

type fakeGradingHistoryRepo struct {
	repository.GradingHistoryRepository
	entries []models.GradingHistoryEntry
}

func (f *fakeGradingHistoryRepo) Create(ctx context.Context, entry *models.GradingHistoryEntry) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeGradingHistoryRepo) CreateBatch(ctx context.Context, entries []models.GradingHistoryEntry) error {
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeGradingHistoryRepo) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]models.GradingHistoryEntry, error) {
	matched := make([]models.GradingHistoryEntry, 0)
	for _, entry := range f.entries {
		if entry.SubmissionID == submissionID {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}

type gradingFixture struct {
	svc          GradingService
	submissions  *fakeGradebookRepo
	history      *fakeGradingHistoryRepo
	instructorID uuid.UUID
	now          time.Time
}

func newGradingFixture(t *testing.T) *gradingFixture {
	t.Helper()

	submissions := newFakeGradebookRepo()
	history := &fakeGradingHistoryRepo{}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewGradingService(submissions, history, validate, nil, testLogger())
	now := time.Date(2026, time.May, 2, 15, 0, 0, 0, time.UTC)
	svc.(*gradingService).now = func() time.Time { return now }

	return &gradingFixture{
		svc:          svc,
		submissions:  submissions,
		history:      history,
		instructorID: uuid.New(),
		now:          now,
	}
}

func (fx *gradingFixture) seedSubmission() *models.Submission {
	course := &models.Course{ID: uuid.New(), InstructorID: fx.instructorID, Title: "Go 101"}
	assignment := &models.Assignment{ID: uuid.New(), CourseID: course.ID, MaxScore: 100, Course: course}
	submission := &models.Submission{
		ID:           uuid.New(),
		AssignmentID: assignment.ID,
		LearnerID:    uuid.New(),
		Content:      "my answer",
		Status:       models.SubmissionStatusSubmitted,
		SubmittedAt:  fx.now.Add(-time.Hour),
		Assignment:   assignment,
	}
	fx.submissions.submissions[submission.ID] = submission
	return submission
}

func intPtr(v int) *int { return &v }

func TestGradeSetsScoreAndHistory(t *testing.T) {
	fx := newGradingFixture(t)
	submission := fx.seedSubmission()

	_, err := fx.svc.Grade(context.Background(), fx.instructorID, submission.ID, dto.GradeRequest{
		Action:   models.GradingActionGrade,
		Score:    intPtr(85),
		Feedback: "solid work",
	})
	require.NoError(t, err)

	stored := fx.submissions.submissions[submission.ID]
	require.Equal(t, models.SubmissionStatusGraded, stored.Status)
	require.Equal(t, 85, *stored.Score)
	require.Equal(t, "solid work", *stored.Feedback)
	require.Equal(t, fx.now, *stored.GradedAt)

	require.Len(t, fx.history.entries, 1)
	require.Equal(t, models.GradingActionGrade, fx.history.entries[0].Action)
	require.Equal(t, 85, *fx.history.entries[0].Score)
}

func TestGradeRequiresScore(t *testing.T) {
	fx := newGradingFixture(t)
	submission := fx.seedSubmission()

	_, err := fx.svc.Grade(context.Background(), fx.instructorID, submission.ID, dto.GradeRequest{
		Action:   models.GradingActionGrade,
		Feedback: "missing score",
	})

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestResubmissionRequiredKeepsScore(t *testing.T) {
	fx := newGradingFixture(t)
	submission := fx.seedSubmission()
	submission.Score = intPtr(40)

	_, err := fx.svc.Grade(context.Background(), fx.instructorID, submission.ID, dto.GradeRequest{
		Action:   models.GradingActionResubmissionRequired,
		Feedback: "please redo section two",
	})
	require.NoError(t, err)

	stored := fx.submissions.submissions[submission.ID]
	require.Equal(t, models.SubmissionStatusResubmissionRequired, stored.Status)
	require.Equal(t, 40, *stored.Score)
	require.Equal(t, "please redo section two", *stored.Feedback)

	require.Len(t, fx.history.entries, 1)
	require.Nil(t, fx.history.entries[0].Score)
}

func TestGradeForeignSubmissionForbidden(t *testing.T) {
	fx := newGradingFixture(t)
	submission := fx.seedSubmission()

	_, err := fx.svc.Grade(context.Background(), uuid.New(), submission.ID, dto.GradeRequest{
		Action:   models.GradingActionGrade,
		Score:    intPtr(70),
		Feedback: "nope",
	})
	require.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestGradeUnknownSubmission(t *testing.T) {
	fx := newGradingFixture(t)

	_, err := fx.svc.Grade(context.Background(), fx.instructorID, uuid.New(), dto.GradeRequest{
		Action:   models.GradingActionGrade,
		Score:    intPtr(70),
		Feedback: "ghost",
	})
	require.ErrorIs(t, err, apperr.ErrSubmissionNotFound)
}

func TestBatchGradeDropsForeignIDs(t *testing.T) {
	fx := newGradingFixture(t)
	owned := fx.seedSubmission()

	foreignCourse := &models.Course{ID: uuid.New(), InstructorID: uuid.New()}
	foreignAssignment := &models.Assignment{ID: uuid.New(), CourseID: foreignCourse.ID, Course: foreignCourse}
	foreign := &models.Submission{
		ID:           uuid.New(),
		AssignmentID: foreignAssignment.ID,
		LearnerID:    uuid.New(),
		Status:       models.SubmissionStatusSubmitted,
		Assignment:   foreignAssignment,
	}
	fx.submissions.submissions[foreign.ID] = foreign

	result, err := fx.svc.BatchGrade(context.Background(), fx.instructorID, dto.BatchGradeRequest{
		SubmissionIDs: []uuid.UUID{owned.ID, foreign.ID},
		Score:         90,
		Feedback:      "well done",
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Updated)

	require.Equal(t, models.SubmissionStatusGraded, fx.submissions.submissions[owned.ID].Status)
	require.Equal(t, models.SubmissionStatusSubmitted, fx.submissions.submissions[foreign.ID].Status)
	require.Len(t, fx.history.entries, 1)
	require.Equal(t, owned.ID, fx.history.entries[0].SubmissionID)
}

func TestBatchGradeAllForeignForbidden(t *testing.T) {
	fx := newGradingFixture(t)
	submission := fx.seedSubmission()

	_, err := fx.svc.BatchGrade(context.Background(), uuid.New(), dto.BatchGradeRequest{
		SubmissionIDs: []uuid.UUID{submission.ID},
		Score:         90,
		Feedback:      "well done",
	})
	require.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestHistoryListsEntriesForOwnedSubmission(t *testing.T) {
	fx := newGradingFixture(t)
	submission := fx.seedSubmission()

	_, err := fx.svc.Grade(context.Background(), fx.instructorID, submission.ID, dto.GradeRequest{
		Action:   models.GradingActionGrade,
		Score:    intPtr(60),
		Feedback: "first pass",
	})
	require.NoError(t, err)

	_, err = fx.svc.Grade(context.Background(), fx.instructorID, submission.ID, dto.GradeRequest{
		Action:   models.GradingActionRegrade,
		Score:    intPtr(75),
		Feedback: "after appeal",
	})
	require.NoError(t, err)

	entries, err := fx.svc.History(context.Background(), fx.instructorID, submission.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, models.GradingActionGrade, entries[0].Action)
	require.Equal(t, 60, *entries[0].Score)
	require.Equal(t, "first pass", entries[0].Feedback)
	require.Equal(t, models.GradingActionRegrade, entries[1].Action)
	require.Equal(t, 75, *entries[1].Score)
	require.Equal(t, "after appeal", entries[1].Feedback)

	// The submission itself holds only the latest grade.
	graded := fx.submissions.submissions[submission.ID]
	require.Equal(t, models.SubmissionStatusGraded, graded.Status)
	require.Equal(t, 75, *graded.Score)
	require.Equal(t, "after appeal", *graded.Feedback)
}
