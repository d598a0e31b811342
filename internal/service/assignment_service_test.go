package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-go-api/internal/apperr"
	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/models"
)

func (f *fakeAssignmentRepo) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == uuid.Nil {
		assignment.ID = uuid.New()
	}
	stored := *assignment
	f.assignments[assignment.ID] = &stored
	return nil
}

type assignmentFixture struct {
	svc          AssignmentService
	assignments  *fakeAssignmentRepo
	course       *models.Course
	instructorID uuid.UUID
}

func newAssignmentFixture(t *testing.T) *assignmentFixture {
	t.Helper()

	instructorID := uuid.New()
	course := publishedCourse(nil)
	course.InstructorID = instructorID

	assignments := newFakeAssignmentRepo()
	assignments.courses[course.ID] = course
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewAssignmentService(assignments, newFakeCourseRepo(course), validate, testLogger())

	return &assignmentFixture{
		svc:          svc,
		assignments:  assignments,
		course:       course,
		instructorID: instructorID,
	}
}

func TestAssignmentCreateDefaults(t *testing.T) {
	fx := newAssignmentFixture(t)
	due := time.Date(2026, time.September, 1, 23, 59, 0, 0, time.UTC)

	result, err := fx.svc.Create(context.Background(), fx.instructorID, dto.AssignmentCreateRequest{
		CourseID: fx.course.ID,
		Title:    "Worksheet",
		DueDate:  due.Format(time.RFC3339),
	})
	require.NoError(t, err)
	require.Equal(t, models.AssignmentStatusDraft, result.Status)
	require.Equal(t, 100, result.MaxScore)
	require.True(t, result.DueDate.Equal(due))
}

func TestAssignmentCreateForeignCourseLooksMissing(t *testing.T) {
	fx := newAssignmentFixture(t)

	_, err := fx.svc.Create(context.Background(), uuid.New(), dto.AssignmentCreateRequest{
		CourseID: fx.course.ID,
		Title:    "Worksheet",
		DueDate:  time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})
	require.ErrorIs(t, err, apperr.ErrCourseNotFound)
}

func TestAssignmentCreateRejectsMalformedDueDate(t *testing.T) {
	fx := newAssignmentFixture(t)

	_, err := fx.svc.Create(context.Background(), fx.instructorID, dto.AssignmentCreateRequest{
		CourseID: fx.course.ID,
		Title:    "Worksheet",
		DueDate:  "next tuesday",
	})
	require.Error(t, err)
}

func TestAssignmentUpdatePartialFields(t *testing.T) {
	fx := newAssignmentFixture(t)
	due := time.Date(2026, time.September, 1, 23, 59, 0, 0, time.UTC)

	created, err := fx.svc.Create(context.Background(), fx.instructorID, dto.AssignmentCreateRequest{
		CourseID: fx.course.ID,
		Title:    "Worksheet",
		DueDate:  due.Format(time.RFC3339),
		Weight:   20,
	})
	require.NoError(t, err)

	allowLate := true
	updated, err := fx.svc.Update(context.Background(), fx.instructorID, created.ID, dto.AssignmentUpdateRequest{
		AllowLate: &allowLate,
	})
	require.NoError(t, err)
	require.True(t, updated.AllowLate)
	require.Equal(t, "Worksheet", updated.Title)
	require.Equal(t, 20, updated.Weight)
}

func TestAssignmentGetForeignLooksMissing(t *testing.T) {
	fx := newAssignmentFixture(t)

	created, err := fx.svc.Create(context.Background(), fx.instructorID, dto.AssignmentCreateRequest{
		CourseID: fx.course.ID,
		Title:    "Worksheet",
		DueDate:  time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})
	require.NoError(t, err)

	_, err = fx.svc.Get(context.Background(), uuid.New(), created.ID)
	require.ErrorIs(t, err, apperr.ErrAssignmentNotFound)
}

func TestAssignmentListByCourse(t *testing.T) {
	fx := newAssignmentFixture(t)
	base := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

	for i, title := range []string{"First", "Second"} {
		_, err := fx.svc.Create(context.Background(), fx.instructorID, dto.AssignmentCreateRequest{
			CourseID: fx.course.ID,
			Title:    title,
			DueDate:  base.Add(time.Duration(i) * 24 * time.Hour).Format(time.RFC3339),
		})
		require.NoError(t, err)
	}

	listed, err := fx.svc.ListByCourse(context.Background(), fx.instructorID, fx.course.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, "First", listed[0].Title)

	_, err = fx.svc.ListByCourse(context.Background(), uuid.New(), fx.course.ID)
	require.ErrorIs(t, err, apperr.ErrCourseNotFound)
}
