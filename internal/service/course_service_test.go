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
)

func (f *fakeCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	stored := *course
	f.courses[course.ID] = &stored
	return nil
}

func (f *fakeCourseRepo) Update(ctx context.Context, course *models.Course) error {
	stored := *course
	f.courses[course.ID] = &stored
	return nil
}

func (f *fakeCourseRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string, publishedAt, archivedAt *time.Time) error {
	course, ok := f.courses[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	course.Status = status
	if publishedAt != nil {
		course.PublishedAt = publishedAt
	}
	if archivedAt != nil {
		course.ArchivedAt = archivedAt
	}
	return nil
}

func newCourseService(courses *fakeCourseRepo) CourseService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewCourseService(courses, validate, testLogger())
}

func TestCourseCreateStartsAsDraft(t *testing.T) {
	courses := newFakeCourseRepo()
	svc := newCourseService(courses)
	instructorID := uuid.New()

	result, err := svc.Create(context.Background(), instructorID, dto.CourseCreateRequest{
		Title:   "Intro to Go",
		Summary: "Learn the basics",
	})
	require.NoError(t, err)
	require.Equal(t, models.CourseStatusDraft, result.Status)

	stored := courses.courses[result.ID]
	require.Equal(t, instructorID, stored.InstructorID)
}

func TestCourseCreateSanitizesRichText(t *testing.T) {
	courses := newFakeCourseRepo()
	svc := newCourseService(courses)

	result, err := svc.Create(context.Background(), uuid.New(), dto.CourseCreateRequest{
		Title:       "Intro to Go",
		Description: `<p>Hands on</p><script>alert("x")</script>`,
	})
	require.NoError(t, err)

	stored := courses.courses[result.ID]
	require.Equal(t, "<p>Hands on</p>", stored.Description)
}

func TestCourseUpdateForeignCourseLooksMissing(t *testing.T) {
	course := publishedCourse(nil)
	svc := newCourseService(newFakeCourseRepo(course))

	title := "Renamed"
	_, err := svc.Update(context.Background(), uuid.New(), course.ID, dto.CourseUpdateRequest{Title: &title})
	require.ErrorIs(t, err, apperr.ErrCourseNotFound)
}

func TestCourseStatusTransitions(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{models.CourseStatusDraft, models.CourseStatusPublished, true},
		{models.CourseStatusPublished, models.CourseStatusArchived, true},
		{models.CourseStatusArchived, models.CourseStatusPublished, true},
		{models.CourseStatusDraft, models.CourseStatusArchived, false},
		{models.CourseStatusPublished, models.CourseStatusDraft, false},
		{models.CourseStatusArchived, models.CourseStatusDraft, false},
	}

	for _, tc := range cases {
		t.Run(tc.from+"_to_"+tc.to, func(t *testing.T) {
			course := publishedCourse(nil)
			course.Status = tc.from
			courses := newFakeCourseRepo(course)
			svc := newCourseService(courses)

			result, err := svc.UpdateStatus(context.Background(), course.InstructorID, course.ID, dto.CourseStatusUpdateRequest{Status: tc.to})
			if !tc.allowed {
				require.ErrorIs(t, err, apperr.ErrStatusUpdateFailed)
				require.Equal(t, tc.from, courses.courses[course.ID].Status)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.to, result.Status)
			require.Equal(t, tc.to, courses.courses[course.ID].Status)
		})
	}
}

func TestCoursePublishSetsTimestamp(t *testing.T) {
	course := publishedCourse(nil)
	course.Status = models.CourseStatusDraft
	course.PublishedAt = nil
	courses := newFakeCourseRepo(course)
	svc := newCourseService(courses)

	_, err := svc.UpdateStatus(context.Background(), course.InstructorID, course.ID, dto.CourseStatusUpdateRequest{Status: models.CourseStatusPublished})
	require.NoError(t, err)
	require.NotNil(t, courses.courses[course.ID].PublishedAt)
}

func TestCourseListOwned(t *testing.T) {
	instructorID := uuid.New()
	mine := publishedCourse(nil)
	mine.InstructorID = instructorID
	other := publishedCourse(nil)
	svc := newCourseService(newFakeCourseRepo(mine, other))

	items, err := svc.ListOwned(context.Background(), instructorID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, mine.ID, items[0].ID)
}
