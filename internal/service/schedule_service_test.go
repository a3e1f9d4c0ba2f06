package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digiboard/digiboard-api/internal/models"
	appErrors "github.com/digiboard/digiboard-api/pkg/errors"
)

type mockScheduleRepo struct {
	details []models.LectureDetail
}

func (m *mockScheduleRepo) ListDetails(ctx context.Context, activeOnly bool) ([]models.LectureDetail, error) {
	if !activeOnly {
		return m.details, nil
	}
	var active []models.LectureDetail
	for _, d := range m.details {
		if d.IsActive {
			active = append(active, d)
		}
	}
	return active, nil
}

func detailAt(id, day, start, end string) models.LectureDetail {
	name := "Dr. Stone"
	return models.LectureDetail{
		Lecture:     seedLecture(id, "t1", "A-101", day, start, end, true),
		TeacherName: &name,
	}
}

// clockAt fixes the service clock to a given weekday and HH:MM.
func clockAt(day time.Weekday, clock string) func() time.Time {
	// 2023-11-06 was a Monday.
	base := time.Date(2023, time.November, 6, 0, 0, 0, 0, time.UTC)
	offset := (int(day) - int(time.Monday) + 7) % 7
	parsed, _ := time.Parse("15:04", clock)
	at := base.AddDate(0, 0, offset).Add(time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute)
	return func() time.Time { return at }
}

func TestScheduleServiceWeekIncludesEveryDay(t *testing.T) {
	repo := &mockScheduleRepo{details: []models.LectureDetail{
		detailAt("l1", "Monday", "09:00", "10:00"),
		detailAt("l2", "Wednesday", "11:00", "12:00"),
	}}
	svc := NewScheduleService(repo, nil)

	week, err := svc.Week(context.Background())
	require.NoError(t, err)
	require.Len(t, week.Days, 7)
	for _, day := range models.DaysOfWeek {
		_, ok := week.Days[day]
		assert.True(t, ok, "missing day %s", day)
	}
	assert.Len(t, week.Days["Monday"], 1)
	assert.Len(t, week.Days["Wednesday"], 1)
	assert.Empty(t, week.Days["Sunday"])
}

func TestScheduleServiceToday(t *testing.T) {
	repo := &mockScheduleRepo{details: []models.LectureDetail{
		detailAt("l1", "Monday", "09:00", "10:00"),
		detailAt("l2", "Tuesday", "09:00", "10:00"),
	}}
	svc := NewScheduleService(repo, nil).WithClock(clockAt(time.Tuesday, "08:00"))

	today, err := svc.Today(context.Background())
	require.NoError(t, err)
	require.Len(t, today, 1)
	assert.Equal(t, "l2", today[0].ID)
}

func TestScheduleServiceNextLaterToday(t *testing.T) {
	repo := &mockScheduleRepo{details: []models.LectureDetail{
		detailAt("l1", "Monday", "09:00", "10:00"),
		detailAt("l2", "Monday", "14:00", "15:00"),
	}}
	svc := NewScheduleService(repo, nil).WithClock(clockAt(time.Monday, "10:30"))

	next, err := svc.Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "l2", next.ID)
	require.NotNil(t, next.TeacherName)
	assert.Equal(t, "Dr. Stone", *next.TeacherName)
}

func TestScheduleServiceNextWrapsWeek(t *testing.T) {
	repo := &mockScheduleRepo{details: []models.LectureDetail{
		detailAt("l1", "Tuesday", "09:00", "10:00"),
	}}
	svc := NewScheduleService(repo, nil).WithClock(clockAt(time.Friday, "18:00"))

	next, err := svc.Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "l1", next.ID)
}

func TestScheduleServiceNextEmpty(t *testing.T) {
	svc := NewScheduleService(&mockScheduleRepo{}, nil).WithClock(clockAt(time.Monday, "10:00"))

	next, err := svc.Next(context.Background())
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestScheduleServiceExportCSV(t *testing.T) {
	repo := &mockScheduleRepo{details: []models.LectureDetail{
		detailAt("l1", "Monday", "09:00", "10:00"),
	}}
	svc := NewScheduleService(repo, nil).WithClock(clockAt(time.Monday, "10:00"))

	result, err := svc.Export(context.Background(), ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Contains(t, result.Filename, ".csv")
	assert.True(t, bytes.Contains(result.Content, []byte("Physics")))
	assert.True(t, bytes.Contains(result.Content, []byte("09:00")))
}

func TestScheduleServiceExportPDF(t *testing.T) {
	repo := &mockScheduleRepo{details: []models.LectureDetail{
		detailAt("l1", "Monday", "09:00", "10:00"),
	}}
	svc := NewScheduleService(repo, nil).WithClock(clockAt(time.Monday, "10:00"))

	result, err := svc.Export(context.Background(), ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, bytes.HasPrefix(result.Content, []byte("%PDF")))
}

func TestScheduleServiceExportRejectsUnknownFormat(t *testing.T) {
	svc := NewScheduleService(&mockScheduleRepo{}, nil)

	_, err := svc.Export(context.Background(), "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
