package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/digiboard/digiboard-api/internal/models"
	"github.com/digiboard/digiboard-api/internal/schedule"
	appErrors "github.com/digiboard/digiboard-api/pkg/errors"
	"github.com/digiboard/digiboard-api/pkg/export"
)

// Export formats for schedule downloads.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type scheduleLectureRepository interface {
	ListDetails(ctx context.Context, activeOnly bool) ([]models.LectureDetail, error)
}

// ExportResult is a rendered schedule document ready to stream.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ScheduleService produces timetable views: the full week grouped by day,
// today's lineup, and the next upcoming lecture. The clock is injectable so
// "today" and "next" are testable.
type ScheduleService struct {
	repo   scheduleLectureRepository
	logger *zap.Logger
	now    func() time.Time

	csv *export.CSVExporter
	pdf *export.PDFExporter
}

// NewScheduleService constructs a ScheduleService using the real clock.
func NewScheduleService(repo scheduleLectureRepository, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
	}
}

// WithClock overrides the service clock. Intended for tests.
func (s *ScheduleService) WithClock(now func() time.Time) *ScheduleService {
	s.now = now
	return s
}

// Week returns the active timetable grouped by weekday. Every day key is
// present even when empty, so clients can render a full grid without
// special-casing missing days.
func (s *ScheduleService) Week(ctx context.Context) (*models.WeeklySchedule, error) {
	details, err := s.repo.ListDetails(ctx, true)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load weekly schedule")
	}

	days := make(map[string][]models.LectureDetail, len(models.DaysOfWeek))
	for _, day := range models.DaysOfWeek {
		days[day] = []models.LectureDetail{}
	}
	for _, detail := range details {
		days[detail.DayOfWeek] = append(days[detail.DayOfWeek], detail)
	}

	return &models.WeeklySchedule{Days: days}, nil
}

// Today returns active lectures scheduled for the current weekday, in start
// time order.
func (s *ScheduleService) Today(ctx context.Context) ([]models.LectureDetail, error) {
	details, err := s.repo.ListDetails(ctx, true)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load today's schedule")
	}

	today := s.now().Weekday().String()
	result := make([]models.LectureDetail, 0)
	for _, detail := range details {
		if detail.DayOfWeek == today {
			result = append(result, detail)
		}
	}
	return result, nil
}

// Next resolves the soonest upcoming lecture relative to the current moment.
// It returns nil without error when no active lecture exists.
func (s *ScheduleService) Next(ctx context.Context) (*models.LectureDetail, error) {
	details, err := s.repo.ListDetails(ctx, true)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	return s.resolveNext(details), nil
}

// resolveNext runs the pure resolver over the joined rows and maps the winner
// back to its detail record.
func (s *ScheduleService) resolveNext(details []models.LectureDetail) *models.LectureDetail {
	lectures := make([]models.Lecture, 0, len(details))
	for _, detail := range details {
		lectures = append(lectures, detail.Lecture)
	}

	now := s.now()
	winner := schedule.NextOccurrence(schedule.Instant{
		DayOfWeek: now.Weekday().String(),
		Time:      schedule.TimeOfDay{Hour: now.Hour(), Minute: now.Minute()},
	}, lectures)
	if winner == nil {
		return nil
	}

	for i := range details {
		if details[i].ID == winner.ID {
			return &details[i]
		}
	}
	return nil
}

// Export renders the active weekly schedule as CSV or PDF.
func (s *ScheduleService) Export(ctx context.Context, format string) (*ExportResult, error) {
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	details, err := s.repo.ListDetails(ctx, true)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule for export")
	}

	dataset := scheduleDataset(details)
	stamp := s.now().Format("2006-01-02")

	switch format {
	case ExportFormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("schedule-%s.csv", stamp),
		}, nil
	default:
		content, err := s.pdf.Render(dataset, "Weekly Schedule")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("schedule-%s.pdf", stamp),
		}, nil
	}
}

func scheduleDataset(details []models.LectureDetail) export.Dataset {
	headers := []string{"Day", "Start", "End", "Subject", "Teacher", "Classroom", "Type", "Semester"}
	rows := make([]map[string]string, 0, len(details))
	for _, d := range details {
		teacher := ""
		if d.TeacherName != nil {
			teacher = *d.TeacherName
		}
		rows = append(rows, map[string]string{
			"Day":       d.DayOfWeek,
			"Start":     schedule.FromInstant(d.StartTime).String(),
			"End":       schedule.FromInstant(d.EndTime).String(),
			"Subject":   d.Subject,
			"Teacher":   teacher,
			"Classroom": d.Classroom,
			"Type":      d.LectureType,
			"Semester":  d.Semester,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
