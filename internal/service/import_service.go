package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/digiboard/digiboard-api/internal/models"
	appErrors "github.com/digiboard/digiboard-api/pkg/errors"
	"github.com/digiboard/digiboard-api/pkg/export"
)

type importTeacherRepository interface {
	FindByName(ctx context.Context, name string) (*models.Teacher, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, teacher *models.Teacher) error
}

type lectureCreator interface {
	Create(ctx context.Context, req SaveLectureRequest) (*SaveLectureResult, error)
}

// ImportRowError reports a single rejected CSV row. Row numbers are
// one-based and count the header.
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult summarises a bulk import run. Errors is truncated to the
// configured cap so a completely broken file cannot balloon the response.
type ImportResult struct {
	Total    int              `json:"total"`
	Imported int              `json:"imported"`
	Failed   int              `json:"failed"`
	Errors   []ImportRowError `json:"errors"`
}

// Defaults applied to lecture rows with missing optional columns.
const (
	importDefaultStartTime = "09:00"
	importDefaultEndTime   = "10:00"
	importDefaultDay       = "Monday"
	importDefaultSemester  = "XII"
)

// ImportService ingests teacher and lecture CSV files. Rows are processed
// independently; a bad row is recorded and skipped, it never aborts the run.
type ImportService struct {
	teachers        importTeacherRepository
	lectures        lectureCreator
	maxReportedRows int
	logger          *zap.Logger
}

// NewImportService constructs an ImportService.
func NewImportService(teachers importTeacherRepository, lectures lectureCreator, maxReportedRows int, logger *zap.Logger) *ImportService {
	if maxReportedRows <= 0 {
		maxReportedRows = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{teachers: teachers, lectures: lectures, maxReportedRows: maxReportedRows, logger: logger}
}

// ImportTeachers reads teacher rows from CSV. Rows whose name already exists
// are skipped as failures rather than updated.
func (s *ImportService) ImportTeachers(ctx context.Context, r io.Reader) (*ImportResult, error) {
	rows, header, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for i, row := range rows {
		result.Total++
		rowNum := i + 2 // one-based, after the header
		if err := s.importTeacherRow(ctx, header, row); err != nil {
			s.recordFailure(result, rowNum, err)
			continue
		}
		result.Imported++
	}

	s.logger.Info("teacher import finished",
		zap.Int("total", result.Total),
		zap.Int("imported", result.Imported),
		zap.Int("failed", result.Failed))
	return result, nil
}

// ImportLectures reads lecture rows from CSV. Teachers are resolved by name;
// rows referencing unknown teachers fail.
func (s *ImportService) ImportLectures(ctx context.Context, r io.Reader) (*ImportResult, error) {
	rows, header, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for i, row := range rows {
		result.Total++
		rowNum := i + 2
		if err := s.importLectureRow(ctx, header, row); err != nil {
			s.recordFailure(result, rowNum, err)
			continue
		}
		result.Imported++
	}

	s.logger.Info("lecture import finished",
		zap.Int("total", result.Total),
		zap.Int("imported", result.Imported),
		zap.Int("failed", result.Failed))
	return result, nil
}

func (s *ImportService) importTeacherRow(ctx context.Context, header map[string]int, row []string) error {
	name := cell(header, row, "name")
	email := cell(header, row, "email")
	department := cell(header, row, "department")
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if department == "" {
		return fmt.Errorf("department is required")
	}

	exists, err := s.teachers.ExistsByName(ctx, name)
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}
	if exists {
		return fmt.Errorf("teacher %q already exists", name)
	}
	taken, err := s.teachers.ExistsByEmail(ctx, email, "")
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}
	if taken {
		return fmt.Errorf("email %q is already in use", email)
	}

	teacher := &models.Teacher{
		Name:           name,
		Email:          email,
		Department:     department,
		Subjects:       splitList(cell(header, row, "subjects")),
		Qualifications: splitList(cell(header, row, "qualifications")),
	}
	if phone := cell(header, row, "phone"); phone != "" {
		teacher.Phone = &phone
	}
	if office := cell(header, row, "office"); office != "" {
		teacher.Office = &office
	}
	if raw := cell(header, row, "experience"); raw != "" {
		experience, err := strconv.Atoi(raw)
		if err != nil || experience < 0 {
			return fmt.Errorf("invalid experience %q", raw)
		}
		teacher.Experience = experience
	}

	return s.teachers.Create(ctx, teacher)
}

func (s *ImportService) importLectureRow(ctx context.Context, header map[string]int, row []string) error {
	subject := cell(header, row, "subject")
	teacherName := cell(header, row, "teacher_name")
	classroom := cell(header, row, "classroom")
	if subject == "" {
		return fmt.Errorf("subject is required")
	}
	if teacherName == "" {
		return fmt.Errorf("teacher_name is required")
	}
	if classroom == "" {
		return fmt.Errorf("classroom is required")
	}

	teacher, err := s.teachers.FindByName(ctx, teacherName)
	if err != nil {
		return fmt.Errorf("teacher %q not found", teacherName)
	}

	req := SaveLectureRequest{
		Subject:     subject,
		TeacherID:   teacher.ID,
		Classroom:   classroom,
		DayOfWeek:   valueOrDefault(cell(header, row, "day_of_week"), importDefaultDay),
		StartTime:   valueOrDefault(cell(header, row, "start_time"), importDefaultStartTime),
		EndTime:     valueOrDefault(cell(header, row, "end_time"), importDefaultEndTime),
		LectureType: cell(header, row, "lecture_type"),
		Semester:    valueOrDefault(cell(header, row, "semester"), importDefaultSemester),
		Course:      cell(header, row, "course"),
	}
	if chapter := cell(header, row, "chapter"); chapter != "" {
		req.Chapter = &chapter
	}
	if description := cell(header, row, "description"); description != "" {
		req.Description = &description
	}

	if _, err := s.lectures.Create(ctx, req); err != nil {
		return fmt.Errorf("%s", appErrors.FromError(err).Message)
	}
	return nil
}

func (s *ImportService) recordFailure(result *ImportResult, rowNum int, err error) {
	result.Failed++
	if len(result.Errors) < s.maxReportedRows {
		result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Message: err.Error()})
	}
}

// TeacherTemplate renders a CSV skeleton with one example row.
func (s *ImportService) TeacherTemplate() ([]byte, error) {
	exporter := export.NewCSVExporter()
	return exporter.Render(export.Dataset{
		Headers: []string{"name", "email", "department", "phone", "office", "subjects", "experience", "qualifications"},
		Rows: []map[string]string{{
			"name":           "Jane Doe",
			"email":          "jane.doe@school.edu",
			"department":     "Science",
			"phone":          "+62-812-0000-0000",
			"office":         "B-204",
			"subjects":       "Physics;Mathematics",
			"experience":     "8",
			"qualifications": "M.Sc. Physics",
		}},
	})
}

// LectureTemplate renders a CSV skeleton with one example row.
func (s *ImportService) LectureTemplate() ([]byte, error) {
	exporter := export.NewCSVExporter()
	return exporter.Render(export.Dataset{
		Headers: []string{"subject", "teacher_name", "classroom", "day_of_week", "start_time", "end_time", "lecture_type", "semester", "course", "chapter", "description"},
		Rows: []map[string]string{{
			"subject":      "Physics",
			"teacher_name": "Jane Doe",
			"classroom":    "A-101",
			"day_of_week":  "Monday",
			"start_time":   "09:00",
			"end_time":     "10:30",
			"lecture_type": "Lecture",
			"semester":     "XII",
			"course":       "Physics",
			"chapter":      "Kinematics",
			"description":  "Introductory session",
		}},
	})
}

// readCSV pulls in the whole file and indexes the header row. Header names
// are matched case-insensitively with surrounding whitespace ignored.
func readCSV(r io.Reader) ([][]string, map[string]int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "malformed csv file")
	}
	if len(records) == 0 {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "csv file is empty")
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return records[1:], header, nil
}

func cell(header map[string]int, row []string, name string) string {
	idx, ok := header[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func valueOrDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ";")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
