package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/digiboard/digiboard-api/internal/models"
	"github.com/digiboard/digiboard-api/internal/schedule"
	"github.com/digiboard/digiboard-api/pkg/config"
	appErrors "github.com/digiboard/digiboard-api/pkg/errors"
)

type lectureRepository interface {
	List(ctx context.Context, filter models.LectureFilter) ([]models.LectureDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.LectureDetail, error)
	ListActive(ctx context.Context) ([]models.Lecture, error)
	Create(ctx context.Context, lecture *models.Lecture) error
	Update(ctx context.Context, lecture *models.Lecture) error
	SetActive(ctx context.Context, id string, active bool) error
	BulkSetActive(ctx context.Context, ids []string, active bool) (int, error)
	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, ids []string) (int, error)
}

// SaveLectureRequest describes payload for creating or updating a lecture.
// Times accept either "HH:MM" or a full date-time string; only the
// time-of-day component is kept.
type SaveLectureRequest struct {
	Subject     string  `json:"subject" validate:"required"`
	TeacherID   string  `json:"teacher_id" validate:"required"`
	Classroom   string  `json:"classroom" validate:"required"`
	DayOfWeek   string  `json:"day_of_week" validate:"required"`
	StartTime   string  `json:"start_time" validate:"required"`
	EndTime     string  `json:"end_time" validate:"required"`
	LectureType string  `json:"lecture_type"`
	Semester    string  `json:"semester" validate:"required"`
	Course      string  `json:"course"`
	Chapter     *string `json:"chapter"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// ConflictCheckRequest is a dry-run conflict probe for a candidate slot.
type ConflictCheckRequest struct {
	LectureID string `json:"lecture_id"`
	TeacherID string `json:"teacher_id" validate:"required"`
	Classroom string `json:"classroom" validate:"required"`
	DayOfWeek string `json:"day_of_week" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// BulkLectureStatusRequest toggles many lectures at once.
type BulkLectureStatusRequest struct {
	LectureIDs []string `json:"lecture_ids" validate:"required,min=1,dive,required"`
	Action     string   `json:"action" validate:"required,oneof=activate deactivate"`
}

// BulkLectureDeleteRequest removes many lectures at once.
type BulkLectureDeleteRequest struct {
	LectureIDs []string `json:"lecture_ids" validate:"required,min=1,dive,required"`
}

// SaveLectureResult carries the saved lecture plus any conflicts found. Under
// the warn policy the save succeeds and Conflicts is informational; under the
// block policy a conflicting save never produces a result.
type SaveLectureResult struct {
	Lecture   *models.Lecture `json:"lecture"`
	Conflicts schedule.Report `json:"conflicts"`
}

// LectureService coordinates lecture CRUD around the schedule core.
//
// Conflict checking and the subsequent write are two separate statements with
// no transaction or exclusion constraint between them, exactly like the
// system this replaces: two concurrent saves can both pass the check against
// a stale read and both commit. Accepted limitation; see DESIGN.md.
type LectureService struct {
	repo           lectureRepository
	teachers       teacherRepository
	cache          *CacheService
	validator      *validator.Validate
	logger         *zap.Logger
	conflictPolicy string
}

// NewLectureService instantiates LectureService.
func NewLectureService(repo lectureRepository, teachers teacherRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger, conflictPolicy string) *LectureService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if conflictPolicy != config.ConflictPolicyWarn {
		conflictPolicy = config.ConflictPolicyBlock
	}
	return &LectureService{
		repo:           repo,
		teachers:       teachers,
		cache:          cache,
		validator:      validate,
		logger:         logger,
		conflictPolicy: conflictPolicy,
	}
}

// List returns lectures with pagination metadata.
func (s *LectureService) List(ctx context.Context, filter models.LectureFilter) ([]models.LectureDetail, *models.Pagination, error) {
	lectures, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lectures")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 50
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return lectures, pagination, nil
}

// Get returns one lecture with teacher details.
func (s *LectureService) Get(ctx context.Context, id string) (*models.LectureDetail, error) {
	lecture, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lecture not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecture")
	}
	return lecture, nil
}

// Create validates, conflict-checks, and inserts a new lecture.
func (s *LectureService) Create(ctx context.Context, req SaveLectureRequest) (*SaveLectureResult, error) {
	lecture, err := s.buildLecture(ctx, "", req)
	if err != nil {
		return nil, err
	}

	report, err := s.detectConflicts(ctx, lecture)
	if err != nil {
		return nil, err
	}
	if report.HasConflicts() && s.conflictPolicy == config.ConflictPolicyBlock {
		return nil, s.conflictError(report)
	}

	if err := s.repo.Create(ctx, lecture); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lecture")
	}
	if report.HasConflicts() {
		s.logger.Warn("lecture saved with conflicts",
			zap.String("lecture_id", lecture.ID),
			zap.Int("conflicts", report.Total()))
	}
	s.invalidateDashboard(ctx)
	return &SaveLectureResult{Lecture: lecture, Conflicts: report}, nil
}

// Update validates, conflict-checks, and persists changes to a lecture. The
// lecture's own row is excluded from its comparison set.
func (s *LectureService) Update(ctx context.Context, id string, req SaveLectureRequest) (*SaveLectureResult, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lecture not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecture")
	}

	lecture, err := s.buildLecture(ctx, existing.ID, req)
	if err != nil {
		return nil, err
	}
	lecture.CreatedAt = existing.CreatedAt

	report, err := s.detectConflicts(ctx, lecture)
	if err != nil {
		return nil, err
	}
	if report.HasConflicts() && s.conflictPolicy == config.ConflictPolicyBlock {
		return nil, s.conflictError(report)
	}

	if err := s.repo.Update(ctx, lecture); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update lecture")
	}
	s.invalidateDashboard(ctx)
	return &SaveLectureResult{Lecture: lecture, Conflicts: report}, nil
}

// CheckConflicts runs the detector for a candidate slot without saving
// anything. Conflicts are reported as data, never as an error.
func (s *LectureService) CheckConflicts(ctx context.Context, req ConflictCheckRequest) (*schedule.Report, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid conflict check payload")
	}
	day := canonicalDay(req.DayOfWeek)
	if !models.IsValidDayOfWeek(day) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day of week %q", req.DayOfWeek))
	}
	start, end, err := normalizeRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	active, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load active lectures")
	}

	report := schedule.FindConflicts(schedule.Candidate{
		ID:        req.LectureID,
		TeacherID: req.TeacherID,
		Classroom: req.Classroom,
		DayOfWeek: day,
		Start:     start,
		End:       end,
	}, active)
	return &report, nil
}

// SetActive toggles a single lecture's active flag.
func (s *LectureService) SetActive(ctx context.Context, id string, active bool) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "lecture not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecture")
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to toggle lecture")
	}
	s.invalidateDashboard(ctx)
	return nil
}

// BulkSetStatus activates or deactivates a batch of lectures.
func (s *LectureService) BulkSetStatus(ctx context.Context, req BulkLectureStatusRequest) (int, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk status payload")
	}
	active := req.Action == "activate"
	affected, err := s.repo.BulkSetActive(ctx, req.LectureIDs, active)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to toggle lectures")
	}
	s.invalidateDashboard(ctx)
	return affected, nil
}

// Delete removes a lecture permanently.
func (s *LectureService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "lecture not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecture")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete lecture")
	}
	s.invalidateDashboard(ctx)
	return nil
}

// BulkDelete removes a batch of lectures and reports how many went.
func (s *LectureService) BulkDelete(ctx context.Context, req BulkLectureDeleteRequest) (int, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk delete payload")
	}
	affected, err := s.repo.BulkDelete(ctx, req.LectureIDs)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete lectures")
	}
	s.invalidateDashboard(ctx)
	return affected, nil
}

// ConflictPolicy reports the configured save policy, for response metadata.
func (s *LectureService) ConflictPolicy() string {
	return s.conflictPolicy
}

func (s *LectureService) buildLecture(ctx context.Context, id string, req SaveLectureRequest) (*models.Lecture, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lecture payload")
	}

	day := canonicalDay(req.DayOfWeek)
	if !models.IsValidDayOfWeek(day) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day of week %q", req.DayOfWeek))
	}

	lectureType := strings.TrimSpace(req.LectureType)
	if lectureType == "" {
		lectureType = models.LectureTypeLecture
	}
	if !models.IsValidLectureType(lectureType) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown lecture type %q", req.LectureType))
	}

	start, end, err := normalizeRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	if _, err := s.teachers.FindByID(ctx, req.TeacherID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrValidation, "teacher does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify teacher")
	}

	course := strings.TrimSpace(req.Course)
	if course == "" {
		course = strings.TrimSpace(req.Subject)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	return &models.Lecture{
		ID:          id,
		Subject:     strings.TrimSpace(req.Subject),
		TeacherID:   req.TeacherID,
		Classroom:   strings.TrimSpace(req.Classroom),
		DayOfWeek:   day,
		StartTime:   start.Anchor(),
		EndTime:     end.Anchor(),
		LectureType: lectureType,
		Semester:    strings.TrimSpace(req.Semester),
		Course:      course,
		Chapter:     normalizeOptional(req.Chapter),
		Description: normalizeOptional(req.Description),
		IsActive:    isActive,
	}, nil
}

func (s *LectureService) detectConflicts(ctx context.Context, lecture *models.Lecture) (schedule.Report, error) {
	active, err := s.repo.ListActive(ctx)
	if err != nil {
		return schedule.Report{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load active lectures")
	}
	return schedule.FindConflicts(schedule.Candidate{
		ID:        lecture.ID,
		TeacherID: lecture.TeacherID,
		Classroom: lecture.Classroom,
		DayOfWeek: lecture.DayOfWeek,
		Start:     schedule.FromInstant(lecture.StartTime),
		End:       schedule.FromInstant(lecture.EndTime),
	}, active), nil
}

func (s *LectureService) conflictError(report schedule.Report) error {
	msg := fmt.Sprintf("lecture overlaps %d existing lecture(s)", report.Total())
	return appErrors.Wrap(&conflictDetails{report: report}, appErrors.ErrScheduleConflict.Code, appErrors.ErrScheduleConflict.Status, msg)
}

// conflictDetails lets handlers recover the full report from a blocked save.
type conflictDetails struct {
	report schedule.Report
}

func (e *conflictDetails) Error() string {
	return fmt.Sprintf("%d teacher conflict(s), %d classroom conflict(s)", len(e.report.TeacherConflicts), len(e.report.ClassroomConflicts))
}

// ConflictReportFromError extracts the conflict report attached to a blocked
// save error, if any.
func ConflictReportFromError(err error) (schedule.Report, bool) {
	var details *conflictDetails
	if errors.As(err, &details) {
		return details.report, true
	}
	return schedule.Report{}, false
}

func (s *LectureService) invalidateDashboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "dashboard:*"); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

// canonicalDay normalises case so "monday" and "MONDAY" match the enum.
func canonicalDay(day string) string {
	day = strings.TrimSpace(day)
	if day == "" {
		return day
	}
	return strings.ToUpper(day[:1]) + strings.ToLower(day[1:])
}

// normalizeRange parses both endpoints and enforces end strictly after start.
// Rejected ranges never reach the conflict detector.
func normalizeRange(rawStart, rawEnd string) (schedule.TimeOfDay, schedule.TimeOfDay, error) {
	start, err := schedule.ParseTimeOfDay(rawStart)
	if err != nil {
		return schedule.TimeOfDay{}, schedule.TimeOfDay{}, appErrors.Wrap(err, appErrors.ErrInvalidTimeFormat.Code, appErrors.ErrInvalidTimeFormat.Status, fmt.Sprintf("invalid start time %q", rawStart))
	}
	end, err := schedule.ParseTimeOfDay(rawEnd)
	if err != nil {
		return schedule.TimeOfDay{}, schedule.TimeOfDay{}, appErrors.Wrap(err, appErrors.ErrInvalidTimeFormat.Code, appErrors.ErrInvalidTimeFormat.Status, fmt.Sprintf("invalid end time %q", rawEnd))
	}
	if !end.After(start) {
		return schedule.TimeOfDay{}, schedule.TimeOfDay{}, appErrors.Clone(appErrors.ErrValidation, "end time must be after start time")
	}
	return start, end, nil
}
