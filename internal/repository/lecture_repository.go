package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/digiboard/digiboard-api/internal/models"
)

const lectureColumns = "l.id, l.subject, l.teacher_id, l.classroom, l.day_of_week, l.start_time, l.end_time, l.lecture_type, l.semester, l.course, l.chapter, l.description, l.is_active, l.created_at, l.updated_at"

const lectureDetailColumns = lectureColumns + ", t.name AS teacher_name, t.email AS teacher_email, t.department AS teacher_department"

// Weekly views sort Monday..Sunday; the day column stores names, so ordering
// goes through a CASE expression.
const dayOrderCase = `CASE l.day_of_week
		WHEN 'Monday' THEN 1
		WHEN 'Tuesday' THEN 2
		WHEN 'Wednesday' THEN 3
		WHEN 'Thursday' THEN 4
		WHEN 'Friday' THEN 5
		WHEN 'Saturday' THEN 6
		WHEN 'Sunday' THEN 7
		ELSE 8 END`

// LectureRepository manages persistence for lectures. The teacher join is a
// LEFT JOIN throughout: a deleted teacher yields null teacher fields, never a
// missing lecture.
type LectureRepository struct {
	db *sqlx.DB
}

// NewLectureRepository constructs a LectureRepository.
func NewLectureRepository(db *sqlx.DB) *LectureRepository {
	return &LectureRepository{db: db}
}

// List returns lectures with teacher details plus total count, ordered by
// weekday then start time.
func (r *LectureRepository) List(ctx context.Context, filter models.LectureFilter) ([]models.LectureDetail, int, error) {
	base := "FROM lectures l LEFT JOIN teachers t ON t.id = l.teacher_id WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("l.teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.Classroom != "" {
		conditions = append(conditions, fmt.Sprintf("l.classroom = $%d", len(args)+1))
		args = append(args, filter.Classroom)
	}
	if filter.DayOfWeek != "" {
		conditions = append(conditions, fmt.Sprintf("l.day_of_week = $%d", len(args)+1))
		args = append(args, filter.DayOfWeek)
	}
	if filter.Semester != "" {
		conditions = append(conditions, fmt.Sprintf("l.semester = $%d", len(args)+1))
		args = append(args, filter.Semester)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("l.is_active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(l.subject) LIKE $%d OR LOWER(l.course) LIKE $%d OR LOWER(COALESCE(t.name, '')) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, search)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s, l.start_time ASC, l.id ASC LIMIT %d OFFSET %d",
		lectureDetailColumns, base, dayOrderCase, size, offset)
	var lectures []models.LectureDetail
	if err := r.db.SelectContext(ctx, &lectures, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list lectures: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count lectures: %w", err)
	}

	return lectures, total, nil
}

// FindByID fetches a lecture with teacher details.
func (r *LectureRepository) FindByID(ctx context.Context, id string) (*models.LectureDetail, error) {
	query := fmt.Sprintf("SELECT %s FROM lectures l LEFT JOIN teachers t ON t.id = l.teacher_id WHERE l.id = $1", lectureDetailColumns)
	var lecture models.LectureDetail
	if err := r.db.GetContext(ctx, &lecture, query, id); err != nil {
		return nil, err
	}
	return &lecture, nil
}

// ListActive fetches the full active lecture set without joins. This is the
// input the schedule core works over.
func (r *LectureRepository) ListActive(ctx context.Context) ([]models.Lecture, error) {
	query := fmt.Sprintf("SELECT %s FROM lectures l WHERE l.is_active = TRUE", lectureColumns)
	var lectures []models.Lecture
	if err := r.db.SelectContext(ctx, &lectures, query); err != nil {
		return nil, fmt.Errorf("list active lectures: %w", err)
	}
	return lectures, nil
}

// ListDetails returns lectures with teacher info, optionally restricted to
// active ones, ordered by weekday then start time.
func (r *LectureRepository) ListDetails(ctx context.Context, activeOnly bool) ([]models.LectureDetail, error) {
	base := fmt.Sprintf("SELECT %s FROM lectures l LEFT JOIN teachers t ON t.id = l.teacher_id", lectureDetailColumns)
	if activeOnly {
		base += " WHERE l.is_active = TRUE"
	}
	query := fmt.Sprintf("%s ORDER BY %s, l.start_time ASC, l.id ASC", base, dayOrderCase)
	var lectures []models.LectureDetail
	if err := r.db.SelectContext(ctx, &lectures, query); err != nil {
		return nil, fmt.Errorf("list lecture details: %w", err)
	}
	return lectures, nil
}

// Create inserts a new lecture record.
func (r *LectureRepository) Create(ctx context.Context, lecture *models.Lecture) error {
	if lecture.ID == "" {
		lecture.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if lecture.CreatedAt.IsZero() {
		lecture.CreatedAt = now
	}
	lecture.UpdatedAt = now

	const query = `INSERT INTO lectures (id, subject, teacher_id, classroom, day_of_week, start_time, end_time, lecture_type, semester, course, chapter, description, is_active, created_at, updated_at)
		VALUES (:id, :subject, :teacher_id, :classroom, :day_of_week, :start_time, :end_time, :lecture_type, :semester, :course, :chapter, :description, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, lecture); err != nil {
		return fmt.Errorf("create lecture: %w", err)
	}
	return nil
}

// Update modifies an existing lecture record.
func (r *LectureRepository) Update(ctx context.Context, lecture *models.Lecture) error {
	lecture.UpdatedAt = time.Now().UTC()
	const query = `UPDATE lectures SET subject = :subject, teacher_id = :teacher_id, classroom = :classroom, day_of_week = :day_of_week, start_time = :start_time, end_time = :end_time, lecture_type = :lecture_type, semester = :semester, course = :course, chapter = :chapter, description = :description, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, lecture); err != nil {
		return fmt.Errorf("update lecture: %w", err)
	}
	return nil
}

// SetActive flips the is_active flag for one lecture.
func (r *LectureRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE lectures SET is_active = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, active, time.Now().UTC()); err != nil {
		return fmt.Errorf("set lecture active: %w", err)
	}
	return nil
}

// BulkSetActive flips the is_active flag for many lectures at once.
func (r *LectureRepository) BulkSetActive(ctx context.Context, ids []string, active bool) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	const query = `UPDATE lectures SET is_active = $2, updated_at = $3 WHERE id = ANY($1)`
	result, err := r.db.ExecContext(ctx, query, pq.Array(ids), active, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("bulk set lecture active: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(affected), nil
}

// Delete removes a lecture row.
func (r *LectureRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM lectures WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete lecture: %w", err)
	}
	return nil
}

// BulkDelete removes many lecture rows at once and reports how many went.
func (r *LectureRepository) BulkDelete(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result, err := r.db.ExecContext(ctx, "DELETE FROM lectures WHERE id = ANY($1)", pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("bulk delete lectures: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(affected), nil
}

// Counts returns total and active lecture counts for the dashboard.
func (r *LectureRepository) Counts(ctx context.Context) (total int, active int, err error) {
	const query = `SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active) FROM lectures`
	row := r.db.QueryRowxContext(ctx, query)
	if err := row.Scan(&total, &active); err != nil {
		return 0, 0, fmt.Errorf("count lectures: %w", err)
	}
	return total, active, nil
}
