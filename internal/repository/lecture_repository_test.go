package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digiboard/digiboard-api/internal/models"
)

func lectureDetailRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "subject", "teacher_id", "classroom", "day_of_week", "start_time", "end_time",
		"lecture_type", "semester", "course", "chapter", "description", "is_active", "created_at", "updated_at",
		"teacher_name", "teacher_email", "teacher_department",
	}).AddRow(
		"l1", "Physics", "t1", "A-101", "Monday", time.Now(), time.Now(),
		"Lecture", "XII", "Physics", nil, nil, true, time.Now(), time.Now(),
		"Jane Doe", "jane@school.edu", "Science",
	)
}

func lectureRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "subject", "teacher_id", "classroom", "day_of_week", "start_time", "end_time",
		"lecture_type", "semester", "course", "chapter", "description", "is_active", "created_at", "updated_at",
	}).AddRow(
		"l1", "Physics", "t1", "A-101", "Monday", time.Now(), time.Now(),
		"Lecture", "XII", "Physics", nil, nil, true, time.Now(), time.Now(),
	)
}

func TestLectureRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLectureRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM lectures l LEFT JOIN teachers t ON t.id = l.teacher_id WHERE 1=1 ORDER BY CASE l.day_of_week")).
		WillReturnRows(lectureDetailRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM lectures l LEFT JOIN teachers t ON t.id = l.teacher_id WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.LectureFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, total)
	require.NotNil(t, list[0].TeacherName)
	assert.Equal(t, "Jane Doe", *list[0].TeacherName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLectureRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLectureRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("l.teacher_id = $1 AND l.day_of_week = $2 AND l.is_active = $3")).
		WithArgs("t1", "Monday", true).
		WillReturnRows(lectureDetailRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("t1", "Monday", true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	active := true
	_, _, err := repo.List(context.Background(), models.LectureFilter{
		TeacherID: "t1",
		DayOfWeek: "Monday",
		Active:    &active,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLectureRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLectureRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM lectures l WHERE l.is_active = TRUE")).
		WillReturnRows(lectureRows())

	lectures, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, lectures, 1)
	assert.Equal(t, "l1", lectures[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLectureRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLectureRepository(db)

	// An empty row set surfaces sql.ErrNoRows from GetContext.
	mock.ExpectQuery(regexp.QuoteMeta("WHERE l.id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLectureRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLectureRepository(db)

	mock.ExpectExec("INSERT INTO lectures").
		WillReturnResult(sqlmock.NewResult(1, 1))

	lecture := &models.Lecture{
		Subject:   "Physics",
		TeacherID: "t1",
		Classroom: "A-101",
		DayOfWeek: "Monday",
		StartTime: time.Now(),
		EndTime:   time.Now().Add(time.Hour),
		Semester:  "XII",
		IsActive:  true,
	}
	require.NoError(t, repo.Create(context.Background(), lecture))
	assert.NotEmpty(t, lecture.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLectureRepositoryBulkSetActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLectureRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE lectures SET is_active = $2, updated_at = $3 WHERE id = ANY($1)")).
		WillReturnResult(sqlmock.NewResult(0, 2))

	affected, err := repo.BulkSetActive(context.Background(), []string{"l1", "l2"}, false)
	require.NoError(t, err)
	assert.Equal(t, 2, affected)

	// Empty input never touches the database.
	affected, err = repo.BulkSetActive(context.Background(), nil, false)
	require.NoError(t, err)
	assert.Equal(t, 0, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLectureRepositoryBulkDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLectureRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM lectures WHERE id = ANY($1)")).
		WillReturnResult(sqlmock.NewResult(0, 3))

	affected, err := repo.BulkDelete(context.Background(), []string{"l1", "l2", "l3"})
	require.NoError(t, err)
	assert.Equal(t, 3, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLectureRepositoryCounts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLectureRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active) FROM lectures")).
		WillReturnRows(sqlmock.NewRows([]string{"count", "active"}).AddRow(10, 7))

	total, active, err := repo.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, total)
	assert.Equal(t, 7, active)
	assert.NoError(t, mock.ExpectationsWereMet())
}
