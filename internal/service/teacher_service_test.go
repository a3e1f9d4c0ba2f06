package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digiboard/digiboard-api/internal/models"
	appErrors "github.com/digiboard/digiboard-api/pkg/errors"
)

type mockTeacherRepo struct {
	teachers map[string]models.Teacher
	nextID   int
}

func newMockTeacherRepo(seed ...models.Teacher) *mockTeacherRepo {
	repo := &mockTeacherRepo{teachers: make(map[string]models.Teacher)}
	for _, t := range seed {
		repo.teachers[t.ID] = t
	}
	return repo
}

func (m *mockTeacherRepo) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	var result []models.Teacher
	for _, t := range m.teachers {
		if filter.Department != "" && t.Department != filter.Department {
			continue
		}
		result = append(result, t)
	}
	return result, len(result), nil
}

func (m *mockTeacherRepo) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	t, ok := m.teachers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &t, nil
}

func (m *mockTeacherRepo) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	for _, t := range m.teachers {
		if t.Email == email && t.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTeacherRepo) Create(ctx context.Context, teacher *models.Teacher) error {
	m.nextID++
	teacher.ID = string(rune('0' + m.nextID))
	m.teachers[teacher.ID] = *teacher
	return nil
}

func (m *mockTeacherRepo) Update(ctx context.Context, teacher *models.Teacher) error {
	if _, ok := m.teachers[teacher.ID]; !ok {
		return sql.ErrNoRows
	}
	m.teachers[teacher.ID] = *teacher
	return nil
}

func (m *mockTeacherRepo) Delete(ctx context.Context, id string) error {
	delete(m.teachers, id)
	return nil
}

func TestTeacherServiceCreate(t *testing.T) {
	repo := newMockTeacherRepo()
	svc := NewTeacherService(repo, nil, nil, nil)

	phone := " +62-812-000 "
	teacher, err := svc.Create(context.Background(), CreateTeacherRequest{
		Name:       "  Jane Doe  ",
		Email:      "jane@school.edu",
		Department: "Science",
		Phone:      &phone,
		Subjects:   []string{"Physics", " Math "},
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", teacher.Name)
	require.NotNil(t, teacher.Phone)
	assert.Equal(t, "+62-812-000", *teacher.Phone)
	assert.Equal(t, []string{"Physics", "Math"}, []string(teacher.Subjects))
	assert.Len(t, repo.teachers, 1)
}

func TestTeacherServiceCreateRejectsInvalidPayload(t *testing.T) {
	svc := NewTeacherService(newMockTeacherRepo(), nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateTeacherRequest{Name: "No Email", Department: "Science"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTeacherServiceCreateDuplicateEmail(t *testing.T) {
	repo := newMockTeacherRepo(models.Teacher{ID: "t1", Name: "Jane", Email: "jane@school.edu"})
	svc := NewTeacherService(repo, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateTeacherRequest{
		Name:       "Other Jane",
		Email:      "jane@school.edu",
		Department: "Science",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestTeacherServiceUpdate(t *testing.T) {
	repo := newMockTeacherRepo(models.Teacher{ID: "t1", Name: "Jane", Email: "jane@school.edu", Department: "Science"})
	svc := NewTeacherService(repo, nil, nil, nil)

	updated, err := svc.Update(context.Background(), "t1", UpdateTeacherRequest{
		Name:       "Jane Doe",
		Email:      "jane@school.edu",
		Department: "Mathematics",
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", updated.Name)
	assert.Equal(t, "Mathematics", repo.teachers["t1"].Department)
}

func TestTeacherServiceUpdateKeepsOwnEmail(t *testing.T) {
	repo := newMockTeacherRepo(
		models.Teacher{ID: "t1", Name: "Jane", Email: "jane@school.edu", Department: "Science"},
		models.Teacher{ID: "t2", Name: "John", Email: "john@school.edu", Department: "Arts"},
	)
	svc := NewTeacherService(repo, nil, nil, nil)

	// Re-submitting the same email on the same teacher is fine.
	_, err := svc.Update(context.Background(), "t1", UpdateTeacherRequest{
		Name:       "Jane",
		Email:      "jane@school.edu",
		Department: "Science",
	})
	require.NoError(t, err)

	// Taking another teacher's email is not.
	_, err = svc.Update(context.Background(), "t1", UpdateTeacherRequest{
		Name:       "Jane",
		Email:      "john@school.edu",
		Department: "Science",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestTeacherServiceGetNotFound(t *testing.T) {
	svc := NewTeacherService(newMockTeacherRepo(), nil, nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTeacherServiceDelete(t *testing.T) {
	repo := newMockTeacherRepo(models.Teacher{ID: "t1", Name: "Jane", Email: "jane@school.edu"})
	svc := NewTeacherService(repo, nil, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "t1"))
	assert.Empty(t, repo.teachers)

	err := svc.Delete(context.Background(), "t1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTeacherServiceList(t *testing.T) {
	repo := newMockTeacherRepo(
		models.Teacher{ID: "t1", Name: "Jane", Email: "jane@school.edu", Department: "Science"},
		models.Teacher{ID: "t2", Name: "John", Email: "john@school.edu", Department: "Arts"},
	)
	svc := NewTeacherService(repo, nil, nil, nil)

	teachers, pagination, err := svc.List(context.Background(), models.TeacherFilter{Department: "Science"})
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, "Jane", teachers[0].Name)
	assert.Equal(t, 1, pagination.TotalCount)
	assert.Equal(t, 1, pagination.Page)
}
