package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digiboard/digiboard-api/internal/models"
	appErrors "github.com/digiboard/digiboard-api/pkg/errors"
)

type mockDashboardTeacherRepo struct {
	count int
}

func (m *mockDashboardTeacherRepo) Count(ctx context.Context) (int, error) {
	return m.count, nil
}

type mockDashboardLectureRepo struct {
	*mockScheduleRepo
	total  int
	active int
}

func (m *mockDashboardLectureRepo) Counts(ctx context.Context) (int, int, error) {
	return m.total, m.active, nil
}

type countingCacheRepo struct {
	store map[string][]byte
	gets  int
	sets  int
}

func (c *countingCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	c.gets++
	raw, ok := c.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *countingCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.sets++
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if c.store == nil {
		c.store = make(map[string][]byte)
	}
	c.store[key] = raw
	return nil
}

func (c *countingCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	c.store = nil
	return nil
}

func newDashboardService(cacheRepo CacheRepository) (*DashboardService, *mockDashboardLectureRepo) {
	lectures := &mockDashboardLectureRepo{
		mockScheduleRepo: &mockScheduleRepo{details: []models.LectureDetail{
			detailAt("l1", "Monday", "09:00", "10:00"),
			detailAt("l2", "Wednesday", "14:00", "15:00"),
		}},
		total:  5,
		active: 3,
	}
	scheduleSvc := NewScheduleService(lectures.mockScheduleRepo, nil).WithClock(clockAt(time.Monday, "10:30"))

	var cache *CacheService
	if cacheRepo != nil {
		cache = NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	}
	return NewDashboardService(&mockDashboardTeacherRepo{count: 7}, lectures, scheduleSvc, cache, time.Minute, nil), lectures
}

func TestDashboardServiceStats(t *testing.T) {
	svc, _ := newDashboardService(nil)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, stats.TotalTeachers)
	assert.Equal(t, 5, stats.TotalLectures)
	assert.Equal(t, 3, stats.ActiveLectures)
	require.NotNil(t, stats.NextLecture)
	// Monday 10:30 has passed the 09:00 slot, so Wednesday is next.
	assert.Equal(t, "l2", stats.NextLecture.ID)
	assert.False(t, stats.GeneratedAt.IsZero())
}

func TestDashboardServiceStatsUsesCache(t *testing.T) {
	cacheRepo := &countingCacheRepo{}
	svc, lectures := newDashboardService(cacheRepo)

	first, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cacheRepo.sets)

	// Change the backing data; the cached payload must win.
	lectures.total = 99
	second, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.TotalLectures, second.TotalLectures)
	assert.Equal(t, 2, cacheRepo.gets)
	assert.Equal(t, 1, cacheRepo.sets)
}

func TestDashboardServiceStatsNoNextLecture(t *testing.T) {
	lectures := &mockDashboardLectureRepo{mockScheduleRepo: &mockScheduleRepo{}}
	scheduleSvc := NewScheduleService(lectures.mockScheduleRepo, nil).WithClock(clockAt(time.Monday, "10:00"))
	svc := NewDashboardService(&mockDashboardTeacherRepo{}, lectures, scheduleSvc, nil, time.Minute, nil)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Nil(t, stats.NextLecture)
}
