package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/digiboard/digiboard-api/internal/models"
	appErrors "github.com/digiboard/digiboard-api/pkg/errors"
)

const dashboardStatsCacheKey = "dashboard:stats"

type dashboardTeacherRepository interface {
	Count(ctx context.Context) (int, error)
}

type dashboardLectureRepository interface {
	Counts(ctx context.Context) (total int, active int, err error)
	ListDetails(ctx context.Context, activeOnly bool) ([]models.LectureDetail, error)
}

// DashboardService assembles the landing page summary: entity counts and the
// next upcoming lecture. Results are cached; writes to teachers or lectures
// invalidate the dashboard:* keyspace.
type DashboardService struct {
	teachers dashboardTeacherRepository
	lectures dashboardLectureRepository
	schedule *ScheduleService
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(teachers dashboardTeacherRepository, lectures dashboardLectureRepository, scheduleSvc *ScheduleService, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		teachers: teachers,
		lectures: lectures,
		schedule: scheduleSvc,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Stats returns dashboard counters, served from cache when possible.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	if s.cache != nil {
		var cached models.DashboardStats
		hit, err := s.cache.Get(ctx, dashboardStatsCacheKey, &cached)
		if err == nil && hit {
			return &cached, nil
		}
	}

	stats, err := s.buildStats(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, dashboardStatsCacheKey, stats, s.cacheTTL); err != nil {
			s.logger.Warn("dashboard stats cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

func (s *DashboardService) buildStats(ctx context.Context) (*models.DashboardStats, error) {
	teacherCount, err := s.teachers.Count(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count teachers")
	}

	totalLectures, activeLectures, err := s.lectures.Counts(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count lectures")
	}

	next, err := s.schedule.Next(ctx)
	if err != nil {
		return nil, err
	}

	return &models.DashboardStats{
		TotalTeachers:  teacherCount,
		TotalLectures:  totalLectures,
		ActiveLectures: activeLectures,
		NextLecture:    next,
		GeneratedAt:    time.Now().UTC(),
	}, nil
}
