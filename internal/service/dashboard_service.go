package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/classpulse/classpulse-api/internal/dto"
	"github.com/classpulse/classpulse-api/internal/models"
	"github.com/classpulse/classpulse-api/pkg/config"
	appErrors "github.com/classpulse/classpulse-api/pkg/errors"
)

// DashboardClassStore lists a teacher's classes.
type DashboardClassStore interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Class, error)
}

// DashboardEnrollmentStore counts per-class enrollments.
type DashboardEnrollmentStore interface {
	CountByClass(ctx context.Context, classID string) (int, error)
}

// DashboardCancellationStore counts cancellations inside a time window.
type DashboardCancellationStore interface {
	CountByTeacherBetween(ctx context.Context, teacherID string, from, to time.Time) (int, error)
}

// DashboardService computes the teacher dashboard aggregate. The payload is
// derived on every read and never persisted; Redis only shortens the
// recompute interval.
type DashboardService struct {
	classes       DashboardClassStore
	enrollments   DashboardEnrollmentStore
	cancellations DashboardCancellationStore
	cache         *CacheService
	cfg           config.DashboardConfig
	logger        *zap.Logger
	now           func() time.Time
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(
	classes DashboardClassStore,
	enrollments DashboardEnrollmentStore,
	cancellations DashboardCancellationStore,
	cache *CacheService,
	cfg config.DashboardConfig,
	logger *zap.Logger,
) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.WeekWindow <= 0 {
		cfg.WeekWindow = 7 * 24 * time.Hour
	}
	return &DashboardService{
		classes:       classes,
		enrollments:   enrollments,
		cancellations: cancellations,
		cache:         cache,
		cfg:           cfg,
		logger:        logger,
		now:           time.Now,
	}
}

// TeacherStats returns enrollment counts per class, the active class count
// and the number of cancellations in the trailing week window.
func (s *DashboardService) TeacherStats(ctx context.Context, teacherID string) (*dto.TeacherStatsResponse, error) {
	cacheKey := fmt.Sprintf("dash:teacher:%s", teacherID)
	if s.cfg.CacheEnabled && s.cache != nil {
		var cached dto.TeacherStatsResponse
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	classes, err := s.classes.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list classes")
	}

	stats := &dto.TeacherStatsResponse{
		ClassEnrollments: make([]dto.ClassEnrollmentSummary, 0, len(classes)),
	}
	for _, class := range classes {
		count, err := s.enrollments.CountByClass(ctx, class.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "count enrollments")
		}
		stats.ClassEnrollments = append(stats.ClassEnrollments, dto.ClassEnrollmentSummary{
			ClassID:         class.ID,
			ClassName:       class.Name,
			ClassCode:       class.Code,
			EnrollmentCount: count,
		})
		if class.IsActive {
			stats.ActiveClasses++
		}
	}

	to := s.now().UTC()
	from := to.Add(-s.cfg.WeekWindow)
	weekCount, err := s.cancellations.CountByTeacherBetween(ctx, teacherID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "count cancellations")
	}
	stats.WeekCancellations = weekCount

	if s.cfg.CacheEnabled && s.cache != nil {
		s.cache.Set(ctx, cacheKey, stats, s.cfg.CacheTTL)
	}
	return stats, nil
}
