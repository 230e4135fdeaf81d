package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/classpulse/classpulse-api/pkg/errors"
)

// CacheStore abstracts the Redis-backed cache repository.
type CacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService wraps the cache with hit/miss accounting. A nil store
// degrades to a permanent miss so callers need no nil checks.
type CacheService struct {
	store   CacheStore
	metrics *MetricsService
	logger  *zap.Logger
}

// NewCacheService constructs the cache service.
func NewCacheService(store CacheStore, metrics *MetricsService, logger *zap.Logger) *CacheService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{store: store, metrics: metrics, logger: logger}
}

// Get loads a cached value into dest, counting hits and misses.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	if s.store == nil {
		return appErrors.ErrCacheMiss
	}

	err := s.store.Get(ctx, key, dest)
	if err != nil {
		if s.metrics != nil {
			s.metrics.CacheMisses.Inc()
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
			return appErrors.ErrCacheMiss
		}
		return err
	}

	if s.metrics != nil {
		s.metrics.CacheHits.Inc()
	}
	return nil
}

// Set stores a value; failures are logged, never propagated.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.store == nil {
		return
	}
	if err := s.store.Set(ctx, key, value, ttl); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateTeacher drops cached dashboard payloads for a teacher.
func (s *CacheService) InvalidateTeacher(ctx context.Context, teacherID string) {
	if s.store == nil {
		return
	}
	pattern := fmt.Sprintf("dash:teacher:%s*", teacherID)
	if err := s.store.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
	}
}
