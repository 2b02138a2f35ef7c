package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/college-admin-api/pkg/errors"
)

// Stats cache keys.
const (
	cacheKeyHostelStats = "stats:hostel"
	cacheKeyDashboard   = "stats:dashboard"
	cacheKeyFeeStats    = "stats:fees:"
)

func feeStatsKey(semester, course string) string {
	return fmt.Sprintf("%s%s:%s", cacheKeyFeeStats, strings.TrimSpace(semester), strings.ToLower(strings.TrimSpace(course)))
}

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService fronts the stats cache and records hit metrics. Cache
// failures are logged and never fail the caller.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool
	epoch      atomic.Uint64
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 2 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, defaultTTL: defaultTTL, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// Get loads key into dest and reports whether it was a hit.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) bool {
	if !s.Enabled() {
		return false
	}
	start := time.Now()
	err := s.repo.Get(ctx, key, dest)
	s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	if err != nil && !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	}
	return err == nil
}

// Epoch returns a token that changes on every invalidation. Take it before
// reading the data a snapshot is built from and hand it to Set.
func (s *CacheService) Epoch() uint64 {
	if s == nil {
		return 0
	}
	return s.epoch.Load()
}

// Set stores a snapshot under key unless an invalidation ran since epoch was
// taken; ttl <= 0 uses the default. Only invalidations made by this process
// are seen, so a snapshot from another instance can stay stale for one ttl.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration, epoch uint64) {
	if !s.Enabled() {
		return
	}
	if s.epoch.Load() != epoch {
		s.logger.Debug("skipping stale cache snapshot", zap.String("key", key))
		return
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	start := time.Now()
	err := s.repo.Set(ctx, key, value, ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		return
	}
	// an invalidation that deleted before our write landed
	if s.epoch.Load() != epoch {
		s.delete(ctx, key)
	}
}

// InvalidateHostel drops hostel-derived snapshots.
func (s *CacheService) InvalidateHostel(ctx context.Context) {
	s.delete(ctx, cacheKeyHostelStats, cacheKeyDashboard)
}

// InvalidateFees drops every fee statistics variant and the dashboard.
func (s *CacheService) InvalidateFees(ctx context.Context) {
	if !s.Enabled() {
		return
	}
	s.epoch.Add(1)
	if err := s.repo.DeleteByPattern(ctx, cacheKeyFeeStats+"*"); err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("pattern", cacheKeyFeeStats+"*"), zap.Error(err))
	}
	s.delete(ctx, cacheKeyDashboard)
}

// InvalidateAdmissions drops snapshots that count students.
func (s *CacheService) InvalidateAdmissions(ctx context.Context) {
	s.delete(ctx, cacheKeyDashboard)
}

func (s *CacheService) delete(ctx context.Context, keys ...string) {
	if !s.Enabled() {
		return
	}
	s.epoch.Add(1)
	if err := s.repo.Delete(ctx, keys...); err != nil {
		s.logger.Warn("cache invalidate failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
