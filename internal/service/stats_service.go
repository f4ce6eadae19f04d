package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/vacuno/ganado-api/internal/models"
	appErrors "github.com/vacuno/ganado-api/pkg/errors"
)

const herdStatsCacheKey = "stats:herd"

type statusCounter interface {
	CountByStatus(ctx context.Context) (map[models.CattleStatus]int, error)
}

type weightAverager interface {
	AverageKilograms(ctx context.Context) (*float64, error)
}

type statsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// HerdStats summarizes the herd composition and average weight.
type HerdStats struct {
	Total      int                          `json:"total"`
	ByStatus   map[models.CattleStatus]int  `json:"by_status"`
	AverageKg  *float64                     `json:"average_kg,omitempty"`
	ComputedAt time.Time                    `json:"computed_at"`
}

// StatsService computes herd aggregates with a cache-aside layer.
type StatsService struct {
	cattle  statusCounter
	weights weightAverager
	cache   statsCache
	metrics *Metrics
	logger  *zap.Logger

	cacheEnabled bool
	cacheTTL     time.Duration
}

// NewStatsService constructs a StatsService instance. The metrics handle may
// be nil.
func NewStatsService(cattle statusCounter, weights weightAverager, cache statsCache, metrics *Metrics, logger *zap.Logger, cacheEnabled bool, cacheTTL time.Duration) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &StatsService{
		cattle:       cattle,
		weights:      weights,
		cache:        cache,
		metrics:      metrics,
		logger:       logger,
		cacheEnabled: cacheEnabled && cache != nil,
		cacheTTL:     cacheTTL,
	}
}

// HerdSummary returns the herd aggregates, served from cache when fresh.
func (s *StatsService) HerdSummary(ctx context.Context) (*HerdStats, error) {
	if s.cacheEnabled {
		var cached HerdStats
		if err := s.cache.Get(ctx, herdStatsCacheKey, &cached); err == nil {
			s.metrics.CacheHit()
			return &cached, nil
		} else if appErrors.FromError(err).Code != appErrors.ErrCacheMiss.Code {
			s.logger.Warn("stats cache read failed", zap.Error(err))
		}
		s.metrics.CacheMiss()
	}

	counts, err := s.cattle.CountByStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute herd counts")
	}
	total := 0
	for _, n := range counts {
		total += n
	}

	avg, err := s.weights.AverageKilograms(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute average weight")
	}

	stats := &HerdStats{
		Total:      total,
		ByStatus:   counts,
		AverageKg:  avg,
		ComputedAt: time.Now().UTC(),
	}

	if s.cacheEnabled {
		if err := s.cache.Set(ctx, herdStatsCacheKey, stats, s.cacheTTL); err != nil {
			s.logger.Warn("stats cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

// Invalidate drops cached aggregates; hooked into cattle mutations.
func (s *StatsService) Invalidate(ctx context.Context) {
	if !s.cacheEnabled {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "stats:*"); err != nil {
		s.logger.Warn("stats cache invalidation failed", zap.Error(err))
	}
}
