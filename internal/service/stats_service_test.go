package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vacuno/ganado-api/internal/models"
	appErrors "github.com/vacuno/ganado-api/pkg/errors"
)

type mockStatsSource struct {
	counts map[models.CattleStatus]int
	avg    *float64
}

func (m *mockStatsSource) CountByStatus(ctx context.Context) (map[models.CattleStatus]int, error) {
	return m.counts, nil
}

func (m *mockStatsSource) AverageKilograms(ctx context.Context) (*float64, error) {
	return m.avg, nil
}

type mockStatsCache struct {
	stored *HerdStats
	sets   int
}

func (m *mockStatsCache) Get(ctx context.Context, key string, dest interface{}) error {
	if m.stored == nil {
		return appErrors.Clone(appErrors.ErrCacheMiss, "")
	}
	*dest.(*HerdStats) = *m.stored
	return nil
}

func (m *mockStatsCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.sets++
	m.stored = value.(*HerdStats)
	return nil
}

func (m *mockStatsCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.stored = nil
	return nil
}

func TestHerdSummaryCacheAside(t *testing.T) {
	avg := 451.25
	source := &mockStatsSource{
		counts: map[models.CattleStatus]int{models.StatusActive: 8, models.StatusSold: 2},
		avg:    &avg,
	}
	cache := &mockStatsCache{}
	metrics := NewMetrics(nil)
	svc := NewStatsService(source, source, cache, metrics, nil, true, time.Minute)

	// First read misses and computes from the repositories.
	stats, err := svc.HerdSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, stats.Total)
	assert.Equal(t, 8, stats.ByStatus[models.StatusActive])
	require.NotNil(t, stats.AverageKg)
	assert.Equal(t, 451.25, *stats.AverageKg)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheMisses))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.CacheHits))

	// Second read is served from cache without another write.
	cached, err := svc.HerdSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stats.Total, cached.Total)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheHits))
}

func TestHerdSummaryWithoutCache(t *testing.T) {
	source := &mockStatsSource{counts: map[models.CattleStatus]int{models.StatusActive: 3}}
	metrics := NewMetrics(nil)
	svc := NewStatsService(source, source, nil, metrics, nil, true, time.Minute)

	stats, err := svc.HerdSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Nil(t, stats.AverageKg)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.CacheHits))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.CacheMisses))
}

func TestInvalidateDropsCachedStats(t *testing.T) {
	source := &mockStatsSource{counts: map[models.CattleStatus]int{models.StatusActive: 5}}
	cache := &mockStatsCache{}
	svc := NewStatsService(source, source, cache, nil, nil, true, time.Minute)

	_, err := svc.HerdSummary(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cache.stored)

	svc.Invalidate(context.Background())
	assert.Nil(t, cache.stored)
}
