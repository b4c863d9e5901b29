package cache

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"focus-quest/internal/pkg/log"
	"focus-quest/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*Cache[string, int], *metrics.ResourceMetrics, *time.Time) {
	t.Helper()
	m := metrics.NewResourceMetricsWithRegistry("test", prometheus.NewRegistry())
	c := New[string, int]("bosses", ttl, m, log.NewLogger(slog.DiscardHandler))
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.clock = func() time.Time { return now }
	return c, m, &now
}

func TestCacheGetSet(t *testing.T) {
	ctx := context.Background()
	c, m, _ := newTestCache(t, time.Minute)

	_, ok := c.Get(ctx, "a")
	require.False(t, ok)

	c.Set(ctx, "a", 42)
	got, ok := c.Get(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, 42, got)

	service := metrics.GetServiceName()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheRequests.WithLabelValues("bosses", ResultHit, service)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheRequests.WithLabelValues("bosses", ResultMiss, service)))
}

func TestCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, m, now := newTestCache(t, 10*time.Second)

	c.Set(ctx, "a", 1)
	*now = now.Add(11 * time.Second)

	_, ok := c.Get(ctx, "a")
	require.False(t, ok)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheRequests.WithLabelValues("bosses", ResultExpired, metrics.GetServiceName())))

	// 过期条目已被移除, 再次查询计为 miss
	_, ok = c.Get(ctx, "a")
	require.False(t, ok)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheRequests.WithLabelValues("bosses", ResultMiss, metrics.GetServiceName())))
}

func TestCacheDelete(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCache(t, time.Minute)

	c.Set(ctx, "a", 1)
	c.Set(ctx, "b", 2)
	c.Delete(ctx, "a", "manual")
	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)

	v, ok := c.Get(ctx, "b")
	require.True(t, ok)
	assert.Equal(t, 2, v)

	// 不存在的键静默忽略
	c.Delete(ctx, "missing", "manual")
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "unknown", NormalizeName("  "))
	assert.Equal(t, "bosses", NormalizeName(" bosses "))
}
