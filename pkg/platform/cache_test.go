package platform

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siteforge/siteforge/pkg/observability"
)

// countingService counts composer invocations and returns a fixed report
type countingService struct {
	calls  int
	report *Report
	err    error
}

func (c *countingService) GetPlatformKPIs(context.Context) (*Report, error) {
	c.calls++
	return c.report, c.err
}

func newCacheFixture(t *testing.T, inner Service) (*CachedService, *miniredis.Miniredis, *observability.Metrics) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)

	return NewCachedService(inner, client, time.Minute, logger, metrics), mr, metrics
}

func TestCachedServiceMissThenHit(t *testing.T) {
	inner := &countingService{report: &Report{Tenants: TenantStats{Total: 42}}}
	cached, _, metrics := newCacheFixture(t, inner)

	first, err := cached.GetPlatformKPIs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), first.Tenants.Total)
	assert.Equal(t, 1, inner.calls)

	second, err := cached.GetPlatformKPIs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), second.Tenants.Total)
	assert.Equal(t, 1, inner.calls, "second read must be served from the cache")

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.KPICacheHitsTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.KPICacheMissesTotal))
}

func TestCachedServiceExpiryRecomputes(t *testing.T) {
	inner := &countingService{report: &Report{Tenants: TenantStats{Total: 7}}}
	cached, mr, _ := newCacheFixture(t, inner)

	_, err := cached.GetPlatformKPIs(context.Background())
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = cached.GetPlatformKPIs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedServiceRedisDownDegradesToCompute(t *testing.T) {
	inner := &countingService{report: &Report{Tenants: TenantStats{Total: 9}}}
	cached, mr, _ := newCacheFixture(t, inner)
	mr.Close()

	report, err := cached.GetPlatformKPIs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(9), report.Tenants.Total)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedServiceWarmPopulatesSnapshot(t *testing.T) {
	inner := &countingService{report: &Report{Tenants: TenantStats{Total: 3}}}
	cached, _, metrics := newCacheFixture(t, inner)

	require.NoError(t, cached.Warm(context.Background()))
	assert.Equal(t, 1, inner.calls)

	report, err := cached.GetPlatformKPIs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), report.Tenants.Total)
	assert.Equal(t, 1, inner.calls, "read after warm must hit the snapshot")
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.KPICacheHitsTotal))
}
