package platform

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/siteforge/siteforge/pkg/observability"
)

// kpiCacheKey is the redis key holding the JSON-encoded report snapshot
const kpiCacheKey = "siteforge:platform:kpis"

// CachedService decorates the KPI composer with a short-TTL redis snapshot.
// The full fan-out touches every store, so operator dashboards polling the
// report share one recomputation per TTL window. Redis being down degrades
// to recompute-on-read, never to an error.
type CachedService struct {
	inner   Service
	client  *redis.Client
	ttl     time.Duration
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewCachedService wraps a KPI composer with the redis snapshot cache
func NewCachedService(inner Service, client *redis.Client, ttl time.Duration, logger *observability.Logger, metrics *observability.Metrics) *CachedService {
	return &CachedService{
		inner:   inner,
		client:  client,
		ttl:     ttl,
		logger:  logger,
		metrics: metrics,
	}
}

// GetPlatformKPIs serves the cached snapshot when fresh, recomputing and
// repopulating the cache otherwise
func (c *CachedService) GetPlatformKPIs(ctx context.Context) (*Report, error) {
	payload, err := c.client.Get(ctx, kpiCacheKey).Bytes()
	if err == nil {
		var report Report
		if unmarshalErr := json.Unmarshal(payload, &report); unmarshalErr == nil {
			c.metrics.KPICacheHitsTotal.Inc()
			return &report, nil
		}
		// Corrupt snapshot: drop through and recompute
		c.logger.Warn("discarding unreadable KPI cache snapshot")
	} else if !errors.Is(err, redis.Nil) {
		c.logger.WithError(err).Warn("KPI cache read failed, recomputing")
	}

	c.metrics.KPICacheMissesTotal.Inc()

	report, err := c.inner.GetPlatformKPIs(ctx)
	if err != nil {
		return nil, err
	}

	c.store(ctx, report)
	return report, nil
}

// Warm recomputes the report and refreshes the snapshot unconditionally. Used
// by the scheduled pre-warm so dashboard reads rarely pay the fan-out cost.
func (c *CachedService) Warm(ctx context.Context) error {
	report, err := c.inner.GetPlatformKPIs(ctx)
	if err != nil {
		return err
	}
	c.store(ctx, report)
	return nil
}

// store writes the snapshot best-effort; cache write failures only log
func (c *CachedService) store(ctx context.Context, report *Report) {
	payload, err := json.Marshal(report)
	if err != nil {
		c.logger.WithError(err).Warn("failed to encode KPI cache snapshot")
		return
	}
	if err := c.client.Set(ctx, kpiCacheKey, payload, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Warn("KPI cache write failed")
	}
}
