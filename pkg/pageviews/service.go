package pageviews

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/siteforge/siteforge/pkg/analytics"
	"github.com/siteforge/siteforge/pkg/apperrors"
	"github.com/siteforge/siteforge/pkg/observability"
)

// topTenantsLimit caps the cross-tenant traffic leaderboard
const topTenantsLimit = 10

// NameResolver resolves tenant display names for the leaderboard
type NameResolver interface {
	ResolveNames(ctx context.Context, tenantIDs []string) (map[string]string, error)
}

// Service is the page-view recorder and its visitor read path
type Service interface {
	// TrackPageView records one page view for today. Best-effort: failures
	// are logged and suppressed, never returned.
	TrackPageView(ctx context.Context, tenantID, pageID string, meta Meta)
	// RecordConversion increments today's conversion counter for the page.
	// No-op when today's row does not exist; failures are suppressed.
	RecordConversion(ctx context.Context, tenantID, pageID, convType string)
	// TenantTraffic returns the tenant-scoped visitor report over the last
	// `days` days.
	TenantTraffic(ctx context.Context, tenantID string, days int) (*TenantTraffic, error)
	// PlatformVisitorStats returns the cross-tenant visitor section over the
	// last `days` days.
	PlatformVisitorStats(ctx context.Context, days int) (*VisitorStats, error)
}

type service struct {
	db       *sql.DB
	engine   analytics.Engine
	resolver NameResolver
	logger   *observability.Logger
	metrics  *observability.Metrics
	now      func() time.Time
}

// NewService creates the page-view service. db is the write connection;
// engine serves the read path.
func NewService(db *sql.DB, engine analytics.Engine, resolver NameResolver, logger *observability.Logger, metrics *observability.Metrics) Service {
	return &service{
		db:       db,
		engine:   engine,
		resolver: resolver,
		logger:   logger,
		metrics:  metrics,
		now:      time.Now,
	}
}

const trackPageViewQuery = `
	INSERT INTO page_analytics (tenant_id, page_id, date, views, unique_visitors)
	VALUES ($1, $2, $3, 1, 1)
	ON CONFLICT (tenant_id, page_id, date)
	DO UPDATE SET views = page_analytics.views + 1,
	              unique_visitors = page_analytics.unique_visitors + $4`

// TrackPageView records one page view for today via a single atomic
// increment-or-create keyed on (tenant_id, page_id, date).
func (s *service) TrackPageView(ctx context.Context, tenantID, pageID string, meta Meta) {
	if err := validateTrackingIDs(tenantID, pageID); err != nil {
		s.suppress(ctx, "track_page_view", tenantID, pageID, err)
		return
	}

	newVisitor := 0
	if meta.IsNewVisitor {
		newVisitor = 1
	}

	today := s.now().Format("2006-01-02")
	if _, err := s.db.ExecContext(ctx, trackPageViewQuery, tenantID, pageID, today, newVisitor); err != nil {
		s.suppress(ctx, "track_page_view", tenantID, pageID, err)
		return
	}

	s.metrics.PageViewsTrackedTotal.Inc()
}

const recordConversionQuery = `
	UPDATE page_analytics
	SET conversion_rate = conversion_rate + 1
	WHERE tenant_id = $1 AND page_id = $2 AND date = $3`

// RecordConversion bumps today's conversion counter. It never creates a row:
// a conversion without a tracked view that day is dropped.
func (s *service) RecordConversion(ctx context.Context, tenantID, pageID, convType string) {
	if err := validateTrackingIDs(tenantID, pageID); err != nil {
		s.suppress(ctx, "record_conversion", tenantID, pageID, err)
		return
	}

	today := s.now().Format("2006-01-02")
	result, err := s.db.ExecContext(ctx, recordConversionQuery, tenantID, pageID, today)
	if err != nil {
		s.suppress(ctx, "record_conversion", tenantID, pageID, err)
		return
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		observability.FromContext(ctx).WithFields(map[string]interface{}{
			"tenant_id":       tenantID,
			"page_id":         pageID,
			"conversion_type": convType,
		}).Debug("conversion dropped: no page-view row for today")
		return
	}

	s.metrics.ConversionsTrackedTotal.Inc()
}

// suppress logs a tracking failure and counts it without surfacing it
func (s *service) suppress(ctx context.Context, operation, tenantID, pageID string, err error) {
	logger := s.logger
	if fromCtx := observability.GetRequestID(ctx); fromCtx != "" {
		logger = logger.WithField("request_id", fromCtx)
	}
	logger.WithError(err).WithFields(map[string]interface{}{
		"operation": operation,
		"tenant_id": tenantID,
		"page_id":   pageID,
	}).Warn("tracking failure suppressed")
	s.metrics.TrackingSuppressedTotal.WithLabelValues(operation).Inc()
}

// TenantTraffic composes the tenant-scoped visitor report: overall totals plus
// a sparse daily series, four aggregations fanned out concurrently.
func (s *service) TenantTraffic(ctx context.Context, tenantID string, days int) (*TenantTraffic, error) {
	if _, err := uuid.Parse(tenantID); err != nil {
		return nil, apperrors.NewValidation("tenantId", "must be a valid UUID")
	}
	if days <= 0 {
		return nil, apperrors.NewValidation("days", "must be positive")
	}

	since, until := analytics.LastNDays(s.now(), days)

	var (
		totalViews   float64
		totalUniques float64
		dailyViews   []analytics.Row
		dailyUniques []analytics.Row
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totalViews, err = analytics.ScalarTotal(gctx, s.engine, analytics.Query{
			Source: analytics.PageAnalytics, TenantID: tenantID,
			Since: &since, Until: &until, SumField: "views",
		})
		return err
	})
	g.Go(func() error {
		var err error
		totalUniques, err = analytics.ScalarTotal(gctx, s.engine, analytics.Query{
			Source: analytics.PageAnalytics, TenantID: tenantID,
			Since: &since, Until: &until, SumField: "unique_visitors",
		})
		return err
	})
	g.Go(func() error {
		var err error
		dailyViews, err = s.engine.Aggregate(gctx, analytics.Query{
			Source: analytics.PageAnalytics, TenantID: tenantID,
			Since: &since, Until: &until,
			GroupBy: analytics.GroupByDay, SumField: "views",
		})
		return err
	})
	g.Go(func() error {
		var err error
		dailyUniques, err = s.engine.Aggregate(gctx, analytics.Query{
			Source: analytics.PageAnalytics, TenantID: tenantID,
			Since: &since, Until: &until,
			GroupBy: analytics.GroupByDay, SumField: "unique_visitors",
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &TenantTraffic{
		TenantID:            tenantID,
		Days:                days,
		TotalViews:          int64(totalViews),
		TotalUniqueVisitors: int64(totalUniques),
		DailySeries:         mergeDailySeries(dailyViews, dailyUniques),
	}, nil
}

// PlatformVisitorStats composes the cross-tenant visitor section: totals,
// sparse daily series, and the top tenants by views with resolved names.
func (s *service) PlatformVisitorStats(ctx context.Context, days int) (*VisitorStats, error) {
	if days <= 0 {
		return nil, apperrors.NewValidation("days", "must be positive")
	}

	since, until := analytics.LastNDays(s.now(), days)

	var (
		totalViews   float64
		totalUniques float64
		dailyViews   []analytics.Row
		dailyUniques []analytics.Row
		byTenant     []analytics.Row
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totalViews, err = analytics.ScalarTotal(gctx, s.engine, analytics.Query{
			Source: analytics.PageAnalytics,
			Since:  &since, Until: &until, SumField: "views",
		})
		return err
	})
	g.Go(func() error {
		var err error
		totalUniques, err = analytics.ScalarTotal(gctx, s.engine, analytics.Query{
			Source: analytics.PageAnalytics,
			Since:  &since, Until: &until, SumField: "unique_visitors",
		})
		return err
	})
	g.Go(func() error {
		var err error
		dailyViews, err = s.engine.Aggregate(gctx, analytics.Query{
			Source: analytics.PageAnalytics,
			Since:  &since, Until: &until,
			GroupBy: analytics.GroupByDay, SumField: "views",
		})
		return err
	})
	g.Go(func() error {
		var err error
		dailyUniques, err = s.engine.Aggregate(gctx, analytics.Query{
			Source: analytics.PageAnalytics,
			Since:  &since, Until: &until,
			GroupBy: analytics.GroupByDay, SumField: "unique_visitors",
		})
		return err
	})
	g.Go(func() error {
		var err error
		byTenant, err = s.engine.Aggregate(gctx, analytics.Query{
			Source: analytics.PageAnalytics,
			Since:  &since, Until: &until,
			GroupBy: analytics.GroupByTenant, SumField: "views",
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	topTenants, err := s.topTenants(ctx, byTenant)
	if err != nil {
		return nil, err
	}

	return &VisitorStats{
		TotalViewsLast30Days:          int64(totalViews),
		TotalUniqueVisitorsLast30Days: int64(totalUniques),
		DailySeries:                   mergeDailySeries(dailyViews, dailyUniques),
		TopTenants:                    topTenants,
	}, nil
}

// topTenants takes the per-tenant view totals, keeps the top entries, and
// joins display names from a single batched lookup.
func (s *service) topTenants(ctx context.Context, byTenant []analytics.Row) ([]TenantViews, error) {
	sort.SliceStable(byTenant, func(i, j int) bool {
		return byTenant[i].Total > byTenant[j].Total
	})
	if len(byTenant) > topTenantsLimit {
		byTenant = byTenant[:topTenantsLimit]
	}

	ids := make([]string, 0, len(byTenant))
	for _, row := range byTenant {
		ids = append(ids, row.Key)
	}

	top := make([]TenantViews, 0, len(byTenant))
	if len(ids) == 0 {
		return top, nil
	}

	names, err := s.resolver.ResolveNames(ctx, ids)
	if err != nil {
		return nil, apperrors.Unexpected("resolve top tenant names", err)
	}

	for _, row := range byTenant {
		top = append(top, TenantViews{
			TenantID: row.Key,
			Name:     names[row.Key],
			Views:    int64(row.Total),
		})
	}
	return top, nil
}

// mergeDailySeries joins the views and unique-visitor day buckets into one
// ascending sparse series
func mergeDailySeries(views, uniques []analytics.Row) []DayStat {
	type dayKey struct{ y, m, d int }

	merged := make(map[dayKey]*DayStat, len(views))
	for _, row := range views {
		merged[dayKey{row.Year, row.Month, row.Day}] = &DayStat{
			Year: row.Year, Month: row.Month, Day: row.Day,
			Views: int64(row.Total),
		}
	}
	for _, row := range uniques {
		key := dayKey{row.Year, row.Month, row.Day}
		if stat, ok := merged[key]; ok {
			stat.UniqueVisitors = int64(row.Total)
			continue
		}
		merged[key] = &DayStat{
			Year: row.Year, Month: row.Month, Day: row.Day,
			UniqueVisitors: int64(row.Total),
		}
	}

	series := make([]DayStat, 0, len(merged))
	for _, stat := range merged {
		series = append(series, *stat)
	}
	sort.Slice(series, func(i, j int) bool {
		if series[i].Year != series[j].Year {
			return series[i].Year < series[j].Year
		}
		if series[i].Month != series[j].Month {
			return series[i].Month < series[j].Month
		}
		return series[i].Day < series[j].Day
	})
	return series
}

// validateTrackingIDs checks both identifiers on the suppressed write path
func validateTrackingIDs(tenantID, pageID string) error {
	if _, err := uuid.Parse(tenantID); err != nil {
		return apperrors.NewValidation("tenantId", "must be a valid UUID")
	}
	if _, err := uuid.Parse(pageID); err != nil {
		return apperrors.NewValidation("pageId", "must be a valid UUID")
	}
	return nil
}
