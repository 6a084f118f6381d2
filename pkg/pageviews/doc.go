// Package pageviews owns the daily page-view counters: it is the only writer
// in the analytics subsystem, and it serves the visitor read models built on
// top of those counters.
//
// # Overview
//
// The write path records page views and conversions into the page_analytics
// table, one row per (tenant, page, day). TrackPageView is a single atomic
// INSERT ... ON CONFLICT DO UPDATE, so concurrent first-views of a day cannot
// create duplicate rows. Both write operations are best-effort telemetry:
// failures are logged and counted, never returned, so tracking can never fail
// the request that triggered it.
//
// The read path exposes tenant-scoped traffic reports and the platform-wide
// visitor stats (totals, sparse daily series, top tenants by views) consumed
// by the report composers.
//
// # Usage Example
//
//	svc := pageviews.NewService(db, engine, resolver, logger, metrics)
//	svc.TrackPageView(ctx, tenantID, pageID, pageviews.Meta{IsNewVisitor: true})
//	traffic, err := svc.TenantTraffic(ctx, tenantID, 30)
//
// # Related Packages
//
//   - pkg/analytics: aggregation engine backing the read path
//   - pkg/tenants: display-name resolution for the top-tenants leaderboard
//   - pkg/platform: embeds the visitor stats in the platform KPI report
package pageviews
