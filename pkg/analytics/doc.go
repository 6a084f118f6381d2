// Package analytics provides the shared aggregation engine behind every
// siteforge reporting composer.
//
// # Overview
//
// A Query names a registered Source, a predicate (tenant filter, status
// filter, optional half-open time range), and a grouping key. The engine
// returns one strongly typed Row per group carrying the record count, the
// summed amount, and the first non-null value of a designated categorical
// column. Routing every composer through this one contract keeps time-window
// and bucketing semantics uniform across reports.
//
// Time ranges are [start, end); "last N days" means now−N·24h through now.
// Calendar buckets group on the year/month/day components of the stored
// timestamp with no timezone conversion.
//
// # Usage Example
//
// Paid invoice totals by calendar month over the trailing year:
//
//	since, until := analytics.LastNDays(time.Now(), 365)
//	rows, err := engine.Aggregate(ctx, analytics.Query{
//		Source:   analytics.Invoices,
//		Statuses: []string{"paid"},
//		Since:    &since,
//		Until:    &until,
//		GroupBy:  analytics.GroupByMonth,
//		SumField: "total_amount",
//	})
//
// # Related Packages
//
//   - pkg/revenue, pkg/platform, pkg/tenantreport, pkg/orders: composers
//   - pkg/pageviews: daily counters the page_analytics source reads
//   - pkg/storage/postgres: schema the registered sources map onto
package analytics
