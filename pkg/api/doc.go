// Package api exposes the analytics subsystem over HTTP.
//
// # Overview
//
// The surface is read-heavy: operator reports (revenue, platform KPIs),
// tenant reports (financial, commerce, traffic), and order dashboard stats.
// The only mutations are the two fire-and-forget tracking entry points for
// page views and conversions, which always accept well-formed requests
// because the recorder suppresses its own failures.
//
// Errors map onto statuses by taxonomy: validation failures return 400 with
// the message, missing entities 404, and everything else a generic 500 with
// the cause logged server-side.
//
// # Related Packages
//
//   - pkg/pageviews, pkg/revenue, pkg/platform, pkg/tenantreport, pkg/orders:
//     the services behind each endpoint
//   - pkg/middleware: request ID, logging, metrics, and recovery wrapping
package api
