// Package observability provides structured logging, Prometheus metrics,
// OpenTelemetry tracing, health checks, and graceful shutdown for the
// siteforge analytics services.
//
// # Overview
//
// The Logger wraps stdlib slog with a JSON handler and context plumbing for
// request and tenant IDs. Metrics covers HTTP traffic, aggregation query
// latency, report composition, page-view tracking, and the platform KPI
// cache. Tracing is exported over OTLP/gRPC when enabled; metrics stay on
// the Prometheus pull path.
//
// # Usage Example
//
// Logging with context:
//
//	ctx = observability.WithTenantID(ctx, tenantID)
//	observability.FromContext(ctx).WithField("report", "financial").Info("composed report")
//
// Recording an aggregation query:
//
//	metrics.ObserveAggregation("invoices", time.Since(start), err)
//
// # Related Packages
//
//   - pkg/middleware: HTTP middleware emitting these metrics
//   - pkg/analytics: aggregation engine instrumented with ObserveAggregation
package observability
