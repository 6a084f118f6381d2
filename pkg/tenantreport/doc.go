// Package tenantreport composes the tenant-scoped reports: financial
// (invoices by status), commerce (order totals and status counts), and
// traffic (delegated to the page-view read path with a fixed 30-day window).
//
// Tenant identifiers are validated before any query runs; every aggregation
// carries the tenant filter so one tenant's rows can never leak into another
// tenant's report.
package tenantreport
