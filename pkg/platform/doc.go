// Package platform composes the cross-tenant operational KPI report: tenant,
// user, billing, domain, order, plan, visitor, SSL automation, and payments
// health sections joined from roughly twenty-five concurrent reads.
//
// # Overview
//
// Every read is independent, so the composer fans them all out at once and
// joins at a single barrier. The report is all-or-nothing: one failed read
// aborts the whole snapshot rather than serving a partially populated report.
//
// CachedService adds an optional short-TTL redis snapshot in front of the
// composer. The snapshot is a plain JSON encoding of the report; a scheduled
// warm pass can refresh it so interactive reads rarely pay the full fan-out.
//
// # Usage Example
//
//	svc := platform.NewService(engine, visitorSvc, paymentLog, metrics)
//	cached := platform.NewCachedService(svc, redisClient, time.Minute, logger, metrics)
//	report, err := cached.GetPlatformKPIs(ctx)
//
// # Related Packages
//
//   - pkg/analytics: the aggregation engine every section reads through
//   - pkg/pageviews: supplies the visitors section
//   - pkg/paymentlog: supplies the payments-health section
package platform
