package platform

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/siteforge/siteforge/pkg/analytics"
	"github.com/siteforge/siteforge/pkg/observability"
	"github.com/siteforge/siteforge/pkg/pageviews"
	"github.com/siteforge/siteforge/pkg/paymentlog"
)

const (
	statusPaid     = "paid"
	statusActive   = "active"
	statusTrialing = "trialing"

	freePlanKey = "free"

	acmeProvider = "acme"

	// recentFailuresLimit caps the payments-health failure list
	recentFailuresLimit = 5

	// visitorWindowDays is the fixed window for the visitor section
	visitorWindowDays = 30
)

// VisitorSource provides the cross-tenant visitor section
type VisitorSource interface {
	PlatformVisitorStats(ctx context.Context, days int) (*pageviews.VisitorStats, error)
}

// Service composes the platform KPI report
type Service interface {
	GetPlatformKPIs(ctx context.Context) (*Report, error)
}

type service struct {
	engine   analytics.Engine
	visitors VisitorSource
	payments paymentlog.Provider
	metrics  *observability.Metrics
	now      func() time.Time
}

// NewService creates the platform KPI composer
func NewService(engine analytics.Engine, visitors VisitorSource, payments paymentlog.Provider, metrics *observability.Metrics) Service {
	return &service{
		engine:   engine,
		visitors: visitors,
		payments: payments,
		metrics:  metrics,
		now:      time.Now,
	}
}

// GetPlatformKPIs fans out every section's reads concurrently and joins them
// into one report. All-or-nothing: a failure in any branch aborts the report.
func (s *service) GetPlatformKPIs(ctx context.Context) (_ *Report, err error) {
	start := s.now()
	defer func() {
		s.metrics.ObserveReport("platform_kpis", time.Since(start), err)
	}()

	now := s.now()
	since30, until30 := analytics.LastNDays(now, 30)
	since365, until365 := analytics.LastNDays(now, 365)

	var report Report

	g, gctx := errgroup.WithContext(ctx)

	count := func(dst *int64, q analytics.Query) {
		g.Go(func() error {
			n, err := analytics.ScalarCount(gctx, s.engine, q)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}

	// Tenants. Paying is derived from the plan distribution below, not
	// counted directly: any plan other than the free one pays.
	count(&report.Tenants.Total, analytics.Query{Source: analytics.Tenants})
	count(&report.Tenants.Active, analytics.Query{
		Source: analytics.Tenants,
		Equals: map[string]interface{}{"is_active": true},
	})
	count(&report.Tenants.Trialing, analytics.Query{
		Source:   analytics.Tenants,
		Statuses: []string{statusTrialing},
	})

	// Users
	count(&report.Users.Total, analytics.Query{Source: analytics.Users})
	count(&report.Users.Verified, analytics.Query{
		Source: analytics.Users,
		Equals: map[string]interface{}{"email_verified": true},
	})

	// Billing
	count(&report.Billing.TotalInvoices, analytics.Query{Source: analytics.Invoices})
	g.Go(func() error {
		rows, err := s.engine.Aggregate(gctx, analytics.Query{
			Source:     analytics.Invoices,
			Statuses:   []string{statusPaid},
			SumField:   analytics.Invoices.AmountColumn,
			FirstField: analytics.Invoices.CurrencyColumn,
		})
		if err != nil {
			return err
		}
		if len(rows) > 0 {
			report.Billing.TotalRevenue = rows[0].Total
			report.Billing.PaidInvoices = rows[0].Count
			report.Billing.Currency = rows[0].First
		}
		return nil
	})

	// Domains
	count(&report.Domains.Internal.Total, analytics.Query{Source: analytics.Domains})
	count(&report.Domains.Internal.Active, analytics.Query{
		Source:   analytics.Domains,
		Statuses: []string{statusActive},
	})
	count(&report.Domains.Custom.Total, analytics.Query{Source: analytics.CustomDomains})
	count(&report.Domains.Custom.Active, analytics.Query{
		Source:   analytics.CustomDomains,
		Statuses: []string{statusActive},
	})

	// SSL automation (ACME certificates on tenant-connected domains)
	count(&report.SSLAutomation.ACME.TotalDomains, analytics.Query{
		Source: analytics.CustomDomains,
		Equals: map[string]interface{}{"ssl_provider": acmeProvider},
	})
	count(&report.SSLAutomation.ACME.IssuedCertificates, analytics.Query{
		Source: analytics.CustomDomains,
		Equals: map[string]interface{}{"ssl_provider": acmeProvider, "ssl_status": "issued"},
	})
	count(&report.SSLAutomation.ACME.PendingCertificates, analytics.Query{
		Source: analytics.CustomDomains,
		Equals: map[string]interface{}{"ssl_provider": acmeProvider, "ssl_status": "pending"},
	})
	count(&report.SSLAutomation.ACME.FailedCertificates, analytics.Query{
		Source: analytics.CustomDomains,
		Equals: map[string]interface{}{"ssl_provider": acmeProvider, "ssl_status": "failed"},
	})

	// Orders
	g.Go(func() error {
		rows, err := s.engine.Aggregate(gctx, analytics.Query{
			Source:   analytics.POSOrders,
			SumField: analytics.POSOrders.AmountColumn,
		})
		if err != nil {
			return err
		}
		if len(rows) > 0 {
			report.Orders.TotalOrders = rows[0].Count
			report.Orders.TotalSales = rows[0].Total
		}
		return nil
	})
	g.Go(func() error {
		rows, err := s.engine.Aggregate(gctx, analytics.Query{
			Source:   analytics.POSOrders,
			Since:    &since30, Until: &until30,
			SumField: analytics.POSOrders.AmountColumn,
		})
		if err != nil {
			return err
		}
		if len(rows) > 0 {
			report.Orders.Last30Days = OrdersWindow{TotalOrders: rows[0].Count, TotalSales: rows[0].Total}
		}
		return nil
	})
	g.Go(func() error {
		rows, err := s.engine.Aggregate(gctx, analytics.Query{
			Source:  analytics.POSOrders,
			GroupBy: analytics.GroupByStatus,
		})
		if err != nil {
			return err
		}
		report.Orders.ByStatus = statusMap(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := s.engine.Aggregate(gctx, analytics.Query{
			Source:   analytics.POSOrders,
			Since:    &since30, Until: &until30,
			GroupBy:  analytics.GroupByDay,
			SumField: analytics.POSOrders.AmountColumn,
		})
		if err != nil {
			return err
		}
		report.Orders.DailySeries = orderDaySeries(rows)
		return nil
	})

	// Plan distribution
	g.Go(func() error {
		rows, err := s.engine.Aggregate(gctx, analytics.Query{
			Source:  analytics.Tenants,
			GroupBy: analytics.GroupByPlan,
		})
		if err != nil {
			return err
		}
		report.Plans.ByPlanKey = statusMap(rows)
		return nil
	})

	// Monthly paid revenue over the trailing year
	g.Go(func() error {
		rows, err := s.engine.Aggregate(gctx, analytics.Query{
			Source:   analytics.Invoices,
			Statuses: []string{statusPaid},
			Since:    &since365, Until: &until365,
			GroupBy:  analytics.GroupByMonth,
			SumField: analytics.Invoices.AmountColumn,
		})
		if err != nil {
			return err
		}
		report.MonthlyRevenue = monthSeries(rows)
		return nil
	})

	// Visitors
	g.Go(func() error {
		stats, err := s.visitors.PlatformVisitorStats(gctx, visitorWindowDays)
		if err != nil {
			return err
		}
		report.Visitors = *stats
		return nil
	})

	// Payments health
	g.Go(func() error {
		failed, err := s.payments.CountByStatusSince(gctx, paymentlog.StatusFailed, since30)
		if err != nil {
			return err
		}
		report.PaymentsHealth.TotalFailedLast30Days = failed
		return nil
	})
	g.Go(func() error {
		failures, err := s.payments.RecentFailures(gctx, recentFailuresLimit)
		if err != nil {
			return err
		}
		report.PaymentsHealth.RecentFailures = failures
		return nil
	})

	if err = g.Wait(); err != nil {
		return nil, err
	}

	// Join step: paying tenants from the plan distribution
	for plan, n := range report.Plans.ByPlanKey {
		if plan != freePlanKey {
			report.Tenants.Paying += n
		}
	}

	return &report, nil
}

// statusMap turns key-grouped rows into a count map
func statusMap(rows []analytics.Row) map[string]int64 {
	m := make(map[string]int64, len(rows))
	for _, row := range rows {
		m[row.Key] = row.Count
	}
	return m
}

// orderDaySeries converts day buckets into the sparse ascending order series
func orderDaySeries(rows []analytics.Row) []OrderDayStat {
	series := make([]OrderDayStat, 0, len(rows))
	for _, row := range rows {
		series = append(series, OrderDayStat{
			Year: row.Year, Month: row.Month, Day: row.Day,
			Orders: row.Count, Sales: row.Total,
		})
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

// monthSeries labels month buckets "YYYY-MM" and sorts ascending
func monthSeries(rows []analytics.Row) []MonthRevenue {
	series := make([]MonthRevenue, 0, len(rows))
	for _, row := range rows {
		series = append(series, MonthRevenue{Month: row.MonthKey(), Total: row.Total, Count: row.Count})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Month < series[j].Month
	})
	return series
}
