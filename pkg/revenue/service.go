package revenue

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/siteforge/siteforge/pkg/analytics"
	"github.com/siteforge/siteforge/pkg/observability"
)

// Invoice statuses the composer cares about
const (
	statusPaid      = "paid"
	statusOverdue   = "overdue"
	statusCancelled = "cancelled"
)

// Service composes the revenue analytics snapshot
type Service interface {
	GetRevenueAnalytics(ctx context.Context) (*Analytics, error)
}

type service struct {
	engine  analytics.Engine
	metrics *observability.Metrics
	now     func() time.Time
}

// NewService creates the revenue composer
func NewService(engine analytics.Engine, metrics *observability.Metrics) Service {
	return &service{
		engine:  engine,
		metrics: metrics,
		now:     time.Now,
	}
}

// GetRevenueAnalytics fans out six invoice aggregations concurrently and joins
// them into one snapshot. Any failed branch aborts the whole report.
func (s *service) GetRevenueAnalytics(ctx context.Context) (_ *Analytics, err error) {
	start := s.now()
	defer func() {
		s.metrics.ObserveReport("revenue", time.Since(start), err)
	}()

	now := s.now()
	since30, until30 := analytics.LastNDays(now, 30)
	since365, until365 := analytics.LastNDays(now, 365)
	mrrSince, mrrUntil := analytics.PreviousMonth(now)

	var (
		last30   analytics.Row
		last365  analytics.Row
		byMonth  []analytics.Row
		byCur    []analytics.Row
		byStatus []analytics.Row
		mrrRow   analytics.Row
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		last30, err = s.scalarPaid(gctx, &since30, &until30)
		return err
	})
	g.Go(func() error {
		var err error
		last365, err = s.scalarPaid(gctx, &since365, &until365)
		return err
	})
	g.Go(func() error {
		var err error
		byMonth, err = s.engine.Aggregate(gctx, analytics.Query{
			Source:   analytics.Invoices,
			Statuses: []string{statusPaid},
			Since:    &since365, Until: &until365,
			GroupBy:  analytics.GroupByMonth,
			SumField: analytics.Invoices.AmountColumn,
		})
		return err
	})
	g.Go(func() error {
		var err error
		byCur, err = s.engine.Aggregate(gctx, analytics.Query{
			Source:   analytics.Invoices,
			Statuses: []string{statusPaid},
			GroupBy:  analytics.GroupByCurrency,
			SumField: analytics.Invoices.AmountColumn,
		})
		return err
	})
	g.Go(func() error {
		var err error
		byStatus, err = s.engine.Aggregate(gctx, analytics.Query{
			Source:  analytics.Invoices,
			GroupBy: analytics.GroupByStatus,
		})
		return err
	})
	g.Go(func() error {
		var err error
		mrrRow, err = s.scalarPaid(gctx, &mrrSince, &mrrUntil)
		return err
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}

	report := &Analytics{
		TotalRevenueLast30:  last30.Total,
		TotalRevenueLast365: last365.Total,
		MRRApprox:           mrrRow.Total,
		ARRApprox:           mrrRow.Total * 12,
		ByMonth:             monthSeries(byMonth),
		ByCurrency:          currencySeries(byCur),
		DefaultCurrency:     defaultCurrency(byCur),
		Status: StatusCounts{
			// Windowed count, deliberately not derived from the
			// un-windowed status grouping below
			PaidLast30: last30.Count,
			Overdue:    statusCount(byStatus, statusOverdue),
			Cancelled:  statusCount(byStatus, statusCancelled),
		},
	}
	return report, nil
}

// scalarPaid returns the single count+total row for paid invoices in a window
func (s *service) scalarPaid(ctx context.Context, since, until *time.Time) (analytics.Row, error) {
	rows, err := s.engine.Aggregate(ctx, analytics.Query{
		Source:   analytics.Invoices,
		Statuses: []string{statusPaid},
		Since:    since, Until: until,
		SumField: analytics.Invoices.AmountColumn,
	})
	if err != nil {
		return analytics.Row{}, err
	}
	if len(rows) == 0 {
		return analytics.Row{}, nil
	}
	return rows[0], nil
}

// monthSeries labels month buckets "YYYY-MM" and sorts ascending; zero-padded
// labels make lexical order chronological
func monthSeries(rows []analytics.Row) []MonthRevenue {
	series := make([]MonthRevenue, 0, len(rows))
	for _, row := range rows {
		series = append(series, MonthRevenue{
			Month: row.MonthKey(),
			Total: row.Total,
			Count: row.Count,
		})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Month < series[j].Month
	})
	return series
}

func currencySeries(rows []analytics.Row) []CurrencyRevenue {
	series := make([]CurrencyRevenue, 0, len(rows))
	for _, row := range rows {
		series = append(series, CurrencyRevenue{
			Currency:    row.Key,
			TotalAmount: row.Total,
			PaidCount:   row.Count,
		})
	}
	return series
}

// defaultCurrency picks the currency with the maximum paid total. Ties keep
// the earlier row: the backend's row order decides, and that order is not
// guaranteed stable.
func defaultCurrency(rows []analytics.Row) string {
	currency := ""
	max := 0.0
	for _, row := range rows {
		if row.Key == "" {
			continue
		}
		if currency == "" || row.Total > max {
			currency = row.Key
			max = row.Total
		}
	}
	return currency
}

func statusCount(rows []analytics.Row, status string) int64 {
	for _, row := range rows {
		if row.Key == status {
			return row.Count
		}
	}
	return 0
}
