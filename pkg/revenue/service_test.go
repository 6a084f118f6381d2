package revenue

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siteforge/siteforge/pkg/analytics"
	"github.com/siteforge/siteforge/pkg/observability"
)

// invoice is a test fixture row backing the in-memory engine
type invoice struct {
	status   string
	currency string
	total    float64
	issued   time.Time
}

// invoiceEngine aggregates an in-memory invoice slice with the same predicate
// and grouping semantics as the SQL engine
type invoiceEngine struct {
	invoices []invoice
}

func (e *invoiceEngine) Aggregate(_ context.Context, q analytics.Query) ([]analytics.Row, error) {
	var matched []invoice
	for _, inv := range e.invoices {
		if len(q.Statuses) > 0 && inv.status != q.Statuses[0] {
			continue
		}
		if q.Since != nil && inv.issued.Before(*q.Since) {
			continue
		}
		if q.Until != nil && !inv.issued.Before(*q.Until) {
			continue
		}
		matched = append(matched, inv)
	}

	sum := func(invs []invoice) float64 {
		var total float64
		if q.SumField == "" {
			return 0
		}
		for _, inv := range invs {
			total += inv.total
		}
		return total
	}

	switch q.GroupBy {
	case analytics.GroupNone:
		return []analytics.Row{{Count: int64(len(matched)), Total: sum(matched)}}, nil
	case analytics.GroupByCurrency, analytics.GroupByStatus:
		groups := map[string][]invoice{}
		for _, inv := range matched {
			key := inv.currency
			if q.GroupBy == analytics.GroupByStatus {
				key = inv.status
			}
			groups[key] = append(groups[key], inv)
		}
		keys := make([]string, 0, len(groups))
		for key := range groups {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		rows := make([]analytics.Row, 0, len(keys))
		for _, key := range keys {
			rows = append(rows, analytics.Row{Key: key, Count: int64(len(groups[key])), Total: sum(groups[key])})
		}
		return rows, nil
	case analytics.GroupByMonth:
		type bucket struct{ y, m int }
		groups := map[bucket][]invoice{}
		for _, inv := range matched {
			groups[bucket{inv.issued.Year(), int(inv.issued.Month())}] = append(groups[bucket{inv.issued.Year(), int(inv.issued.Month())}], inv)
		}
		rows := make([]analytics.Row, 0, len(groups))
		for b, invs := range groups {
			rows = append(rows, analytics.Row{Year: b.y, Month: b.m, Count: int64(len(invs)), Total: sum(invs)})
		}
		return rows, nil
	}
	return nil, errors.New("unsupported grouping")
}

func buildService(engine analytics.Engine, now time.Time) *service {
	return &service{
		engine:  engine,
		metrics: observability.NewMetrics(prometheus.NewRegistry()),
		now:     func() time.Time { return now },
	}
}

func TestGetRevenueAnalytics(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	engine := &invoiceEngine{invoices: []invoice{
		{status: "paid", currency: "USD", total: 100, issued: now.AddDate(0, 0, -20)},
		{status: "paid", currency: "EUR", total: 50, issued: now.AddDate(0, 0, -40)},
		{status: "overdue", currency: "USD", total: 30, issued: now.AddDate(0, 0, -10)},
	}}

	report, err := buildService(engine, now).GetRevenueAnalytics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, float64(100), report.TotalRevenueLast30)
	assert.Equal(t, float64(150), report.TotalRevenueLast365)
	assert.Equal(t, "USD", report.DefaultCurrency)

	assert.Equal(t, int64(1), report.Status.PaidLast30)
	assert.Equal(t, int64(1), report.Status.Overdue)
	assert.Equal(t, int64(0), report.Status.Cancelled)

	require.Len(t, report.ByCurrency, 2)
	assert.Contains(t, report.ByCurrency, CurrencyRevenue{Currency: "USD", TotalAmount: 100, PaidCount: 1})
	assert.Contains(t, report.ByCurrency, CurrencyRevenue{Currency: "EUR", TotalAmount: 50, PaidCount: 1})
}

func TestGetRevenueAnalyticsMRRUsesCompletedMonth(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	engine := &invoiceEngine{invoices: []invoice{
		// Previous completed month (May)
		{status: "paid", currency: "USD", total: 200, issued: time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)},
		{status: "paid", currency: "USD", total: 100, issued: time.Date(2025, 5, 31, 23, 0, 0, 0, time.UTC)},
		// Current partial month must not count toward MRR
		{status: "paid", currency: "USD", total: 999, issued: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)},
	}}

	report, err := buildService(engine, now).GetRevenueAnalytics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, float64(300), report.MRRApprox)
	assert.Equal(t, float64(3600), report.ARRApprox)
	assert.Equal(t, report.MRRApprox*12, report.ARRApprox)
}

func TestGetRevenueAnalyticsByMonthSortedAscending(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	engine := &invoiceEngine{invoices: []invoice{
		{status: "paid", currency: "USD", total: 10, issued: time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC)},
		{status: "paid", currency: "USD", total: 20, issued: time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC)},
		{status: "paid", currency: "USD", total: 30, issued: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)},
	}}

	report, err := buildService(engine, now).GetRevenueAnalytics(context.Background())
	require.NoError(t, err)

	require.Len(t, report.ByMonth, 3)
	assert.Equal(t, "2024-11", report.ByMonth[0].Month)
	assert.Equal(t, "2025-01", report.ByMonth[1].Month)
	assert.Equal(t, "2025-02", report.ByMonth[2].Month)
	for i := 1; i < len(report.ByMonth); i++ {
		assert.LessOrEqual(t, report.ByMonth[i-1].Month, report.ByMonth[i].Month)
	}
}

func TestGetRevenueAnalyticsEmptyStore(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	report, err := buildService(&invoiceEngine{}, now).GetRevenueAnalytics(context.Background())
	require.NoError(t, err)

	assert.Zero(t, report.TotalRevenueLast30)
	assert.Zero(t, report.MRRApprox)
	assert.Zero(t, report.ARRApprox)
	assert.Empty(t, report.DefaultCurrency)
	assert.Empty(t, report.ByMonth)
	assert.Empty(t, report.ByCurrency)
}

type failingEngine struct{}

func (failingEngine) Aggregate(context.Context, analytics.Query) ([]analytics.Row, error) {
	return nil, errors.New("store unavailable")
}

func TestGetRevenueAnalyticsBranchFailureAborts(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	_, err := buildService(failingEngine{}, now).GetRevenueAnalytics(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store unavailable")
}
