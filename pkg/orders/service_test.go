package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siteforge/siteforge/pkg/analytics"
	"github.com/siteforge/siteforge/pkg/apperrors"
	"github.com/siteforge/siteforge/pkg/observability"
)

const testTenantID = "11111111-1111-1111-1111-111111111111"

type fakeEngine struct {
	aggregate func(ctx context.Context, q analytics.Query) ([]analytics.Row, error)
}

func (f *fakeEngine) Aggregate(ctx context.Context, q analytics.Query) ([]analytics.Row, error) {
	return f.aggregate(ctx, q)
}

func buildService(engine analytics.Engine) *service {
	return &service{
		engine:  engine,
		metrics: observability.NewMetrics(prometheus.NewRegistry()),
		now:     time.Now,
	}
}

func TestGetDashboardStats(t *testing.T) {
	engine := &fakeEngine{aggregate: func(_ context.Context, q analytics.Query) ([]analytics.Row, error) {
		assert.Equal(t, testTenantID, q.TenantID)
		assert.Equal(t, analytics.GroupByStatus, q.GroupBy)
		switch q.Source.Name {
		case "pos_orders":
			return []analytics.Row{
				{Key: "completed", Count: 8, Total: 800},
				{Key: "refunded", Count: 2, Total: 120},
			}, nil
		case "reseller_orders":
			return []analytics.Row{
				{Key: "active", Count: 3, Total: 45},
			}, nil
		}
		return nil, errors.New("unexpected source")
	}}

	stats, err := buildService(engine).GetDashboardStats(context.Background(), Filter{TenantID: testTenantID})
	require.NoError(t, err)

	assert.Equal(t, int64(10), stats.POS.TotalOrders)
	assert.Equal(t, float64(920), stats.POS.TotalSales)
	assert.Equal(t, map[string]int64{
		"pending": 0, "completed": 8, "cancelled": 0, "refunded": 2,
	}, stats.POS.ByStatus)

	assert.Equal(t, int64(3), stats.DomainReseller.TotalOrders)
	assert.Equal(t, float64(45), stats.DomainReseller.TotalSales)
	assert.Equal(t, map[string]int64{
		"pending": 0, "active": 3, "expired": 0, "cancelled": 0,
	}, stats.DomainReseller.ByStatus)
}

func TestGetDashboardStatsDateRange(t *testing.T) {
	engine := &fakeEngine{aggregate: func(_ context.Context, q analytics.Query) ([]analytics.Row, error) {
		require.NotNil(t, q.Since)
		require.NotNil(t, q.Until)
		assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), *q.Since)
		// Inclusive end date: the upper bound is the day after "to"
		assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), *q.Until)
		return nil, nil
	}}

	_, err := buildService(engine).GetDashboardStats(context.Background(), Filter{From: "2025-05-01", To: "2025-05-31"})
	require.NoError(t, err)
}

func TestGetDashboardStatsValidation(t *testing.T) {
	engine := &fakeEngine{aggregate: func(_ context.Context, _ analytics.Query) ([]analytics.Row, error) {
		t.Fatal("no query may run when validation fails")
		return nil, nil
	}}
	svc := buildService(engine)

	tests := []struct {
		name   string
		filter Filter
	}{
		{"malformed tenant id", Filter{TenantID: "not-an-id"}},
		{"malformed from date", Filter{From: "05/01/2025"}},
		{"malformed to date", Filter{To: "yesterday"}},
		{"inverted range", Filter{From: "2025-05-31", To: "2025-05-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetDashboardStats(context.Background(), tt.filter)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
		})
	}
}

func TestGetDashboardStatsBranchFailureAborts(t *testing.T) {
	engine := &fakeEngine{aggregate: func(_ context.Context, q analytics.Query) ([]analytics.Row, error) {
		if q.Source.Name == "reseller_orders" {
			return nil, errors.New("reseller store unavailable")
		}
		return nil, nil
	}}

	_, err := buildService(engine).GetDashboardStats(context.Background(), Filter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reseller store unavailable")
}
