package tenantreport

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/siteforge/siteforge/pkg/analytics"
	"github.com/siteforge/siteforge/pkg/apperrors"
	"github.com/siteforge/siteforge/pkg/observability"
	"github.com/siteforge/siteforge/pkg/pageviews"
)

const (
	statusPaid    = "paid"
	statusOverdue = "overdue"

	// trafficWindowDays is the fixed window for the traffic report
	trafficWindowDays = 30
)

// TrafficSource is the tenant-scoped visitor read path
type TrafficSource interface {
	TenantTraffic(ctx context.Context, tenantID string, days int) (*pageviews.TenantTraffic, error)
}

// Service composes tenant-scoped reports
type Service interface {
	GetTenantFinancialReport(ctx context.Context, tenantID string) (*FinancialReport, error)
	GetTenantCommerceReport(ctx context.Context, tenantID string) (*CommerceReport, error)
	GetTenantTrafficReport(ctx context.Context, tenantID string) (*pageviews.TenantTraffic, error)
}

type service struct {
	engine  analytics.Engine
	traffic TrafficSource
	metrics *observability.Metrics
	now     func() time.Time
}

// NewService creates the tenant report composer
func NewService(engine analytics.Engine, traffic TrafficSource, metrics *observability.Metrics) Service {
	return &service{
		engine:  engine,
		traffic: traffic,
		metrics: metrics,
		now:     time.Now,
	}
}

// GetTenantFinancialReport aggregates the tenant's invoices grouped by status
func (s *service) GetTenantFinancialReport(ctx context.Context, tenantID string) (_ *FinancialReport, err error) {
	start := s.now()
	defer func() {
		s.metrics.ObserveReport("tenant_financial", time.Since(start), err)
	}()

	if _, parseErr := uuid.Parse(tenantID); parseErr != nil {
		err = apperrors.NewValidation("tenantId", "must be a valid UUID")
		return nil, err
	}

	rows, err := s.engine.Aggregate(ctx, analytics.Query{
		Source:     analytics.Invoices,
		TenantID:   tenantID,
		GroupBy:    analytics.GroupByStatus,
		SumField:   analytics.Invoices.AmountColumn,
		FirstField: analytics.Invoices.CurrencyColumn,
	})
	if err != nil {
		return nil, err
	}

	report := &FinancialReport{
		TenantID: tenantID,
		ByStatus: make(map[string]StatusBreakdown, len(rows)),
	}
	for _, row := range rows {
		report.ByStatus[row.Key] = StatusBreakdown{Count: row.Count, Amount: row.Total}
		report.Totals.TotalInvoices += row.Count
		report.Totals.TotalAmount += row.Total
		switch row.Key {
		case statusPaid:
			report.Totals.PaidAmount = row.Total
		case statusOverdue:
			report.Totals.OverdueAmount = row.Total
		}
		if report.Currency == "" && row.First != "" {
			report.Currency = row.First
		}
	}
	return report, nil
}

// GetTenantCommerceReport runs two concurrent aggregations over the tenant's
// point-of-sale orders: overall totals and a status breakdown
func (s *service) GetTenantCommerceReport(ctx context.Context, tenantID string) (_ *CommerceReport, err error) {
	start := s.now()
	defer func() {
		s.metrics.ObserveReport("tenant_commerce", time.Since(start), err)
	}()

	if _, parseErr := uuid.Parse(tenantID); parseErr != nil {
		err = apperrors.NewValidation("tenantId", "must be a valid UUID")
		return nil, err
	}

	report := &CommerceReport{TenantID: tenantID}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.engine.Aggregate(gctx, analytics.Query{
			Source:   analytics.POSOrders,
			TenantID: tenantID,
			SumField: analytics.POSOrders.AmountColumn,
		})
		if err != nil {
			return err
		}
		if len(rows) > 0 {
			report.TotalOrders = rows[0].Count
			report.TotalSales = rows[0].Total
		}
		return nil
	})
	g.Go(func() error {
		rows, err := s.engine.Aggregate(gctx, analytics.Query{
			Source:   analytics.POSOrders,
			TenantID: tenantID,
			GroupBy:  analytics.GroupByStatus,
		})
		if err != nil {
			return err
		}
		byStatus := make(map[string]int64, len(rows))
		for _, row := range rows {
			byStatus[row.Key] = row.Count
		}
		report.ByStatus = byStatus
		return nil
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}

	return report, nil
}

// GetTenantTrafficReport delegates to the page-view read path with the fixed
// 30-day window
func (s *service) GetTenantTrafficReport(ctx context.Context, tenantID string) (_ *pageviews.TenantTraffic, err error) {
	start := s.now()
	defer func() {
		s.metrics.ObserveReport("tenant_traffic", time.Since(start), err)
	}()

	traffic, err := s.traffic.TenantTraffic(ctx, tenantID, trafficWindowDays)
	if err != nil {
		return nil, err
	}
	return traffic, nil
}
