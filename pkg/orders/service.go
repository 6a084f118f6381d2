package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/siteforge/siteforge/pkg/analytics"
	"github.com/siteforge/siteforge/pkg/apperrors"
	"github.com/siteforge/siteforge/pkg/observability"
)

// dateLayout is the accepted format for filter dates
const dateLayout = "2006-01-02"

// Fixed status vocabularies per order type
var (
	posStatuses      = []string{"pending", "completed", "cancelled", "refunded"}
	resellerStatuses = []string{"pending", "active", "expired", "cancelled"}
)

// Filter narrows the dashboard stats by tenant and creation date range. All
// fields are optional; present fields must be well-formed.
type Filter struct {
	TenantID string
	From     string // inclusive, "2006-01-02"
	To       string // inclusive, "2006-01-02"
}

// TypeStats is the per-order-type section of the dashboard
type TypeStats struct {
	TotalOrders int64            `json:"totalOrders"`
	TotalSales  float64          `json:"totalSales"`
	ByStatus    map[string]int64 `json:"byStatus"`
}

// DashboardStats is the order dashboard report
type DashboardStats struct {
	POS            TypeStats `json:"pos"`
	DomainReseller TypeStats `json:"domainReseller"`
}

// Service composes the order dashboard stats
type Service interface {
	GetDashboardStats(ctx context.Context, filter Filter) (*DashboardStats, error)
}

type service struct {
	engine  analytics.Engine
	metrics *observability.Metrics
	now     func() time.Time
}

// NewService creates the order dashboard composer
func NewService(engine analytics.Engine, metrics *observability.Metrics) Service {
	return &service{
		engine:  engine,
		metrics: metrics,
		now:     time.Now,
	}
}

// GetDashboardStats validates the filter, then runs one status-grouped
// aggregation per order type concurrently under a shared predicate.
func (s *service) GetDashboardStats(ctx context.Context, filter Filter) (_ *DashboardStats, err error) {
	start := s.now()
	defer func() {
		s.metrics.ObserveReport("orders_dashboard", time.Since(start), err)
	}()

	since, until, err := parseFilter(filter)
	if err != nil {
		return nil, err
	}

	var stats DashboardStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		typeStats, err := s.aggregateType(gctx, analytics.POSOrders, filter.TenantID, since, until, posStatuses)
		if err != nil {
			return err
		}
		stats.POS = typeStats
		return nil
	})
	g.Go(func() error {
		typeStats, err := s.aggregateType(gctx, analytics.ResellerOrders, filter.TenantID, since, until, resellerStatuses)
		if err != nil {
			return err
		}
		stats.DomainReseller = typeStats
		return nil
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}

	return &stats, nil
}

// aggregateType runs the status-grouped aggregation for one order type and
// folds it into totals plus the type's fixed status vocabulary
func (s *service) aggregateType(ctx context.Context, source analytics.Source, tenantID string, since, until *time.Time, vocabulary []string) (TypeStats, error) {
	rows, err := s.engine.Aggregate(ctx, analytics.Query{
		Source:   source,
		TenantID: tenantID,
		Since:    since, Until: until,
		GroupBy:  analytics.GroupByStatus,
		SumField: source.AmountColumn,
	})
	if err != nil {
		return TypeStats{}, err
	}

	stats := TypeStats{ByStatus: make(map[string]int64, len(vocabulary))}
	for _, status := range vocabulary {
		stats.ByStatus[status] = 0
	}
	for _, row := range rows {
		stats.TotalOrders += row.Count
		stats.TotalSales += row.Total
		if _, known := stats.ByStatus[row.Key]; known {
			stats.ByStatus[row.Key] = row.Count
		}
	}
	return stats, nil
}

// parseFilter validates every present filter field before any query runs
func parseFilter(filter Filter) (since, until *time.Time, err error) {
	if filter.TenantID != "" {
		if _, err := uuid.Parse(filter.TenantID); err != nil {
			return nil, nil, apperrors.NewValidation("tenantId", "must be a valid UUID")
		}
	}

	var from, to time.Time
	if filter.From != "" {
		from, err = time.Parse(dateLayout, filter.From)
		if err != nil {
			return nil, nil, apperrors.NewValidation("from", "must be a date in YYYY-MM-DD format")
		}
		since = &from
	}
	if filter.To != "" {
		to, err = time.Parse(dateLayout, filter.To)
		if err != nil {
			return nil, nil, apperrors.NewValidation("to", "must be a date in YYYY-MM-DD format")
		}
		if since != nil && to.Before(from) {
			return nil, nil, apperrors.NewValidation("to", "must not be earlier than from")
		}
		// Inclusive end date under the engine's half-open range
		end := to.AddDate(0, 0, 1)
		until = &end
	}
	return since, until, nil
}
