package analytics

import (
	"time"
)

// GroupBy selects the grouping key for an aggregation
type GroupBy int

const (
	// GroupNone returns a single row covering every matching record
	GroupNone GroupBy = iota
	// GroupByCurrency groups by the source's currency column
	GroupByCurrency
	// GroupByStatus groups by the source's status column
	GroupByStatus
	// GroupByTenant groups by the source's tenant column
	GroupByTenant
	// GroupByPlan groups by the source's plan column
	GroupByPlan
	// GroupByDay buckets by the calendar day of the source's time column
	GroupByDay
	// GroupByMonth buckets by the calendar month of the source's time column
	GroupByMonth
)

func (g GroupBy) String() string {
	switch g {
	case GroupNone:
		return "none"
	case GroupByCurrency:
		return "currency"
	case GroupByStatus:
		return "status"
	case GroupByTenant:
		return "tenant"
	case GroupByPlan:
		return "plan"
	case GroupByDay:
		return "day"
	case GroupByMonth:
		return "month"
	default:
		return "unknown"
	}
}

// Source describes an aggregatable table and the columns the engine may
// touch. Only registered columns ever reach the generated SQL.
type Source struct {
	Name           string // label used in metrics and errors
	Table          string
	TenantColumn   string
	StatusColumn   string
	TimeColumn     string // timestamp column used for range filters and bucketing
	AmountColumn   string // default numeric column for ScalarTotal
	CurrencyColumn string
	PlanColumn     string
}

// Query is the single aggregation contract every composer routes through:
// a source, a predicate (tenant ∧ statuses ∧ optional half-open time range),
// and a grouping key. Time ranges are [Since, Until).
type Query struct {
	Source   Source
	TenantID string     // optional tenant filter
	Statuses []string   // optional status filter (IN)
	Since    *time.Time // inclusive lower bound on the source's time column
	Until    *time.Time // exclusive upper bound
	// Equals holds extra equality filters keyed by column name. Columns are
	// validated against the identifier grammar before SQL generation.
	Equals map[string]interface{}

	GroupBy    GroupBy
	SumField   string // numeric column to sum; empty leaves Total at zero
	FirstField string // categorical column reported per group (first non-null)
}

// Row is one aggregation result group. Key carries the group label for
// categorical groupings; Year/Month/Day carry the calendar bucket for
// time groupings. First is the first non-null value of FirstField observed
// in the group, empty when none exists.
type Row struct {
	Key   string
	Year  int
	Month int
	Day   int
	Count int64
	Total float64
	First string
}

// MonthKey returns the zero-padded "YYYY-MM" label for a month bucket, so
// lexical order equals chronological order.
func (r Row) MonthKey() string {
	return MonthKey(r.Year, r.Month)
}
