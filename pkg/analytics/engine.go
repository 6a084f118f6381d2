package analytics

import (
	"context"
)

// Engine is the aggregation contract shared by every composer. Implementations
// return one Row per group; a GroupNone query always yields exactly one row
// (count zero when nothing matches).
type Engine interface {
	Aggregate(ctx context.Context, q Query) ([]Row, error)
}

// ScalarCount runs q without grouping and returns the matching record count.
func ScalarCount(ctx context.Context, e Engine, q Query) (int64, error) {
	q.GroupBy = GroupNone
	q.SumField = ""
	q.FirstField = ""

	rows, err := e.Aggregate(ctx, q)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Count, nil
}

// ScalarTotal runs q without grouping and returns the summed amount. When
// q.SumField is empty the source's default amount column is used.
func ScalarTotal(ctx context.Context, e Engine, q Query) (float64, error) {
	q.GroupBy = GroupNone
	q.FirstField = ""
	if q.SumField == "" {
		q.SumField = q.Source.AmountColumn
	}

	rows, err := e.Aggregate(ctx, q)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}
