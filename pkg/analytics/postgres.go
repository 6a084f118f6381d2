package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/siteforge/siteforge/pkg/apperrors"
	"github.com/siteforge/siteforge/pkg/observability"
)

// identifierPattern is the grammar every table and column name must satisfy
// before it is interpolated into generated SQL. Values always travel as
// placeholders.
var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// PostgresEngine implements Engine over a PostgreSQL connection. All reads
// are plain aggregate queries, so it is safe to hand it a read replica.
type PostgresEngine struct {
	db      *sql.DB
	metrics *observability.Metrics
}

// NewPostgresEngine creates an engine over db.
func NewPostgresEngine(db *sql.DB) *PostgresEngine {
	return &PostgresEngine{db: db}
}

// WithMetrics attaches query instrumentation and returns the engine.
func (e *PostgresEngine) WithMetrics(m *observability.Metrics) *PostgresEngine {
	e.metrics = m
	return e
}

// Aggregate builds and executes the SQL for q, returning one Row per group.
func (e *PostgresEngine) Aggregate(ctx context.Context, q Query) ([]Row, error) {
	query, args, err := buildSQL(q)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := e.run(ctx, q, query, args)
	if e.metrics != nil {
		e.metrics.ObserveAggregation(q.Source.Name, time.Since(start), err)
	}
	return result, err
}

func (e *PostgresEngine) run(ctx context.Context, q Query, query string, args []interface{}) ([]Row, error) {
	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Unexpected(fmt.Sprintf("aggregate %s", q.Source.Name), err)
	}
	defer rows.Close()

	result := make([]Row, 0)
	for rows.Next() {
		r, err := scanRow(rows, q)
		if err != nil {
			return nil, apperrors.Unexpected(fmt.Sprintf("scan %s row", q.Source.Name), err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Unexpected(fmt.Sprintf("aggregate %s", q.Source.Name), err)
	}

	return result, nil
}

// scanRow scans one result row in the column order buildSQL emits.
func scanRow(rows *sql.Rows, q Query) (Row, error) {
	var r Row
	var key, first sql.NullString

	dest := make([]interface{}, 0, 6)
	switch q.GroupBy {
	case GroupByCurrency, GroupByStatus, GroupByTenant, GroupByPlan:
		dest = append(dest, &key)
	case GroupByMonth:
		dest = append(dest, &r.Year, &r.Month)
	case GroupByDay:
		dest = append(dest, &r.Year, &r.Month, &r.Day)
	}
	dest = append(dest, &r.Count)
	if q.SumField != "" {
		dest = append(dest, &r.Total)
	}
	if q.FirstField != "" {
		dest = append(dest, &first)
	}

	if err := rows.Scan(dest...); err != nil {
		return Row{}, err
	}

	r.Key = key.String
	r.First = first.String
	return r, nil
}

// buildSQL translates a Query into a parameterized SELECT. Calendar buckets
// group on the year/month/day components of the stored timestamp with no
// timezone conversion.
func buildSQL(q Query) (string, []interface{}, error) {
	if err := checkIdentifier(q.Source.Table); err != nil {
		return "", nil, err
	}

	var sel []string
	var groupCols []string
	var orderCols []string

	switch q.GroupBy {
	case GroupNone:
		// single summary row
	case GroupByCurrency, GroupByStatus, GroupByTenant, GroupByPlan:
		col, err := groupColumn(q)
		if err != nil {
			return "", nil, err
		}
		sel = append(sel, col)
		groupCols = append(groupCols, col)
	case GroupByMonth, GroupByDay:
		ts := q.Source.TimeColumn
		if ts == "" {
			return "", nil, fmt.Errorf("source %s has no time column for %s bucketing", q.Source.Name, q.GroupBy)
		}
		if err := checkIdentifier(ts); err != nil {
			return "", nil, err
		}
		parts := []string{"YEAR", "MONTH"}
		if q.GroupBy == GroupByDay {
			parts = append(parts, "DAY")
		}
		for _, part := range parts {
			sel = append(sel, fmt.Sprintf("EXTRACT(%s FROM %s)::int", part, ts))
		}
		for i := range parts {
			groupCols = append(groupCols, fmt.Sprintf("%d", i+1))
			orderCols = append(orderCols, fmt.Sprintf("%d", i+1))
		}
	default:
		return "", nil, fmt.Errorf("unsupported grouping: %d", q.GroupBy)
	}

	sel = append(sel, "COUNT(*)")
	if q.SumField != "" {
		if err := checkIdentifier(q.SumField); err != nil {
			return "", nil, err
		}
		sel = append(sel, fmt.Sprintf("COALESCE(SUM(%s), 0)", q.SumField))
	}
	if q.FirstField != "" {
		if err := checkIdentifier(q.FirstField); err != nil {
			return "", nil, err
		}
		sel = append(sel, fmt.Sprintf("MIN(%s)", q.FirstField))
	}

	where, args, err := buildWhere(q)
	if err != nil {
		return "", nil, err
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(sel, ", "))
	b.WriteString(" FROM ")
	b.WriteString(q.Source.Table)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	if len(groupCols) > 0 {
		b.WriteString(" GROUP BY ")
		b.WriteString(strings.Join(groupCols, ", "))
	}
	if len(orderCols) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(orderCols, ", "))
	}

	return b.String(), args, nil
}

// buildWhere assembles the predicate: tenant ∧ statuses ∧ [Since, Until) ∧
// extra equality filters (in sorted column order for stable SQL).
func buildWhere(q Query) ([]string, []interface{}, error) {
	var conds []string
	var args []interface{}

	next := func() int { return len(args) + 1 }

	if q.TenantID != "" {
		if q.Source.TenantColumn == "" {
			return nil, nil, fmt.Errorf("source %s has no tenant column", q.Source.Name)
		}
		conds = append(conds, fmt.Sprintf("%s = $%d", q.Source.TenantColumn, next()))
		args = append(args, q.TenantID)
	}

	if len(q.Statuses) > 0 {
		if q.Source.StatusColumn == "" {
			return nil, nil, fmt.Errorf("source %s has no status column", q.Source.Name)
		}
		if len(q.Statuses) == 1 {
			conds = append(conds, fmt.Sprintf("%s = $%d", q.Source.StatusColumn, next()))
			args = append(args, q.Statuses[0])
		} else {
			placeholders := make([]string, len(q.Statuses))
			for i, s := range q.Statuses {
				placeholders[i] = fmt.Sprintf("$%d", next())
				args = append(args, s)
			}
			conds = append(conds, fmt.Sprintf("%s IN (%s)", q.Source.StatusColumn, strings.Join(placeholders, ", ")))
		}
	}

	if q.Since != nil || q.Until != nil {
		if q.Source.TimeColumn == "" {
			return nil, nil, fmt.Errorf("source %s has no time column", q.Source.Name)
		}
		if q.Since != nil {
			conds = append(conds, fmt.Sprintf("%s >= $%d", q.Source.TimeColumn, next()))
			args = append(args, *q.Since)
		}
		if q.Until != nil {
			conds = append(conds, fmt.Sprintf("%s < $%d", q.Source.TimeColumn, next()))
			args = append(args, *q.Until)
		}
	}

	if len(q.Equals) > 0 {
		cols := make([]string, 0, len(q.Equals))
		for col := range q.Equals {
			cols = append(cols, col)
		}
		sort.Strings(cols)
		for _, col := range cols {
			if err := checkIdentifier(col); err != nil {
				return nil, nil, err
			}
			conds = append(conds, fmt.Sprintf("%s = $%d", col, next()))
			args = append(args, q.Equals[col])
		}
	}

	return conds, args, nil
}

// groupColumn resolves a categorical grouping to its source column.
func groupColumn(q Query) (string, error) {
	var col string
	switch q.GroupBy {
	case GroupByCurrency:
		col = q.Source.CurrencyColumn
	case GroupByStatus:
		col = q.Source.StatusColumn
	case GroupByTenant:
		col = q.Source.TenantColumn
	case GroupByPlan:
		col = q.Source.PlanColumn
	}
	if col == "" {
		return "", fmt.Errorf("source %s does not support grouping by %s", q.Source.Name, q.GroupBy)
	}
	if err := checkIdentifier(col); err != nil {
		return "", err
	}
	return col, nil
}

func checkIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid identifier: %q", name)
	}
	return nil
}
