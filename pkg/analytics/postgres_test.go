package analytics

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSQLCountOnly(t *testing.T) {
	query, args, err := buildSQL(Query{Source: Tenants})
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM tenants", query)
	assert.Empty(t, args)
}

func TestBuildSQLFullPredicate(t *testing.T) {
	since := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	query, args, err := buildSQL(Query{
		Source:   Invoices,
		TenantID: "9f1c7a40-1111-4c3a-8a5e-0f62cbb1e001",
		Statuses: []string{"paid"},
		Since:    &since,
		Until:    &until,
		SumField: "total_amount",
	})
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT COUNT(*), COALESCE(SUM(total_amount), 0) FROM invoices "+
			"WHERE tenant_id = $1 AND status = $2 AND issue_date >= $3 AND issue_date < $4",
		query)
	assert.Len(t, args, 4)
}

func TestBuildSQLStatusIn(t *testing.T) {
	query, args, err := buildSQL(Query{
		Source:   POSOrders,
		Statuses: []string{"completed", "refunded"},
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM pos_orders WHERE status IN ($1, $2)", query)
	assert.Equal(t, []interface{}{"completed", "refunded"}, args)
}

func TestBuildSQLGroupByCurrency(t *testing.T) {
	query, _, err := buildSQL(Query{
		Source:     Invoices,
		Statuses:   []string{"paid"},
		GroupBy:    GroupByCurrency,
		SumField:   "total_amount",
		FirstField: "currency",
	})
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT currency, COUNT(*), COALESCE(SUM(total_amount), 0), MIN(currency) "+
			"FROM invoices WHERE status = $1 GROUP BY currency",
		query)
}

func TestBuildSQLMonthBuckets(t *testing.T) {
	since := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	query, _, err := buildSQL(Query{
		Source:   Invoices,
		Statuses: []string{"paid"},
		Since:    &since,
		Until:    &until,
		GroupBy:  GroupByMonth,
		SumField: "total_amount",
	})
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT EXTRACT(YEAR FROM issue_date)::int, EXTRACT(MONTH FROM issue_date)::int, "+
			"COUNT(*), COALESCE(SUM(total_amount), 0) FROM invoices "+
			"WHERE status = $1 AND issue_date >= $2 AND issue_date < $3 "+
			"GROUP BY 1, 2 ORDER BY 1, 2",
		query)
}

func TestBuildSQLDayBuckets(t *testing.T) {
	query, _, err := buildSQL(Query{
		Source:   PageAnalytics,
		SumField: "views",
		GroupBy:  GroupByDay,
	})
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT EXTRACT(YEAR FROM date)::int, EXTRACT(MONTH FROM date)::int, EXTRACT(DAY FROM date)::int, "+
			"COUNT(*), COALESCE(SUM(views), 0) FROM page_analytics "+
			"GROUP BY 1, 2, 3 ORDER BY 1, 2, 3",
		query)
}

func TestBuildSQLEqualsSorted(t *testing.T) {
	query, args, err := buildSQL(Query{
		Source: Domains,
		Equals: map[string]interface{}{
			"ssl_status":   "active",
			"ssl_provider": "acme",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM domains WHERE ssl_provider = $1 AND ssl_status = $2", query)
	assert.Equal(t, []interface{}{"acme", "active"}, args)
}

func TestBuildSQLRejectsUnsupportedGrouping(t *testing.T) {
	_, _, err := buildSQL(Query{Source: POSOrders, GroupBy: GroupByCurrency})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not support grouping by currency")
}

func TestBuildSQLRejectsTimeFilterWithoutTimeColumn(t *testing.T) {
	now := time.Now()
	_, _, err := buildSQL(Query{Source: Domains, Since: &now})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no time column")
}

func TestBuildSQLRejectsStatusFilterWithoutStatusColumn(t *testing.T) {
	_, _, err := buildSQL(Query{Source: Users, Statuses: []string{"active"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no status column")
}

func TestBuildSQLRejectsMalformedIdentifier(t *testing.T) {
	_, _, err := buildSQL(Query{
		Source: Users,
		Equals: map[string]interface{}{"email_verified; DROP TABLE users": true},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid identifier")
}

func TestAggregateScansGroupedRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	engine := NewPostgresEngine(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT status, COUNT(*), COALESCE(SUM(total_amount), 0) FROM invoices GROUP BY status")).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count", "total"}).
			AddRow("paid", 3, 150.0).
			AddRow("overdue", 1, 30.0))

	rows, err := engine.Aggregate(context.Background(), Query{
		Source:   Invoices,
		GroupBy:  GroupByStatus,
		SumField: "total_amount",
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Row{Key: "paid", Count: 3, Total: 150.0}, rows[0])
	assert.Equal(t, Row{Key: "overdue", Count: 1, Total: 30.0}, rows[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAggregateNullFirstField(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	engine := NewPostgresEngine(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*), COALESCE(SUM(total_amount), 0), MIN(currency) FROM invoices")).
		WillReturnRows(sqlmock.NewRows([]string{"count", "total", "first"}).AddRow(0, 0.0, nil))

	rows, err := engine.Aggregate(context.Background(), Query{
		Source:     Invoices,
		SumField:   "total_amount",
		FirstField: "currency",
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].First)
	assert.Zero(t, rows[0].Count)
}

func TestAggregateWrapsQueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	engine := NewPostgresEngine(db)

	cause := errors.New("connection reset")
	mock.ExpectQuery("SELECT COUNT").WillReturnError(cause)

	_, err = engine.Aggregate(context.Background(), Query{Source: Invoices})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "aggregate invoices")
}

func TestScalarCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	engine := NewPostgresEngine(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tenants")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := ScalarCount(context.Background(), engine, Query{Source: Tenants})
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
}

func TestScalarTotalDefaultsToAmountColumn(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	engine := NewPostgresEngine(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*), COALESCE(SUM(total_amount), 0) FROM invoices WHERE status = $1")).
		WithArgs("paid").
		WillReturnRows(sqlmock.NewRows([]string{"count", "total"}).AddRow(2, 150.0))

	total, err := ScalarTotal(context.Background(), engine, Query{
		Source:   Invoices,
		Statuses: []string{"paid"},
	})
	require.NoError(t, err)
	assert.Equal(t, 150.0, total)
}
