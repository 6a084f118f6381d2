package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements creates the tables the aggregation sources read and the
// page-view recorder writes. The UNIQUE constraint on page_analytics backs
// the recorder's atomic increment-or-create upsert.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS tenants (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		plan_key TEXT NOT NULL DEFAULT 'free',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		tenant_id UUID NOT NULL,
		email_verified BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS invoices (
		id UUID PRIMARY KEY,
		tenant_id UUID NOT NULL,
		status TEXT NOT NULL,
		currency TEXT,
		total_amount NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (total_amount >= 0),
		issue_date TIMESTAMPTZ NOT NULL,
		due_date TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS pos_orders (
		id UUID PRIMARY KEY,
		tenant_id UUID NOT NULL,
		total_amount NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (total_amount >= 0),
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS reseller_orders (
		id UUID PRIMARY KEY,
		tenant_id UUID NOT NULL,
		total_amount NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (total_amount >= 0),
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS page_analytics (
		id BIGSERIAL PRIMARY KEY,
		tenant_id UUID NOT NULL,
		page_id UUID NOT NULL,
		date DATE NOT NULL,
		views BIGINT NOT NULL DEFAULT 0,
		unique_visitors BIGINT NOT NULL DEFAULT 0,
		avg_time_on_page DOUBLE PRECISION NOT NULL DEFAULT 0,
		bounce_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
		conversion_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
		UNIQUE (tenant_id, page_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS domains (
		id UUID PRIMARY KEY,
		tenant_id UUID NOT NULL,
		type TEXT NOT NULL,
		status TEXT NOT NULL,
		ssl_provider TEXT,
		ssl_status TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS custom_domains (
		id UUID PRIMARY KEY,
		tenant_id UUID NOT NULL,
		type TEXT NOT NULL,
		status TEXT NOT NULL,
		ssl_provider TEXT,
		ssl_status TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_tenant_status ON invoices (tenant_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_issue_date ON invoices (issue_date)`,
	`CREATE INDEX IF NOT EXISTS idx_pos_orders_tenant_created ON pos_orders (tenant_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_reseller_orders_tenant_created ON reseller_orders (tenant_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_page_analytics_tenant_date ON page_analytics (tenant_id, date)`,
}

// EnsureSchema creates all tables and indexes if they do not exist
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
