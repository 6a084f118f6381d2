package analytics

// Registered aggregation sources. Column names match the schema bootstrap in
// pkg/storage/postgres.
var (
	// Invoices carries tenant billing documents; amounts are summed over
	// total_amount and time-filtered on issue_date.
	Invoices = Source{
		Name:           "invoices",
		Table:          "invoices",
		TenantColumn:   "tenant_id",
		StatusColumn:   "status",
		TimeColumn:     "issue_date",
		AmountColumn:   "total_amount",
		CurrencyColumn: "currency",
	}

	// POSOrders are point-of-sale commerce orders.
	POSOrders = Source{
		Name:         "pos_orders",
		Table:        "pos_orders",
		TenantColumn: "tenant_id",
		StatusColumn: "status",
		TimeColumn:   "created_at",
		AmountColumn: "total_amount",
	}

	// ResellerOrders are domain-reseller orders; same shape as POS orders
	// but a distinct status vocabulary.
	ResellerOrders = Source{
		Name:         "reseller_orders",
		Table:        "reseller_orders",
		TenantColumn: "tenant_id",
		StatusColumn: "status",
		TimeColumn:   "created_at",
		AmountColumn: "total_amount",
	}

	// PageAnalytics holds the daily per-page counters owned by the event
	// recorder. Sums target views or unique_visitors explicitly.
	PageAnalytics = Source{
		Name:         "page_analytics",
		Table:        "page_analytics",
		TenantColumn: "tenant_id",
		TimeColumn:   "date",
		AmountColumn: "views",
	}

	// Domains are platform-managed (internal) domains.
	Domains = Source{
		Name:         "domains",
		Table:        "domains",
		TenantColumn: "tenant_id",
		StatusColumn: "status",
	}

	// CustomDomains are tenant-connected external domains.
	CustomDomains = Source{
		Name:         "custom_domains",
		Table:        "custom_domains",
		TenantColumn: "tenant_id",
		StatusColumn: "status",
	}

	// Tenants is the tenant directory; grouped by plan_key for plan
	// distribution reports.
	Tenants = Source{
		Name:         "tenants",
		Table:        "tenants",
		StatusColumn: "status",
		TimeColumn:   "created_at",
		PlanColumn:   "plan_key",
	}

	// Users is the platform user directory, counts only.
	Users = Source{
		Name:         "users",
		Table:        "users",
		TenantColumn: "tenant_id",
	}
)
