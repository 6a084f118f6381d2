package tenantreport

// StatusBreakdown is one invoice status bucket
type StatusBreakdown struct {
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

// FinancialTotals aggregates a tenant's invoices across all statuses
type FinancialTotals struct {
	TotalInvoices int64   `json:"totalInvoices"`
	TotalAmount   float64 `json:"totalAmount"`
	PaidAmount    float64 `json:"paidAmount"`
	OverdueAmount float64 `json:"overdueAmount"`
}

// FinancialReport is the tenant-scoped invoice report. Currency is inferred
// from the first aggregation row carrying one.
type FinancialReport struct {
	TenantID string                     `json:"tenantId"`
	Currency string                     `json:"currency"`
	Totals   FinancialTotals            `json:"totals"`
	ByStatus map[string]StatusBreakdown `json:"byStatus"`
}

// CommerceReport is the tenant-scoped order report
type CommerceReport struct {
	TenantID    string           `json:"tenantId"`
	TotalOrders int64            `json:"totalOrders"`
	TotalSales  float64          `json:"totalSales"`
	ByStatus    map[string]int64 `json:"byStatus"`
}
