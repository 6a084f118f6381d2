package platform

import (
	"github.com/siteforge/siteforge/pkg/pageviews"
	"github.com/siteforge/siteforge/pkg/paymentlog"
)

// TenantStats is the tenant directory section
type TenantStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Trialing int64 `json:"trialing"`
	Paying   int64 `json:"paying"`
}

// UserStats is the platform user section
type UserStats struct {
	Total    int64 `json:"total"`
	Verified int64 `json:"verified"`
}

// BillingStats is the invoice section. Currency is the first non-null
// currency observed across paid invoices.
type BillingStats struct {
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalInvoices int64   `json:"totalInvoices"`
	PaidInvoices  int64   `json:"paidInvoices"`
	Currency      string  `json:"currency"`
}

// DomainStats counts one domain store
type DomainStats struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}

// DomainsSection splits platform-managed and tenant-connected domains
type DomainsSection struct {
	Internal DomainStats `json:"internal"`
	Custom   DomainStats `json:"custom"`
}

// OrderDayStat is one day of order activity; the series is sparse
type OrderDayStat struct {
	Year   int     `json:"year"`
	Month  int     `json:"month"`
	Day    int     `json:"day"`
	Orders int64   `json:"orders"`
	Sales  float64 `json:"sales"`
}

// OrdersWindow is order activity inside a rolling window
type OrdersWindow struct {
	TotalOrders int64   `json:"totalOrders"`
	TotalSales  float64 `json:"totalSales"`
}

// OrdersSection is the commerce order section
type OrdersSection struct {
	TotalOrders int64            `json:"totalOrders"`
	TotalSales  float64          `json:"totalSales"`
	Last30Days  OrdersWindow     `json:"last30Days"`
	ByStatus    map[string]int64 `json:"byStatus"`
	DailySeries []OrderDayStat   `json:"dailySeries"`
}

// PlansSection is the tenant plan distribution
type PlansSection struct {
	ByPlanKey map[string]int64 `json:"byPlanKey"`
}

// MonthRevenue is paid revenue for one calendar month, labeled "YYYY-MM"
type MonthRevenue struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

// ACMEStats counts certificates issued through the ACME automation
type ACMEStats struct {
	TotalDomains        int64 `json:"totalDomains"`
	IssuedCertificates  int64 `json:"issuedCertificates"`
	PendingCertificates int64 `json:"pendingCertificates"`
	FailedCertificates  int64 `json:"failedCertificates"`
}

// SSLSection is the SSL automation section
type SSLSection struct {
	ACME ACMEStats `json:"acme"`
}

// PaymentsHealth summarizes recent payment gateway failures
type PaymentsHealth struct {
	TotalFailedLast30Days int64             `json:"totalFailedLast30Days"`
	RecentFailures        []paymentlog.Entry `json:"recentFailures"`
}

// Report is the full cross-tenant operational snapshot. JSON field names are
// part of the exposed contract and must stay stable.
type Report struct {
	Tenants        TenantStats             `json:"tenants"`
	Users          UserStats               `json:"users"`
	Billing        BillingStats            `json:"billing"`
	Domains        DomainsSection          `json:"domains"`
	Orders         OrdersSection           `json:"orders"`
	Plans          PlansSection            `json:"plans"`
	Visitors       pageviews.VisitorStats  `json:"visitors"`
	MonthlyRevenue []MonthRevenue          `json:"monthlyRevenue"`
	SSLAutomation  SSLSection              `json:"sslAutomation"`
	PaymentsHealth PaymentsHealth          `json:"paymentsHealth"`
}
