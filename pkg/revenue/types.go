package revenue

// MonthRevenue is paid revenue for one calendar month, labeled "YYYY-MM"
type MonthRevenue struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

// CurrencyRevenue is paid revenue and invoice count for one currency
type CurrencyRevenue struct {
	Currency    string  `json:"currency"`
	TotalAmount float64 `json:"totalAmount"`
	PaidCount   int64   `json:"paidCount"`
}

// StatusCounts carries the invoice status breakdown. PaidLast30 comes from a
// time-windowed count; Overdue and Cancelled from the un-windowed status
// grouping. The two paths are intentionally distinct.
type StatusCounts struct {
	PaidLast30 int64 `json:"paidLast30"`
	Overdue    int64 `json:"overdue"`
	Cancelled  int64 `json:"cancelled"`
}

// Analytics is the platform-wide revenue snapshot. ARRApprox is always
// exactly MRRApprox × 12; both are heuristics, not contractual figures.
type Analytics struct {
	TotalRevenueLast30  float64           `json:"totalRevenueLast30"`
	TotalRevenueLast365 float64           `json:"totalRevenueLast365"`
	MRRApprox           float64           `json:"mrrApprox"`
	ARRApprox           float64           `json:"arrApprox"`
	DefaultCurrency     string            `json:"defaultCurrency"`
	ByMonth             []MonthRevenue    `json:"byMonth"`
	ByCurrency          []CurrencyRevenue `json:"byCurrency"`
	Status              StatusCounts      `json:"status"`
}
