package pageviews

// Meta carries optional page-view metadata from the tracking entry point
type Meta struct {
	IsNewVisitor bool `json:"isNewVisitor"`
}

// DayStat is one day of visitor activity. Series are sparse: days with no
// recorded activity are absent, never zero-filled.
type DayStat struct {
	Year           int   `json:"year"`
	Month          int   `json:"month"`
	Day            int   `json:"day"`
	Views          int64 `json:"views"`
	UniqueVisitors int64 `json:"uniqueVisitors"`
}

// TenantTraffic is the tenant-scoped visitor report
type TenantTraffic struct {
	TenantID            string    `json:"tenantId"`
	Days                int       `json:"days"`
	TotalViews          int64     `json:"totalViews"`
	TotalUniqueVisitors int64     `json:"totalUniqueVisitors"`
	DailySeries         []DayStat `json:"dailySeries"`
}

// TenantViews is one entry of the cross-tenant traffic leaderboard
type TenantViews struct {
	TenantID string `json:"tenantId"`
	Name     string `json:"name"`
	Views    int64  `json:"views"`
}

// VisitorStats is the platform-wide visitor section consumed by the platform
// KPI report. JSON field names are part of the exposed contract.
type VisitorStats struct {
	TotalViewsLast30Days          int64         `json:"totalViewsLast30Days"`
	TotalUniqueVisitorsLast30Days int64         `json:"totalUniqueVisitorsLast30Days"`
	DailySeries                   []DayStat     `json:"dailySeries"`
	TopTenants                    []TenantViews `json:"topTenants"`
}
