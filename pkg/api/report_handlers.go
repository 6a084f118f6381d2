package api

import (
	"net/http"

	"github.com/siteforge/siteforge/pkg/httputil"
	"github.com/siteforge/siteforge/pkg/orders"
)

// getRevenueAnalytics handles GET /api/v1/admin/analytics/revenue
func (s *Server) getRevenueAnalytics(w http.ResponseWriter, r *http.Request) {
	report, err := s.revenue.GetRevenueAnalytics(r.Context())
	if err != nil {
		s.writeServiceError(r, w, err)
		return
	}
	httputil.WriteSuccess(w, report)
}

// getPlatformKPIs handles GET /api/v1/admin/analytics/kpis
func (s *Server) getPlatformKPIs(w http.ResponseWriter, r *http.Request) {
	report, err := s.platform.GetPlatformKPIs(r.Context())
	if err != nil {
		s.writeServiceError(r, w, err)
		return
	}
	httputil.WriteSuccess(w, report)
}

// getTenantFinancialReport handles GET /api/v1/tenants/{tenantId}/reports/financial
func (s *Server) getTenantFinancialReport(w http.ResponseWriter, r *http.Request) {
	tenantID, err := httputil.ParsePathString(r, "tenantId")
	if err != nil {
		httputil.WriteValidationError(w, err.Error())
		return
	}

	report, err := s.tenantReports.GetTenantFinancialReport(r.Context(), tenantID)
	if err != nil {
		s.writeServiceError(r, w, err)
		return
	}
	httputil.WriteSuccess(w, report)
}

// getTenantCommerceReport handles GET /api/v1/tenants/{tenantId}/reports/commerce
func (s *Server) getTenantCommerceReport(w http.ResponseWriter, r *http.Request) {
	tenantID, err := httputil.ParsePathString(r, "tenantId")
	if err != nil {
		httputil.WriteValidationError(w, err.Error())
		return
	}

	report, err := s.tenantReports.GetTenantCommerceReport(r.Context(), tenantID)
	if err != nil {
		s.writeServiceError(r, w, err)
		return
	}
	httputil.WriteSuccess(w, report)
}

// getTenantTrafficReport handles GET /api/v1/tenants/{tenantId}/reports/traffic
func (s *Server) getTenantTrafficReport(w http.ResponseWriter, r *http.Request) {
	tenantID, err := httputil.ParsePathString(r, "tenantId")
	if err != nil {
		httputil.WriteValidationError(w, err.Error())
		return
	}

	report, err := s.tenantReports.GetTenantTrafficReport(r.Context(), tenantID)
	if err != nil {
		s.writeServiceError(r, w, err)
		return
	}
	httputil.WriteSuccess(w, report)
}

// getOrderDashboardStats handles GET /api/v1/orders/dashboard-stats
// Query params:
//   - tenantId: optional tenant filter
//   - from, to: optional inclusive date range (YYYY-MM-DD) on order creation
func (s *Server) getOrderDashboardStats(w http.ResponseWriter, r *http.Request) {
	filter := orders.Filter{
		TenantID: httputil.ParseQueryString(r, "tenantId", ""),
		From:     httputil.ParseQueryString(r, "from", ""),
		To:       httputil.ParseQueryString(r, "to", ""),
	}

	stats, err := s.orders.GetDashboardStats(r.Context(), filter)
	if err != nil {
		s.writeServiceError(r, w, err)
		return
	}
	httputil.WriteSuccess(w, stats)
}
