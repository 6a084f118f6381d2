package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/siteforge/siteforge/pkg/apperrors"
	"github.com/siteforge/siteforge/pkg/httputil"
	"github.com/siteforge/siteforge/pkg/observability"
	"github.com/siteforge/siteforge/pkg/orders"
	"github.com/siteforge/siteforge/pkg/pageviews"
	"github.com/siteforge/siteforge/pkg/platform"
	"github.com/siteforge/siteforge/pkg/revenue"
	"github.com/siteforge/siteforge/pkg/tenantreport"
)

// Server exposes the analytics subsystem over HTTP: the two tracking entry
// points plus the read-only report endpoints
type Server struct {
	router *mux.Router
	logger *observability.Logger

	tracker       pageviews.Service
	revenue       revenue.Service
	platform      platform.Service
	tenantReports tenantreport.Service
	orders        orders.Service
}

// NewServer creates the API server and registers all routes
func NewServer(
	tracker pageviews.Service,
	revenueSvc revenue.Service,
	platformSvc platform.Service,
	tenantReports tenantreport.Service,
	ordersSvc orders.Service,
	logger *observability.Logger,
) *Server {
	s := &Server{
		router:        mux.NewRouter(),
		logger:        logger,
		tracker:       tracker,
		revenue:       revenueSvc,
		platform:      platformSvc,
		tenantReports: tenantReports,
		orders:        ordersSvc,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	// Tracking entry points (the only mutations this subsystem exposes)
	s.router.HandleFunc("/api/v1/analytics/pageviews", s.trackPageView).Methods("POST")
	s.router.HandleFunc("/api/v1/analytics/conversions", s.recordConversion).Methods("POST")

	// Platform operator reports
	s.router.HandleFunc("/api/v1/admin/analytics/revenue", s.getRevenueAnalytics).Methods("GET")
	s.router.HandleFunc("/api/v1/admin/analytics/kpis", s.getPlatformKPIs).Methods("GET")

	// Tenant admin reports
	s.router.HandleFunc("/api/v1/tenants/{tenantId}/reports/financial", s.getTenantFinancialReport).Methods("GET")
	s.router.HandleFunc("/api/v1/tenants/{tenantId}/reports/commerce", s.getTenantCommerceReport).Methods("GET")
	s.router.HandleFunc("/api/v1/tenants/{tenantId}/reports/traffic", s.getTenantTrafficReport).Methods("GET")

	// Order dashboard
	s.router.HandleFunc("/api/v1/orders/dashboard-stats", s.getOrderDashboardStats).Methods("GET")
}

// Router returns the configured router for middleware wrapping
func (s *Server) Router() *mux.Router {
	return s.router
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// writeServiceError maps the error taxonomy onto HTTP statuses. Validation
// and not-found surface their message; anything else logs the cause and
// returns a generic 500.
func (s *Server) writeServiceError(r *http.Request, w http.ResponseWriter, err error) {
	switch {
	case apperrors.IsValidation(err):
		httputil.WriteValidationError(w, err.Error())
	case apperrors.IsNotFound(err):
		httputil.WriteNotFoundError(w, err.Error())
	default:
		observability.FromContext(r.Context()).
			WithError(err).
			WithField("path", r.URL.Path).
			Error("report composition failed")
		httputil.WriteInternalError(w)
	}
}
