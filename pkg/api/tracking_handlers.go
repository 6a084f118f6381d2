package api

import (
	"net/http"

	"github.com/siteforge/siteforge/pkg/httputil"
	"github.com/siteforge/siteforge/pkg/pageviews"
)

// trackPageViewRequest is the body of POST /api/v1/analytics/pageviews
type trackPageViewRequest struct {
	TenantID     string `json:"tenantId"`
	PageID       string `json:"pageId"`
	IsNewVisitor bool   `json:"isNewVisitor"`
}

// recordConversionRequest is the body of POST /api/v1/analytics/conversions
type recordConversionRequest struct {
	TenantID string `json:"tenantId"`
	PageID   string `json:"pageId"`
	Type     string `json:"type"`
}

// trackPageView handles POST /api/v1/analytics/pageviews. The recorder is
// best-effort by contract, so a well-formed request is always accepted; only
// an unreadable body is rejected.
func (s *Server) trackPageView(w http.ResponseWriter, r *http.Request) {
	var req trackPageViewRequest
	if err := httputil.ParseJSON(r, &req); err != nil {
		httputil.WriteValidationError(w, err.Error())
		return
	}

	s.tracker.TrackPageView(r.Context(), req.TenantID, req.PageID, pageviews.Meta{IsNewVisitor: req.IsNewVisitor})
	httputil.WriteAccepted(w)
}

// recordConversion handles POST /api/v1/analytics/conversions
func (s *Server) recordConversion(w http.ResponseWriter, r *http.Request) {
	var req recordConversionRequest
	if err := httputil.ParseJSON(r, &req); err != nil {
		httputil.WriteValidationError(w, err.Error())
		return
	}

	s.tracker.RecordConversion(r.Context(), req.TenantID, req.PageID, req.Type)
	httputil.WriteAccepted(w)
}
