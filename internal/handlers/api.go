package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/CIRA18-HUB/sales-dashboard/internal/errors"
	"github.com/CIRA18-HUB/sales-dashboard/internal/models"
	"github.com/CIRA18-HUB/sales-dashboard/internal/observability"
	"github.com/CIRA18-HUB/sales-dashboard/internal/services"
)

var cacheHeaders = map[string]string{
	"Cache-Control": "public, max-age=300",
}

type APIHandlers struct {
	insights *services.Insights
	logger   *slog.Logger
}

func NewAPIHandlers(insights *services.Insights, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		insights: insights,
		logger:   logger,
	}
}

// criteriaFromQuery reads the repeatable filter params. Absent params mean
// no restriction on that dimension.
func criteriaFromQuery(r *http.Request) models.FilterCriteria {
	q := r.URL.Query()
	return models.FilterCriteria{
		Regions:    q["region"],
		Customers:  q["customer"],
		Products:   q["product"],
		Applicants: q["applicant"],
	}
}

func (h *APIHandlers) views(w http.ResponseWriter, r *http.Request) (*services.ComputedViews, bool) {
	views, err := h.insights.Views(criteriaFromQuery(r))
	if err != nil {
		requestID := observability.GetRequestID(r.Context())
		errors.WriteError(w, h.logger, errors.ServiceUnavailable("analytics unavailable"), requestID)
		return nil, false
	}
	return views, true
}

func (h *APIHandlers) HandleOverview(w http.ResponseWriter, r *http.Request) {
	views, ok := h.views(w, r)
	if !ok {
		return
	}

	errors.WriteSuccessWithHeaders(w, map[string]any{
		"overview":    views.Overview,
		"regions":     views.Regions,
		"packaging":   views.Packaging,
		"applicants":  views.Applicants,
		"products":    views.Products,
		"sample_data": h.insights.UsingSampleData(),
	}, cacheHeaders)
}

func (h *APIHandlers) HandleNewProducts(w http.ResponseWriter, r *http.Request) {
	views, ok := h.views(w, r)
	if !ok {
		return
	}

	errors.WriteSuccessWithHeaders(w, map[string]any{
		"split":             views.Split,
		"new_product_sales": views.NewProductSales,
		"region_new_shares": views.RegionNewShares,
	}, cacheHeaders)
}

func (h *APIHandlers) HandleSegments(w http.ResponseWriter, r *http.Request) {
	views, ok := h.views(w, r)
	if !ok {
		return
	}

	errors.WriteSuccessWithHeaders(w, map[string]any{
		"features":       views.Features,
		"segments":       views.Segments,
		"top_acceptance": views.TopAcceptance,
	}, cacheHeaders)
}

func (h *APIHandlers) HandleAffinity(w http.ResponseWriter, r *http.Request) {
	views, ok := h.views(w, r)
	if !ok {
		return
	}

	errors.WriteSuccessWithHeaders(w, map[string]any{
		"co_occurrence": views.CoOccurrence,
		"new_partners":  views.NewPartners,
		"baskets":       views.Baskets,
	}, cacheHeaders)
}

func (h *APIHandlers) HandlePenetration(w http.ResponseWriter, r *http.Request) {
	views, ok := h.views(w, r)
	if !ok {
		return
	}

	payload := map[string]any{
		"penetration":        views.Penetration,
		"region_penetration": views.RegionPenetration,
		"trend_available":    views.TrendAvailable,
	}
	if views.TrendAvailable {
		payload["trend"] = views.Trend
	}

	errors.WriteSuccessWithHeaders(w, payload, cacheHeaders)
}

func (h *APIHandlers) HandleFilters(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.insights.FilterOptions(), cacheHeaders)
}

func (h *APIHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	data, err := h.insights.ExportReport(criteriaFromQuery(r))
	if err != nil {
		requestID := observability.GetRequestID(r.Context())
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "report generation failed"), requestID)
		return
	}

	filename := fmt.Sprintf("sales-report-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("write report response", "error", err)
	}
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.insights.Stats())
}
