package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/CIRA18-HUB/sales-dashboard/internal/services"
)

const maxTableRows = 50

var regionTableTemplate = template.Must(template.New("regionTable").Parse(`
<div id="overview-content">
<table class="modern-table">
<thead><tr><th>Region</th><th>Revenue</th><th>Customers</th><th>Products</th><th>Avg Price</th></tr></thead>
<tbody>
{{range .}}<tr>
<td>{{.Region}}</td>
<td><strong>{{printf "%.2f" .Revenue}}</strong></td>
<td>{{.CustomerCount}}</td>
<td>{{.ProductCount}}</td>
<td>{{printf "%.2f" .AvgUnitPrice}}</td>
</tr>{{end}}
</tbody>
</table>
</div>`))

type SSEHandlers struct {
	insights *services.Insights
	logger   *slog.Logger
}

func NewSSEHandlers(insights *services.Insights, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		insights: insights,
		logger:   logger,
	}
}

func (h *SSEHandlers) views(w http.ResponseWriter, r *http.Request) (*services.ComputedViews, bool) {
	views, err := h.insights.Views(criteriaFromQuery(r))
	if err != nil {
		h.logger.Error("compute views", "error", err)
		return nil, false
	}
	return views, true
}

func patchSignals(sse *datastar.ServerSentEventGenerator, logger *slog.Logger, signals map[string]any) bool {
	data, err := json.Marshal(signals)
	if err != nil {
		logger.Error("marshal signals", "error", err)
		return false
	}
	sse.PatchSignals(data)
	return true
}

func (h *SSEHandlers) renderRegionTable(views *services.ComputedViews) (string, error) {
	regions := views.Regions
	if len(regions) > maxTableRows {
		regions = regions[:maxTableRows]
	}

	var buf strings.Builder
	err := regionTableTemplate.Execute(&buf, regions)
	return buf.String(), err
}

func (h *SSEHandlers) HandleOverview(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	views, ok := h.views(w, r)
	if !ok {
		return
	}

	html, err := h.renderRegionTable(views)
	if err != nil {
		h.logger.Error("render region table", "error", err)
		return
	}
	sse.PatchElements(html)

	patchSignals(sse, h.logger, map[string]any{
		"overview":   views.Overview,
		"regions":    views.Regions,
		"packaging":  views.Packaging,
		"applicants": views.Applicants,
	})

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleNewProducts(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	views, ok := h.views(w, r)
	if !ok {
		return
	}

	if !patchSignals(sse, h.logger, map[string]any{
		"split":           views.Split,
		"newProductSales": views.NewProductSales,
		"regionNewShares": views.RegionNewShares,
	}) {
		return
	}
	sse.PatchElements(`<div id="new-products-content">✅ New product data loaded</div>`)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleSegments(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	views, ok := h.views(w, r)
	if !ok {
		return
	}

	if !patchSignals(sse, h.logger, map[string]any{
		"features":      views.Features,
		"segments":      views.Segments,
		"topAcceptance": views.TopAcceptance,
	}) {
		return
	}
	sse.PatchElements(`<div id="segments-content">✅ Segmentation data loaded</div>`)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleAffinity(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	views, ok := h.views(w, r)
	if !ok {
		return
	}

	if !patchSignals(sse, h.logger, map[string]any{
		"coOccurrence": views.CoOccurrence,
		"newPartners":  views.NewPartners,
		"baskets":      views.Baskets,
	}) {
		return
	}
	sse.PatchElements(`<div id="affinity-content">✅ Affinity data loaded</div>`)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandlePenetration(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	views, ok := h.views(w, r)
	if !ok {
		return
	}

	signals := map[string]any{
		"penetration":       views.Penetration,
		"regionPenetration": views.RegionPenetration,
		"trendAvailable":    views.TrendAvailable,
	}
	if views.TrendAvailable {
		signals["trend"] = views.Trend
	}
	if !patchSignals(sse, h.logger, signals) {
		return
	}

	if views.TrendAvailable {
		sse.PatchElements(`<div id="penetration-content">✅ Penetration data loaded</div>`)
	} else {
		sse.PatchElements(`<div id="penetration-content">⚠️ Trend unavailable: ship months are not dates</div>`)
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	views, ok := h.views(w, r)
	if !ok {
		return
	}

	html, err := h.renderRegionTable(views)
	if err != nil {
		h.logger.Error("render region table", "error", err)
		return
	}
	sse.PatchElements(html)

	signals := map[string]any{
		"overview":          views.Overview,
		"regions":           views.Regions,
		"packaging":         views.Packaging,
		"applicants":        views.Applicants,
		"split":             views.Split,
		"newProductSales":   views.NewProductSales,
		"regionNewShares":   views.RegionNewShares,
		"features":          views.Features,
		"segments":          views.Segments,
		"topAcceptance":     views.TopAcceptance,
		"coOccurrence":      views.CoOccurrence,
		"newPartners":       views.NewPartners,
		"baskets":           views.Baskets,
		"penetration":       views.Penetration,
		"regionPenetration": views.RegionPenetration,
		"trendAvailable":    views.TrendAvailable,
	}
	if views.TrendAvailable {
		signals["trend"] = views.Trend
	}
	patchSignals(sse, h.logger, signals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
