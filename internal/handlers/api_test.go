package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/CIRA18-HUB/sales-dashboard/internal/analytics"
	"github.com/CIRA18-HUB/sales-dashboard/internal/models"
	"github.com/CIRA18-HUB/sales-dashboard/internal/services"
)

func createTestInsights() *services.Insights {
	march := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	ds := &models.Dataset{
		Records: []models.SalesRecord{
			{
				Customer:       "客户A",
				Region:         "南",
				Applicant:      "梁洪泽",
				ProductCode:    "F0110C",
				ProductName:    "口力汉堡108G袋装-中国",
				DisplayName:    "汉堡 (F0110C)",
				Packaging:      models.PackagingBag,
				UnitPrice:      100,
				Quantity:       1,
				Revenue:        100,
				ShipMonth:      march,
				ShipMonthValid: true,
			},
			{
				Customer:       "客户A",
				Region:         "南",
				Applicant:      "梁洪泽",
				ProductCode:    "F3415B",
				ProductName:    "口力汉堡540G盒装-中国",
				DisplayName:    "汉堡 (F3415B)",
				Packaging:      models.PackagingBox,
				UnitPrice:      75,
				Quantity:       2,
				Revenue:        150,
				ShipMonth:      march,
				ShipMonthValid: true,
			},
			{
				Customer:       "客户B",
				Region:         "中",
				Applicant:      "胡斌",
				ProductCode:    "F3415B",
				ProductName:    "口力汉堡540G盒装-中国",
				DisplayName:    "汉堡 (F3415B)",
				Packaging:      models.PackagingBox,
				UnitPrice:      75,
				Quantity:       4,
				Revenue:        300,
				ShipMonth:      march,
				ShipMonthValid: true,
			},
		},
		NewProducts: map[string]bool{"F0110C": true},
		LoadedAt:    time.Now(),
	}

	insights := services.NewInsights(analytics.DefaultThresholds, slog.Default())
	insights.SetDataset(ds)
	return insights
}

func TestNewAPIHandlers(t *testing.T) {
	insights := createTestInsights()
	handlers := NewAPIHandlers(insights, slog.Default())

	if handlers == nil {
		t.Fatal("NewAPIHandlers() returned nil")
	}

	if handlers.insights != insights {
		t.Error("NewAPIHandlers() should set insights field")
	}
}

func TestAPIHandlers_HandleOverview(t *testing.T) {
	handlers := NewAPIHandlers(createTestInsights(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/overview", nil)
	w := httptest.NewRecorder()

	handlers.HandleOverview(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected content-type 'application/json', got %q", ct)
	}

	if cc := w.Header().Get("Cache-Control"); cc != "public, max-age=300" {
		t.Errorf("expected cache-control 'public, max-age=300', got %q", cc)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	if success, ok := response["success"].(bool); !ok || !success {
		t.Error("expected success=true in response")
	}

	data, ok := response["data"].(map[string]interface{})
	if !ok {
		t.Fatal("expected data object in response")
	}

	overview, ok := data["overview"].(map[string]interface{})
	if !ok {
		t.Fatal("expected overview object in data")
	}
	if total, _ := overview["total_revenue"].(float64); total != 550 {
		t.Errorf("expected total_revenue 550, got %v", overview["total_revenue"])
	}
	if customers, _ := overview["customer_count"].(float64); customers != 2 {
		t.Errorf("expected customer_count 2, got %v", overview["customer_count"])
	}
}

func TestAPIHandlers_HandleOverviewFiltered(t *testing.T) {
	handlers := NewAPIHandlers(createTestInsights(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/overview?region=南", nil)
	w := httptest.NewRecorder()

	handlers.HandleOverview(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	data := response["data"].(map[string]interface{})
	overview := data["overview"].(map[string]interface{})
	if total, _ := overview["total_revenue"].(float64); total != 250 {
		t.Errorf("expected filtered total_revenue 250, got %v", overview["total_revenue"])
	}
}

func TestAPIHandlers_HandleNewProducts(t *testing.T) {
	handlers := NewAPIHandlers(createTestInsights(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/new-products", nil)
	w := httptest.NewRecorder()

	handlers.HandleNewProducts(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	data := response["data"].(map[string]interface{})
	split, ok := data["split"].(map[string]interface{})
	if !ok {
		t.Fatal("expected split object in data")
	}
	if newRev, _ := split["new_revenue"].(float64); newRev != 100 {
		t.Errorf("expected new_revenue 100, got %v", split["new_revenue"])
	}
}

func TestAPIHandlers_HandleSegments(t *testing.T) {
	handlers := NewAPIHandlers(createTestInsights(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/segments", nil)
	w := httptest.NewRecorder()

	handlers.HandleSegments(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	data := response["data"].(map[string]interface{})
	segments, ok := data["segments"].([]interface{})
	if !ok || len(segments) != 3 {
		t.Fatalf("expected 3 segment summaries, got %v", data["segments"])
	}
}

func TestAPIHandlers_HandleAffinity(t *testing.T) {
	handlers := NewAPIHandlers(createTestInsights(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/affinity", nil)
	w := httptest.NewRecorder()

	handlers.HandleAffinity(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	data := response["data"].(map[string]interface{})
	if _, ok := data["co_occurrence"]; !ok {
		t.Error("expected co_occurrence in data")
	}
	if _, ok := data["baskets"]; !ok {
		t.Error("expected baskets in data")
	}
}

func TestAPIHandlers_HandlePenetration(t *testing.T) {
	handlers := NewAPIHandlers(createTestInsights(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/penetration", nil)
	w := httptest.NewRecorder()

	handlers.HandlePenetration(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	data := response["data"].(map[string]interface{})
	if available, _ := data["trend_available"].(bool); !available {
		t.Error("expected trend_available=true for dated test data")
	}
	if _, ok := data["trend"]; !ok {
		t.Error("expected trend in data when trend is available")
	}
}

func TestAPIHandlers_HandleFilters(t *testing.T) {
	handlers := NewAPIHandlers(createTestInsights(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/filters", nil)
	w := httptest.NewRecorder()

	handlers.HandleFilters(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	data := response["data"].(map[string]interface{})
	regions, ok := data["regions"].([]interface{})
	if !ok || len(regions) != 2 {
		t.Errorf("expected 2 region options, got %v", data["regions"])
	}
}

func TestAPIHandlers_HandleExport(t *testing.T) {
	handlers := NewAPIHandlers(createTestInsights(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/export", nil)
	w := httptest.NewRecorder()

	handlers.HandleExport(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	ct := w.Header().Get("Content-Type")
	if ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("unexpected content-type %q", ct)
	}

	cd := w.Header().Get("Content-Disposition")
	if !strings.HasPrefix(cd, "attachment; filename=") || !strings.Contains(cd, ".xlsx") {
		t.Errorf("unexpected content-disposition %q", cd)
	}

	if w.Body.Len() == 0 {
		t.Error("expected non-empty workbook body")
	}
}

func TestAPIHandlers_HandleHealth(t *testing.T) {
	handlers := NewAPIHandlers(createTestInsights(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handlers.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	// Health endpoint should NOT have cache-control header
	if cc := w.Header().Get("Cache-Control"); cc != "" {
		t.Errorf("health endpoint should not set cache-control, got %q", cc)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	data, ok := response["data"].(map[string]interface{})
	if !ok {
		t.Fatal("expected health data in response")
	}

	if status, ok := data["status"].(string); !ok || status != "healthy" {
		t.Errorf("expected status 'healthy', got %q", status)
	}

	if timestamp, ok := data["timestamp"].(string); !ok || timestamp == "" {
		t.Error("expected non-empty timestamp")
	} else if _, err := time.Parse(time.RFC3339, timestamp); err != nil {
		t.Errorf("invalid timestamp format: %v", err)
	}
}

func TestAPIHandlers_HandleStats(t *testing.T) {
	handlers := NewAPIHandlers(createTestInsights(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	w := httptest.NewRecorder()

	handlers.HandleStats(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	if success, ok := response["success"].(bool); !ok || !success {
		t.Error("expected success=true in response")
	}
}

// Test that analytics handlers set correct headers consistently
func TestAPIHandlers_HeaderConsistency(t *testing.T) {
	handlers := NewAPIHandlers(createTestInsights(), slog.Default())

	apiEndpoints := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"overview", handlers.HandleOverview},
		{"new-products", handlers.HandleNewProducts},
		{"segments", handlers.HandleSegments},
		{"affinity", handlers.HandleAffinity},
		{"penetration", handlers.HandlePenetration},
		{"filters", handlers.HandleFilters},
	}

	for _, endpoint := range apiEndpoints {
		t.Run(endpoint.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			w := httptest.NewRecorder()

			endpoint.handler(w, req)

			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected content-type 'application/json', got %q", ct)
			}

			if cc := w.Header().Get("Cache-Control"); cc != "public, max-age=300" {
				t.Errorf("expected cache-control 'public, max-age=300', got %q", cc)
			}

			var response map[string]interface{}
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Errorf("response should be valid JSON: %v", err)
			}

			if success, ok := response["success"].(bool); !ok || !success {
				t.Error("expected success=true in response")
			}

			if _, ok := response["data"]; !ok {
				t.Error("expected data field in response")
			}
		})
	}
}

// An unknown filter value restricts the set to nothing; handlers should
// still answer with empty aggregates rather than fail.
func TestAPIHandlers_EmptyFilterResult(t *testing.T) {
	handlers := NewAPIHandlers(createTestInsights(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/overview?region=nowhere", nil)
	w := httptest.NewRecorder()

	handlers.HandleOverview(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	data := response["data"].(map[string]interface{})
	overview := data["overview"].(map[string]interface{})
	if total, _ := overview["total_revenue"].(float64); total != 0 {
		t.Errorf("expected total_revenue 0 for empty filter result, got %v", overview["total_revenue"])
	}
}
