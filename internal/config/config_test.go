package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 8084 {
		t.Errorf("Port = %d, want 8084", cfg.Server.Port)
	}
	if cfg.Data.File != "" || cfg.Data.Strict {
		t.Errorf("Data = %+v, want empty file and strict off", cfg.Data)
	}
	if cfg.Analysis.BalancedThreshold != 10 || cfg.Analysis.InnovativeThreshold != 30 {
		t.Errorf("thresholds = %v/%v, want 10/30",
			cfg.Analysis.BalancedThreshold, cfg.Analysis.InnovativeThreshold)
	}
	if cfg.Analysis.NameMarker != "口力" {
		t.Errorf("NameMarker = %q, want 口力", cfg.Analysis.NameMarker)
	}
	if diff := cmp.Diff(defaultNewProducts, cfg.Analysis.NewProductCodes); diff != "" {
		t.Errorf("NewProductCodes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(defaultPackaging, cfg.Analysis.PackagingKeywords); diff != "" {
		t.Errorf("PackagingKeywords mismatch (-want +got):\n%s", diff)
	}
	if cfg.Logger.Level != "info" || cfg.Logger.Format != "json" {
		t.Errorf("Logger = %+v, want info/json", cfg.Logger)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATA_FILE", "/data/sales.xlsx")
	t.Setenv("DATA_STRICT", "true")
	t.Setenv("ANALYSIS_NEW_PRODUCTS", "X1,X2")
	t.Setenv("ANALYSIS_BALANCED_THRESHOLD", "15")
	t.Setenv("ANALYSIS_INNOVATIVE_THRESHOLD", "40")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Data.File != "/data/sales.xlsx" || !cfg.Data.Strict {
		t.Errorf("Data = %+v", cfg.Data)
	}
	if diff := cmp.Diff([]string{"X1", "X2"}, cfg.Analysis.NewProductCodes); diff != "" {
		t.Errorf("NewProductCodes mismatch (-want +got):\n%s", diff)
	}
	if cfg.Analysis.BalancedThreshold != 15 || cfg.Analysis.InnovativeThreshold != 40 {
		t.Errorf("thresholds = %v/%v, want 15/40",
			cfg.Analysis.BalancedThreshold, cfg.Analysis.InnovativeThreshold)
	}
}

func TestLoad_KeywordRulesFromEnv(t *testing.T) {
	t.Setenv("ANALYSIS_PACKAGING_KEYWORDS", "tube=other,袋装=bag")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	want := []KeywordRule{
		{Keyword: "tube", Type: "other"},
		{Keyword: "袋装", Type: "bag"},
	}
	if diff := cmp.Diff(want, cfg.Analysis.PackagingKeywords); diff != "" {
		t.Errorf("PackagingKeywords mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_MalformedKeywordRulesKeepDefaults(t *testing.T) {
	t.Setenv("ANALYSIS_PACKAGING_KEYWORDS", "=bag,no-separator")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if diff := cmp.Diff(defaultPackaging, cfg.Analysis.PackagingKeywords); diff != "" {
		t.Errorf("expected default rules (-want +got):\n%s", diff)
	}
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port too large", "SERVER_PORT", "70000"},
		{"balanced threshold out of range", "ANALYSIS_BALANCED_THRESHOLD", "150"},
		{"innovative below balanced", "ANALYSIS_INNOVATIVE_THRESHOLD", "5"},
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"bad log format", "LOG_FORMAT", "xml"},
		{"zero rate limit", "SECURITY_RATE_LIMIT_RPS", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() should fail with %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestAddress(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Host: "0.0.0.0", Port: 9090}}
	if got := cfg.Address(); got != "0.0.0.0:9090" {
		t.Errorf("Address() = %q, want 0.0.0.0:9090", got)
	}
}
