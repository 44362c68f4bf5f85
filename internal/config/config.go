package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Analysis AnalysisConfig
	Logger   LoggerConfig
	Security SecurityConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DataConfig struct {
	// File is the sales dataset, .csv or .xlsx. When empty or unreadable
	// the built-in demo dataset is used, unless Strict is set.
	File   string
	Strict bool
}

// AnalysisConfig carries the tunables the reference analysis hard-codes:
// the new-product code set, segmentation thresholds, the packaging keyword
// table and the display-name suffix list.
type AnalysisConfig struct {
	NewProductCodes []string

	// Segment thresholds on new-product revenue share (percent):
	// [0,Balanced) conservative, [Balanced,Innovative) balanced,
	// [Innovative,100] innovative.
	BalancedThreshold   float64
	InnovativeThreshold float64

	// PackagingKeywords maps name substrings to packaging types, matched
	// in order.
	PackagingKeywords []KeywordRule

	// NameMarker and NameSuffixes drive display-name simplification.
	NameMarker   string
	NameSuffixes []string
}

type KeywordRule struct {
	Keyword string
	Type    string
}

type LoggerConfig struct {
	Level  string
	Format string
}

type SecurityConfig struct {
	EnableRateLimit bool
	RateLimitRPS    int
	RateLimitBurst  int
	AllowedOrigins  []string
	TrustedProxies  []string
}

// Catalog defaults used when no overrides are configured.
var (
	defaultNewProducts = []string{"F0110C", "F0183F", "F01K8A", "F0183K", "F0101P"}
	defaultSuffixes    = []string{"G分享装袋装", "G盒装", "G袋装", "KG迷你包", "KG随手包"}
	defaultPackaging   = []KeywordRule{
		{Keyword: "袋装", Type: "bag"},
		{Keyword: "盒装", Type: "box"},
		{Keyword: "随手包", Type: "pouch"},
		{Keyword: "迷你包", Type: "mini-pack"},
		{Keyword: "分享装", Type: "share-pack"},
	}
)

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnvString("SERVER_HOST", "localhost"),
			Port:            getEnvInt("SERVER_PORT", 8084),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Data: DataConfig{
			File:   getEnvString("DATA_FILE", ""),
			Strict: getEnvBool("DATA_STRICT", false),
		},
		Analysis: AnalysisConfig{
			NewProductCodes:     getEnvStringSlice("ANALYSIS_NEW_PRODUCTS", defaultNewProducts),
			BalancedThreshold:   getEnvFloat("ANALYSIS_BALANCED_THRESHOLD", 10),
			InnovativeThreshold: getEnvFloat("ANALYSIS_INNOVATIVE_THRESHOLD", 30),
			PackagingKeywords:   getEnvKeywordRules("ANALYSIS_PACKAGING_KEYWORDS", defaultPackaging),
			NameMarker:          getEnvString("ANALYSIS_NAME_MARKER", "口力"),
			NameSuffixes:        getEnvStringSlice("ANALYSIS_NAME_SUFFIXES", defaultSuffixes),
		},
		Logger: LoggerConfig{
			Level:  getEnvString("LOG_LEVEL", "info"),
			Format: getEnvString("LOG_FORMAT", "json"),
		},
		Security: SecurityConfig{
			EnableRateLimit: getEnvBool("SECURITY_RATE_LIMIT_ENABLED", true),
			RateLimitRPS:    getEnvInt("SECURITY_RATE_LIMIT_RPS", 100),
			RateLimitBurst:  getEnvInt("SECURITY_RATE_LIMIT_BURST", 10),
			AllowedOrigins:  getEnvStringSlice("SECURITY_ALLOWED_ORIGINS", []string{"http://localhost:8084"}),
			TrustedProxies:  getEnvStringSlice("SECURITY_TRUSTED_PROXIES", []string{"127.0.0.1"}),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Analysis.BalancedThreshold < 0 || c.Analysis.BalancedThreshold > 100 {
		return fmt.Errorf("balanced threshold must be within [0,100], got %v", c.Analysis.BalancedThreshold)
	}

	if c.Analysis.InnovativeThreshold <= c.Analysis.BalancedThreshold || c.Analysis.InnovativeThreshold > 100 {
		return fmt.Errorf("innovative threshold must be within (%v,100], got %v",
			c.Analysis.BalancedThreshold, c.Analysis.InnovativeThreshold)
	}

	if c.Analysis.NameMarker == "" {
		return fmt.Errorf("name marker cannot be empty")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.Logger.Level) {
		return fmt.Errorf("invalid log level %q, must be one of: %s", c.Logger.Level, strings.Join(validLogLevels, ", "))
	}

	validLogFormats := []string{"json", "text"}
	if !contains(validLogFormats, c.Logger.Format) {
		return fmt.Errorf("invalid log format %q, must be one of: %s", c.Logger.Format, strings.Join(validLogFormats, ", "))
	}

	if c.Security.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit RPS must be positive")
	}

	if c.Security.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}

	return nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

// getEnvKeywordRules parses "keyword=type,keyword=type" pairs, keeping the
// declared order since classification is first-match-wins.
func getEnvKeywordRules(key string, defaultValue []KeywordRule) []KeywordRule {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	rules := make([]KeywordRule, 0)
	for _, pair := range strings.Split(value, ",") {
		kw, typ, ok := strings.Cut(pair, "=")
		if !ok || kw == "" {
			continue
		}
		rules = append(rules, KeywordRule{Keyword: kw, Type: typ})
	}
	if len(rules) == 0 {
		return defaultValue
	}
	return rules
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
