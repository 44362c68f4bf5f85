package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/CAFxX/httpcompression"

	"github.com/CIRA18-HUB/sales-dashboard/internal/analytics"
	"github.com/CIRA18-HUB/sales-dashboard/internal/config"
	"github.com/CIRA18-HUB/sales-dashboard/internal/dataset"
	"github.com/CIRA18-HUB/sales-dashboard/internal/middleware"
	"github.com/CIRA18-HUB/sales-dashboard/internal/observability"
	"github.com/CIRA18-HUB/sales-dashboard/internal/server"
	"github.com/CIRA18-HUB/sales-dashboard/internal/services"
	"github.com/CIRA18-HUB/sales-dashboard/internal/ui/templates"
)

const (
	renderTimeout = 10 * time.Second
	loadTimeout   = 30 * time.Second
	cacheMaxAge   = "public, max-age=300"
)

func handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", cacheMaxAge)
	if err := templates.Dashboard().Render(ctx, w); err != nil {
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"data_file", cfg.Data.File,
		"strict", cfg.Data.Strict,
	)

	loader := dataset.NewLoader(cfg.Data, cfg.Analysis, logger)
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	ds, err := loader.Load(ctx)
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}
	if ds.Sample {
		logger.Warn("serving demo data; configure DATA_FILE for real analysis")
	}

	thresholds := analytics.Thresholds{
		Balanced:   cfg.Analysis.BalancedThreshold,
		Innovative: cfg.Analysis.InnovativeThreshold,
	}
	insights := services.NewInsights(thresholds, logger)
	insights.SetDataset(ds)

	templateHandlers := &server.TemplateHandlers{
		Dashboard: handleDashboard,
	}

	srv := server.NewServer(insights, logger, templateHandlers)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	handler := middlewareChain(srv)

	compress, err := httpcompression.DefaultAdapter()
	if err != nil {
		logger.Error("failed to build compression adapter", "error", err)
		os.Exit(1)
	}
	handler = compress(handler)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("shutting down insights service")
		return nil
	})

	logger.Info("starting graceful server")
	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
