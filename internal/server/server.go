package server

import (
	"log/slog"
	"net/http"

	"github.com/CIRA18-HUB/sales-dashboard/internal/handlers"
	"github.com/CIRA18-HUB/sales-dashboard/internal/services"
)

type Server struct {
	insights    *services.Insights
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(insights *services.Insights, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		insights:    insights,
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(insights, logger),
		sseHandlers: handlers.NewSSEHandlers(insights, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard routes
	s.mux.HandleFunc("GET /", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints, one per dashboard tab
	s.mux.HandleFunc("GET /api/overview", s.apiHandlers.HandleOverview)
	s.mux.HandleFunc("GET /api/new-products", s.apiHandlers.HandleNewProducts)
	s.mux.HandleFunc("GET /api/segments", s.apiHandlers.HandleSegments)
	s.mux.HandleFunc("GET /api/affinity", s.apiHandlers.HandleAffinity)
	s.mux.HandleFunc("GET /api/penetration", s.apiHandlers.HandlePenetration)
	s.mux.HandleFunc("GET /api/filters", s.apiHandlers.HandleFilters)
	s.mux.HandleFunc("GET /api/export", s.apiHandlers.HandleExport)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/overview", s.sseHandlers.HandleOverview)
	s.mux.HandleFunc("GET /sse/new-products", s.sseHandlers.HandleNewProducts)
	s.mux.HandleFunc("GET /sse/segments", s.sseHandlers.HandleSegments)
	s.mux.HandleFunc("GET /sse/affinity", s.sseHandlers.HandleAffinity)
	s.mux.HandleFunc("GET /sse/penetration", s.sseHandlers.HandlePenetration)
	s.mux.HandleFunc("GET /sse/refresh-all", s.sseHandlers.HandleRefreshAll)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
