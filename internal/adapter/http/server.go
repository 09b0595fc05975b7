// Package http exposes the dashboard JSON API plus health, readiness, and
// metrics endpoints. It serves display-ready data; map tiles and chart
// drawing are the consumer's concern.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/roadwatch/road-risk-dashboard/internal/dashboard"
)

// ViewService provides the dashboard views and readiness state.
// Implemented by dashboard.Service.
type ViewService interface {
	Cities() []string
	CityView(city string) dashboard.CityView
	CheckReadiness(ctx context.Context) error
}

// Server exposes the dashboard API over HTTP.
type Server struct {
	httpServer *http.Server
	views      ViewService
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the dashboard API and
// /healthz, /readyz, /metrics routes.
func NewServer(addr string, views ViewService, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		views:  views,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(views))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/cities", s.handleCities)
	mux.HandleFunc("GET /api/cities/{city}", s.handleCityView)
	mux.HandleFunc("GET /api/cities/{city}/map", s.handleCityMap)
	mux.HandleFunc("GET /api/cities/{city}/top", s.handleCityTop)
	mux.HandleFunc("GET /api/cities/{city}/trend", s.handleCityTrend)
	mux.HandleFunc("GET /api/cities/{city}/categories", s.handleCityCategories)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(views ViewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := views.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func (s *Server) handleCities(w http.ResponseWriter, _ *http.Request) {
	cities := s.views.Cities()
	if cities == nil {
		cities = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"cities": cities})
}

func (s *Server) handleCityView(w http.ResponseWriter, r *http.Request) {
	// A city with zero rows is an expected outcome: 200 with has_data=false,
	// never a 404.
	writeJSON(w, http.StatusOK, s.views.CityView(r.PathValue("city")))
}

func (s *Server) handleCityMap(w http.ResponseWriter, r *http.Request) {
	view := s.views.CityView(r.PathValue("city"))
	writeWidget(w, view, "map", view.Map)
}

func (s *Server) handleCityTop(w http.ResponseWriter, r *http.Request) {
	view := s.views.CityView(r.PathValue("city"))
	if !view.HasData {
		writeWidget(w, view, "top_roads", nil)
		return
	}
	writeWidget(w, view, "top_roads", view.TopRoads)
}

func (s *Server) handleCityTrend(w http.ResponseWriter, r *http.Request) {
	view := s.views.CityView(r.PathValue("city"))
	writeWidget(w, view, "trend", view.Trend)
}

func (s *Server) handleCityCategories(w http.ResponseWriter, r *http.Request) {
	view := s.views.CityView(r.PathValue("city"))
	writeWidget(w, view, "categories", view.Categories)
}

func writeWidget(w http.ResponseWriter, view dashboard.CityView, name string, widget any) {
	payload := map[string]any{
		"city":     view.City,
		"has_data": view.HasData,
	}
	if view.Message != "" {
		payload["message"] = view.Message
	}
	if view.HasData {
		payload[name] = widget
	}
	writeJSON(w, http.StatusOK, payload)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
