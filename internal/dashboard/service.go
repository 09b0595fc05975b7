// Package dashboard assembles per-city dashboard views from the loaded
// dataset. Each city selection triggers one synchronous filter, rank,
// partition, and trend pass; the dataset itself is never mutated.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/roadwatch/road-risk-dashboard/internal/domain"
	"github.com/roadwatch/road-risk-dashboard/internal/observability"
)

const noDataMessage = "no data available for this city"

// CityView is the complete dashboard payload for one city. When the city
// has no rows, HasData is false, Message explains why, and the widget
// fields are omitted — consumers render an empty state, never an error.
type CityView struct {
	City       string              `json:"city"`
	HasData    bool                `json:"has_data"`
	Message    string              `json:"message,omitempty"`
	Map        *domain.MapView     `json:"map,omitempty"`
	TopRoads   []domain.RankedRoad `json:"top_roads,omitempty"`
	Trend      *domain.TrendSeries `json:"trend,omitempty"`
	Categories *domain.Partition   `json:"categories,omitempty"`
}

// Options control view sizing and trend generation.
type Options struct {
	TopN      int
	TrendDays int
	TrendSeed int64
	CacheSize int
}

// Service serves derived views over an immutable dataset handle. Views for
// a city are cached: the dataset never changes within a session, so a
// computed view stays valid for the life of the process.
type Service struct {
	data    domain.Dataset
	opts    Options
	cache   *viewCache
	logger  *slog.Logger
	metrics *observability.Metrics
	loaded  bool
}

// New creates a Service over a loaded dataset. The dataset may be empty;
// an empty dataset just means every city view reports no data.
func New(data domain.Dataset, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		data:    data,
		opts:    opts,
		cache:   newViewCache(opts.CacheSize),
		logger:  logger,
		metrics: metrics,
		loaded:  true,
	}
}

// CheckReadiness returns nil once a dataset has been attached.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.loaded {
		return errors.New("dataset has not been loaded yet")
	}
	return nil
}

// Cities returns the sorted city names available in the dataset.
func (s *Service) Cities() []string {
	s.metrics.ViewRequests.WithLabelValues("cities", "ok").Inc()
	return s.data.Cities()
}

// CityView returns the full dashboard payload for a city, building it on
// first request and serving it from the cache afterwards.
func (s *Service) CityView(city string) CityView {
	if view, ok := s.cache.get(city); ok {
		s.metrics.ViewCache.WithLabelValues("hit").Inc()
		s.countView(view)
		return view
	}
	s.metrics.ViewCache.WithLabelValues("miss").Inc()

	view := s.buildView(city)
	s.cache.put(city, view)
	s.countView(view)
	return view
}

func (s *Service) countView(view CityView) {
	outcome := "ok"
	if !view.HasData {
		outcome = "no_data"
	}
	s.metrics.ViewRequests.WithLabelValues("full", outcome).Inc()
}

// buildView runs the one-pass filter/rank/partition/trend transformation.
func (s *Service) buildView(city string) CityView {
	start := time.Now()

	subset := s.data.FilterByCity(city)
	if len(subset) == 0 {
		s.logger.Debug("city view requested with no matching rows", "city", city)
		return CityView{City: city, Message: noDataMessage}
	}

	mapView := domain.BuildMapView(subset)
	topRoads := domain.TopN(subset, s.opts.TopN)
	trend := domain.BuildTrendSeries(subset, s.opts.TrendDays, s.opts.TrendSeed)
	categories := domain.PartitionByCategory(subset)

	s.metrics.ViewBuildDuration.Observe(time.Since(start).Seconds())
	s.logger.Debug("city view built", "city", city, "rows", len(subset))

	return CityView{
		City:       city,
		HasData:    true,
		Map:        &mapView,
		TopRoads:   topRoads,
		Trend:      &trend,
		Categories: &categories,
	}
}
