package weather

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/climaph/climaph/internal/cache"
	"github.com/climaph/climaph/internal/location"
)

const weatherKeyPrefix = "weather:"

// Service fetches current conditions and forecast series for a
// coordinate pair. Current conditions are cached briefly under a
// coordinate-derived key; forecast series are fetched per call.
type Service struct {
	provider  Provider
	forecasts ForecastProvider
	resolver  *location.Resolver
	cache     *cache.Cache[Snapshot]
	ttl       time.Duration
	now       func() time.Time
}

// NewService creates a Service. resolver may be nil when text-query
// fetching is not needed. ttl bounds how long a snapshot stays cached;
// conditions change faster than place lists, so this is minute-scale.
func NewService(provider Provider, forecasts ForecastProvider, resolver *location.Resolver, store cache.Store, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Service{
		provider:  provider,
		forecasts: forecasts,
		resolver:  resolver,
		cache:     cache.New[Snapshot](store),
		ttl:       ttl,
		now:       time.Now,
	}
}

// Current returns the current-conditions snapshot for (lat, lng). A
// non-empty displayHint always wins over whatever label the cached or
// fresh payload carries, so a freshly resolved suggestion keeps its
// canonical name. Failed fetches never populate the cache.
func (s *Service) Current(ctx context.Context, lat, lng float64, displayHint string) (Snapshot, error) {
	if !validCoord(lat) || !validCoord(lng) {
		return Snapshot{}, ErrNoCoordinates
	}

	key := coordKey(lat, lng)
	if snap, ok := s.cache.Get(key); ok {
		if displayHint != "" {
			snap.DisplayName = displayHint
		}
		return snap, nil
	}

	snap, err := s.provider.Current(ctx, lat, lng)
	if err != nil {
		return Snapshot{}, fmt.Errorf("current conditions at %s: %w", key, err)
	}
	if displayHint != "" {
		snap.DisplayName = displayHint
	}

	s.cache.Set(key, snap, s.ttl)
	return snap, nil
}

// CurrentByQuery resolves a free-text query to its best suggestion and
// fetches current conditions for it, labeling the snapshot with the
// suggestion's display name.
func (s *Service) CurrentByQuery(ctx context.Context, query string) (Snapshot, error) {
	if s.resolver == nil {
		return Snapshot{}, ErrNoCoordinates
	}

	suggestions, err := s.resolver.Resolve(ctx, query)
	if err != nil {
		return Snapshot{}, err
	}
	if len(suggestions) == 0 {
		return Snapshot{}, ErrNoCoordinates
	}

	best := suggestions[0]
	return s.Current(ctx, best.Lat, best.Lng, best.Display)
}

// DailyForecast fetches the raw 3-hour series for (lat, lng) and folds
// it into per-day summaries.
func (s *Service) DailyForecast(ctx context.Context, lat, lng float64) ([]DaySummary, error) {
	samples, err := s.fetchSeries(ctx, lat, lng)
	if err != nil {
		return nil, err
	}
	return SummarizeDays(samples), nil
}

// Next12Hours fetches the raw 3-hour series for (lat, lng) and returns
// the upcoming 12-hour window.
func (s *Service) Next12Hours(ctx context.Context, lat, lng float64) ([]WindowSample, error) {
	samples, err := s.fetchSeries(ctx, lat, lng)
	if err != nil {
		return nil, err
	}
	return UpcomingWindow(samples, s.now())
}

func (s *Service) fetchSeries(ctx context.Context, lat, lng float64) ([]ForecastSample, error) {
	if !validCoord(lat) || !validCoord(lng) {
		return nil, ErrNoCoordinates
	}

	samples, err := s.forecasts.Forecast(ctx, lat, lng)
	if err != nil {
		return nil, fmt.Errorf("forecast at %s: %w", coordKey(lat, lng), err)
	}
	if len(samples) == 0 {
		return nil, ErrNoForecastData
	}
	return samples, nil
}

func validCoord(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// coordKey derives the cache key from coordinates truncated to four
// decimal places (~11 m), the granularity at which two lookups count as
// the same place.
func coordKey(lat, lng float64) string {
	return fmt.Sprintf("%s%s_%s", weatherKeyPrefix, trunc4(lat), trunc4(lng))
}

func trunc4(v float64) string {
	return fmt.Sprintf("%.4f", math.Trunc(v*1e4)/1e4)
}
