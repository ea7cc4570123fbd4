package weather

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNoCoordinates is returned when a fetch is attempted without a
	// usable coordinate pair.
	ErrNoCoordinates = errors.New("no coordinates available")

	// ErrNoForecastData is returned when the forecast series holds no
	// sample at or after the requested instant.
	ErrNoForecastData = errors.New("no forecast data available")
)

// Snapshot is the normalized current-conditions view for a coordinate
// pair. Temperatures are Celsius; presentation layers convert.
type Snapshot struct {
	DisplayName string    `json:"displayName"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	TempC       float64   `json:"tempC"`
	TempMaxC    float64   `json:"tempMaxC"`
	TempMinC    float64   `json:"tempMinC"`
	HumidityPct float64   `json:"humidityPct"`
	WindSpeedMS float64   `json:"windSpeedMs"`
	CloudsPct   float64   `json:"cloudsPct"`
	ConditionID int       `json:"conditionId"`
	Description string    `json:"description"`
	ObservedAt  time.Time `json:"observedAt"` // always UTC
}

// ForecastSample is one raw 3-hour-step forecast entry.
type ForecastSample struct {
	Timestamp   time.Time `json:"timestamp"` // always UTC
	TempC       float64   `json:"tempC"`
	TempMaxC    float64   `json:"tempMaxC"`
	TempMinC    float64   `json:"tempMinC"`
	ConditionID int       `json:"conditionId"`
	Description string    `json:"description"`
	CloudsPct   float64   `json:"cloudsPct"`
}

// DaySummary is one calendar day folded out of 3-hour samples.
type DaySummary struct {
	Day         string  `json:"day"`
	HighC       float64 `json:"highC"`
	LowC        float64 `json:"lowC"`
	Description string  `json:"description"`
}

// WindowSample is a forecast sample annotated with its local timestamp
// in the fixed regional offset.
type WindowSample struct {
	ForecastSample
	LocalTime time.Time `json:"localTime"`
}

// Provider abstracts the current-conditions endpoint of a weather
// data source (e.g. OpenWeatherMap).
type Provider interface {
	Current(ctx context.Context, lat, lng float64) (Snapshot, error)
}

// ForecastProvider abstracts the 3-hour-step forecast endpoint.
type ForecastProvider interface {
	Forecast(ctx context.Context, lat, lng float64) ([]ForecastSample, error)
}
