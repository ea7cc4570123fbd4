package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/climaph/climaph/internal/cache"
	"github.com/climaph/climaph/internal/location"
	"github.com/climaph/climaph/internal/weather"
)

type stubGeocoder struct {
	results []location.GeocodeResult
}

func (s stubGeocoder) Search(context.Context, string, int) ([]location.GeocodeResult, error) {
	return s.results, nil
}

type stubWeather struct {
	snap weather.Snapshot
	list []weather.ForecastSample
}

func (s stubWeather) Current(context.Context, float64, float64) (weather.Snapshot, error) {
	return s.snap, nil
}

func (s stubWeather) Forecast(context.Context, float64, float64) ([]weather.ForecastSample, error) {
	return s.list, nil
}

func newTestApp(geo location.Geocoder, w stubWeather) *fiber.App {
	app := fiber.New()

	resolver := location.NewResolver(geo, cache.NewMemoryStore(), location.ResolverConfig{})
	service := weather.NewService(w, w, resolver, cache.NewMemoryStore(), time.Minute)
	RegisterRoutes(app, resolver, service)

	return app
}

// TestCoordinateValidation verifies that the weather and forecast
// endpoints reject missing or out-of-range coordinates.
func TestCoordinateValidation(t *testing.T) {
	app := newTestApp(stubGeocoder{}, stubWeather{})

	for _, path := range []string{
		"/api/v1/weather/current",
		"/api/v1/weather/current?lat=14.59",
		"/api/v1/weather/current?lat=abc&lng=120.98",
		"/api/v1/weather/current?lat=120.0&lng=120.98", // latitude out of range
		"/api/v1/forecast/daily?lat=14.59&lng=999",     // longitude out of range
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", path, err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected status %d, got %d", path, http.StatusBadRequest, resp.StatusCode)
		}
	}
}

func TestSuggestBlankQueryReturnsEmptyList(t *testing.T) {
	app := newTestApp(stubGeocoder{}, stubWeather{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/locations/suggest?q=", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var out struct {
		Suggestions []location.Suggestion `json:"suggestions"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("bad body %q: %v", body, err)
	}
	if len(out.Suggestions) != 0 {
		t.Fatalf("expected no suggestions, got %+v", out.Suggestions)
	}
}

func TestSuggestNoMatchIs404(t *testing.T) {
	app := newTestApp(stubGeocoder{results: []location.GeocodeResult{{HasGeometry: false}}}, stubWeather{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/locations/suggest?q=nowhere", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.StatusCode)
	}
}

func TestCurrentByTextQuery(t *testing.T) {
	geo := stubGeocoder{results: []location.GeocodeResult{{
		Lat: 14.5995, Lng: 120.9842, HasGeometry: true,
		Components: map[string]string{"city": "Manila", "state": "Metro Manila"},
		PlaceType:  "city",
	}}}
	w := stubWeather{snap: weather.Snapshot{DisplayName: "Maynila", TempC: 31.5}}
	app := newTestApp(geo, w)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/current?q=Manila", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var snap weather.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		t.Fatalf("bad body %q: %v", body, err)
	}
	if snap.DisplayName != "Manila, Metro Manila, Philippines" {
		t.Fatalf("expected resolved display name, got %q", snap.DisplayName)
	}
}

func TestHourlyForecastAllInPastIs404(t *testing.T) {
	w := stubWeather{list: []weather.ForecastSample{
		{Timestamp: time.Now().UTC().Add(-48 * time.Hour)},
	}}
	app := newTestApp(stubGeocoder{}, w)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/forecast/hourly?lat=14.59&lng=120.98", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.StatusCode)
	}
}
