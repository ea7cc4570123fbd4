package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestOpenCageRequiresKey(t *testing.T) {
	p := NewOpenCage(http.DefaultClient, "", "ph")
	if _, err := p.Search(context.Background(), "manila", 10); !errors.Is(err, ErrAPIKeyMissing) {
		t.Fatalf("expected ErrAPIKeyMissing, got %v", err)
	}
}

func TestOpenCageSearchMapsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("countrycode"); got != "ph" {
			t.Errorf("expected country filter, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[
			{
				"geometry": {"lat": 14.5995, "lng": 120.9842},
				"components": {"city": "Manila", "state": "Metro Manila", "_type": "city", "ISO_3166-1_alpha-2": "PH", "some_flag": true},
				"formatted": "Manila, Metro Manila, Philippines",
				"annotations": {"geohash": "wdw4f88p"}
			},
			{
				"components": {"road": "Roxas Blvd"},
				"formatted": "Roxas Blvd",
				"_type": "road"
			}
		]}`))
	}))
	defer srv.Close()

	p := NewOpenCage(srv.Client(), "test-key", "ph")
	p.baseURL = srv.URL

	got, err := p.Search(context.Background(), "manila", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}

	first := got[0]
	if !first.HasGeometry || first.Lat != 14.5995 || first.Lng != 120.9842 {
		t.Fatalf("unexpected geometry: %+v", first)
	}
	if first.Geohash != "wdw4f88p" || first.PlaceType != "city" {
		t.Fatalf("unexpected annotations: %+v", first)
	}
	if _, ok := first.Components["some_flag"]; ok {
		t.Fatal("non-string component values must be dropped")
	}

	second := got[1]
	if second.HasGeometry {
		t.Fatal("result without geometry must not claim one")
	}
	if second.PlaceType != "road" {
		t.Fatalf("expected top-level _type fallback, got %q", second.PlaceType)
	}
}

func TestOpenWeatherForecastMapsSamples(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("units"); got != "metric" {
			t.Errorf("expected metric units, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"list":[
			{"dt": 1767312000, "main": {"temp": 28.5, "temp_max": 30.1, "temp_min": 24.2},
			 "weather": [{"id": 500, "description": "light rain"}], "clouds": {"all": 75}}
		]}`))
	}))
	defer srv.Close()

	p := NewOpenWeather(srv.Client(), "test-key")
	p.forecastURL = srv.URL

	got, err := p.Forecast(context.Background(), 14.5995, 120.9842)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(got))
	}

	s := got[0]
	if !s.Timestamp.Equal(time.Unix(1767312000, 0).UTC()) {
		t.Fatalf("unexpected timestamp %v", s.Timestamp)
	}
	if s.TempMaxC != 30.1 || s.TempMinC != 24.2 || s.ConditionID != 500 {
		t.Fatalf("unexpected sample: %+v", s)
	}
	if s.Description != "light rain" || s.CloudsPct != 75 {
		t.Fatalf("unexpected sample: %+v", s)
	}
}

func TestGetJSONRetriesServerErrors(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	c := newHTTPJSONClient(srv.Client(), "test")
	c.backoff.initial = time.Millisecond

	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.getJSON(context.Background(), srv.URL, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.OK || hits != 3 {
		t.Fatalf("expected success on third attempt, ok=%v hits=%d", out.OK, hits)
	}
}

func TestGetJSONClientErrorNotRetried(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newHTTPJSONClient(srv.Client(), "test")

	var out any
	err := c.getJSON(context.Background(), srv.URL, &out)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if hits != 1 {
		t.Fatalf("401 must not be retried, got %d attempts", hits)
	}
}
