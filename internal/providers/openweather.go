package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/climaph/climaph/internal/weather"
)

// OpenWeather implements weather.Provider and weather.ForecastProvider
// against the OpenWeatherMap 2.5 API. Units are metric; timestamps come
// back as epoch seconds in `dt`.
type OpenWeather struct {
	apiKey      string
	currentURL  string
	forecastURL string
	client      *httpJSONClient
}

func NewOpenWeather(httpClient *http.Client, apiKey string) *OpenWeather {
	return &OpenWeather{
		apiKey:      apiKey,
		currentURL:  "https://api.openweathermap.org/data/2.5/weather",
		forecastURL: "https://api.openweathermap.org/data/2.5/forecast",
		client:      newHTTPJSONClient(httpClient, "openweather"),
	}
}

func (p *OpenWeather) query(lat, lng float64) url.Values {
	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%f", lat))
	values.Set("lon", fmt.Sprintf("%f", lng))
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")
	return values
}

func (p *OpenWeather) Current(ctx context.Context, lat, lng float64) (weather.Snapshot, error) {
	if p.apiKey == "" {
		return weather.Snapshot{}, fmt.Errorf("openweather: %w", ErrAPIKeyMissing)
	}

	var payload struct {
		Coord struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
		Main struct {
			Temp     float64 `json:"temp"`
			TempMax  float64 `json:"temp_max"`
			TempMin  float64 `json:"temp_min"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Weather []struct {
			ID          int    `json:"id"`
			Description string `json:"description"`
		} `json:"weather"`
		Clouds struct {
			All float64 `json:"all"`
		} `json:"clouds"`
		Dt   int64  `json:"dt"`
		Name string `json:"name"`
	}

	u := p.currentURL + "?" + p.query(lat, lng).Encode()
	if err := p.client.getJSON(ctx, u, &payload); err != nil {
		return weather.Snapshot{}, fmt.Errorf("openweather current: %w", err)
	}

	snap := weather.Snapshot{
		DisplayName: payload.Name,
		Lat:         payload.Coord.Lat,
		Lng:         payload.Coord.Lon,
		TempC:       payload.Main.Temp,
		TempMaxC:    payload.Main.TempMax,
		TempMinC:    payload.Main.TempMin,
		HumidityPct: payload.Main.Humidity,
		WindSpeedMS: payload.Wind.Speed,
		CloudsPct:   payload.Clouds.All,
		ObservedAt:  time.Unix(payload.Dt, 0).UTC(),
	}
	if len(payload.Weather) > 0 {
		snap.ConditionID = payload.Weather[0].ID
		snap.Description = payload.Weather[0].Description
	}
	return snap, nil
}

func (p *OpenWeather) Forecast(ctx context.Context, lat, lng float64) ([]weather.ForecastSample, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweather: %w", ErrAPIKeyMissing)
	}

	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp    float64 `json:"temp"`
				TempMax float64 `json:"temp_max"`
				TempMin float64 `json:"temp_min"`
			} `json:"main"`
			Weather []struct {
				ID          int    `json:"id"`
				Description string `json:"description"`
			} `json:"weather"`
			Clouds struct {
				All float64 `json:"all"`
			} `json:"clouds"`
		} `json:"list"`
	}

	u := p.forecastURL + "?" + p.query(lat, lng).Encode()
	if err := p.client.getJSON(ctx, u, &payload); err != nil {
		return nil, fmt.Errorf("openweather forecast: %w", err)
	}

	samples := make([]weather.ForecastSample, 0, len(payload.List))
	for _, item := range payload.List {
		s := weather.ForecastSample{
			Timestamp: time.Unix(item.Dt, 0).UTC(),
			TempC:     item.Main.Temp,
			TempMaxC:  item.Main.TempMax,
			TempMinC:  item.Main.TempMin,
			CloudsPct: item.Clouds.All,
		}
		if len(item.Weather) > 0 {
			s.ConditionID = item.Weather[0].ID
			s.Description = item.Weather[0].Description
		}
		samples = append(samples, s)
	}
	return samples, nil
}
