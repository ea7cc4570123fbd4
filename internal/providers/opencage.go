package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/climaph/climaph/internal/location"
)

// OpenCage implements location.Geocoder against the OpenCage forward
// geocoding API, constrained to a single country.
type OpenCage struct {
	apiKey      string
	countryCode string
	baseURL     string
	client      *httpJSONClient
}

// NewOpenCage creates an OpenCage geocoder. countryCode is the
// two-letter filter sent with every query (e.g. "ph").
func NewOpenCage(httpClient *http.Client, apiKey, countryCode string) *OpenCage {
	if countryCode == "" {
		countryCode = "ph"
	}
	return &OpenCage{
		apiKey:      apiKey,
		countryCode: countryCode,
		baseURL:     "https://api.opencagedata.com/geocode/v1/json",
		client:      newHTTPJSONClient(httpClient, "opencage"),
	}
}

func (p *OpenCage) Search(ctx context.Context, query string, limit int) ([]location.GeocodeResult, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("opencage: %w", ErrAPIKeyMissing)
	}

	values := url.Values{}
	values.Set("q", query)
	values.Set("key", p.apiKey)
	values.Set("countrycode", p.countryCode)
	values.Set("limit", strconv.Itoa(limit))

	var payload struct {
		Results []struct {
			Geometry *struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"geometry"`
			Components  map[string]any `json:"components"`
			Formatted   string         `json:"formatted"`
			Annotations struct {
				Geohash string `json:"geohash"`
			} `json:"annotations"`
			Type string `json:"_type"`
		} `json:"results"`
	}

	if err := p.client.getJSON(ctx, p.baseURL+"?"+values.Encode(), &payload); err != nil {
		return nil, fmt.Errorf("opencage search: %w", err)
	}

	results := make([]location.GeocodeResult, 0, len(payload.Results))
	for _, r := range payload.Results {
		components := stringComponents(r.Components)

		placeType := components["_type"]
		if placeType == "" {
			placeType = r.Type
		}

		res := location.GeocodeResult{
			Components: components,
			Formatted:  r.Formatted,
			Geohash:    r.Annotations.Geohash,
			PlaceType:  placeType,
		}
		if r.Geometry != nil {
			res.Lat = r.Geometry.Lat
			res.Lng = r.Geometry.Lng
			res.HasGeometry = true
		}
		results = append(results, res)
	}
	return results, nil
}

// stringComponents keeps the string-valued entries of a raw component
// map. OpenCage mixes strings with booleans and numbers (ISO codes,
// flags) that the resolver never reads.
func stringComponents(raw map[string]any) map[string]string {
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
