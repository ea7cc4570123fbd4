package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// WarmLocation is one pinned place whose current conditions the
// refresher keeps cached.
type WarmLocation struct {
	Lat   float64
	Lng   float64
	Label string
}

// AppConfig carries every injected value the binary wires into the core
// packages. Nothing in the core reads the environment at call time.
type AppConfig struct {
	OpenCageAPIKey    string
	OpenWeatherAPIKey string

	// CountryCode filters geocoding queries; CountryName suffixes
	// display names.
	CountryCode string
	CountryName string

	// SuggestionLimit caps raw geocoding results per query.
	SuggestionLimit int

	// Cache TTLs. Place lists change rarely; conditions do not.
	SuggestionsTTL time.Duration
	WeatherTTL     time.Duration

	// HTTPTimeout bounds every outbound provider call.
	HTTPTimeout time.Duration

	// CachePath is the bbolt database file. Empty selects the in-memory
	// store.
	CachePath string

	Port string

	// WarmLocations and WarmInterval configure the cache refresher.
	WarmLocations []WarmLocation
	WarmInterval  time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.OpenCageAPIKey = os.Getenv("OPENCAGE_API_KEY")
	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")

	cfg.CountryCode = getenvDefault("COUNTRY_CODE", "ph")
	cfg.CountryName = getenvDefault("COUNTRY_NAME", "Philippines")
	cfg.SuggestionLimit = getenvInt("SUGGESTION_LIMIT", 10)

	var err error
	if cfg.SuggestionsTTL, err = getenvDuration("SUGGESTIONS_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.WeatherTTL, err = getenvDuration("WEATHER_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.WarmInterval, err = getenvDuration("WARM_INTERVAL", 15*time.Minute); err != nil {
		return nil, err
	}

	cfg.CachePath = os.Getenv("CACHE_PATH")
	cfg.Port = getenvDefault("PORT", "8080")

	if cfg.WarmLocations, err = parseWarmLocations(os.Getenv("WARM_LOCATIONS")); err != nil {
		return nil, err
	}

	return cfg, nil
}

// parseWarmLocations parses "lat,lng,label" entries separated by
// semicolons, e.g. "14.5995,120.9842,Manila;10.3157,123.8854,Cebu".
func parseWarmLocations(raw string) ([]WarmLocation, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var locs []WarmLocation
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.SplitN(entry, ",", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid WARM_LOCATIONS entry %q: want lat,lng,label", entry)
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude in WARM_LOCATIONS entry %q: %w", entry, err)
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude in WARM_LOCATIONS entry %q: %w", entry, err)
		}

		locs = append(locs, WarmLocation{
			Lat:   lat,
			Lng:   lng,
			Label: strings.TrimSpace(parts[2]),
		})
	}
	return locs, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
