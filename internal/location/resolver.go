package location

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/climaph/climaph/internal/cache"
)

const suggestionKeyPrefix = "suggestions:"

// acceptedPlaceTypes is the allow-list used to rank suggestions.
// Entries whose place type matches are preferred; when none match the
// full deduplicated list is returned so odd provider typings (points of
// interest and the like) never produce an empty result.
var acceptedPlaceTypes = map[string]struct{}{
	"city":         {},
	"town":         {},
	"village":      {},
	"municipality": {},
	"county":       {},
	"state":        {},
	"region":       {},
	"hamlet":       {},
}

// ResolverConfig carries the injected knobs for a Resolver.
type ResolverConfig struct {
	// Country is the display-name suffix, e.g. "Philippines".
	Country string
	// Limit caps how many raw results one provider call may return.
	Limit int
	// TTL bounds how long a resolved list stays cached. Place lists
	// change rarely, so this is day-scale.
	TTL time.Duration
}

// Resolver turns free-text queries into ranked, deduplicated location
// suggestions, consulting the cache before the geocoding provider.
type Resolver struct {
	geocoder Geocoder
	cache    *cache.Cache[[]Suggestion]
	cfg      ResolverConfig
}

// NewResolver creates a Resolver. The cache store may be shared with
// other components; keys are namespaced.
func NewResolver(geocoder Geocoder, store cache.Store, cfg ResolverConfig) *Resolver {
	if cfg.Limit <= 0 {
		cfg.Limit = 10
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.Country == "" {
		cfg.Country = "Philippines"
	}
	return &Resolver{
		geocoder: geocoder,
		cache:    cache.New[[]Suggestion](store),
		cfg:      cfg,
	}
}

// Resolve returns suggestions for query. A blank query yields an empty
// list with no provider call and no cache access. Provider failures are
// returned to the caller and never populate the cache.
func (r *Resolver) Resolve(ctx context.Context, query string) ([]Suggestion, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return []Suggestion{}, nil
	}

	key := suggestionKeyPrefix + strings.ToLower(q)
	if cached, ok := r.cache.Get(key); ok {
		return cached, nil
	}

	results, err := r.geocoder.Search(ctx, q, r.cfg.Limit)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", q, err)
	}

	suggestions := r.mapResults(results)
	if len(suggestions) == 0 {
		return nil, fmt.Errorf("resolve %q: %w", q, ErrNoMatch)
	}

	final := preferAccepted(dedupeByDisplay(suggestions))
	r.cache.Set(key, final, r.cfg.TTL)
	return final, nil
}

// mapResults validates raw provider records and maps the survivors to
// Suggestions. Records without usable geometry or without a structured
// address are dropped before any further processing.
func (r *Resolver) mapResults(results []GeocodeResult) []Suggestion {
	suggestions := make([]Suggestion, 0, len(results))
	for i, res := range results {
		if !validResult(res) {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			ID:         suggestionID(res, i),
			Display:    MakeDisplayName(res.Components, res.Formatted, r.cfg.Country),
			Lat:        res.Lat,
			Lng:        res.Lng,
			Components: res.Components,
			PlaceType:  res.PlaceType,
		})
	}
	return suggestions
}

func validResult(res GeocodeResult) bool {
	if !res.HasGeometry {
		return false
	}
	if math.IsNaN(res.Lat) || math.IsInf(res.Lat, 0) ||
		math.IsNaN(res.Lng) || math.IsInf(res.Lng, 0) {
		return false
	}
	return len(res.Components) > 0
}

// suggestionID prefers the provider geohash; absent one it synthesizes
// a key from place type, coordinates and ordinal position so IDs stay
// unique within a batch.
func suggestionID(res GeocodeResult, ordinal int) string {
	if res.Geohash != "" {
		return res.Geohash
	}
	return fmt.Sprintf("%s-%g-%g-%d", res.PlaceType, res.Lat, res.Lng, ordinal)
}

// dedupeByDisplay collapses suggestions with identical display strings,
// keeping the first occurrence and preserving order.
func dedupeByDisplay(in []Suggestion) []Suggestion {
	seen := make(map[string]struct{}, len(in))
	out := make([]Suggestion, 0, len(in))
	for _, s := range in {
		if _, dup := seen[s.Display]; dup {
			continue
		}
		seen[s.Display] = struct{}{}
		out = append(out, s)
	}
	return out
}

// preferAccepted keeps only allow-listed place types when at least one
// suggestion matches; otherwise it returns the input unchanged.
func preferAccepted(in []Suggestion) []Suggestion {
	preferred := make([]Suggestion, 0, len(in))
	for _, s := range in {
		if _, ok := acceptedPlaceTypes[strings.ToLower(s.PlaceType)]; ok {
			preferred = append(preferred, s)
		}
	}
	if len(preferred) > 0 {
		return preferred
	}
	return in
}
