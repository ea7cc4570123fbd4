package weather

import (
	"math"
	"time"

	"github.com/climaph/climaph/internal/common"
)

// LocalZone is Philippine Standard Time. The target region spans a
// single fixed offset with no daylight saving, so both the rolling
// window and the day grouping use it rather than the ambient zone.
var LocalZone = time.FixedZone("PHT", 8*60*60)

// maxSummaryDays caps the day table at the provider's 5-day horizon.
const maxSummaryDays = 5

// windowSize is 4 samples of 3 hours each: a 12-hour window.
const windowSize = 4

// localOffset is the UTC offset of LocalZone as a duration.
const localOffset = 8 * time.Hour

// SummarizeDays folds a time-ordered 3-hour forecast series into at
// most five per-day summaries: running max/min temperature and the
// first-seen description per calendar day. Days are bucketed in
// LocalZone so the grouping never depends on the host's locale or
// timezone. The input series is not modified.
func SummarizeDays(samples []ForecastSample) []DaySummary {
	var (
		order     []string
		summaries = make(map[string]*DaySummary)
	)

	for _, s := range samples {
		day := s.Timestamp.In(LocalZone).Format("January 2")

		sum, ok := summaries[day]
		if !ok {
			if len(order) == maxSummaryDays {
				break
			}
			sum = &DaySummary{
				Day:         day,
				HighC:       math.Inf(-1),
				LowC:        math.Inf(1),
				Description: common.Capitalize(s.Description),
			}
			summaries[day] = sum
			order = append(order, day)
		}

		sum.HighC = math.Max(sum.HighC, s.TempMaxC)
		sum.LowC = math.Min(sum.LowC, s.TempMinC)
	}

	out := make([]DaySummary, 0, len(order))
	for _, day := range order {
		out = append(out, *summaries[day])
	}
	return out
}

// UpcomingWindow returns up to four consecutive samples anchored at the
// first one whose offset-shifted timestamp (UTC instant + 8h) is not
// before now: a 12-hour look-ahead at 3-hour steps. Short tails are
// returned as-is, never padded. A series entirely in the past yields
// ErrNoForecastData. The input series is not modified.
func UpcomingWindow(samples []ForecastSample, now time.Time) ([]WindowSample, error) {
	start := -1
	for i, s := range samples {
		if !s.Timestamp.Add(localOffset).Before(now) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, ErrNoForecastData
	}

	end := start + windowSize
	if end > len(samples) {
		end = len(samples)
	}

	out := make([]WindowSample, 0, end-start)
	for _, s := range samples[start:end] {
		out = append(out, WindowSample{
			ForecastSample: s,
			LocalTime:      s.Timestamp.In(LocalZone),
		})
	}
	return out, nil
}
