package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/climaph/climaph/internal/config"
	"github.com/climaph/climaph/internal/weather"
)

// Refresher periodically fetches current conditions for pinned
// locations so their cache entries never go cold between user requests.
type Refresher struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	locations []config.WarmLocation
	interval  time.Duration
}

// New creates a Refresher over the given pinned locations.
func New(locations []config.WarmLocation, interval time.Duration, service *weather.Service) *Refresher {
	return &Refresher{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		locations: locations,
		interval:  interval,
	}
}

// Start schedules the periodic refresh and starts the underlying
// scheduler. With no pinned locations it does nothing.
func (r *Refresher) Start() error {
	if len(r.locations) == 0 {
		log.Println("refresher: no pinned locations configured; nothing to schedule")
		return nil
	}

	minutes := int(r.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := r.scheduler.Every(minutes).Minutes().Do(r.refreshAll)
	if err != nil {
		return err
	}

	r.scheduler.StartAsync()
	return nil
}

func (r *Refresher) refreshAll() {
	log.Println("refresher: warming weather cache")

	var wg sync.WaitGroup
	for _, loc := range r.locations {
		wg.Add(1)
		go func(loc config.WarmLocation) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if _, err := r.service.Current(ctx, loc.Lat, loc.Lng, loc.Label); err != nil {
				log.Printf("refresher: fetch failed for %s: %v", loc.Label, err)
			}
		}(loc)
	}
	wg.Wait()

	log.Println("refresher: cache warm complete")
}

// Stop stops the scheduler and cancels any future jobs.
func (r *Refresher) Stop() {
	if r.scheduler != nil {
		r.scheduler.Stop()
	}
}
