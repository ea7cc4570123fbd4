package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/climaph/climaph/internal/api/http"
	"github.com/climaph/climaph/internal/cache"
	"github.com/climaph/climaph/internal/config"
	"github.com/climaph/climaph/internal/location"
	"github.com/climaph/climaph/internal/providers"
	"github.com/climaph/climaph/internal/scheduler"
	"github.com/climaph/climaph/internal/weather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Cache store: bbolt when a path is configured, in-memory otherwise.
	// A broken database file degrades to memory; the cache is an
	// optimization, not a dependency.
	var store cache.Store
	if cfg.CachePath != "" {
		bolt, err := cache.OpenBolt(cfg.CachePath)
		if err != nil {
			log.Printf("cache: cannot open %s, falling back to memory: %v", cfg.CachePath, err)
			store = cache.NewMemoryStore()
		} else {
			defer bolt.Close()
			store = bolt
		}
	} else {
		store = cache.NewMemoryStore()
	}

	geocoder := providers.NewOpenCage(httpClient, cfg.OpenCageAPIKey, cfg.CountryCode)
	owm := providers.NewOpenWeather(httpClient, cfg.OpenWeatherAPIKey)

	resolver := location.NewResolver(geocoder, store, location.ResolverConfig{
		Country: cfg.CountryName,
		Limit:   cfg.SuggestionLimit,
		TTL:     cfg.SuggestionsTTL,
	})
	service := weather.NewService(owm, owm, resolver, store, cfg.WeatherTTL)

	// Keep pinned locations warm in the cache.
	refresher := scheduler.New(cfg.WarmLocations, cfg.WarmInterval, service)
	if err := refresher.Start(); err != nil {
		log.Fatalf("failed to start refresher: %v", err)
	}
	defer refresher.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "climaph",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "climaph",
		})
	})

	httpapi.RegisterRoutes(app, resolver, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
