package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/climaph/climaph/internal/location"
	"github.com/climaph/climaph/internal/providers"
	"github.com/climaph/climaph/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, resolver *location.Resolver, service *weather.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/locations/suggest", func(c *fiber.Ctx) error {
		suggestions, err := resolver.Resolve(c.Context(), c.Query("q"))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(fiber.Map{
			"suggestions": suggestions,
		})
	})

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		// A free-text query takes the resolve-then-fetch path.
		if q := c.Query("q"); q != "" {
			snapshot, err := service.CurrentByQuery(c.Context(), q)
			if err != nil {
				return mapError(err)
			}
			return c.JSON(snapshot)
		}

		coords, err := parseCoordQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snapshot, err := service.Current(c.Context(), coords.Lat, coords.Lng, c.Query("name"))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(snapshot)
	})

	v1.Get("/forecast/daily", func(c *fiber.Ctx) error {
		coords, err := parseCoordQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		days, err := service.DailyForecast(c.Context(), coords.Lat, coords.Lng)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(fiber.Map{
			"days": days,
		})
	})

	v1.Get("/forecast/hourly", func(c *fiber.Ctx) error {
		coords, err := parseCoordQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		window, err := service.Next12Hours(c.Context(), coords.Lat, coords.Lng)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(fiber.Map{
			"window": window,
		})
	})
}

// coordQuery holds the lat/lng query parameters shared by the weather
// and forecast endpoints.
type coordQuery struct {
	Lat float64 `validate:"latitude"`
	Lng float64 `validate:"longitude"`
}

func parseCoordQuery(c *fiber.Ctx) (coordQuery, error) {
	var q coordQuery

	latStr := c.Query("lat")
	lngStr := c.Query("lng")
	if latStr == "" || lngStr == "" {
		return q, errors.New("lat and lng query parameters are required")
	}

	var err error
	if q.Lat, err = strconv.ParseFloat(latStr, 64); err != nil {
		return q, errors.New("invalid lat")
	}
	if q.Lng, err = strconv.ParseFloat(lngStr, 64); err != nil {
		return q, errors.New("invalid lng")
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

// mapError translates core error kinds into HTTP statuses.
func mapError(err error) error {
	switch {
	case errors.Is(err, weather.ErrNoCoordinates):
		return fiber.NewError(fiber.StatusBadRequest, "no coordinates available for request")
	case errors.Is(err, location.ErrNoMatch):
		return fiber.NewError(fiber.StatusNotFound, "no matching location")
	case errors.Is(err, weather.ErrNoForecastData):
		return fiber.NewError(fiber.StatusNotFound, "no forecast data available")
	case errors.Is(err, providers.ErrAPIKeyMissing):
		return fiber.NewError(fiber.StatusServiceUnavailable, "provider credentials not configured")
	case errors.Is(err, providers.ErrUnavailable):
		return fiber.NewError(fiber.StatusBadGateway, "weather provider unavailable")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}
