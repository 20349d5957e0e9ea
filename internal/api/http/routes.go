package httpapi

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/meteoinsight/internal/location"
	"github.com/i474232898/meteoinsight/internal/refresh"
	"github.com/i474232898/meteoinsight/internal/store"
	"github.com/i474232898/meteoinsight/internal/weather"
)

var validate = validator.New()

// Sources are the controllers and the location feed exposed over HTTP.
type Sources struct {
	Observation *refresh.Controller[weather.ObservationPeriod]
	Hourly      *refresh.Controller[weather.HourlyPeriod]
	Daily       *refresh.Controller[weather.DailyPeriod]
	Location    *location.Feed
}

// source is the kind-independent view of one controller.
type source struct {
	snapshot func() any
	history  func(from, to time.Time) (any, error)
	trigger  func() bool
}

func viewOf[T any](c *refresh.Controller[T]) source {
	return source{
		snapshot: func() any { return c.State().Snapshot() },
		history: func(from, to time.Time) (any, error) {
			h := c.History()
			if h == nil {
				return nil, store.ErrNotFound
			}
			return h.GetRange(from, to)
		},
		trigger: c.TriggerFetch,
	}
}

func (s Sources) views() map[weather.Kind]source {
	m := make(map[weather.Kind]source, len(weather.Kinds))
	if s.Observation != nil {
		m[weather.KindObservation] = viewOf(s.Observation)
	}
	if s.Hourly != nil {
		m[weather.KindHourly] = viewOf(s.Hourly)
	}
	if s.Daily != nil {
		m[weather.KindDaily] = viewOf(s.Daily)
	}
	return m
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, sources Sources) {
	views := sources.views()
	lookup := func(c *fiber.Ctx) (source, error) {
		kind, err := weather.ParseKind(c.Params("source"))
		if err != nil {
			return source{}, fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		v, ok := views[kind]
		if !ok {
			return source{}, fiber.NewError(fiber.StatusNotFound, "data source not enabled")
		}
		return v, nil
	}

	v1 := app.Group("/api/v1")

	v1.Get("/weather/hourly/summary", func(c *fiber.Ctx) error {
		if sources.Hourly == nil {
			return fiber.NewError(fiber.StatusNotFound, "data source not enabled")
		}
		state := sources.Hourly.State().Snapshot()
		return c.JSON(weather.SummarizeHourly(state.Data))
	})

	v1.Get("/weather/:source", func(c *fiber.Ctx) error {
		v, err := lookup(c)
		if err != nil {
			return err
		}
		return c.JSON(v.snapshot())
	})

	v1.Get("/weather/:source/history", func(c *fiber.Ctx) error {
		v, err := lookup(c)
		if err != nil {
			return err
		}

		window, err := timeRangeFrom(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		entries, err := v.history(window.From, window.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather history for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read weather history")
		}

		return c.JSON(fiber.Map{
			"source":  c.Params("source"),
			"from":    window.From,
			"to":      window.To,
			"entries": entries,
		})
	})

	v1.Post("/weather/:source/refresh", func(c *fiber.Ctx) error {
		v, err := lookup(c)
		if err != nil {
			return err
		}
		if !v.trigger() {
			return fiber.NewError(fiber.StatusConflict, "a fetch is already in progress")
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"triggered": true})
	})

	v1.Get("/location", func(c *fiber.Ctx) error {
		if sources.Location == nil {
			return fiber.NewError(fiber.StatusNotFound, "location updates not enabled")
		}
		coords, ok := sources.Location.Last()
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no location received yet")
		}
		return c.JSON(coords)
	})

	v1.Post("/location", func(c *fiber.Ctx) error {
		if sources.Location == nil {
			return fiber.NewError(fiber.StatusNotFound, "location updates not enabled")
		}

		var req locationBody
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		coords := weather.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude}
		if err := sources.Location.Push(coords); err != nil {
			if errors.Is(err, location.ErrFeedFull) || errors.Is(err, location.ErrFeedClosed) {
				return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
			}
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.Status(fiber.StatusAccepted).JSON(coords)
	})
}

// locationBody is the payload of a location update. Pointers tell a missing
// field apart from a zero coordinate.
type locationBody struct {
	Latitude  *float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"required,min=-180,max=180"`
}

// timeRange is the window of a history request.
type timeRange struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

// timeRangeFrom reads the from and to query parameters. A missing to means now.
func timeRangeFrom(c *fiber.Ctx) (timeRange, error) {
	from, err := queryTime(c, "from")
	if err != nil {
		return timeRange{}, err
	}
	r := timeRange{From: from, To: time.Now().UTC()}
	if c.Query("to") != "" {
		if r.To, err = queryTime(c, "to"); err != nil {
			return timeRange{}, err
		}
	}
	if err := validate.Struct(r); err != nil {
		return timeRange{}, err
	}
	return r, nil
}

// queryTime accepts unix seconds or an RFC3339 timestamp.
func queryTime(c *fiber.Ctx, key string) (time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return time.Time{}, fmt.Errorf("%s query parameter is required", key)
	}
	if sec, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Unix(sec, 0).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be unix seconds or RFC3339", key)
	}
	return t, nil
}
