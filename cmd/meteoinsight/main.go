package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/lmittmann/tint"

	httpapi "github.com/i474232898/meteoinsight/internal/api/http"
	"github.com/i474232898/meteoinsight/internal/config"
	"github.com/i474232898/meteoinsight/internal/location"
	"github.com/i474232898/meteoinsight/internal/refresh"
	"github.com/i474232898/meteoinsight/internal/scheduler"
	"github.com/i474232898/meteoinsight/internal/store"
	"github.com/i474232898/meteoinsight/internal/weather"
	"github.com/i474232898/meteoinsight/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      cfg.LogLevel,
		TimeFormat: time.DateTime,
	}))
	slog.SetDefault(log)

	// Shared HTTP client for outbound weather API calls.
	httpCfg := providers.HTTPClientConfig{
		Client:  &http.Client{Timeout: cfg.HTTPTimeout},
		BaseURL: cfg.BaseURL,
		Logger:  log.With("module", "providers"),
	}

	settings := config.NewStore(cfg.Weather)
	dispatcher := store.NewDispatcher()
	repeater := scheduler.New()

	observation := refresh.New(refresh.Options[weather.ObservationPeriod]{
		Name:     string(weather.KindObservation),
		Fetcher:  providers.NewObservationSource(httpCfg),
		Config:   settings,
		Repeater: repeater,
		State:    store.NewPublished[weather.ObservationPeriod](string(weather.KindObservation), dispatcher),
		History:  store.NewHistory[weather.ObservationPeriod](cfg.StoreMaxHistory, cfg.StoreMaxAge),
		Timeout:  cfg.HTTPTimeout,
		Logger:   log,
	})
	hourly := refresh.New(refresh.Options[weather.HourlyPeriod]{
		Name:     string(weather.KindHourly),
		Fetcher:  providers.NewHourlySource(httpCfg),
		Config:   settings,
		Repeater: repeater,
		State:    store.NewPublished[weather.HourlyPeriod](string(weather.KindHourly), dispatcher),
		History:  store.NewHistory[weather.HourlyPeriod](cfg.StoreMaxHistory, cfg.StoreMaxAge),
		Timeout:  cfg.HTTPTimeout,
		Logger:   log,
	})
	daily := refresh.New(refresh.Options[weather.DailyPeriod]{
		Name:     string(weather.KindDaily),
		Fetcher:  providers.NewDailySource(httpCfg),
		Config:   settings,
		Repeater: repeater,
		State:    store.NewPublished[weather.DailyPeriod](string(weather.KindDaily), dispatcher),
		History:  store.NewHistory[weather.DailyPeriod](cfg.StoreMaxHistory, cfg.StoreMaxAge),
		Timeout:  cfg.HTTPTimeout,
		Logger:   log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Location updates only move the daily forecast; the other sources are
	// keyed by station and postal code.
	onLocationError := func(err error) {
		log.Warn("location provider error", slog.String("module", "location"), slog.Any("error", err))
	}

	feed := location.NewFeed(8)
	go refresh.Follow(ctx, feed.Updates(), onLocationError, daily)

	if cfg.GeocoderAPIKey != "" {
		geo := location.NewGeocoder(cfg.GeocoderAPIKey, cfg.LocationAddress, log)
		go refresh.Follow(ctx, geo.Updates(), onLocationError, daily)
		go geo.Resolve(ctx)
	}

	for _, c := range []interface{ Start() error }{observation, hourly, daily} {
		if err := c.Start(); err != nil {
			log.Error("failed to start refresh", slog.Any("error", err))
			os.Exit(1)
		}
	}

	app := fiber.New(fiber.Config{
		AppName:               "meteoinsight",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
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
			"service": "meteoinsight",
		})
	})

	httpapi.RegisterRoutes(app, httpapi.Sources{
		Observation: observation,
		Hourly:      hourly,
		Daily:       daily,
		Location:    feed,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", slog.Any("error", err))
			stop()
		}
	}()
	log.Info("meteoinsight started", slog.String("port", cfg.Port))

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", slog.Any("error", err))
	}

	observation.Close()
	hourly.Close()
	daily.Close()
	feed.Close()
	dispatcher.Close()
	log.Info("meteoinsight stopped")
}
