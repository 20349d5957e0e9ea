package providers

import (
	"context"

	"github.com/sony/gobreaker"

	"github.com/i474232898/meteoinsight/internal/weather"
)

// HourlySource fetches the hourly forecast for a postal key.
type HourlySource struct {
	name    string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewHourlySource(cfg HTTPClientConfig) *HourlySource {
	return &HourlySource{
		name:    "hourly",
		httpCfg: cfg,
		circuit: newCircuitBreaker("hourly"),
	}
}

func (s *HourlySource) Name() string {
	return s.name
}

func (s *HourlySource) Fetch(ctx context.Context, settings weather.Settings) ([]weather.HourlyPeriod, error) {
	return fetch(ctx, s.httpCfg, s.circuit, weather.KindHourly, settings, (*weather.HourlyForecastResponse).Periods)
}
