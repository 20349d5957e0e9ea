package providers

import (
	"context"

	"github.com/sony/gobreaker"

	"github.com/i474232898/meteoinsight/internal/weather"
)

// DailySource fetches the multi-day forecast for a coordinate.
type DailySource struct {
	name    string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewDailySource(cfg HTTPClientConfig) *DailySource {
	return &DailySource{
		name:    "daily",
		httpCfg: cfg,
		circuit: newCircuitBreaker("daily"),
	}
}

func (s *DailySource) Name() string {
	return s.name
}

func (s *DailySource) Fetch(ctx context.Context, settings weather.Settings) ([]weather.DailyPeriod, error) {
	return fetch(ctx, s.httpCfg, s.circuit, weather.KindDaily, settings, (*weather.DailyForecastResponse).Periods)
}
