package providers

import (
	"context"

	"github.com/sony/gobreaker"

	"github.com/i474232898/meteoinsight/internal/weather"
)

// ObservationSource fetches the current observation of a personal weather station.
type ObservationSource struct {
	name    string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewObservationSource(cfg HTTPClientConfig) *ObservationSource {
	return &ObservationSource{
		name:    "observation",
		httpCfg: cfg,
		circuit: newCircuitBreaker("observation"),
	}
}

func (s *ObservationSource) Name() string {
	return s.name
}

func (s *ObservationSource) Fetch(ctx context.Context, settings weather.Settings) ([]weather.ObservationPeriod, error) {
	return fetch(ctx, s.httpCfg, s.circuit, weather.KindObservation, settings, (*weather.ObservationResponse).Periods)
}
