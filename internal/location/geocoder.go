package location

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/meteoinsight/internal/weather"
)

// geocoder keeps its API key in a package variable.
var apiKeyMu sync.Mutex

// Address is the postal address a Geocoder resolves.
type Address struct {
	Street     string
	Number     int
	City       string
	State      string
	PostalCode string
	Country    string
}

func (a Address) empty() bool {
	return strings.TrimSpace(a.Street+a.City+a.State+a.PostalCode+a.Country) == ""
}

// Geocoder is a Provider that turns a configured address into coordinates
// through the Google geocoding API.
type Geocoder struct {
	apiKey  string
	address Address
	logger  *slog.Logger
	ch      chan Update

	lookup func(apiKey string, a geocoder.Address) (geocoder.Location, error)
}

func NewGeocoder(apiKey string, address Address, logger *slog.Logger) *Geocoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Geocoder{
		apiKey:  apiKey,
		address: address,
		logger:  logger.With("module", "location"),
		ch:      make(chan Update, 1),
		lookup:  googleLookup,
	}
}

func googleLookup(apiKey string, a geocoder.Address) (geocoder.Location, error) {
	apiKeyMu.Lock()
	defer apiKeyMu.Unlock()
	geocoder.ApiKey = apiKey
	return geocoder.Geocoding(a)
}

func (g *Geocoder) Updates() <-chan Update {
	return g.ch
}

// Resolve geocodes the address once and emits the outcome. Failures are sent
// as an Update carrying the error.
func (g *Geocoder) Resolve(ctx context.Context) {
	u := g.resolve()
	if u.Err != nil {
		g.logger.Warn("geocoding failed", slog.Any("error", u.Err))
	} else {
		g.logger.Info("address geocoded", slog.String("coordinates", u.Coordinates.String()))
	}

	select {
	case g.ch <- u:
	case <-ctx.Done():
	}
}

func (g *Geocoder) resolve() Update {
	if strings.TrimSpace(g.apiKey) == "" {
		return Update{Err: fmt.Errorf("geocoding: api key not configured")}
	}
	if g.address.empty() {
		return Update{Err: fmt.Errorf("geocoding: address not configured")}
	}

	loc, err := g.lookup(g.apiKey, geocoder.Address{
		Street:     g.address.Street,
		Number:     g.address.Number,
		City:       g.address.City,
		State:      g.address.State,
		PostalCode: g.address.PostalCode,
		Country:    g.address.Country,
	})
	if err != nil {
		return Update{Err: fmt.Errorf("geocoding: %w", err)}
	}

	c := weather.Coordinates{Latitude: loc.Latitude, Longitude: loc.Longitude}
	if err := validate.Struct(c); err != nil {
		return Update{Err: fmt.Errorf("geocoding returned invalid coordinates: %w", err)}
	}
	return Update{Coordinates: c}
}

// Close ends the update stream. Resolve must not be called afterwards.
func (g *Geocoder) Close() {
	close(g.ch)
}
