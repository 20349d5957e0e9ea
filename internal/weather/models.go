package weather

import (
	"fmt"
	"time"
)

// RefreshInterval is how often a running refresh controller re-fetches its source.
const RefreshInterval = 60 * time.Second

// Kind identifies one of the three endpoints of the weather API.
type Kind string

const (
	KindObservation Kind = "observation"
	KindHourly      Kind = "hourly"
	KindDaily       Kind = "daily"
)

// Kinds lists every supported endpoint kind.
var Kinds = []Kind{KindObservation, KindHourly, KindDaily}

// ParseKind maps a route or config value to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown data source %q", s)
}

// Unit systems understood by the API.
const (
	UnitsEnglish  = "e"
	UnitsMetric   = "m"
	UnitsHybrid   = "h" // UK hybrid
	UnitsMetricSI = "s"
)

// Placeholder values shipped as defaults before a user fills in real settings.
const (
	PlaceholderAPIKey        = "YOUR_WEATHER_API_KEY"
	PlaceholderGenericAPIKey = "YOUR_API_KEY"
	PlaceholderPostalKey     = "YOUR_POSTAL_KEY"
	PlaceholderStationID     = "YOUR_STATION_ID"
)

// Coordinates is a WGS84 position.
type Coordinates struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Latitude, c.Longitude)
}

// Settings is the read-only configuration a fetch is built from.
type Settings struct {
	APIKey string
	// HourlyAPIKey overrides APIKey for the hourly endpoint when set.
	HourlyAPIKey string

	StationID   string
	PostalKey   string
	Coordinates *Coordinates

	Units    string
	Language string

	AutoRefresh bool

	HourlyRange string // e.g. "12hour", "2day"
	DailyRange  string // e.g. "5day", "10day"
}

// WithCoordinates returns a copy of s located at c.
func (s Settings) WithCoordinates(c Coordinates) Settings {
	s.Coordinates = &c
	return s
}

// DefaultSettings mirrors the defaults of a fresh install: placeholders
// everywhere the user has to supply a value.
func DefaultSettings() Settings {
	return Settings{
		APIKey:      PlaceholderAPIKey,
		StationID:   PlaceholderStationID,
		PostalKey:   PlaceholderPostalKey,
		Units:       UnitsMetric,
		Language:    "de-DE",
		AutoRefresh: true,
		HourlyRange: "12hour",
		DailyRange:  "5day",
	}
}
