package config

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/meteoinsight/internal/location"
	"github.com/i474232898/meteoinsight/internal/weather"
)

type AppConfig struct {
	// Weather holds everything a fetch is built from.
	Weather weather.Settings

	BaseURL     string
	HTTPTimeout time.Duration

	// In-memory history retention.
	StoreMaxHistory int           // max number of results per source (0 = unlimited)
	StoreMaxAge     time.Duration // max age of results (0 = unlimited)

	// Optional address geocoded once at startup.
	GeocoderAPIKey  string
	LocationAddress location.Address

	LogLevel slog.Level
	Port     string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", slog.Any("error", err))
	}
	cfg := &AppConfig{}

	s := weather.DefaultSettings()
	s.APIKey = getenvDefault("WEATHER_API_KEY", s.APIKey)
	s.HourlyAPIKey = os.Getenv("HOURLY_API_KEY")
	s.StationID = getenvDefault("PWS_STATION_ID", s.StationID)
	s.PostalKey = getenvDefault("HOURLY_POSTAL_KEY", s.PostalKey)
	s.Units = getenvDefault("UNITS", s.Units)
	s.Language = getenvDefault("LANGUAGE", s.Language)
	s.HourlyRange = getenvDefault("HOURLY_FORECAST_RANGE", s.HourlyRange)
	s.DailyRange = getenvDefault("DAILY_FORECAST_RANGE", s.DailyRange)

	autoRefresh, err := getenvBool("AUTO_REFRESH", s.AutoRefresh)
	if err != nil {
		return nil, err
	}
	s.AutoRefresh = autoRefresh

	coords, err := loadCoordinates()
	if err != nil {
		return nil, err
	}
	s.Coordinates = coords
	cfg.Weather = s

	cfg.BaseURL = strings.TrimRight(getenvDefault("WEATHER_API_BASE_URL", weather.DefaultBaseURL), "/")

	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	// Store retention.
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 60) // one hour at the refresh interval
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", 24*time.Hour); err != nil {
		return nil, err
	}

	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")
	cfg.LocationAddress = location.Address{
		Street:     os.Getenv("LOCATION_ADDRESS"),
		City:       os.Getenv("LOCATION_CITY"),
		PostalCode: os.Getenv("LOCATION_POSTAL_CODE"),
		Country:    os.Getenv("LOCATION_COUNTRY"),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getenvDefault("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

// loadCoordinates reads LATITUDE and LONGITUDE. Both or neither must be set.
func loadCoordinates() (*weather.Coordinates, error) {
	latStr := os.Getenv("LATITUDE")
	lonStr := os.Getenv("LONGITUDE")
	if latStr == "" && lonStr == "" {
		return nil, nil
	}
	if latStr == "" || lonStr == "" {
		return nil, fmt.Errorf("LATITUDE and LONGITUDE must be set together")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || math.IsNaN(lat) || lat < -90 || lat > 90 {
		return nil, fmt.Errorf("invalid LATITUDE %q", latStr)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil || math.IsNaN(lon) || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("invalid LONGITUDE %q", lonStr)
	}
	return &weather.Coordinates{Latitude: lat, Longitude: lon}, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// Store is the configuration source read by the refresh controllers. The
// location is the only value written back at runtime.
type Store struct {
	mu       sync.RWMutex
	settings weather.Settings
}

func NewStore(s weather.Settings) *Store {
	return &Store{settings: s}
}

// Settings returns a copy of the current settings.
func (st *Store) Settings() weather.Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s := st.settings
	if s.Coordinates != nil {
		c := *s.Coordinates
		s.Coordinates = &c
	}
	return s
}

// SaveLocation persists c as the forecast location.
func (st *Store) SaveLocation(c weather.Coordinates) error {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) ||
		c.Latitude < -90 || c.Latitude > 90 || c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("coordinates out of range: %s", c)
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.settings.Coordinates = &c
	return nil
}
