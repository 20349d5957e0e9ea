package weather

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/i474232898/meteoinsight/internal/common"
)

// DefaultBaseURL is the host of the weather API.
const DefaultBaseURL = "https://api.weather.com"

// Param is a single query parameter.
type Param struct {
	Name  string
	Value string
}

// Request describes one GET call against the weather API.
type Request struct {
	Kind     Kind
	Endpoint string
	Params   []Param // sent in this order
}

// URL renders the endpoint and its query string, keeping the parameter order.
func (r Request) URL() string {
	var b strings.Builder
	b.WriteString(r.Endpoint)
	for i, p := range r.Params {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// Get returns the value of the named parameter.
func (r Request) Get(name string) (string, bool) {
	for _, p := range r.Params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

var placeholders = []string{
	PlaceholderAPIKey,
	PlaceholderGenericAPIKey,
	PlaceholderPostalKey,
	PlaceholderStationID,
}

func isPlaceholder(v string) bool {
	return common.HasAny(strings.ToUpper(strings.TrimSpace(v)), placeholders...)
}

func requireValue(name, v string) error {
	if strings.TrimSpace(v) == "" {
		return configInvalid("%s is missing", name)
	}
	if isPlaceholder(v) {
		return configInvalid("%s is still the placeholder %q", name, v)
	}
	return nil
}

// BuildRequest validates s for the given endpoint and builds its request.
// It fails with ErrConfigurationInvalid before anything touches the network.
func BuildRequest(kind Kind, s Settings, baseURL string) (Request, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	apiKey := s.APIKey
	if kind == KindHourly && strings.TrimSpace(s.HourlyAPIKey) != "" {
		apiKey = s.HourlyAPIKey
	}
	if err := requireValue("api key", apiKey); err != nil {
		return Request{}, err
	}

	units := s.Units
	if units == "" {
		units = UnitsMetric
	}
	switch units {
	case UnitsEnglish, UnitsMetric, UnitsHybrid, UnitsMetricSI:
	default:
		return Request{}, configInvalid("unsupported unit system %q", units)
	}
	language := s.Language
	if language == "" {
		language = "en-US"
	}

	var (
		endpoint string
		location Param
	)
	switch kind {
	case KindObservation:
		if err := requireValue("station id", s.StationID); err != nil {
			return Request{}, err
		}
		endpoint = baseURL + "/v2/pws/observations/current"
		location = Param{"stationId", strings.TrimSpace(s.StationID)}
	case KindHourly:
		if err := requireValue("postal key", s.PostalKey); err != nil {
			return Request{}, err
		}
		endpoint = baseURL + "/v3/wx/forecast/hourly/" + orDefault(s.HourlyRange, "12hour") + "/enterprise"
		location = Param{"postalKey", strings.TrimSpace(s.PostalKey)}
	case KindDaily:
		geocode, err := geocodeParam(s.Coordinates)
		if err != nil {
			return Request{}, err
		}
		endpoint = baseURL + "/v3/wx/forecast/daily/" + orDefault(s.DailyRange, "5day")
		location = Param{"geocode", geocode}
	default:
		return Request{}, configInvalid("unknown endpoint kind %q", kind)
	}

	return Request{
		Kind:     kind,
		Endpoint: endpoint,
		Params: []Param{
			{"units", units},
			{"language", language},
			{"format", "json"},
			{"apiKey", strings.TrimSpace(apiKey)},
			location,
		},
	}, nil
}

func geocodeParam(c *Coordinates) (string, error) {
	if c == nil {
		return "", configInvalid("coordinates are missing")
	}
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) ||
		c.Latitude < -90 || c.Latitude > 90 || c.Longitude < -180 || c.Longitude > 180 {
		return "", configInvalid("coordinates %v are out of range", *c)
	}
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64), nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
