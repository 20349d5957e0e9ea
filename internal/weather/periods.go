package weather

import (
	"time"

	"github.com/google/uuid"
)

// HourlyPeriod is one hour of an hourly forecast.
type HourlyPeriod struct {
	ID string `json:"id"`

	ValidTimeLocal *string `json:"validTimeLocal"`
	ValidTimeUtc   *int64  `json:"validTimeUtc"`

	CloudCover                         *int     `json:"cloudCover"`
	DayOfWeek                          *string  `json:"dayOfWeek"`
	DayOrNight                         *string  `json:"dayOrNight"`
	ExpirationTimeUtc                  *int64   `json:"expirationTimeUtc"`
	IconCode                           *int     `json:"iconCode"`
	IconCodeExtend                     *int     `json:"iconCodeExtend"`
	PrecipChance                       *int     `json:"precipChance"`
	PrecipType                         *string  `json:"precipType"`
	PressureMeanSeaLevel               *float64 `json:"pressureMeanSeaLevel"`
	Qpf                                *float64 `json:"qpf"`
	QpfSnow                            *float64 `json:"qpfSnow"`
	RelativeHumidity                   *int     `json:"relativeHumidity"`
	Temperature                        *float64 `json:"temperature"`
	TemperatureDewPoint                *float64 `json:"temperatureDewPoint"`
	TemperatureFeelsLike               *float64 `json:"temperatureFeelsLike"`
	TemperatureHeatIndex               *float64 `json:"temperatureHeatIndex"`
	TemperatureWindChill               *float64 `json:"temperatureWindChill"`
	UvDescription                      *string  `json:"uvDescription"`
	UvIndex                            *int     `json:"uvIndex"`
	Visibility                         *float64 `json:"visibility"`
	WindDirection                      *int     `json:"windDirection"`
	WindDirectionCardinal              *string  `json:"windDirectionCardinal"`
	WindGust                           *int     `json:"windGust"`
	WindSpeed                          *int     `json:"windSpeed"`
	WxPhraseLong                       *string  `json:"wxPhraseLong"`
	WxPhraseShort                      *string  `json:"wxPhraseShort"`
	WxSeverity                         *int     `json:"wxSeverity"`
	Ceiling                            *int     `json:"ceiling"`
	ScatteredCloudBaseHeight           *int     `json:"scatteredCloudBaseHeight"`
	PressureAltimeter                  *float64 `json:"pressureAltimeter"`
	QpfIce                             *float64 `json:"qpfIce"`
	QualifierSet                       []string `json:"qualifierSet"`
	TemperatureWetBulbGlobe            *float64 `json:"temperatureWetBulbGlobe"`
	ConditionalProbabilityThunder      *int     `json:"conditionalProbabilityThunder"`
	ConditionalProbabilitySleet        *int     `json:"conditionalProbabilitySleet"`
	ConditionalProbabilitySnow         *int     `json:"conditionalProbabilitySnow"`
	ConditionalProbabilityRain         *int     `json:"conditionalProbabilityRain"`
	ConditionalProbabilityFreezingRain *int     `json:"conditionalProbabilityFreezingRain"`
}

// Time parses ValidTimeLocal, keeping its offset.
func (p HourlyPeriod) Time() (time.Time, bool) {
	return parseLocalTime(p.ValidTimeLocal)
}

// FormattedTime renders the hour as "15:04", or "N/A" when unknown.
func (p HourlyPeriod) FormattedTime() string {
	t, ok := p.Time()
	if !ok {
		return "N/A"
	}
	return t.Format("15:04")
}

// FormattedDayAndDate renders e.g. "Monday, 09.06.", or "N/A" when unknown.
func (p HourlyPeriod) FormattedDayAndDate() string {
	t, ok := p.Time()
	if !ok {
		return "N/A"
	}
	return t.Format("Monday, 02.01.")
}

// Half tells the day and night segments of a daypart apart.
type Half string

const (
	HalfUnknown Half = ""
	HalfDay     Half = "D"
	HalfNight   Half = "N"
)

// DaypartPeriod is one 12-hour segment of a daily forecast.
type DaypartPeriod struct {
	ID   string `json:"id"`
	Half Half   `json:"half"`

	CloudCover            *int     `json:"cloudCover"`
	DayOrNight            *string  `json:"dayOrNight"`
	DaypartName           *string  `json:"daypartName"`
	IconCode              *int     `json:"iconCode"`
	IconCodeExtend        *int     `json:"iconCodeExtend"`
	Narrative             *string  `json:"narrative"`
	PrecipChance          *int     `json:"precipChance"`
	PrecipType            *string  `json:"precipType"`
	Qpf                   *float64 `json:"qpf"`
	QpfSnow               *float64 `json:"qpfSnow"`
	QualifierCode         *string  `json:"qualifierCode"`
	QualifierPhrase       *string  `json:"qualifierPhrase"`
	RelativeHumidity      *int     `json:"relativeHumidity"`
	SnowRange             *string  `json:"snowRange"`
	Temperature           *int     `json:"temperature"`
	TemperatureHeatIndex  *int     `json:"temperatureHeatIndex"`
	TemperatureWindChill  *int     `json:"temperatureWindChill"`
	ThunderCategory       *string  `json:"thunderCategory"`
	ThunderIndex          *int     `json:"thunderIndex"`
	UvDescription         *string  `json:"uvDescription"`
	UvIndex               *int     `json:"uvIndex"`
	WindDirection         *int     `json:"windDirection"`
	WindDirectionCardinal *string  `json:"windDirectionCardinal"`
	WindPhrase            *string  `json:"windPhrase"`
	WindSpeed             *int     `json:"windSpeed"`
	WxPhraseLong          *string  `json:"wxPhraseLong"`
	WxPhraseShort         *string  `json:"wxPhraseShort"`
}

// DayGroup pairs the day and night segment of one calendar day. Either side
// may be missing.
type DayGroup struct {
	Day   *DaypartPeriod `json:"day"`
	Night *DaypartPeriod `json:"night"`
}

// DailyPeriod is one calendar day of a daily forecast.
type DailyPeriod struct {
	ID string `json:"id"`

	ValidTimeLocal *string `json:"validTimeLocal"`
	ValidTimeUtc   *int64  `json:"validTimeUtc"`
	DayOfWeek      *string `json:"dayOfWeek"`

	CalendarDayTemperatureMax *int     `json:"calendarDayTemperatureMax"`
	CalendarDayTemperatureMin *int     `json:"calendarDayTemperatureMin"`
	TemperatureMax            *int     `json:"temperatureMax"`
	TemperatureMin            *int     `json:"temperatureMin"`
	ExpirationTimeUtc         *int64   `json:"expirationTimeUtc"`
	MoonPhase                 *string  `json:"moonPhase"`
	MoonPhaseCode             *string  `json:"moonPhaseCode"`
	MoonPhaseDay              *int     `json:"moonPhaseDay"`
	MoonriseTimeLocal         *string  `json:"moonriseTimeLocal"`
	MoonriseTimeUtc           *int64   `json:"moonriseTimeUtc"`
	MoonsetTimeLocal          *string  `json:"moonsetTimeLocal"`
	MoonsetTimeUtc            *int64   `json:"moonsetTimeUtc"`
	Narrative                 *string  `json:"narrative"`
	Qpf                       *float64 `json:"qpf"`
	QpfSnow                   *float64 `json:"qpfSnow"`
	SunriseTimeLocal          *string  `json:"sunriseTimeLocal"`
	SunriseTimeUtc            *int64   `json:"sunriseTimeUtc"`
	SunsetTimeLocal           *string  `json:"sunsetTimeLocal"`
	SunsetTimeUtc             *int64   `json:"sunsetTimeUtc"`

	Day   *DaypartPeriod `json:"day"`
	Night *DaypartPeriod `json:"night"`
}

// Time parses ValidTimeLocal, keeping its offset.
func (p DailyPeriod) Time() (time.Time, bool) {
	return parseLocalTime(p.ValidTimeLocal)
}

// ObservationPeriod is one station observation flattened across its unit block.
type ObservationPeriod struct {
	ID string `json:"id"`

	StationID      *string  `json:"stationId"`
	ObsTimeUtc     *string  `json:"obsTimeUtc"`
	ObsTimeLocal   *string  `json:"obsTimeLocal"`
	Epoch          *int64   `json:"epoch"`
	Neighborhood   *string  `json:"neighborhood"`
	Country        *string  `json:"country"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	SolarRadiation *float64 `json:"solarRadiation"`
	Uv             *float64 `json:"uv"`
	WindDirection  *int     `json:"windDirection"`
	Humidity       *float64 `json:"humidity"`
	QcStatus       *int     `json:"qcStatus"`

	Temperature *float64 `json:"temperature"`
	HeatIndex   *float64 `json:"heatIndex"`
	DewPoint    *float64 `json:"dewPoint"`
	WindChill   *float64 `json:"windChill"`
	WindSpeed   *float64 `json:"windSpeed"`
	WindGust    *float64 `json:"windGust"`
	Pressure    *float64 `json:"pressure"`
	PrecipRate  *float64 `json:"precipRate"`
	PrecipTotal *float64 `json:"precipTotal"`
	Elevation   *float64 `json:"elevation"`
}

// Time returns the observation instant.
func (p ObservationPeriod) Time() (time.Time, bool) {
	if p.Epoch != nil {
		return time.Unix(*p.Epoch, 0).UTC(), true
	}
	if p.ObsTimeUtc != nil {
		if t, err := time.Parse(time.RFC3339, *p.ObsTimeUtc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var localTimeLayouts = []string{
	"2006-01-02T15:04:05-0700",
	time.RFC3339,
}

func parseLocalTime(s *string) (time.Time, bool) {
	if s == nil {
		return time.Time{}, false
	}
	for _, layout := range localTimeLayouts {
		if t, err := time.Parse(layout, *s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func newID() string {
	return uuid.NewString()
}
