package weather

// Wire schemas of the weather API. Every time series is a list whose elements
// may be null, and any list may be missing altogether. The JSON keys are the
// exact keys the API sends and must not be renamed.

// HourlyForecastResponse is the payload of /v3/wx/forecast/hourly/{range}/enterprise.
type HourlyForecastResponse struct {
	CloudCover                         []*int     `json:"cloudCover"`
	DayOfWeek                          []*string  `json:"dayOfWeek"`
	DayOrNight                         []*string  `json:"dayOrNight"`
	ExpirationTimeUtc                  []*int64   `json:"expirationTimeUtc"`
	IconCode                           []*int     `json:"iconCode"`
	IconCodeExtend                     []*int     `json:"iconCodeExtend"`
	PrecipChance                       []*int     `json:"precipChance"`
	PrecipType                         []*string  `json:"precipType"`
	PressureMeanSeaLevel               []*float64 `json:"pressureMeanSeaLevel"`
	Qpf                                []*float64 `json:"qpf"`
	QpfSnow                            []*float64 `json:"qpfSnow"`
	RelativeHumidity                   []*int     `json:"relativeHumidity"`
	Temperature                        []*float64 `json:"temperature"`
	TemperatureDewPoint                []*float64 `json:"temperatureDewPoint"`
	TemperatureFeelsLike               []*float64 `json:"temperatureFeelsLike"`
	TemperatureHeatIndex               []*float64 `json:"temperatureHeatIndex"`
	TemperatureWindChill               []*float64 `json:"temperatureWindChill"`
	UvDescription                      []*string  `json:"uvDescription"`
	UvIndex                            []*int     `json:"uvIndex"`
	ValidTimeLocal                     []*string  `json:"validTimeLocal"`
	ValidTimeUtc                       []*int64   `json:"validTimeUtc"`
	Visibility                         []*float64 `json:"visibility"`
	WindDirection                      []*int     `json:"windDirection"`
	WindDirectionCardinal              []*string  `json:"windDirectionCardinal"`
	WindGust                           []*int     `json:"windGust"`
	WindSpeed                          []*int     `json:"windSpeed"`
	WxPhraseLong                       []*string  `json:"wxPhraseLong"`
	WxPhraseShort                      []*string  `json:"wxPhraseShort"`
	WxSeverity                         []*int     `json:"wxSeverity"`
	Ceiling                            []*int     `json:"ceiling"`
	ScatteredCloudBaseHeight           []*int     `json:"scatteredCloudBaseHeight"`
	PressureAltimeter                  []*float64 `json:"pressureAltimeter"`
	QpfIce                             []*float64 `json:"qpfIce"`
	QualifierSet                       [][]string `json:"qualifierSet"`
	TemperatureWetBulbGlobe            []*float64 `json:"temperatureWetBulbGlobe"`
	ConditionalProbabilityThunder      []*int     `json:"conditionalProbabilityThunder"`
	ConditionalProbabilitySleet        []*int     `json:"conditionalProbabilitySleet"`
	ConditionalProbabilitySnow         []*int     `json:"conditionalProbabilitySnow"`
	ConditionalProbabilityRain         []*int     `json:"conditionalProbabilityRain"`
	ConditionalProbabilityFreezingRain []*int     `json:"conditionalProbabilityFreezingRain"`
}

// DailyForecastResponse is the payload of /v3/wx/forecast/daily/{range}.
type DailyForecastResponse struct {
	CalendarDayTemperatureMax []*int     `json:"calendarDayTemperatureMax"`
	CalendarDayTemperatureMin []*int     `json:"calendarDayTemperatureMin"`
	DayOfWeek                 []*string  `json:"dayOfWeek"`
	ExpirationTimeUtc         []*int64   `json:"expirationTimeUtc"`
	MoonPhase                 []*string  `json:"moonPhase"`
	MoonPhaseCode             []*string  `json:"moonPhaseCode"`
	MoonPhaseDay              []*int     `json:"moonPhaseDay"`
	MoonriseTimeLocal         []*string  `json:"moonriseTimeLocal"`
	MoonriseTimeUtc           []*int64   `json:"moonriseTimeUtc"`
	MoonsetTimeLocal          []*string  `json:"moonsetTimeLocal"`
	MoonsetTimeUtc            []*int64   `json:"moonsetTimeUtc"`
	Narrative                 []*string  `json:"narrative"`
	Qpf                       []*float64 `json:"qpf"`
	QpfSnow                   []*float64 `json:"qpfSnow"`
	SunriseTimeLocal          []*string  `json:"sunriseTimeLocal"`
	SunriseTimeUtc            []*int64   `json:"sunriseTimeUtc"`
	SunsetTimeLocal           []*string  `json:"sunsetTimeLocal"`
	SunsetTimeUtc             []*int64   `json:"sunsetTimeUtc"`
	// Null for the current day once the afternoon has passed.
	TemperatureMax []*int    `json:"temperatureMax"`
	TemperatureMin []*int    `json:"temperatureMin"`
	ValidTimeUtc   []*int64  `json:"validTimeUtc"`
	ValidTimeLocal []*string `json:"validTimeLocal"`

	Daypart []Daypart `json:"daypart"`
}

// Daypart holds the 12-hour day and night segments of a daily forecast,
// again as parallel series. Entries alternate day, night, day, ...
type Daypart struct {
	CloudCover           []*int     `json:"cloudCover"`
	DayOrNight           []*string  `json:"dayOrNight"`
	DaypartName          []*string  `json:"daypartName"`
	IconCode             []*int     `json:"iconCode"`
	IconCodeExtend       []*int     `json:"iconCodeExtend"`
	Narrative            []*string  `json:"narrative"`
	PrecipChance         []*int     `json:"precipChance"`
	PrecipType           []*string  `json:"precipType"`
	Qpf                  []*float64 `json:"qpf"`
	QpfSnow              []*float64 `json:"qpfSnow"`
	QualifierCode        []*string  `json:"qualifierCode"`
	QualifierPhrase      []*string  `json:"qualifierPhrase"`
	RelativeHumidity     []*int     `json:"relativeHumidity"`
	SnowRange            []*string  `json:"snowRange"`
	Temperature          []*int     `json:"temperature"`
	TemperatureHeatIndex []*int     `json:"temperatureHeatIndex"`
	TemperatureWindChill []*int     `json:"temperatureWindChill"`
	ThunderCategory      []*string  `json:"thunderCategory"`
	ThunderIndex         []*int     `json:"thunderIndex"`
	UvDescription        []*string  `json:"uvDescription"`
	UvIndex              []*int     `json:"uvindex"`
	WindDirection        []*int     `json:"windDirection"`
	// The API spells this key with spaces.
	WindDirectionCardinal []*string `json:"wind Direction Cardinal"`
	WindPhrase            []*string `json:"windPhrase"`
	WindSpeed             []*int    `json:"windSpeed"`
	WxPhraseLong          []*string `json:"wxPhraseLong"`
	WxPhraseShort         []*string `json:"wxPhraseShort"`
}

// ObservationResponse is the payload of /v2/pws/observations/current.
type ObservationResponse struct {
	Observations []*Observation `json:"observations"`
}

// Observation is a single station report. The unit block key depends on the
// requested unit system.
type Observation struct {
	StationID         *string  `json:"stationID"`
	ObsTimeUtc        *string  `json:"obsTimeUtc"`
	ObsTimeLocal      *string  `json:"obsTimeLocal"`
	Neighborhood      *string  `json:"neighborhood"`
	SoftwareType      *string  `json:"softwareType"`
	Country           *string  `json:"country"`
	SolarRadiation    *float64 `json:"solarRadiation"`
	Lon               *float64 `json:"lon"`
	Lat               *float64 `json:"lat"`
	RealtimeFrequency *int     `json:"realtimeFrequency"`
	Epoch             *int64   `json:"epoch"`
	Uv                *float64 `json:"uv"`
	Winddir           *int     `json:"winddir"`
	Humidity          *float64 `json:"humidity"`
	QcStatus          *int     `json:"qcStatus"`

	Metric   *ObservationUnits `json:"metric"`
	Imperial *ObservationUnits `json:"imperial"`
	UKHybrid *ObservationUnits `json:"uk_hybrid"`
}

// ObservationUnits are the unit-dependent measurements of an observation.
type ObservationUnits struct {
	Temp        *float64 `json:"temp"`
	HeatIndex   *float64 `json:"heatIndex"`
	Dewpt       *float64 `json:"dewpt"`
	WindChill   *float64 `json:"windChill"`
	WindSpeed   *float64 `json:"windSpeed"`
	WindGust    *float64 `json:"windGust"`
	Pressure    *float64 `json:"pressure"`
	PrecipRate  *float64 `json:"precipRate"`
	PrecipTotal *float64 `json:"precipTotal"`
	Elev        *float64 `json:"elev"`
}
