package weather

import (
	"fmt"
	"strings"
)

// at reads s[i], treating a missing or short series as absent.
func at[T any](s []*T, i int) *T {
	if i < len(s) {
		return s[i]
	}
	return nil
}

func atList(s [][]string, i int) []string {
	if i < len(s) {
		return s[i]
	}
	return nil
}

func checkIndex(i, n int) {
	if i < 0 || i >= n {
		panic(fmt.Sprintf("weather: period index %d out of range [0,%d)", i, n))
	}
}

// Len is the number of hourly periods, defined by the validTimeLocal series.
func (r *HourlyForecastResponse) Len() int {
	return len(r.ValidTimeLocal)
}

// PeriodAt builds the i-th hourly period. i must be in [0, Len()).
func (r *HourlyForecastResponse) PeriodAt(i int) HourlyPeriod {
	checkIndex(i, r.Len())
	return HourlyPeriod{
		ID:                                 newID(),
		ValidTimeLocal:                     at(r.ValidTimeLocal, i),
		ValidTimeUtc:                       at(r.ValidTimeUtc, i),
		CloudCover:                         at(r.CloudCover, i),
		DayOfWeek:                          at(r.DayOfWeek, i),
		DayOrNight:                         at(r.DayOrNight, i),
		ExpirationTimeUtc:                  at(r.ExpirationTimeUtc, i),
		IconCode:                           at(r.IconCode, i),
		IconCodeExtend:                     at(r.IconCodeExtend, i),
		PrecipChance:                       at(r.PrecipChance, i),
		PrecipType:                         at(r.PrecipType, i),
		PressureMeanSeaLevel:               at(r.PressureMeanSeaLevel, i),
		Qpf:                                at(r.Qpf, i),
		QpfSnow:                            at(r.QpfSnow, i),
		RelativeHumidity:                   at(r.RelativeHumidity, i),
		Temperature:                        at(r.Temperature, i),
		TemperatureDewPoint:                at(r.TemperatureDewPoint, i),
		TemperatureFeelsLike:               at(r.TemperatureFeelsLike, i),
		TemperatureHeatIndex:               at(r.TemperatureHeatIndex, i),
		TemperatureWindChill:               at(r.TemperatureWindChill, i),
		UvDescription:                      at(r.UvDescription, i),
		UvIndex:                            at(r.UvIndex, i),
		Visibility:                         at(r.Visibility, i),
		WindDirection:                      at(r.WindDirection, i),
		WindDirectionCardinal:              at(r.WindDirectionCardinal, i),
		WindGust:                           at(r.WindGust, i),
		WindSpeed:                          at(r.WindSpeed, i),
		WxPhraseLong:                       at(r.WxPhraseLong, i),
		WxPhraseShort:                      at(r.WxPhraseShort, i),
		WxSeverity:                         at(r.WxSeverity, i),
		Ceiling:                            at(r.Ceiling, i),
		ScatteredCloudBaseHeight:           at(r.ScatteredCloudBaseHeight, i),
		PressureAltimeter:                  at(r.PressureAltimeter, i),
		QpfIce:                             at(r.QpfIce, i),
		QualifierSet:                       atList(r.QualifierSet, i),
		TemperatureWetBulbGlobe:            at(r.TemperatureWetBulbGlobe, i),
		ConditionalProbabilityThunder:      at(r.ConditionalProbabilityThunder, i),
		ConditionalProbabilitySleet:        at(r.ConditionalProbabilitySleet, i),
		ConditionalProbabilitySnow:         at(r.ConditionalProbabilitySnow, i),
		ConditionalProbabilityRain:         at(r.ConditionalProbabilityRain, i),
		ConditionalProbabilityFreezingRain: at(r.ConditionalProbabilityFreezingRain, i),
	}
}

// Periods turns the parallel series into one record per hour.
func (r *HourlyForecastResponse) Periods() []HourlyPeriod {
	n := r.Len()
	out := make([]HourlyPeriod, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, r.PeriodAt(i))
	}
	return out
}

// halfOf classifies a dayOrNight discriminator by its first character.
func halfOf(s *string) Half {
	if s == nil || *s == "" {
		return HalfUnknown
	}
	switch strings.ToUpper((*s)[:1]) {
	case string(HalfDay):
		return HalfDay
	case string(HalfNight):
		return HalfNight
	default:
		return HalfUnknown
	}
}

// Len is the number of segments, defined by the dayOrNight series.
func (d *Daypart) Len() int {
	return len(d.DayOrNight)
}

// PeriodAt builds the i-th segment. i must be in [0, Len()).
func (d *Daypart) PeriodAt(i int) DaypartPeriod {
	checkIndex(i, d.Len())
	dayOrNight := at(d.DayOrNight, i)
	return DaypartPeriod{
		ID:                    newID(),
		Half:                  halfOf(dayOrNight),
		CloudCover:            at(d.CloudCover, i),
		DayOrNight:            dayOrNight,
		DaypartName:           at(d.DaypartName, i),
		IconCode:              at(d.IconCode, i),
		IconCodeExtend:        at(d.IconCodeExtend, i),
		Narrative:             at(d.Narrative, i),
		PrecipChance:          at(d.PrecipChance, i),
		PrecipType:            at(d.PrecipType, i),
		Qpf:                   at(d.Qpf, i),
		QpfSnow:               at(d.QpfSnow, i),
		QualifierCode:         at(d.QualifierCode, i),
		QualifierPhrase:       at(d.QualifierPhrase, i),
		RelativeHumidity:      at(d.RelativeHumidity, i),
		SnowRange:             at(d.SnowRange, i),
		Temperature:           at(d.Temperature, i),
		TemperatureHeatIndex:  at(d.TemperatureHeatIndex, i),
		TemperatureWindChill:  at(d.TemperatureWindChill, i),
		ThunderCategory:       at(d.ThunderCategory, i),
		ThunderIndex:          at(d.ThunderIndex, i),
		UvDescription:         at(d.UvDescription, i),
		UvIndex:               at(d.UvIndex, i),
		WindDirection:         at(d.WindDirection, i),
		WindDirectionCardinal: at(d.WindDirectionCardinal, i),
		WindPhrase:            at(d.WindPhrase, i),
		WindSpeed:             at(d.WindSpeed, i),
		WxPhraseLong:          at(d.WxPhraseLong, i),
		WxPhraseShort:         at(d.WxPhraseShort, i),
	}
}

// Periods turns the parallel series into one record per segment.
func (d *Daypart) Periods() []DaypartPeriod {
	n := d.Len()
	out := make([]DaypartPeriod, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, d.PeriodAt(i))
	}
	return out
}

// PartitionDayparts groups segments into calendar days in order of appearance.
// A day segment, or one whose discriminator is missing, starts a new day; in
// the latter case the day side stays empty. A night segment closes the current
// day, or starts a day of its own when the current one already has a night.
func PartitionDayparts(periods []DaypartPeriod) []DayGroup {
	var groups []DayGroup
	open := false
	for i := range periods {
		p := &periods[i]
		switch p.Half {
		case HalfDay:
			groups = append(groups, DayGroup{Day: p})
			open = true
		case HalfUnknown:
			groups = append(groups, DayGroup{})
			open = true
		case HalfNight:
			if open && groups[len(groups)-1].Night == nil {
				groups[len(groups)-1].Night = p
			} else {
				groups = append(groups, DayGroup{Night: p})
			}
			open = false
		}
	}
	return groups
}

// DayGroups flattens every daypart record and partitions the segments into days.
func (r *DailyForecastResponse) DayGroups() []DayGroup {
	var segments []DaypartPeriod
	for i := range r.Daypart {
		segments = append(segments, r.Daypart[i].Periods()...)
	}
	return PartitionDayparts(segments)
}

// Periods turns the daily series into one record per calendar day. With
// daypart data present the number of days is the number of day groups;
// otherwise it is the length of validTimeLocal. Day-level series are read by
// day order and never shifted to fill a missing segment.
func (r *DailyForecastResponse) Periods() []DailyPeriod {
	var groups []DayGroup
	n := len(r.ValidTimeLocal)
	if len(r.Daypart) > 0 {
		groups = r.DayGroups()
		n = len(groups)
	}

	out := make([]DailyPeriod, 0, n)
	for i := 0; i < n; i++ {
		p := r.dayAt(i)
		if i < len(groups) {
			p.Day = groups[i].Day
			p.Night = groups[i].Night
		}
		out = append(out, p)
	}
	return out
}

func (r *DailyForecastResponse) dayAt(i int) DailyPeriod {
	return DailyPeriod{
		ID:                        newID(),
		ValidTimeLocal:            at(r.ValidTimeLocal, i),
		ValidTimeUtc:              at(r.ValidTimeUtc, i),
		DayOfWeek:                 at(r.DayOfWeek, i),
		CalendarDayTemperatureMax: at(r.CalendarDayTemperatureMax, i),
		CalendarDayTemperatureMin: at(r.CalendarDayTemperatureMin, i),
		TemperatureMax:            at(r.TemperatureMax, i),
		TemperatureMin:            at(r.TemperatureMin, i),
		ExpirationTimeUtc:         at(r.ExpirationTimeUtc, i),
		MoonPhase:                 at(r.MoonPhase, i),
		MoonPhaseCode:             at(r.MoonPhaseCode, i),
		MoonPhaseDay:              at(r.MoonPhaseDay, i),
		MoonriseTimeLocal:         at(r.MoonriseTimeLocal, i),
		MoonriseTimeUtc:           at(r.MoonriseTimeUtc, i),
		MoonsetTimeLocal:          at(r.MoonsetTimeLocal, i),
		MoonsetTimeUtc:            at(r.MoonsetTimeUtc, i),
		Narrative:                 at(r.Narrative, i),
		Qpf:                       at(r.Qpf, i),
		QpfSnow:                   at(r.QpfSnow, i),
		SunriseTimeLocal:          at(r.SunriseTimeLocal, i),
		SunriseTimeUtc:            at(r.SunriseTimeUtc, i),
		SunsetTimeLocal:           at(r.SunsetTimeLocal, i),
		SunsetTimeUtc:             at(r.SunsetTimeUtc, i),
	}
}

// Periods flattens each observation and the unit block that matches the
// response, preferring metric, then imperial, then UK hybrid.
func (r *ObservationResponse) Periods() []ObservationPeriod {
	out := make([]ObservationPeriod, 0, len(r.Observations))
	for _, o := range r.Observations {
		if o == nil {
			out = append(out, ObservationPeriod{ID: newID()})
			continue
		}
		p := ObservationPeriod{
			ID:             newID(),
			StationID:      o.StationID,
			ObsTimeUtc:     o.ObsTimeUtc,
			ObsTimeLocal:   o.ObsTimeLocal,
			Epoch:          o.Epoch,
			Neighborhood:   o.Neighborhood,
			Country:        o.Country,
			Latitude:       o.Lat,
			Longitude:      o.Lon,
			SolarRadiation: o.SolarRadiation,
			Uv:             o.Uv,
			WindDirection:  o.Winddir,
			Humidity:       o.Humidity,
			QcStatus:       o.QcStatus,
		}
		if u := o.units(); u != nil {
			p.Temperature = u.Temp
			p.HeatIndex = u.HeatIndex
			p.DewPoint = u.Dewpt
			p.WindChill = u.WindChill
			p.WindSpeed = u.WindSpeed
			p.WindGust = u.WindGust
			p.Pressure = u.Pressure
			p.PrecipRate = u.PrecipRate
			p.PrecipTotal = u.PrecipTotal
			p.Elevation = u.Elev
		}
		out = append(out, p)
	}
	return out
}

func (o *Observation) units() *ObservationUnits {
	switch {
	case o.Metric != nil:
		return o.Metric
	case o.Imperial != nil:
		return o.Imperial
	default:
		return o.UKHybrid
	}
}
