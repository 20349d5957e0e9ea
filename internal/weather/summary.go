package weather

// HourlySummary condenses an hourly forecast into a few headline numbers.
type HourlySummary struct {
	Hours            int      `json:"hours"`
	From             *string  `json:"from"`
	To               *string  `json:"to"`
	TemperatureMin   *float64 `json:"temperatureMin"`
	TemperatureMax   *float64 `json:"temperatureMax"`
	TemperatureMean  *float64 `json:"temperatureMean"`
	PeakPrecipChance *int     `json:"peakPrecipChance"`
	// Phrase is the most frequent short weather phrase; ties go to the earliest.
	Phrase *string `json:"phrase"`
}

// SummarizeHourly aggregates the present values of each field; absent values
// are skipped rather than counted as zero.
func SummarizeHourly(periods []HourlyPeriod) HourlySummary {
	s := HourlySummary{Hours: len(periods)}
	if len(periods) == 0 {
		return s
	}
	s.From = periods[0].ValidTimeLocal
	s.To = periods[len(periods)-1].ValidTimeLocal

	var (
		sumTemp   float64
		tempCount int
	)
	phraseCounts := make(map[string]int)
	var phraseOrder []string

	for _, p := range periods {
		if t := p.Temperature; t != nil {
			sumTemp += *t
			tempCount++
			if s.TemperatureMin == nil || *t < *s.TemperatureMin {
				s.TemperatureMin = ptr(*t)
			}
			if s.TemperatureMax == nil || *t > *s.TemperatureMax {
				s.TemperatureMax = ptr(*t)
			}
		}
		if c := p.PrecipChance; c != nil && (s.PeakPrecipChance == nil || *c > *s.PeakPrecipChance) {
			s.PeakPrecipChance = ptr(*c)
		}
		if ph := p.WxPhraseShort; ph != nil && *ph != "" {
			if phraseCounts[*ph] == 0 {
				phraseOrder = append(phraseOrder, *ph)
			}
			phraseCounts[*ph]++
		}
	}

	if tempCount > 0 {
		s.TemperatureMean = ptr(sumTemp / float64(tempCount))
	}

	best := 0
	for _, ph := range phraseOrder {
		if phraseCounts[ph] > best {
			best = phraseCounts[ph]
			s.Phrase = ptr(ph)
		}
	}
	return s
}

func ptr[T any](v T) *T {
	return &v
}
