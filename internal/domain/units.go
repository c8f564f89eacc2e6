package domain

const (
	// SecondsPerDayOverKm converts km/day to m/s: 86400 s / 1000 m.
	SecondsPerDayOverKm = 86.4

	// NominalDayLength is the base, in hours, used to turn a sunshine
	// percentage or fraction into hours.
	NominalDayLength = 12.0
)

// WindToStandard converts a wind speed in the given unit to m/s.
func WindToStandard(v float64, u WindUnit) float64 {
	if u == WindKilometersPerDay {
		return v / SecondsPerDayOverKm
	}
	return v
}

// WindFromStandard converts a wind speed in m/s to the given unit.
func WindFromStandard(v float64, u WindUnit) float64 {
	if u == WindKilometersPerDay {
		return v * SecondsPerDayOverKm
	}
	return v
}

// SunshineToHours converts a sunshine duration in the given unit to hours.
func SunshineToHours(v float64, u SunshineUnit) float64 {
	switch u {
	case SunshinePercent:
		return v / 100 * NominalDayLength
	case SunshineFraction:
		return v * NominalDayLength
	default:
		return v
	}
}

// SunshineFromHours converts a sunshine duration in hours to the given unit.
func SunshineFromHours(v float64, u SunshineUnit) float64 {
	switch u {
	case SunshinePercent:
		return v / NominalDayLength * 100
	case SunshineFraction:
		return v / NominalDayLength
	default:
		return v
	}
}

// ToStandardUnits returns a copy of c with wind in m/s and sunshine in hours.
// Temperatures and humidity are left as entered. Unset fields stay unset and
// NaN inputs stay NaN.
func ToStandardUnits(c Climate, s Settings) Climate {
	return convertClimate(c,
		func(v float64) float64 { return WindToStandard(v, s.WindUnit) },
		func(v float64) float64 { return SunshineToHours(v, s.SunshineUnit) },
	)
}

// FromStandardUnits is the inverse of ToStandardUnits.
func FromStandardUnits(c Climate, s Settings) Climate {
	return convertClimate(c,
		func(v float64) float64 { return WindFromStandard(v, s.WindUnit) },
		func(v float64) float64 { return SunshineFromHours(v, s.SunshineUnit) },
	)
}

func convertClimate(c Climate, wind, sunshine func(float64) float64) Climate {
	switch v := c.(type) {
	case FullMinMax:
		v.Wind = mapValue(v.Wind, wind)
		v.Sunshine = mapValue(v.Sunshine, sunshine)
		return v
	case FullAverage:
		v.Wind = mapValue(v.Wind, wind)
		v.Sunshine = mapValue(v.Sunshine, sunshine)
		return v
	default:
		return c
	}
}

func mapValue(p *float64, fn func(float64) float64) *float64 {
	if p == nil {
		return nil
	}
	return ptr(fn(*p))
}
