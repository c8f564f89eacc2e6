package domain

import "fmt"

// Method selects the ETo formula.
type Method int

const (
	MethodFullClimate     Method = iota // Penman-Monteith FAO-56
	MethodTemperatureOnly               // Hargreaves-Samani
)

// TemperatureMode selects how air temperature is entered.
type TemperatureMode int

const (
	TemperatureMinMax TemperatureMode = iota
	TemperatureAverage
)

// HumidityUnit selects how humidity is entered.
type HumidityUnit int

const (
	HumidityRelativePercent HumidityUnit = iota
	HumidityVaporPressureKPa
)

// WindUnit selects how wind speed at 2 m is entered.
type WindUnit int

const (
	WindMetersPerSecond WindUnit = iota
	WindKilometersPerDay
)

// SunshineUnit selects how sunshine duration is entered.
type SunshineUnit int

const (
	SunshineHours SunshineUnit = iota
	SunshinePercent
	SunshineFraction
)

// EToUnit selects how the computed ETo is reported.
type EToUnit int

const (
	EToMillimetersPerDay EToUnit = iota
	EToMillimetersPerPeriod
)

// Settings is the calculation configuration. Every axis is independent and
// every combination is valid. The zero value is full-climate-data, min-max
// temperature, relative humidity, m/s, hours and mm/day.
type Settings struct {
	Method          Method          `json:"method" yaml:"method"`
	TemperatureMode TemperatureMode `json:"temperature_mode" yaml:"temperature_mode"`
	HumidityUnit    HumidityUnit    `json:"humidity_unit" yaml:"humidity_unit"`
	WindUnit        WindUnit        `json:"wind_unit" yaml:"wind_unit"`
	SunshineUnit    SunshineUnit    `json:"sunshine_unit" yaml:"sunshine_unit"`
	EToUnit         EToUnit         `json:"eto_unit" yaml:"eto_unit"`
}

func (s Settings) String() string {
	return fmt.Sprintf("%s/%s/%s/%s/%s/%s",
		s.Method, s.TemperatureMode, s.HumidityUnit, s.WindUnit, s.SunshineUnit, s.EToUnit)
}

// AggregatedSettings describes records produced by Aggregate: min-max
// temperature in standard units. Method and ETo unit are kept from base.
func AggregatedSettings(base Settings) Settings {
	return Settings{
		Method:          base.Method,
		TemperatureMode: TemperatureMinMax,
		HumidityUnit:    HumidityRelativePercent,
		WindUnit:        WindMetersPerSecond,
		SunshineUnit:    SunshineHours,
		EToUnit:         base.EToUnit,
	}
}

// AllSettings enumerates every valid combination of the six axes.
func AllSettings() []Settings {
	var out []Settings
	for _, m := range Methods() {
		for _, tm := range []TemperatureMode{TemperatureMinMax, TemperatureAverage} {
			for _, hu := range []HumidityUnit{HumidityRelativePercent, HumidityVaporPressureKPa} {
				for _, wu := range []WindUnit{WindMetersPerSecond, WindKilometersPerDay} {
					for _, su := range []SunshineUnit{SunshineHours, SunshinePercent, SunshineFraction} {
						for _, eu := range []EToUnit{EToMillimetersPerDay, EToMillimetersPerPeriod} {
							out = append(out, Settings{
								Method:          m,
								TemperatureMode: tm,
								HumidityUnit:    hu,
								WindUnit:        wu,
								SunshineUnit:    su,
								EToUnit:         eu,
							})
						}
					}
				}
			}
		}
	}
	return out
}

// Methods lists every supported ETo method.
func Methods() []Method {
	return []Method{MethodFullClimate, MethodTemperatureOnly}
}

// Enum text forms. These are the values accepted in JSON requests and the
// YAML defaults file.

var (
	methodNames          = []string{"full-climate-data", "temperature-only"}
	temperatureModeNames = []string{"min-max", "average"}
	humidityUnitNames    = []string{"relative-percent", "vapor-pressure-kpa"}
	windUnitNames        = []string{"m/s", "km/day"}
	sunshineUnitNames    = []string{"hours", "percent", "fraction"}
	etoUnitNames         = []string{"mm/day", "mm/period"}
)

func enumName(names []string, i int, kind string) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("%s(%d)", kind, i)
	}
	return names[i]
}

func parseEnum(names []string, text []byte, kind string) (int, error) {
	s := string(text)
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("invalid %s %q", kind, s)
}

func (m Method) String() string { return enumName(methodNames, int(m), "method") }

func (m Method) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Method) UnmarshalText(text []byte) error {
	i, err := parseEnum(methodNames, text, "method")
	if err != nil {
		return err
	}
	*m = Method(i)
	return nil
}

func (t TemperatureMode) String() string {
	return enumName(temperatureModeNames, int(t), "temperature mode")
}

func (t TemperatureMode) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *TemperatureMode) UnmarshalText(text []byte) error {
	i, err := parseEnum(temperatureModeNames, text, "temperature mode")
	if err != nil {
		return err
	}
	*t = TemperatureMode(i)
	return nil
}

func (h HumidityUnit) String() string { return enumName(humidityUnitNames, int(h), "humidity unit") }

func (h HumidityUnit) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

func (h *HumidityUnit) UnmarshalText(text []byte) error {
	i, err := parseEnum(humidityUnitNames, text, "humidity unit")
	if err != nil {
		return err
	}
	*h = HumidityUnit(i)
	return nil
}

func (w WindUnit) String() string { return enumName(windUnitNames, int(w), "wind unit") }

func (w WindUnit) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

func (w *WindUnit) UnmarshalText(text []byte) error {
	i, err := parseEnum(windUnitNames, text, "wind unit")
	if err != nil {
		return err
	}
	*w = WindUnit(i)
	return nil
}

func (s SunshineUnit) String() string { return enumName(sunshineUnitNames, int(s), "sunshine unit") }

func (s SunshineUnit) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *SunshineUnit) UnmarshalText(text []byte) error {
	i, err := parseEnum(sunshineUnitNames, text, "sunshine unit")
	if err != nil {
		return err
	}
	*s = SunshineUnit(i)
	return nil
}

func (e EToUnit) String() string { return enumName(etoUnitNames, int(e), "eto unit") }

func (e EToUnit) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

func (e *EToUnit) UnmarshalText(text []byte) error {
	i, err := parseEnum(etoUnitNames, text, "eto unit")
	if err != nil {
		return err
	}
	*e = EToUnit(i)
	return nil
}

// EToSource selects where monthly radiation and ETo come from.
type EToSource int

const (
	// SourceFormula runs the calculator on each month.
	SourceFormula EToSource = iota
	// SourceProvider uses the values aggregated from an external daily series.
	SourceProvider
)

var etoSourceNames = []string{"formula", "provider"}

func (s EToSource) String() string { return enumName(etoSourceNames, int(s), "eto source") }

func (s EToSource) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *EToSource) UnmarshalText(text []byte) error {
	i, err := parseEnum(etoSourceNames, text, "eto source")
	if err != nil {
		return err
	}
	*s = EToSource(i)
	return nil
}
