package domain

import "fmt"

// MaxTextLength bounds the country and station name fields, in characters.
const MaxTextLength = 20

// Rule is the validation bound of one field. Text rules set MaxLength; numeric
// rules set Min and Max.
type Rule struct {
	Field     Field   `json:"field"`
	MaxLength int     `json:"max_length,omitempty"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Unit      string  `json:"unit,omitempty"`
	Message   string  `json:"message"`
}

// IsText reports whether the rule bounds a string length.
func (r Rule) IsText() bool { return r.MaxLength > 0 }

// Resolution is everything derived from Settings that callers need to build
// and check records.
type Resolution struct {
	Settings       Settings         `json:"settings"`
	RequiredFields []Field          `json:"required_fields"`
	Rules          map[Field]Rule   `json:"rules"`
	UnitLabels     map[Field]string `json:"unit_labels"`
}

// Rule returns the rule for f and whether one applies under these settings.
func (r Resolution) Rule(f Field) (Rule, bool) {
	rule, ok := r.Rules[f]
	return rule, ok
}

// Requires reports whether f is a climate field of the active record shape.
func (r Resolution) Requires(f Field) bool {
	for _, req := range r.RequiredFields {
		if req == f {
			return true
		}
	}
	return false
}

// Resolve derives required fields, validation rules and unit labels from s.
func Resolve(s Settings) Resolution {
	labels := unitLabels(s)
	required := requiredFields(s)

	rules := make(map[Field]Rule, len(required)+5)
	rules[FieldCountry] = textRule(FieldCountry)
	rules[FieldStationName] = textRule(FieldStationName)
	rules[FieldAltitude] = numericRule(FieldAltitude, -200, 9999, labels[FieldAltitude])
	rules[FieldLatitude] = numericRule(FieldLatitude, 1, 90, labels[FieldLatitude])
	rules[FieldLongitude] = numericRule(FieldLongitude, 1, 180, labels[FieldLongitude])

	for _, f := range required {
		lo, hi := climateBounds(f, s)
		rules[f] = numericRule(f, lo, hi, labels[f])
	}

	return Resolution{
		Settings:       s,
		RequiredFields: required,
		Rules:          rules,
		UnitLabels:     labels,
	}
}

func requiredFields(s Settings) []Field {
	var out []Field
	if s.TemperatureMode == TemperatureAverage {
		out = append(out, FieldTempAvg)
	} else {
		out = append(out, FieldTempMin, FieldTempMax)
	}
	if s.Method == MethodFullClimate {
		out = append(out, FieldHumidity, FieldWind, FieldSunshine)
	}
	return out
}

func climateBounds(f Field, s Settings) (float64, float64) {
	switch f {
	case FieldTempMin:
		return -80, 40
	case FieldTempMax:
		return -40, 60
	case FieldTempAvg:
		return -60, 50
	case FieldHumidity:
		if s.HumidityUnit == HumidityVaporPressureKPa {
			return 0.1, 5.0
		}
		return 1, 99
	case FieldWind:
		if s.WindUnit == WindKilometersPerDay {
			return 8.6, 1296
		}
		return 0.1, 15
	case FieldSunshine:
		switch s.SunshineUnit {
		case SunshinePercent:
			return 0, 100
		case SunshineFraction:
			return 0, 1
		default:
			return 0, 24
		}
	}
	return 0, 0
}

func unitLabels(s Settings) map[Field]string {
	labels := map[Field]string{
		FieldAltitude:  "m",
		FieldLatitude:  "°",
		FieldLongitude: "°",
		FieldTempMin:   "°C",
		FieldTempMax:   "°C",
		FieldTempAvg:   "°C",
		FieldHumidity:  "%",
		FieldWind:      "m/s",
		FieldSunshine:  "h",
		FieldRadiation: "MJ/m²/day",
		FieldETo:       s.EToUnit.String(),
	}
	if s.HumidityUnit == HumidityVaporPressureKPa {
		labels[FieldHumidity] = "kPa"
	}
	if s.WindUnit == WindKilometersPerDay {
		labels[FieldWind] = "km/day"
	}
	switch s.SunshineUnit {
	case SunshinePercent:
		labels[FieldSunshine] = "%"
	case SunshineFraction:
		labels[FieldSunshine] = "fraction"
	}
	return labels
}

func textRule(f Field) Rule {
	return Rule{
		Field:     f,
		MaxLength: MaxTextLength,
		Message:   fmt.Sprintf("%s must be at most %d characters", f.Label(), MaxTextLength),
	}
}

func numericRule(f Field, lo, hi float64, unit string) Rule {
	msg := fmt.Sprintf("%s must be between %g and %g", f.Label(), lo, hi)
	if unit != "" {
		msg += " " + unit
	}
	return Rule{Field: f, Min: lo, Max: hi, Unit: unit, Message: msg}
}
