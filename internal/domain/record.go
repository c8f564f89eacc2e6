package domain

import (
	"errors"
	"fmt"
	"time"
)

// MonthsPerYear is the fixed length of a climate table.
const MonthsPerYear = 12

var (
	// ErrRecordShape is returned when a record's climate variant does not match
	// the settings of the table it is loaded into.
	ErrRecordShape = errors.New("record shape does not match settings")

	// ErrMonthIndex is returned for month indexes outside 0..11.
	ErrMonthIndex = errors.New("month index out of range")
)

// Climate is the set of observed inputs of one monthly record. Its concrete
// type is chosen by temperature mode and method, so each variant only carries
// the fields that the active Settings require.
type Climate interface {
	// Fields lists the fields of the variant in display order.
	Fields() []Field
	// Value returns the field value, or nil if unset or not part of the variant.
	Value(f Field) *float64

	with(f Field, v *float64) (Climate, bool)
	sealed()
}

// TempOnlyMinMax holds the inputs of the temperature-only method with
// minimum and maximum temperature.
type TempOnlyMinMax struct {
	TempMin *float64 `json:"temp_min"`
	TempMax *float64 `json:"temp_max"`
}

// TempOnlyAverage holds the inputs of the temperature-only method with an
// average temperature.
type TempOnlyAverage struct {
	TempAvg *float64 `json:"temp_avg"`
}

// FullMinMax holds the inputs of the full-climate-data method with minimum
// and maximum temperature.
type FullMinMax struct {
	TempMin  *float64 `json:"temp_min"`
	TempMax  *float64 `json:"temp_max"`
	Humidity *float64 `json:"humidity"`
	Wind     *float64 `json:"wind"`
	Sunshine *float64 `json:"sunshine"`
}

// FullAverage holds the inputs of the full-climate-data method with an
// average temperature.
type FullAverage struct {
	TempAvg  *float64 `json:"temp_avg"`
	Humidity *float64 `json:"humidity"`
	Wind     *float64 `json:"wind"`
	Sunshine *float64 `json:"sunshine"`
}

func (TempOnlyMinMax) sealed()  {}
func (TempOnlyAverage) sealed() {}
func (FullMinMax) sealed()      {}
func (FullAverage) sealed()     {}

func (TempOnlyMinMax) Fields() []Field { return []Field{FieldTempMin, FieldTempMax} }

func (TempOnlyAverage) Fields() []Field { return []Field{FieldTempAvg} }

func (FullMinMax) Fields() []Field {
	return []Field{FieldTempMin, FieldTempMax, FieldHumidity, FieldWind, FieldSunshine}
}

func (FullAverage) Fields() []Field {
	return []Field{FieldTempAvg, FieldHumidity, FieldWind, FieldSunshine}
}

func (c TempOnlyMinMax) Value(f Field) *float64 {
	switch f {
	case FieldTempMin:
		return c.TempMin
	case FieldTempMax:
		return c.TempMax
	}
	return nil
}

func (c TempOnlyAverage) Value(f Field) *float64 {
	if f == FieldTempAvg {
		return c.TempAvg
	}
	return nil
}

func (c FullMinMax) Value(f Field) *float64 {
	switch f {
	case FieldTempMin:
		return c.TempMin
	case FieldTempMax:
		return c.TempMax
	case FieldHumidity:
		return c.Humidity
	case FieldWind:
		return c.Wind
	case FieldSunshine:
		return c.Sunshine
	}
	return nil
}

func (c FullAverage) Value(f Field) *float64 {
	switch f {
	case FieldTempAvg:
		return c.TempAvg
	case FieldHumidity:
		return c.Humidity
	case FieldWind:
		return c.Wind
	case FieldSunshine:
		return c.Sunshine
	}
	return nil
}

func (c TempOnlyMinMax) with(f Field, v *float64) (Climate, bool) {
	switch f {
	case FieldTempMin:
		c.TempMin = v
	case FieldTempMax:
		c.TempMax = v
	default:
		return c, false
	}
	return c, true
}

func (c TempOnlyAverage) with(f Field, v *float64) (Climate, bool) {
	if f != FieldTempAvg {
		return c, false
	}
	c.TempAvg = v
	return c, true
}

func (c FullMinMax) with(f Field, v *float64) (Climate, bool) {
	switch f {
	case FieldTempMin:
		c.TempMin = v
	case FieldTempMax:
		c.TempMax = v
	case FieldHumidity:
		c.Humidity = v
	case FieldWind:
		c.Wind = v
	case FieldSunshine:
		c.Sunshine = v
	default:
		return c, false
	}
	return c, true
}

func (c FullAverage) with(f Field, v *float64) (Climate, bool) {
	switch f {
	case FieldTempAvg:
		c.TempAvg = v
	case FieldHumidity:
		c.Humidity = v
	case FieldWind:
		c.Wind = v
	case FieldSunshine:
		c.Sunshine = v
	default:
		return c, false
	}
	return c, true
}

// NewClimate returns the empty climate variant for the given settings.
func NewClimate(s Settings) Climate {
	switch {
	case s.Method == MethodTemperatureOnly && s.TemperatureMode == TemperatureAverage:
		return TempOnlyAverage{}
	case s.Method == MethodTemperatureOnly:
		return TempOnlyMinMax{}
	case s.TemperatureMode == TemperatureAverage:
		return FullAverage{}
	default:
		return FullMinMax{}
	}
}

// WithValue returns a copy of c with field f set to v. It fails with
// ErrRecordShape if f is not part of the variant.
func WithValue(c Climate, f Field, v *float64) (Climate, error) {
	out, ok := c.with(f, v)
	if !ok {
		return c, fmt.Errorf("%w: %s has no field %s", ErrRecordShape, climateName(c), f)
	}
	return out, nil
}

// HasAnyValue reports whether at least one field of the climate is set.
func HasAnyValue(c Climate) bool {
	for _, f := range c.Fields() {
		if c.Value(f) != nil {
			return true
		}
	}
	return false
}

func climateName(c Climate) string {
	switch c.(type) {
	case TempOnlyMinMax:
		return "temp-only/min-max"
	case TempOnlyAverage:
		return "temp-only/average"
	case FullMinMax:
		return "full/min-max"
	case FullAverage:
		return "full/average"
	}
	return fmt.Sprintf("%T", c)
}

// Estimate is the output of the calculator for one month. Both values are
// nil when the calculation is unavailable.
type Estimate struct {
	Radiation *float64 `json:"radiation"`
	ETo       *float64 `json:"eto"`
}

// Available reports whether an ETo value was produced.
func (e Estimate) Available() bool { return e.ETo != nil }

// MonthlyRecord is one row of the twelve-month working table.
type MonthlyRecord struct {
	Month   time.Month
	Climate Climate

	// Radiation and ETo are written by the engine.
	Radiation *float64
	ETo       *float64

	// Provided holds radiation and ETo supplied by an external daily source.
	Provided Estimate
}

// Index returns the 0-based month index used by the solar model.
func (r MonthlyRecord) Index() int { return int(r.Month) - 1 }

// Hemisphere letters used by StationInfo.
const (
	North = "N"
	South = "S"
	East  = "E"
	West  = "W"
)

// StationInfo carries the station parameters used by the calculation.
// Latitude and longitude are magnitudes; the hemisphere fields carry the sign.
type StationInfo struct {
	Country             string  `json:"country"`
	Name                string  `json:"name"`
	Altitude            float64 `json:"altitude"`
	Latitude            float64 `json:"latitude"`
	LatitudeHemisphere  string  `json:"latitude_hemisphere"`
	Longitude           float64 `json:"longitude"`
	LongitudeHemisphere string  `json:"longitude_hemisphere"`
}

// SignedLatitude returns the latitude in degrees, negative in the south.
func (s StationInfo) SignedLatitude() float64 {
	if s.LatitudeHemisphere == South {
		return -s.Latitude
	}
	return s.Latitude
}

// SignedLongitude returns the longitude in degrees, negative in the west.
func (s StationInfo) SignedLongitude() float64 {
	if s.LongitudeHemisphere == West {
		return -s.Longitude
	}
	return s.Longitude
}

func ptr(v float64) *float64 { return &v }
