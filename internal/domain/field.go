package domain

import "fmt"

// Field identifies an editable or derived value of a station or monthly record.
type Field int

const (
	FieldCountry Field = iota
	FieldStationName
	FieldAltitude
	FieldLatitude
	FieldLongitude
	FieldTempMin
	FieldTempMax
	FieldTempAvg
	FieldHumidity
	FieldWind
	FieldSunshine
	FieldRadiation
	FieldETo
)

var fieldNames = []string{
	"country",
	"station_name",
	"altitude",
	"latitude",
	"longitude",
	"temp_min",
	"temp_max",
	"temp_avg",
	"humidity",
	"wind",
	"sunshine",
	"radiation",
	"eto",
}

var fieldLabels = []string{
	"Country",
	"Station name",
	"Altitude",
	"Latitude",
	"Longitude",
	"Minimum temperature",
	"Maximum temperature",
	"Average temperature",
	"Humidity",
	"Wind speed",
	"Sunshine",
	"Radiation",
	"ETo",
}

// String returns the wire name of the field, e.g. "temp_min".
func (f Field) String() string { return enumName(fieldNames, int(f), "field") }

// Label returns the human-readable name used in validation messages.
func (f Field) Label() string {
	if f < 0 || int(f) >= len(fieldLabels) {
		return f.String()
	}
	return fieldLabels[f]
}

func (f Field) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *Field) UnmarshalText(text []byte) error {
	i, err := parseEnum(fieldNames, text, "field")
	if err != nil {
		return err
	}
	*f = Field(i)
	return nil
}

// ParseField resolves a wire name to a Field.
func ParseField(name string) (Field, error) {
	var f Field
	if err := f.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("parse field: %w", err)
	}
	return f, nil
}

// IsStation reports whether the field belongs to StationInfo rather than a
// monthly record.
func (f Field) IsStation() bool {
	return f >= FieldCountry && f <= FieldLongitude
}

// IsText reports whether the field holds free text rather than a number.
func (f Field) IsText() bool {
	return f == FieldCountry || f == FieldStationName
}
