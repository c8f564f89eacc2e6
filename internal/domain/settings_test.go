package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSettings_ZeroValue(t *testing.T) {
	var s Settings
	assert.Equal(t, "full-climate-data/min-max/relative-percent/m/s/hours/mm/day", s.String())
}

func TestSettings_JSON(t *testing.T) {
	s := Settings{
		Method:          MethodTemperatureOnly,
		TemperatureMode: TemperatureAverage,
		HumidityUnit:    HumidityVaporPressureKPa,
		WindUnit:        WindKilometersPerDay,
		SunshineUnit:    SunshineFraction,
		EToUnit:         EToMillimetersPerPeriod,
	}

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"method": "temperature-only",
		"temperature_mode": "average",
		"humidity_unit": "vapor-pressure-kpa",
		"wind_unit": "km/day",
		"sunshine_unit": "fraction",
		"eto_unit": "mm/period"
	}`, string(data))

	var decoded Settings
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, s, decoded)
}

func TestSettings_YAML(t *testing.T) {
	var s Settings
	err := yaml.Unmarshal([]byte("method: temperature-only\nsunshine_unit: percent\n"), &s)

	require.NoError(t, err)
	assert.Equal(t, MethodTemperatureOnly, s.Method)
	assert.Equal(t, SunshinePercent, s.SunshineUnit)
	assert.Equal(t, TemperatureMinMax, s.TemperatureMode)
}

func TestSettings_UnmarshalInvalid(t *testing.T) {
	m := MethodTemperatureOnly
	err := m.UnmarshalText([]byte("penman"))

	require.Error(t, err)
	assert.Equal(t, MethodTemperatureOnly, m, "target is not modified on error")

	var src EToSource
	assert.Error(t, src.UnmarshalText([]byte("api")))
}

func TestAggregatedSettings(t *testing.T) {
	base := Settings{
		Method:          MethodTemperatureOnly,
		TemperatureMode: TemperatureAverage,
		HumidityUnit:    HumidityVaporPressureKPa,
		WindUnit:        WindKilometersPerDay,
		SunshineUnit:    SunshinePercent,
		EToUnit:         EToMillimetersPerPeriod,
	}

	agg := AggregatedSettings(base)

	assert.Equal(t, Settings{Method: MethodTemperatureOnly, EToUnit: EToMillimetersPerPeriod}, agg)
	assert.Equal(t, agg, AggregatedSettings(agg))
}

func TestField(t *testing.T) {
	f, err := ParseField("temp_avg")
	require.NoError(t, err)
	assert.Equal(t, FieldTempAvg, f)
	assert.Equal(t, "Average temperature", f.Label())

	_, err = ParseField("rain")
	assert.Error(t, err)

	assert.True(t, FieldLongitude.IsStation())
	assert.False(t, FieldTempMin.IsStation())
	assert.True(t, FieldCountry.IsText())
	assert.Equal(t, "field(42)", Field(42).String())
}
