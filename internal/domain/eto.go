package domain

import "math"

const (
	// PeriodLength is the number of days in a reporting period for mm/period.
	PeriodLength = 30

	// NominalTemperatureRange is the Hargreaves-Samani TD used when only an
	// average temperature is known. 10 °C is an approximation with no
	// empirical basis for any particular station.
	NominalTemperatureRange = 10.0

	albedo          = 0.23
	stefanBoltzmann = 4.903e-9
)

// ComputeETo estimates radiation and reference evapotranspiration for one
// month. Latitude is signed degrees and altitude is metres. The result is
// unavailable (both fields nil) when a required input is missing or not
// finite, or when any intermediate value is not finite.
func ComputeETo(c Climate, monthIndex int, latitude, altitude float64, s Settings) Estimate {
	if c == nil || monthIndex < 0 || monthIndex >= MonthsPerYear {
		return Estimate{}
	}
	if !finite(latitude) || !finite(altitude) {
		return Estimate{}
	}

	std := ToStandardUnits(c, s)
	geo := SolarGeometryAt(degToRad(latitude), DayOfYear(monthIndex))

	var radiation, eto float64
	var ok bool
	switch s.Method {
	case MethodTemperatureOnly:
		radiation, eto, ok = hargreavesSamani(std, geo, s)
	case MethodFullClimate:
		radiation, eto, ok = penmanMonteith(std, geo, altitude, s)
	default:
		return Estimate{}
	}
	if !ok || !finite(radiation) || !finite(eto) {
		return Estimate{}
	}

	if s.EToUnit == EToMillimetersPerPeriod {
		eto *= PeriodLength
	}
	return Estimate{Radiation: ptr(radiation), ETo: ptr(eto)}
}

// temperatures holds the temperature inputs resolved for the active mode.
type temperatures struct {
	mean     float64
	min, max float64
	minMax   bool
}

func readTemperatures(c Climate, mode TemperatureMode) (temperatures, bool) {
	if mode == TemperatureAverage {
		avg, ok := finiteValue(c, FieldTempAvg)
		if !ok {
			return temperatures{}, false
		}
		return temperatures{mean: avg}, true
	}

	tmin, okMin := finiteValue(c, FieldTempMin)
	tmax, okMax := finiteValue(c, FieldTempMax)
	if !okMin || !okMax {
		return temperatures{}, false
	}
	return temperatures{mean: (tmin + tmax) / 2, min: tmin, max: tmax, minMax: true}, true
}

func hargreavesSamani(c Climate, geo SolarGeometry, s Settings) (float64, float64, bool) {
	t, ok := readTemperatures(c, s.TemperatureMode)
	if !ok {
		return 0, 0, false
	}
	td := NominalTemperatureRange
	if t.minMax {
		td = math.Abs(t.max - t.min)
	}
	eto := 0.0023 * (t.mean + 17.8) * math.Sqrt(td) * geo.Ra * 0.408
	return geo.Ra, eto, true
}

func penmanMonteith(c Climate, geo SolarGeometry, altitude float64, s Settings) (float64, float64, bool) {
	t, ok := readTemperatures(c, s.TemperatureMode)
	if !ok {
		return 0, 0, false
	}
	humidity, okH := finiteValue(c, FieldHumidity)
	u2, okW := finiteValue(c, FieldWind)
	n, okN := finiteValue(c, FieldSunshine)
	if !okH || !okW || !okN {
		return 0, 0, false
	}

	rs := (0.25 + 0.5*sunshineRatio(n, geo.MaxDayLength)) * geo.Ra

	var es float64
	if t.minMax {
		es = (SaturationVaporPressure(t.max) + SaturationVaporPressure(t.min)) / 2
	} else {
		es = SaturationVaporPressure(t.mean)
	}

	ea := humidity
	if s.HumidityUnit == HumidityRelativePercent {
		ea = es * humidity / 100
	}

	delta := 4098 * SaturationVaporPressure(t.mean) / math.Pow(t.mean+237.3, 2)
	gamma := PsychrometricConstant(AtmosphericPressure(altitude))

	rns := (1 - albedo) * rs
	rnl := stefanBoltzmann * math.Pow(t.mean+273.16, 4) *
		(0.34 - 0.14*math.Sqrt(ea)) * cloudinessFactor(rs, geo.Ra)
	rn := rns - rnl

	eto := (0.408*delta*rn + gamma*(900/(t.mean+273))*u2*(es-ea)) /
		(delta + gamma*(1+0.34*u2))
	return rs, eto, true
}

// SaturationVaporPressure returns es(T) in kPa for T in °C.
func SaturationVaporPressure(t float64) float64 {
	return 0.6108 * math.Exp(17.27*t/(t+237.3))
}

// AtmosphericPressure returns P in kPa at the given altitude in metres.
func AtmosphericPressure(altitude float64) float64 {
	return 101.3 * math.Pow((293-0.0065*altitude)/293, 5.26)
}

// PsychrometricConstant returns γ in kPa/°C for pressure P in kPa.
func PsychrometricConstant(pressure float64) float64 {
	return 0.000665 * pressure
}

// sunshineRatio returns n/N. A zero day length yields 0.
func sunshineRatio(n, maxDayLength float64) float64 {
	if maxDayLength <= 0 {
		return 0
	}
	return n / maxDayLength
}

// cloudinessFactor returns 1.35·Rs/Ra − 0.35. Without extraterrestrial
// radiation the ratio is undefined and 0.05 is used.
func cloudinessFactor(rs, ra float64) float64 {
	if ra <= 0 {
		return 0.05
	}
	return 1.35*rs/ra - 0.35
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finiteValue(c Climate, f Field) (float64, bool) {
	p := c.Value(f)
	if p == nil || !finite(*p) {
		return 0, false
	}
	return *p, true
}
