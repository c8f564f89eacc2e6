package domain

import "math"

// SolarConstant is Gsc in MJ m-2 min-1.
const SolarConstant = 0.0820

// SolarGeometry holds the FAO-56 astronomical terms for one latitude and day.
type SolarGeometry struct {
	InverseDistance float64 // dr
	Declination     float64 // δ, radians
	SunsetHourAngle float64 // ωs, radians
	Ra              float64 // extraterrestrial radiation, MJ m-2 day-1
	MaxDayLength    float64 // N, hours
}

// DayOfYear approximates the day of year at the middle of a 0-based month.
func DayOfYear(monthIndex int) int {
	return int(math.Floor(float64(monthIndex)*30.4 + 15))
}

// SolarGeometryAt evaluates the FAO-56 equations for a latitude in radians and
// day of year J. The sunset hour angle argument is clamped to [-1, 1], so
// polar night gives ωs = 0 and midnight sun gives ωs = π.
func SolarGeometryAt(latitudeRad float64, dayOfYear int) SolarGeometry {
	j := float64(dayOfYear)
	dr := 1 + 0.033*math.Cos(2*math.Pi*j/365)
	decl := 0.409 * math.Sin(2*math.Pi*j/365-1.39)
	ws := SunsetHourAngle(latitudeRad, decl)

	ra := (24 * 60 / math.Pi) * SolarConstant * dr *
		(ws*math.Sin(latitudeRad)*math.Sin(decl) + math.Cos(latitudeRad)*math.Cos(decl)*math.Sin(ws))
	if ra < 0 || math.IsNaN(ra) {
		ra = 0
	}

	return SolarGeometry{
		InverseDistance: dr,
		Declination:     decl,
		SunsetHourAngle: ws,
		Ra:              ra,
		MaxDayLength:    MaxDayLength(ws),
	}
}

// SunsetHourAngle returns ωs in radians.
func SunsetHourAngle(latitudeRad, declination float64) float64 {
	x := -math.Tan(latitudeRad) * math.Tan(declination)
	return math.Acos(math.Max(-1, math.Min(1, x)))
}

// MaxDayLength returns the maximum possible sunshine duration N in hours.
func MaxDayLength(sunsetHourAngle float64) float64 {
	return 24 * sunsetHourAngle / math.Pi
}

// ExtraterrestrialRadiation returns Ra in MJ m-2 day-1. It is never negative.
func ExtraterrestrialRadiation(latitudeRad float64, dayOfYear int) float64 {
	return SolarGeometryAt(latitudeRad, dayOfYear).Ra
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180 }
