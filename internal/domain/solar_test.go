package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDayOfYear(t *testing.T) {
	tests := []struct {
		month    int
		expected int
	}{
		{0, 15},
		{1, 45},
		{5, 167},
		{6, 197},
		{11, 349},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, DayOfYear(tt.month), "month %d", tt.month)
	}
}

func TestSolarGeometryAt(t *testing.T) {
	tests := []struct {
		name     string
		lat      float64
		month    int
		ra       float64
		dayLen   float64
		sunsetWs float64
	}{
		{"tropical january", 4.6, 0, 34.2908, 11.7614, -1},
		{"mid latitude july", 45, 6, 40.4938, 15.0591, -1},
		{"southern mid latitude july", -45, 6, 11.1382, 8.9409, -1},
		{"midnight sun", 89, 5, 45.2991, 24, math.Pi},
		{"polar night", 89, 11, 0, 0, 0},
		{"southern polar night", -89, 5, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := SolarGeometryAt(degToRad(tt.lat), DayOfYear(tt.month))
			assert.InDelta(t, tt.ra, g.Ra, 1e-3)
			assert.InDelta(t, tt.dayLen, g.MaxDayLength, 1e-3)
			if tt.sunsetWs >= 0 {
				assert.InDelta(t, tt.sunsetWs, g.SunsetHourAngle, 1e-12)
			}
		})
	}
}

func TestExtraterrestrialRadiation_NeverNegative(t *testing.T) {
	for lat := -90.0; lat <= 90.0; lat += 0.5 {
		for j := 1; j <= 366; j++ {
			ra := ExtraterrestrialRadiation(degToRad(lat), j)
			if ra < 0 || math.IsNaN(ra) {
				t.Fatalf("Ra(%g°, %d) = %g", lat, j, ra)
			}
		}
	}
}

func TestSunsetHourAngle_Clamped(t *testing.T) {
	decl := 0.409 * math.Sin(2*math.Pi*172/365-1.39)

	assert.InDelta(t, math.Pi, SunsetHourAngle(degToRad(89.9), decl), 1e-12)
	assert.InDelta(t, 0, SunsetHourAngle(degToRad(-89.9), decl), 1e-12)
	assert.InDelta(t, math.Pi/2, SunsetHourAngle(0, decl), 1e-12)
}
