// Package solar estimates when the sun crosses a given elevation on an
// in-world day. The model is deliberately simple: a sinusoidal declination
// over a 112-day year and a two-term equation of time.
package solar

import (
	"errors"
	"fmt"
	"math"

	"ferngill/internal/domain/calendar"
)

var ErrNoSolarCrossing = errors.New("no solar crossing")

const (
	MaxLatitude = 64.0

	// Elevation angles in radians. Twilight angles are depressions below the
	// horizon.
	SunriseAngle              = 0.01163611
	CivilTwilightAngle        = -0.104719755
	NauticalTwilightAngle     = -0.20944
	AstronomicalTwilightAngle = -0.314159265
)

const (
	maxDeclination   = 0.40927971
	solarNoonMinutes = 720.0
	minutesPerDay    = 1440.0
	yearLength       = float64(calendar.DaysPerYear)
)

// Query is one crossing request.
type Query struct {
	LatitudeDeg float64
	DayOfYear   int
	AngleRad    float64
	Morning     bool
}

func ClampLatitude(lat float64) float64 {
	if lat > MaxLatitude {
		return MaxLatitude
	}
	if lat < -MaxLatitude {
		return -MaxLatitude
	}
	return lat
}

func Declination(dayOfYear int) float64 {
	return maxDeclination * math.Sin(2*math.Pi/yearLength*float64(dayOfYear-1))
}

// SolarNoonMinutes is the minute of the day at which the sun culminates.
func SolarNoonMinutes(dayOfYear int) float64 {
	d := float64(dayOfYear)
	return solarNoonMinutes - 10*math.Sin(4*math.Pi/yearLength*(d-1)) + 8*math.Sin(2*math.Pi/yearLength*d)
}

func (q Query) Resolve() (calendar.ClockTime, error) {
	return TimeAtSolarAngle(q.LatitudeDeg, q.DayOfYear, q.AngleRad, q.Morning)
}

// TimeAtSolarAngle returns the clock time, rounded down to ten minutes, at
// which the sun passes angleRad on the morning or evening side of noon.
// Latitude is clamped to [-64, 64]; dayOfYear is reduced into the 112-day
// year. It fails with ErrNoSolarCrossing when the sun never reaches the
// angle on that day.
func TimeAtSolarAngle(latitudeDeg float64, dayOfYear int, angleRad float64, morning bool) (calendar.ClockTime, error) {
	lat := ClampLatitude(latitudeDeg) * math.Pi / 180
	doy := calendar.Date{Day: dayOfYear}.DayOfYear()

	decl := Declination(doy)
	noon := SolarNoonMinutes(doy)

	ratio := (math.Sin(angleRad) - math.Sin(lat)*math.Sin(decl)) / (math.Cos(lat) * math.Cos(decl))
	if math.IsNaN(ratio) || ratio < -1 || ratio > 1 {
		return calendar.ClockTime{}, fmt.Errorf("%w: latitude=%.2f day=%d angle=%.5f ratio=%.4f",
			ErrNoSolarCrossing, latitudeDeg, doy, angleRad, ratio)
	}
	hourAngle := math.Acos(ratio)
	fromNoon := hourAngle / (2 * math.Pi) * minutesPerDay

	var total int
	if morning {
		total = int(math.Floor(noon - fromNoon))
	} else {
		total = int(math.Floor(noon + fromNoon))
	}
	return calendar.FromMinutes(total).ClampToTenMinutes(), nil
}
