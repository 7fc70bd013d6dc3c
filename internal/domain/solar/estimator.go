package solar

import "ferngill/internal/domain/calendar"

type Config struct {
	Latitude            float64 `yaml:"latitude"`
	SunsetOffsetEnabled bool    `yaml:"sunset_offset_enabled"`
	SunsetOffsetMinutes int     `yaml:"sunset_offset_minutes"`
}

func DefaultConfig() Config {
	return Config{
		Latitude:            38.25,
		SunsetOffsetEnabled: true,
		SunsetOffsetMinutes: -30,
	}
}

// Estimator fixes a latitude and sunset policy and answers named crossings
// for a day. It holds no state between calls.
type Estimator struct {
	cfg Config
}

func NewEstimator(cfg Config) Estimator {
	cfg.Latitude = ClampLatitude(cfg.Latitude)
	return Estimator{cfg: cfg}
}

func (e Estimator) Latitude() float64 {
	return e.cfg.Latitude
}

func (e Estimator) at(d calendar.Date, angle float64, morning bool) (calendar.ClockTime, error) {
	return TimeAtSolarAngle(e.cfg.Latitude, d.Day, angle, morning)
}

func (e Estimator) Sunrise(d calendar.Date) (calendar.ClockTime, error) {
	return e.at(d, SunriseAngle, true)
}

// Sunset applies the configured offset after the ten-minute clamp.
func (e Estimator) Sunset(d calendar.Date) (calendar.ClockTime, error) {
	t, err := e.at(d, SunriseAngle, false)
	if err != nil {
		return calendar.ClockTime{}, err
	}
	if e.cfg.SunsetOffsetEnabled {
		t = t.AddMinutes(e.cfg.SunsetOffsetMinutes)
	}
	return t, nil
}

func (e Estimator) MorningCivilTwilight(d calendar.Date) (calendar.ClockTime, error) {
	return e.at(d, CivilTwilightAngle, true)
}

func (e Estimator) CivilTwilight(d calendar.Date) (calendar.ClockTime, error) {
	return e.at(d, CivilTwilightAngle, false)
}

func (e Estimator) MorningNauticalTwilight(d calendar.Date) (calendar.ClockTime, error) {
	return e.at(d, NauticalTwilightAngle, true)
}

func (e Estimator) NauticalTwilight(d calendar.Date) (calendar.ClockTime, error) {
	return e.at(d, NauticalTwilightAngle, false)
}

func (e Estimator) MorningAstronomicalTwilight(d calendar.Date) (calendar.ClockTime, error) {
	return e.at(d, AstronomicalTwilightAngle, true)
}

func (e Estimator) AstronomicalTwilight(d calendar.Date) (calendar.ClockTime, error) {
	return e.at(d, AstronomicalTwilightAngle, false)
}

// GettingDarkTime is when outdoor light starts to fade.
func (e Estimator) GettingDarkTime(d calendar.Date) (calendar.ClockTime, error) {
	return e.Sunset(d)
}

// TrulyDarkTime is when outdoor light is gone.
func (e Estimator) TrulyDarkTime(d calendar.Date) (calendar.ClockTime, error) {
	return e.CivilTwilight(d)
}

// IsDark reports whether t falls before sunrise or at/after sunset.
func (e Estimator) IsDark(d calendar.Date, t calendar.ClockTime) (bool, error) {
	rise, err := e.Sunrise(d)
	if err != nil {
		return false, err
	}
	set, err := e.Sunset(d)
	if err != nil {
		return false, err
	}
	return t.Before(rise) || !t.Before(set), nil
}

type Crossing struct {
	Name string             `json:"name"`
	Time calendar.ClockTime `json:"time"`
	Err  error              `json:"-"`
}

func (c Crossing) OK() bool {
	return c.Err == nil
}

type Almanac struct {
	Date      calendar.Date `json:"date"`
	Latitude  float64       `json:"latitude"`
	Crossings []Crossing    `json:"crossings"`
}

// Almanac computes every named crossing for the day in chronological order
// (when all exist). A missing crossing carries its own error rather than
// failing the rest.
func (e Estimator) Almanac(d calendar.Date) Almanac {
	steps := []struct {
		name string
		fn   func(calendar.Date) (calendar.ClockTime, error)
	}{
		{"morning_astronomical_twilight", e.MorningAstronomicalTwilight},
		{"morning_nautical_twilight", e.MorningNauticalTwilight},
		{"morning_civil_twilight", e.MorningCivilTwilight},
		{"sunrise", e.Sunrise},
		{"sunset", e.Sunset},
		{"civil_twilight", e.CivilTwilight},
		{"nautical_twilight", e.NauticalTwilight},
		{"astronomical_twilight", e.AstronomicalTwilight},
	}
	out := Almanac{Date: d, Latitude: e.cfg.Latitude, Crossings: make([]Crossing, 0, len(steps))}
	for _, s := range steps {
		t, err := s.fn(d)
		out.Crossings = append(out.Crossings, Crossing{Name: s.name, Time: t, Err: err})
	}
	return out
}
