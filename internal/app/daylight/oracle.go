package daylight

import (
	"io"
	"log/slog"

	"ferngill/internal/domain/calendar"
	"ferngill/internal/domain/solar"
)

// Vanilla hours used when the solar model has no sunrise or sunset for the
// day.
var (
	FallbackDawn = calendar.ClockTime{Hour: 6}
	FallbackDusk = calendar.ClockTime{Hour: 20}
)

// Estimator is the subset of solar.Estimator the oracle needs.
type Estimator interface {
	Sunrise(calendar.Date) (calendar.ClockTime, error)
	Sunset(calendar.Date) (calendar.ClockTime, error)
	IsDark(calendar.Date, calendar.ClockTime) (bool, error)
}

var _ Estimator = solar.Estimator{}

type Oracle struct {
	Estimator Estimator
	Logger    *slog.Logger
}

func NewOracle(est Estimator, logger *slog.Logger) Oracle {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return Oracle{Estimator: est, Logger: logger}
}

func (o Oracle) IsNight(date calendar.Date, at calendar.ClockTime) bool {
	dark, err := o.Estimator.IsDark(date, at)
	if err == nil {
		return dark
	}
	if o.Logger != nil {
		o.Logger.Debug("no solar crossing, using vanilla hours", "day", date.Day, "error", err)
	}
	return at.Before(FallbackDawn) || !at.Before(FallbackDusk)
}

type Window struct {
	Sunrise calendar.ClockTime `json:"sunrise"`
	Sunset  calendar.ClockTime `json:"sunset"`
	Solar   bool               `json:"solar"`
}

// Today returns the light window for the day, falling back to vanilla hours
// (Solar=false) when the model has no crossing.
func (o Oracle) Today(date calendar.Date) Window {
	rise, errRise := o.Estimator.Sunrise(date)
	set, errSet := o.Estimator.Sunset(date)
	if errRise != nil || errSet != nil {
		return Window{Sunrise: FallbackDawn, Sunset: FallbackDusk}
	}
	return Window{Sunrise: rise, Sunset: set, Solar: true}
}
