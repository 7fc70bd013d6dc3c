package ports

import (
	"context"

	"ferngill/internal/domain/calendar"
	"ferngill/internal/domain/weather"
)

// WeatherProvider reports the conditions in effect for a day and time.
type WeatherProvider interface {
	FlagsAt(ctx context.Context, date calendar.Date, at calendar.ClockTime) (weather.Flags, error)
}

// NightOracle answers whether a moment is night.
type NightOracle interface {
	IsNight(date calendar.Date, at calendar.ClockTime) bool
}

// RandomSource yields uniform samples in [0,1).
type RandomSource interface {
	Float64() float64
}
