package static

import (
	"context"

	"ferngill/internal/domain/calendar"
	"ferngill/internal/domain/weather"
)

// Provider reports the same conditions for every moment.
type Provider struct {
	Flags weather.Flags
}

func (p Provider) FlagsAt(_ context.Context, _ calendar.Date, _ calendar.ClockTime) (weather.Flags, error) {
	return p.Flags, nil
}
