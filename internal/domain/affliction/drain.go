package affliction

import "ferngill/internal/domain/weather"

type Cause string

const (
	CauseLightning        Cause = "lightning"
	CauseFog              Cause = "fog"
	CauseNightFog         Cause = "night_fog"
	CauseBlizzard         Cause = "blizzard"
	CauseNightFrost       Cause = "night_frost"
	CauseNightThundersnow Cause = "night_thundersnow"
	CauseNightBlizzard    Cause = "night_blizzard"
	CauseDayHeatwave      Cause = "day_heatwave"
)

type drainRule struct {
	cause      Cause
	multiplier float64
	applies    func(f weather.Flags, night bool) bool
}

// Matching rules stack additively, in this order.
var drainRules = []drainRule{
	{CauseLightning, 1.0, func(f weather.Flags, _ bool) bool { return f.Has(weather.Lightning) }},
	{CauseFog, 0.5, func(f weather.Flags, _ bool) bool { return f.Has(weather.Fog) }},
	{CauseNightFog, 0.25, func(f weather.Flags, night bool) bool { return f.Has(weather.Fog) && night }},
	{CauseBlizzard, 1.25, func(f weather.Flags, _ bool) bool { return f.Has(weather.Blizzard) }},
	{CauseNightFrost, 1.25, func(f weather.Flags, night bool) bool { return f.Has(weather.Frost) && night }},
	{CauseNightThundersnow, 0.5, func(f weather.Flags, night bool) bool {
		return f.HasAll(weather.Lightning|weather.Snow) && night
	}},
	{CauseNightBlizzard, 0.5, func(f weather.Flags, night bool) bool { return f.Has(weather.Blizzard) && night }},
	{CauseDayHeatwave, 1.25, func(f weather.Flags, night bool) bool { return f.Has(weather.Heatwave) && !night }},
}

func drainMultiplier(f weather.Flags, night bool) (float64, []Cause) {
	total := 0.0
	causes := make([]Cause, 0, 2)
	for _, r := range drainRules {
		if r.applies(f, night) {
			total += r.multiplier
			causes = append(causes, r.cause)
		}
	}
	return total, causes
}
