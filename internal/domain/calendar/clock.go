package calendar

import "time"

const (
	TickMinutes     = 10
	DayStartMinutes = 6 * 60
	DayEndMinutes   = 26 * 60
	TicksPerDay     = (DayEndMinutes - DayStartMinutes) / TickMinutes

	DaysPerSeason = 28
	DaysPerYear   = 4 * DaysPerSeason
)

type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonFall   Season = "fall"
	SeasonWinter Season = "winter"
)

var seasons = [4]Season{SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter}

// Date is a day index counted from the first in-world day (1).
type Date struct {
	Day int `json:"day"`
}

// DayOfYear reduces the day into the 112-day year. Day 112 maps to 0.
func (d Date) DayOfYear() int {
	return mod(d.Day, DaysPerYear)
}

func (d Date) Season() Season {
	return seasons[mod(floorDiv(d.Day-1, DaysPerSeason), len(seasons))]
}

func (d Date) DayOfSeason() int {
	return mod(d.Day-1, DaysPerSeason) + 1
}

func (d Date) Year() int {
	return floorDiv(d.Day-1, DaysPerYear) + 1
}

type ClockConfig struct {
	StartAt      time.Time
	TickDuration time.Duration
}

// Clock maps wall time onto in-world days. Each day runs from 06:00 to 26:00
// in ten-minute ticks of TickDuration real time each.
type Clock struct {
	cfg ClockConfig
}

func NewClock(cfg ClockConfig) Clock {
	if cfg.TickDuration <= 0 {
		cfg.TickDuration = 7 * time.Second
	}
	if cfg.StartAt.IsZero() {
		cfg.StartAt = time.Unix(0, 0)
	}
	return Clock{cfg: cfg}
}

func DefaultClock() Clock {
	return NewClock(ClockConfig{})
}

func (c Clock) TickDuration() time.Duration {
	if c.cfg.TickDuration <= 0 {
		return 7 * time.Second
	}
	return c.cfg.TickDuration
}

func (c Clock) At(now time.Time) (Date, ClockTime) {
	elapsed := now.Sub(c.cfg.StartAt)
	if elapsed < 0 {
		elapsed = 0
	}
	tick := int(elapsed / c.TickDuration())
	day := tick/TicksPerDay + 1
	minutes := DayStartMinutes + (tick%TicksPerDay)*TickMinutes
	return Date{Day: day}, FromMinutes(minutes)
}

func (c Clock) NextTickIn(now time.Time) time.Duration {
	elapsed := now.Sub(c.cfg.StartAt)
	if elapsed < 0 {
		return -elapsed
	}
	return c.TickDuration() - elapsed%c.TickDuration()
}

func mod(a, b int) int {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}
