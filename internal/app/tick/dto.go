package tick

import (
	"time"

	"ferngill/internal/domain/affliction"
	"ferngill/internal/domain/calendar"
	"ferngill/internal/domain/survival"
	"ferngill/internal/domain/weather"
)

type Moment struct {
	Date calendar.Date
	Time calendar.ClockTime
}

type Request struct {
	ActorID string
	// At overrides the clock reading.
	At *Moment
	// Flags overrides the weather provider.
	Flags *weather.Flags
	// Elapsed is the in-world time covered by the tick. Zero means one tick.
	Elapsed time.Duration
}

type Response struct {
	State          survival.ActorState    `json:"state"`
	Date           calendar.Date          `json:"date"`
	Time           calendar.ClockTime     `json:"time"`
	Flags          weather.Flags          `json:"flags"`
	IsNight        bool                   `json:"is_night"`
	Report         affliction.Report      `json:"report"`
	StaminaApplied int                    `json:"stamina_applied"`
	Events         []survival.DomainEvent `json:"events"`
}

type NewDayRequest struct {
	ActorID string
	// Day defaults to the actor's current day plus one.
	Day int
}

type NewDayResponse struct {
	State  survival.ActorState    `json:"state"`
	Events []survival.DomainEvent `json:"events"`
}
