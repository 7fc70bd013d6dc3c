package status

import (
	"ferngill/internal/app/daylight"
	"ferngill/internal/domain/calendar"
	"ferngill/internal/domain/survival"
)

type Request struct {
	ActorID string
}

type Response struct {
	State       survival.ActorState `json:"state"`
	Date        calendar.Date       `json:"date"`
	Season      calendar.Season     `json:"season"`
	Daylight    daylight.Window     `json:"daylight"`
	Exposure    float64             `json:"exposure"`
	Exhausted   bool                `json:"exhausted"`
	CurrentTime calendar.ClockTime  `json:"current_time"`
}
