// Package almanac answers what the sky does on a given day.
package almanac

import (
	"context"
	"errors"
	"time"

	"ferngill/internal/domain/calendar"
	"ferngill/internal/domain/solar"
)

var ErrInvalidRequest = errors.New("invalid almanac request")

type Request struct {
	// Day zero means the clock's current day.
	Day int
}

type Crossing struct {
	Name  string             `json:"name"`
	Time  calendar.ClockTime `json:"time"`
	OK    bool               `json:"ok"`
	Error string             `json:"error,omitempty"`
}

type Response struct {
	Date        calendar.Date   `json:"date"`
	Season      calendar.Season `json:"season"`
	DayOfSeason int             `json:"day_of_season"`
	DayOfYear   int             `json:"day_of_year"`
	Year        int             `json:"year"`
	Latitude    float64         `json:"latitude"`
	Crossings   []Crossing      `json:"crossings"`
}

type UseCase struct {
	Estimator solar.Estimator
	Clock     calendar.Clock
	Now       func() time.Time
}

func (u UseCase) Execute(_ context.Context, req Request) (Response, error) {
	if req.Day < 0 {
		return Response{}, ErrInvalidRequest
	}
	date := calendar.Date{Day: req.Day}
	if req.Day == 0 {
		nowAt := time.Now()
		if u.Now != nil {
			nowAt = u.Now()
		}
		date, _ = u.Clock.At(nowAt)
	}

	a := u.Estimator.Almanac(date)
	out := Response{
		Date:        date,
		Season:      date.Season(),
		DayOfSeason: date.DayOfSeason(),
		DayOfYear:   date.DayOfYear(),
		Year:        date.Year(),
		Latitude:    a.Latitude,
		Crossings:   make([]Crossing, 0, len(a.Crossings)),
	}
	for _, c := range a.Crossings {
		item := Crossing{Name: c.Name, Time: c.Time, OK: c.OK()}
		if c.Err != nil {
			item.Error = c.Err.Error()
		}
		out.Crossings = append(out.Crossings, item)
	}
	return out, nil
}
