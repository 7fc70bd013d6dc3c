package status

import (
	"context"
	"errors"
	"strings"
	"time"

	"ferngill/internal/app/daylight"
	"ferngill/internal/app/ports"
	"ferngill/internal/domain/calendar"
)

var ErrInvalidRequest = errors.New("invalid status request")

type UseCase struct {
	StateRepo ports.ActorStateRepository
	Daylight  daylight.Oracle
	Clock     calendar.Clock
	Now       func() time.Time
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.ActorID) == "" {
		return Response{}, ErrInvalidRequest
	}
	state, err := u.StateRepo.GetByActorID(ctx, req.ActorID)
	if err != nil {
		return Response{}, err
	}
	nowAt := time.Now()
	if u.Now != nil {
		nowAt = u.Now()
	}
	date, at := u.Clock.At(nowAt)
	if state.Day > 0 {
		date = calendar.Date{Day: state.Day}
	}

	outside, total := state.ExposureWindow()
	exposure := 0.0
	if total > 0 {
		exposure = float64(outside) / float64(total)
	}
	return Response{
		State:       state,
		Date:        date,
		Season:      date.Season(),
		Daylight:    u.Daylight.Today(date),
		Exposure:    exposure,
		Exhausted:   state.Exhausted(),
		CurrentTime: at,
	}, nil
}
