package tick

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"ferngill/internal/app/ports"
	"ferngill/internal/domain/affliction"
	"ferngill/internal/domain/calendar"
	"ferngill/internal/domain/survival"
	"ferngill/internal/domain/weather"
)

var (
	ErrInvalidRequest = errors.New("invalid tick request")
	ErrStaleTick      = errors.New("tick is older than the actor's current day")
)

type UseCase struct {
	TxManager ports.TxManager
	StateRepo ports.ActorStateRepository
	EventRepo ports.EventRepository
	Weather   ports.WeatherProvider
	Night     ports.NightOracle
	Random    ports.RandomSource
	Metrics   ports.TickMetrics
	Clock     calendar.Clock
	Drain     affliction.Config
	Logger    *slog.Logger
	Now       func() time.Time
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.ActorID) == "" {
		return Response{}, ErrInvalidRequest
	}
	nowAt := u.now()
	date, at := u.Clock.At(nowAt)
	if req.At != nil {
		date, at = req.At.Date, req.At.Time
	}
	if date.Day <= 0 {
		return Response{}, fmt.Errorf("%w: day must be positive", ErrInvalidRequest)
	}
	elapsed := req.Elapsed
	if elapsed <= 0 {
		elapsed = survival.TickDuration
	}

	var flags weather.Flags
	if req.Flags != nil {
		flags = *req.Flags
	} else {
		f, err := u.Weather.FlagsAt(ctx, date, at)
		if err != nil {
			return Response{}, fmt.Errorf("weather for day %d: %w", date.Day, err)
		}
		flags = f
	}
	isNight := u.Night.IsNight(date, at)
	roll := u.Random.Float64()

	var resp Response
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		state, err := u.StateRepo.GetByActorID(txCtx, req.ActorID)
		if err != nil {
			return err
		}
		if date.Day < state.Day {
			return ErrStaleTick
		}
		expectedVersion := state.Version

		var notices []affliction.Notice
		engine := affliction.NewEngine(u.Drain, state.Affliction,
			affliction.WithLogger(u.logger().With("actor_id", req.ActorID, "day", date.Day, "time", at.String())),
			affliction.WithNotifier(affliction.NotifierFunc(func(n affliction.Notice) { notices = append(notices, n) })),
		)

		events := make([]survival.DomainEvent, 0, 3)
		if date.Day != state.Day {
			engine.OnNewDay()
			state.StartDay(date.Day)
			events = append(events, survival.NewEvent(survival.EventDayStarted, req.ActorID, nowAt, map[string]any{
				"day":    date.Day,
				"season": string(date.Season()),
			}))
		}

		state.Accumulate(elapsed)
		outside, total := state.ExposureWindow()
		report := engine.Evaluate(affliction.TickInput{
			Flags:   flags,
			Outside: outside,
			Total:   total,
			IsNight: isNight,
			Roll:    roll,
		})
		state.Affliction = engine.State()
		applied := state.ApplyStaminaDelta(report.Drain)

		for _, n := range notices {
			events = append(events, survival.NewEvent(string(n), req.ActorID, nowAt, map[string]any{
				"flags":       flags.Names(),
				"is_night":    isNight,
				"time":        at.String(),
				"state_after": state.StateAfter(),
			}))
		}
		if report.Drain != 0 {
			events = append(events, survival.NewEvent(survival.EventStaminaDrained, req.ActorID, nowAt, map[string]any{
				"drain":       report.Drain,
				"applied":     applied,
				"multiplier":  report.Multiplier,
				"causes":      report.Causes,
				"time":        at.String(),
				"state_after": state.StateAfter(),
			}))
		}

		state.Version = expectedVersion + 1
		state.UpdatedAt = nowAt
		if err := u.StateRepo.SaveWithVersion(txCtx, state, expectedVersion); err != nil {
			return err
		}
		if len(events) > 0 {
			if err := u.EventRepo.Append(txCtx, req.ActorID, events); err != nil {
				return err
			}
		}

		resp = Response{
			State:          state,
			Date:           date,
			Time:           at,
			Flags:          flags,
			IsNight:        isNight,
			Report:         report,
			StaminaApplied: applied,
			Events:         events,
		}
		return nil
	})
	if err != nil {
		u.recordError(err)
		return Response{}, err
	}
	if u.Metrics != nil {
		u.Metrics.RecordTick(resp.Report.Drain, resp.Report.Onset)
	}
	return resp, nil
}

func (u UseCase) recordError(err error) {
	if u.Metrics == nil {
		return
	}
	if errors.Is(err, ports.ErrConflict) {
		u.Metrics.RecordConflict()
		return
	}
	u.Metrics.RecordFailure()
}

func (u UseCase) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now()
}

func (u UseCase) logger() *slog.Logger {
	if u.Logger != nil {
		return u.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
