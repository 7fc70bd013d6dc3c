// Package scheduler drives the tick use case for every known actor on the
// in-world clock.
package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"ferngill/internal/app/ports"
	"ferngill/internal/app/tick"
	"ferngill/internal/domain/calendar"
)

type Ticker interface {
	Execute(ctx context.Context, req tick.Request) (tick.Response, error)
}

var _ Ticker = tick.UseCase{}

type Summary struct {
	Actors  int `json:"actors"`
	Ticked  int `json:"ticked"`
	Failed  int `json:"failed"`
	Onsets  int `json:"onsets"`
	Drained int `json:"drained"`
}

type Runner struct {
	Tick   Ticker
	Actors ports.ActorStateRepository
	Clock  calendar.Clock
	Logger *slog.Logger
	Now    func() time.Time
}

// Run ticks every actor at each clock boundary until ctx is done.
func (r Runner) Run(ctx context.Context) error {
	log := r.logger()
	for {
		wait := r.Clock.NextTickIn(r.now())
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		sum, err := r.RunOnce(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			log.Error("scheduler pass failed", "error", err)
			continue
		}
		log.Debug("scheduler pass", "actors", sum.Actors, "ticked", sum.Ticked, "failed", sum.Failed, "onsets", sum.Onsets, "drained", sum.Drained)
	}
}

// RunOnce ticks every actor once at the clock's current moment. A failing
// actor is logged and skipped.
func (r Runner) RunOnce(ctx context.Context) (Summary, error) {
	ids, err := r.Actors.ListActorIDs(ctx)
	if err != nil {
		return Summary{}, err
	}
	date, at := r.Clock.At(r.now())
	moment := &tick.Moment{Date: date, Time: at}

	sum := Summary{Actors: len(ids)}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		resp, err := r.Tick.Execute(ctx, tick.Request{ActorID: id, At: moment})
		if err != nil {
			sum.Failed++
			r.logger().Warn("actor tick failed", "actor_id", id, "day", date.Day, "time", at.String(), "error", err)
			continue
		}
		sum.Ticked++
		if resp.Report.Onset {
			sum.Onsets++
		}
		sum.Drained -= resp.StaminaApplied
	}
	return sum, nil
}

func (r Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
