package remedy

import (
	"context"
	"errors"
	"strings"
	"time"

	"ferngill/internal/app/ports"
	"ferngill/internal/domain/affliction"
	"ferngill/internal/domain/survival"
)

var ErrInvalidRequest = errors.New("invalid remedy request")

type Request struct {
	ActorID string
	// Item names what cured the actor; informational only.
	Item string
}

type Response struct {
	State      survival.ActorState    `json:"state"`
	WasHealthy bool                   `json:"was_healthy"`
	Events     []survival.DomainEvent `json:"events"`
}

// UseCase lifts an affliction, e.g. when the actor takes a cure item. The
// actor keeps the record of having been afflicted today.
type UseCase struct {
	TxManager ports.TxManager
	StateRepo ports.ActorStateRepository
	EventRepo ports.EventRepository
	Metrics   ports.TickMetrics
	Drain     affliction.Config
	Now       func() time.Time
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.ActorID) == "" {
		return Response{}, ErrInvalidRequest
	}
	nowAt := time.Now()
	if u.Now != nil {
		nowAt = u.Now()
	}

	var resp Response
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		state, err := u.StateRepo.GetByActorID(txCtx, req.ActorID)
		if err != nil {
			return err
		}
		expectedVersion := state.Version
		wasHealthy := !state.Affliction.Afflicted

		events := make([]survival.DomainEvent, 0, 1)
		engine := affliction.NewEngine(u.Drain, state.Affliction,
			affliction.WithNotifier(affliction.NotifierFunc(func(n affliction.Notice) {
				events = append(events, survival.NewEvent(string(n), req.ActorID, nowAt, map[string]any{
					"item":        req.Item,
					"was_healthy": wasHealthy,
				}))
			})),
		)
		engine.Clear()
		state.Affliction = engine.State()
		for i := range events {
			events[i].Payload["state_after"] = state.StateAfter()
		}

		state.Version = expectedVersion + 1
		state.UpdatedAt = nowAt
		if err := u.StateRepo.SaveWithVersion(txCtx, state, expectedVersion); err != nil {
			return err
		}
		if err := u.EventRepo.Append(txCtx, req.ActorID, events); err != nil {
			return err
		}
		resp = Response{State: state, WasHealthy: wasHealthy, Events: events}
		return nil
	})
	if err != nil {
		if u.Metrics != nil {
			if errors.Is(err, ports.ErrConflict) {
				u.Metrics.RecordConflict()
			} else {
				u.Metrics.RecordFailure()
			}
		}
		return Response{}, err
	}
	if u.Metrics != nil {
		u.Metrics.RecordRemedy()
	}
	return resp, nil
}
