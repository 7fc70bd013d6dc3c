package tick

import (
	"context"
	"strings"
	"time"

	"ferngill/internal/app/ports"
	"ferngill/internal/domain/affliction"
	"ferngill/internal/domain/survival"
)

// NewDayUseCase forces a day boundary outside the regular tick flow.
type NewDayUseCase struct {
	TxManager ports.TxManager
	StateRepo ports.ActorStateRepository
	EventRepo ports.EventRepository
	Drain     affliction.Config
	Now       func() time.Time
}

func (u NewDayUseCase) Execute(ctx context.Context, req NewDayRequest) (NewDayResponse, error) {
	if strings.TrimSpace(req.ActorID) == "" || req.Day < 0 {
		return NewDayResponse{}, ErrInvalidRequest
	}
	nowAt := time.Now()
	if u.Now != nil {
		nowAt = u.Now()
	}

	var resp NewDayResponse
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		state, err := u.StateRepo.GetByActorID(txCtx, req.ActorID)
		if err != nil {
			return err
		}
		day := req.Day
		if day == 0 {
			day = state.Day + 1
		}
		// The affliction record only resets at a real day start.
		if day <= state.Day {
			return ErrStaleTick
		}
		expectedVersion := state.Version

		engine := affliction.NewEngine(u.Drain, state.Affliction)
		engine.OnNewDay()
		state.Affliction = engine.State()
		state.StartDay(day)
		state.Version = expectedVersion + 1
		state.UpdatedAt = nowAt

		events := []survival.DomainEvent{survival.NewEvent(survival.EventDayStarted, req.ActorID, nowAt, map[string]any{
			"day":         day,
			"forced":      true,
			"state_after": state.StateAfter(),
		})}
		if err := u.StateRepo.SaveWithVersion(txCtx, state, expectedVersion); err != nil {
			return err
		}
		if err := u.EventRepo.Append(txCtx, req.ActorID, events); err != nil {
			return err
		}
		resp = NewDayResponse{State: state, Events: events}
		return nil
	})
	if err != nil {
		return NewDayResponse{}, err
	}
	return resp, nil
}
