package actors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ferngill/internal/app/ports"
	"ferngill/internal/domain/survival"

	"github.com/google/uuid"
)

var ErrInvalidRequest = errors.New("invalid actor request")

type RegisterRequest struct {
	ActorID    string
	MaxStamina int
	Outdoors   *bool
}

type RegisterResponse struct {
	State survival.ActorState `json:"state"`
}

type RegisterUseCase struct {
	TxManager  ports.TxManager
	StateRepo  ports.ActorStateRepository
	EventRepo  ports.EventRepository
	MaxStamina int
	NewID      func() string
	Now        func() time.Time
}

func (u RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (RegisterResponse, error) {
	if req.MaxStamina < 0 {
		return RegisterResponse{}, ErrInvalidRequest
	}
	actorID := strings.TrimSpace(req.ActorID)
	if actorID == "" {
		actorID = u.newID()
	}
	maxStamina := req.MaxStamina
	if maxStamina == 0 {
		maxStamina = u.MaxStamina
	}
	state, err := survival.NewActorState(actorID, maxStamina)
	if err != nil {
		return RegisterResponse{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if req.Outdoors != nil {
		state.Outdoors = *req.Outdoors
	}
	nowAt := now(u.Now)
	state.UpdatedAt = nowAt

	err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := u.StateRepo.SaveWithVersion(txCtx, state, 0); err != nil {
			return err
		}
		return u.EventRepo.Append(txCtx, actorID, []survival.DomainEvent{
			survival.NewEvent(survival.EventActorRegistered, actorID, nowAt, map[string]any{
				"state_after": state.StateAfter(),
			}),
		})
	})
	if err != nil {
		return RegisterResponse{}, err
	}
	return RegisterResponse{State: state}, nil
}

func (u RegisterUseCase) newID() string {
	if u.NewID != nil {
		return u.NewID()
	}
	return uuid.NewString()
}

type LocateRequest struct {
	ActorID  string
	Outdoors bool
}

type LocateResponse struct {
	State   survival.ActorState `json:"state"`
	Changed bool                `json:"changed"`
}

// LocateUseCase records whether the actor is outdoors. Exposure counts from
// the next tick.
type LocateUseCase struct {
	TxManager ports.TxManager
	StateRepo ports.ActorStateRepository
	EventRepo ports.EventRepository
	Now       func() time.Time
}

func (u LocateUseCase) Execute(ctx context.Context, req LocateRequest) (LocateResponse, error) {
	if strings.TrimSpace(req.ActorID) == "" {
		return LocateResponse{}, ErrInvalidRequest
	}
	nowAt := now(u.Now)

	var resp LocateResponse
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		state, err := u.StateRepo.GetByActorID(txCtx, req.ActorID)
		if err != nil {
			return err
		}
		if state.Outdoors == req.Outdoors {
			resp = LocateResponse{State: state}
			return nil
		}
		expectedVersion := state.Version
		state.Outdoors = req.Outdoors
		state.Version = expectedVersion + 1
		state.UpdatedAt = nowAt
		if err := u.StateRepo.SaveWithVersion(txCtx, state, expectedVersion); err != nil {
			return err
		}
		if err := u.EventRepo.Append(txCtx, req.ActorID, []survival.DomainEvent{
			survival.NewEvent(survival.EventLocationChanged, req.ActorID, nowAt, map[string]any{
				"outdoors":    req.Outdoors,
				"state_after": state.StateAfter(),
			}),
		}); err != nil {
			return err
		}
		resp = LocateResponse{State: state, Changed: true}
		return nil
	})
	if err != nil {
		return LocateResponse{}, err
	}
	return resp, nil
}

func now(fn func() time.Time) time.Time {
	if fn != nil {
		return fn()
	}
	return time.Now()
}
