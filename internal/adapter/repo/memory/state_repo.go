package memory

import (
	"context"

	"ferngill/internal/app/ports"
	"ferngill/internal/domain/survival"
)

type ActorStateRepo struct {
	store *Store
}

func NewActorStateRepo(store *Store) ActorStateRepo {
	return ActorStateRepo{store: store}
}

func (r ActorStateRepo) GetByActorID(ctx context.Context, actorID string) (survival.ActorState, error) {
	var (
		state survival.ActorState
		ok    bool
	)
	r.store.with(ctx, func() { state, ok = r.store.state[actorID] })
	if !ok {
		return survival.ActorState{}, ports.ErrNotFound
	}
	return state, nil
}

func (r ActorStateRepo) SaveWithVersion(ctx context.Context, state survival.ActorState, expectedVersion int64) error {
	var err error
	r.store.with(ctx, func() {
		current, ok := r.store.state[state.ActorID]
		if !ok {
			if expectedVersion != 0 {
				err = ports.ErrConflict
				return
			}
			r.store.state[state.ActorID] = state
			return
		}
		if expectedVersion == 0 {
			err = ports.ErrAlreadyExists
			return
		}
		if current.Version != expectedVersion {
			err = ports.ErrConflict
			return
		}
		r.store.state[state.ActorID] = state
	})
	return err
}

func (r ActorStateRepo) ListActorIDs(ctx context.Context) ([]string, error) {
	var ids []string
	r.store.with(ctx, func() { ids = r.store.actorIDs() })
	return ids, nil
}
