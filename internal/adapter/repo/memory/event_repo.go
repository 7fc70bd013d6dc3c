package memory

import (
	"context"

	"ferngill/internal/domain/survival"
)

type EventRepo struct {
	store *Store
}

func NewEventRepo(store *Store) EventRepo {
	return EventRepo{store: store}
}

func (r EventRepo) Append(ctx context.Context, actorID string, events []survival.DomainEvent) error {
	r.store.with(ctx, func() {
		r.store.events[actorID] = append(r.store.events[actorID], events...)
	})
	return nil
}

// ListByActorID returns the newest events first.
func (r EventRepo) ListByActorID(ctx context.Context, actorID string, limit int) ([]survival.DomainEvent, error) {
	var out []survival.DomainEvent
	r.store.with(ctx, func() {
		stored := r.store.events[actorID]
		n := len(stored)
		if limit > 0 && limit < n {
			n = limit
		}
		out = make([]survival.DomainEvent, 0, n)
		for i := len(stored) - 1; i >= 0 && len(out) < n; i-- {
			out = append(out, stored[i])
		}
	})
	return out, nil
}
