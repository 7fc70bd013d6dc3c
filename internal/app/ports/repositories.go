package ports

import (
	"context"

	"ferngill/internal/domain/survival"
)

type ActorStateRepository interface {
	GetByActorID(ctx context.Context, actorID string) (survival.ActorState, error)
	SaveWithVersion(ctx context.Context, state survival.ActorState, expectedVersion int64) error
	ListActorIDs(ctx context.Context) ([]string, error)
}

type EventRepository interface {
	Append(ctx context.Context, actorID string, events []survival.DomainEvent) error
	ListByActorID(ctx context.Context, actorID string, limit int) ([]survival.DomainEvent, error)
}

type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
