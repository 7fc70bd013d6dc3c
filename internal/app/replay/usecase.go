package replay

import (
	"context"
	"errors"
	"strings"

	"ferngill/internal/app/ports"
	"ferngill/internal/domain/survival"
)

var ErrInvalidRequest = errors.New("invalid replay request")

const (
	defaultLimit = 50
	maxLimit     = 500
)

type UseCase struct {
	Events ports.EventRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.ActorID) == "" {
		return Response{}, ErrInvalidRequest
	}
	if req.OccurredFrom > 0 && req.OccurredTo > 0 && req.OccurredFrom > req.OccurredTo {
		return Response{}, ErrInvalidRequest
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	fetch := limit
	if req.OccurredFrom > 0 || req.OccurredTo > 0 || req.Type != "" {
		fetch = maxLimit
	}
	events, err := u.Events.ListByActorID(ctx, req.ActorID, fetch)
	if err != nil {
		return Response{}, err
	}
	events = filterEvents(events, req.OccurredFrom, req.OccurredTo, req.Type)
	if len(events) > limit {
		events = events[:limit]
	}
	latest := reconstruct(events)
	latest.ActorID = req.ActorID
	return Response{Events: events, LatestState: latest}, nil
}

func filterEvents(events []survival.DomainEvent, from, to int64, eventType string) []survival.DomainEvent {
	if from <= 0 && to <= 0 && eventType == "" {
		return events
	}
	out := make([]survival.DomainEvent, 0, len(events))
	for _, evt := range events {
		ts := evt.OccurredAt.Unix()
		if from > 0 && ts < from {
			continue
		}
		if to > 0 && ts > to {
			continue
		}
		if eventType != "" && evt.Type != eventType {
			continue
		}
		out = append(out, evt)
	}
	return out
}

// reconstruct reads the newest state_after snapshot. Events arrive newest
// first.
func reconstruct(events []survival.DomainEvent) LatestState {
	for _, evt := range events {
		after, ok := evt.Payload["state_after"].(map[string]any)
		if !ok {
			continue
		}
		return LatestState{
			Stamina:        int(num(after["stamina"])),
			Outdoors:       flag(after["outdoors"]),
			Day:            int(num(after["day"])),
			Afflicted:      flag(after["afflicted"]),
			AfflictedToday: flag(after["afflicted_today"]),
			Known:          true,
		}
	}
	return LatestState{}
}

func num(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func flag(v any) bool {
	b, _ := v.(bool)
	return b
}
