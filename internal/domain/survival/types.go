package survival

import (
	"time"

	"ferngill/internal/domain/affliction"
)

type ActorState struct {
	ActorID        string           `json:"actor_id"`
	Stamina        int              `json:"stamina"`
	MaxStamina     int              `json:"max_stamina"`
	Outdoors       bool             `json:"outdoors"`
	Day            int              `json:"day"`
	SecondsOutside int64            `json:"seconds_outside"`
	SecondsTotal   int64            `json:"seconds_total"`
	Affliction     affliction.State `json:"affliction"`
	Version        int64            `json:"version"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

type DomainEvent struct {
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

const (
	EventActorRegistered   = "actor_registered"
	EventLocationChanged   = "location_changed"
	EventDayStarted        = "day_started"
	EventAfflictionOnset   = string(affliction.NoticeOnset)
	EventAfflictionCleared = string(affliction.NoticeCleared)
	EventStaminaDrained    = "stamina_drained"
)

func NewEvent(eventType, actorID string, at time.Time, payload map[string]any) DomainEvent {
	if payload == nil {
		payload = map[string]any{}
	}
	payload["actor_id"] = actorID
	return DomainEvent{Type: eventType, OccurredAt: at, Payload: payload}
}

// StateAfter is the snapshot attached to events that change the actor.
func (s ActorState) StateAfter() map[string]any {
	return map[string]any{
		"stamina":         s.Stamina,
		"outdoors":        s.Outdoors,
		"day":             s.Day,
		"afflicted":       s.Affliction.Afflicted,
		"afflicted_today": s.Affliction.AfflictedToday,
	}
}
