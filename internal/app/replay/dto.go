package replay

import "ferngill/internal/domain/survival"

type Request struct {
	ActorID      string
	Limit        int
	OccurredFrom int64
	OccurredTo   int64
	Type         string
}

type LatestState struct {
	ActorID        string `json:"actor_id"`
	Stamina        int    `json:"stamina"`
	Outdoors       bool   `json:"outdoors"`
	Day            int    `json:"day"`
	Afflicted      bool   `json:"afflicted"`
	AfflictedToday bool   `json:"afflicted_today"`
	Known          bool   `json:"known"`
}

type Response struct {
	Events      []survival.DomainEvent `json:"events"`
	LatestState LatestState            `json:"latest_state"`
}
