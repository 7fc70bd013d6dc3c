package memory

import (
	"context"
	"sort"
	"sync"

	"ferngill/internal/domain/survival"
)

type txKey struct{}

type Store struct {
	mu     sync.Mutex
	state  map[string]survival.ActorState
	events map[string][]survival.DomainEvent
}

func NewStore() *Store {
	return &Store{
		state:  make(map[string]survival.ActorState),
		events: make(map[string][]survival.DomainEvent),
	}
}

func (s *Store) SeedState(state survival.ActorState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state[state.ActorID] = state
}

// with runs fn under the store lock unless ctx already belongs to a
// transaction holding it.
func (s *Store) with(ctx context.Context, fn func()) {
	if owner, _ := ctx.Value(txKey{}).(*Store); owner == s {
		fn()
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

type snapshot struct {
	state  map[string]survival.ActorState
	events map[string]int
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		state:  make(map[string]survival.ActorState, len(s.state)),
		events: make(map[string]int, len(s.events)),
	}
	for k, v := range s.state {
		snap.state[k] = v
	}
	for k, v := range s.events {
		snap.events[k] = len(v)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.state = snap.state
	for k, v := range s.events {
		n, ok := snap.events[k]
		if !ok {
			delete(s.events, k)
			continue
		}
		s.events[k] = v[:n]
	}
}

func (s *Store) actorIDs() []string {
	ids := make([]string, 0, len(s.state))
	for id := range s.state {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
