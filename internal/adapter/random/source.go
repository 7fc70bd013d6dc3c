// Package random supplies the per-tick onset roll.
package random

import (
	"math/rand/v2"
	"sync"
)

// Source is safe for concurrent use.
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource returns a seeded, reproducible source. A zero seed draws from
// the runtime's entropy instead.
func NewSource(seed uint64) *Source {
	if seed == 0 {
		return &Source{}
	}
	return &Source{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *Source) Float64() float64 {
	if s.rng == nil {
		return rand.Float64()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}
