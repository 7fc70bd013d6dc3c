package survival

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidActor = errors.New("invalid actor")

func NewActorState(actorID string, maxStamina int) (ActorState, error) {
	if strings.TrimSpace(actorID) == "" {
		return ActorState{}, ErrInvalidActor
	}
	if maxStamina <= 0 {
		maxStamina = DefaultMaxStamina
	}
	return ActorState{
		ActorID:    actorID,
		Stamina:    maxStamina,
		MaxStamina: maxStamina,
		Outdoors:   true,
		Day:        0,
		Version:    1,
	}, nil
}

// StartDay moves the actor onto day and clears the exposure window. The
// affliction record is reset by the engine, not here.
func (s *ActorState) StartDay(day int) {
	s.Day = day
	s.SecondsOutside = 0
	s.SecondsTotal = 0
}

// Accumulate adds elapsed time to the exposure window, counting it as
// outside when the actor currently is.
func (s *ActorState) Accumulate(elapsed time.Duration) {
	if elapsed <= 0 {
		return
	}
	secs := int64(elapsed / time.Second)
	s.SecondsTotal += secs
	if s.Outdoors {
		s.SecondsOutside += secs
	}
}

func (s ActorState) ExposureWindow() (outside, total time.Duration) {
	return time.Duration(s.SecondsOutside) * time.Second, time.Duration(s.SecondsTotal) * time.Second
}

// ApplyStaminaDelta adds delta and clamps to [0, MaxStamina]. It returns the
// change actually applied.
func (s *ActorState) ApplyStaminaDelta(delta int) int {
	before := s.Stamina
	next := before + delta
	if next < ExhaustedStamina {
		next = ExhaustedStamina
	}
	if s.MaxStamina > 0 && next > s.MaxStamina {
		next = s.MaxStamina
	}
	s.Stamina = next
	return next - before
}

func (s ActorState) Exhausted() bool {
	return s.Stamina <= ExhaustedStamina
}
