package survival

import "time"

const (
	DefaultMaxStamina = 270

	TickMinutes = 10
	TickSeconds = TickMinutes * 60

	ExhaustedStamina = 0
)

const TickDuration = TickSeconds * time.Second
