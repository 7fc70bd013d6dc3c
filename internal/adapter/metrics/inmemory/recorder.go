package inmemory

import (
	"sync"

	"ferngill/internal/app/ports"
)

type Snapshot struct {
	TickTotal     uint64 `json:"tick_total"`
	TickSuccess   uint64 `json:"tick_success"`
	TickConflict  uint64 `json:"tick_conflict"`
	TickFailure   uint64 `json:"tick_failure"`
	Onsets        uint64 `json:"onsets"`
	DrainingTicks uint64 `json:"draining_ticks"`
	StaminaDrain  uint64 `json:"stamina_drained"`
	Remedies      uint64 `json:"remedies"`
}

type Recorder struct {
	mu       sync.Mutex
	success  uint64
	conflict uint64
	failure  uint64
	onsets   uint64
	draining uint64
	drained  uint64
	remedies uint64
}

var _ ports.TickMetrics = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) RecordTick(drain int, onset bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success++
	if onset {
		r.onsets++
	}
	if drain < 0 {
		r.draining++
		r.drained += uint64(-drain)
	}
}

func (r *Recorder) RecordRemedy() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remedies++
}

func (r *Recorder) RecordConflict() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflict++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Snapshot{
		TickSuccess:   r.success,
		TickConflict:  r.conflict,
		TickFailure:   r.failure,
		TickTotal:     r.success + r.conflict + r.failure,
		Onsets:        r.onsets,
		DrainingTicks: r.draining,
		StaminaDrain:  r.drained,
		Remedies:      r.remedies,
	}
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
