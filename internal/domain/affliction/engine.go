// Package affliction decides, tick by tick, whether an actor caught out in
// bad weather falls ill and how much stamina the illness drains.
//
// An Engine owns one actor's State for one in-world day. It is not safe for
// concurrent use; callers serialize access per actor.
package affliction

import (
	"io"
	"log/slog"
	"math"
	"time"

	"ferngill/internal/domain/weather"
)

type Config struct {
	ExposureThreshold   float64 `yaml:"exposure_threshold"`
	OnsetThreshold      float64 `yaml:"onset_threshold"`
	DrainMagnitude      int     `yaml:"drain_magnitude"`
	AllowMultiplePerDay bool    `yaml:"allow_multiple_per_day"`
	Verbose             bool    `yaml:"verbose"`
}

func DefaultConfig() Config {
	return Config{
		ExposureThreshold: 0.65,
		OnsetThreshold:    0.7,
		DrainMagnitude:    2,
	}
}

type State struct {
	Afflicted      bool `json:"afflicted"`
	AfflictedToday bool `json:"afflicted_today"`
}

type Notice string

const (
	NoticeOnset   Notice = "affliction_onset"
	NoticeCleared Notice = "affliction_cleared"
)

// Notifier receives the user-facing notices. Delivery is the caller's
// concern.
type Notifier interface {
	Notify(Notice)
}

type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type Option func(*Engine)

// WithLogger sets the sink for diagnostic narration. Narration is only
// written when Config.Verbose is set.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notifier = n
		}
	}
}

type Engine struct {
	cfg      Config
	state    State
	log      *slog.Logger
	notifier Notifier
}

func NewEngine(cfg Config, state State, opts ...Option) *Engine {
	e := &Engine{
		cfg:      cfg,
		state:    state,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		notifier: NotifierFunc(func(Notice) {}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) State() State {
	return e.state
}

func (e *Engine) IsAfflicted() bool {
	return e.state.Afflicted
}

// OnNewDay starts a fresh day. Call it before the first tick of the day.
func (e *Engine) OnNewDay() {
	e.state = State{}
}

// Clear lifts the affliction but keeps the record that it happened today.
func (e *Engine) Clear() {
	e.state.Afflicted = false
	e.notifier.Notify(NoticeCleared)
}

func (e *Engine) CanOnset() bool {
	if e.state.Afflicted {
		e.narrate("actor already afflicted, onset refused")
		return false
	}
	if e.state.AfflictedToday && !e.cfg.AllowMultiplePerDay {
		return false
	}
	return true
}

func (e *Engine) onset() {
	e.state.Afflicted = true
	e.state.AfflictedToday = true
	e.notifier.Notify(NoticeOnset)
}

type TickInput struct {
	Flags   weather.Flags
	Outside time.Duration
	Total   time.Duration
	IsNight bool
	// Roll is a uniform sample in [0,1).
	Roll float64
}

type Report struct {
	Exposure   float64 `json:"exposure"`
	Rolled     bool    `json:"rolled"`
	Qualifying bool    `json:"qualifying"`
	Onset      bool    `json:"onset"`
	Multiplier float64 `json:"multiplier"`
	Causes     []Cause `json:"causes"`
	Drain      int     `json:"drain"`
}

// EvaluateTick runs one tick and returns the stamina delta (never positive).
// The caller applies it.
func (e *Engine) EvaluateTick(in TickInput) int {
	return e.Evaluate(in).Drain
}

// Evaluate runs one tick and explains the result.
//
// The onset check only runs once exposure reaches the threshold and either
// the roll passes or the actor is already afflicted. Drain is computed in the
// same gate, after any onset this tick.
func (e *Engine) Evaluate(in TickInput) Report {
	r := Report{Exposure: exposureFraction(in.Outside, in.Total), Causes: []Cause{}}
	roll := clampUnit(in.Roll)

	e.narrate("tick exposure",
		"outside", in.Outside, "total", in.Total,
		"exposure", r.Exposure, "target", e.cfg.ExposureThreshold)

	if r.Exposure < e.cfg.ExposureThreshold || !(roll >= e.cfg.OnsetThreshold || e.state.Afflicted) {
		return r
	}
	r.Rolled = true

	can := e.CanOnset()
	r.Qualifying = qualifies(in.Flags, in.IsNight, can)
	if r.Qualifying && can {
		e.onset()
		r.Onset = true
		e.narrate("actor became afflicted", "flags", in.Flags.String(), "night", in.IsNight)
	}
	e.narrate("status update", "afflicted", e.state.Afflicted, "qualifying", r.Qualifying)

	if e.state.Afflicted {
		r.Multiplier, r.Causes = drainMultiplier(in.Flags, in.IsNight)
	}
	r.Drain = drainAmount(e.cfg.DrainMagnitude, r.Multiplier)

	if e.state.Afflicted {
		e.narrate("drain conditions",
			"causes", r.Causes, "multiplier", r.Multiplier, "drain", r.Drain)
	}
	return r
}

// qualifies keeps the grouping of the original condition: the can-onset
// term only binds the daytime heatwave branch. Onset is gated on CanOnset
// again by the caller, so the grouping only shows in Report.Qualifying.
func qualifies(f weather.Flags, night, canOnset bool) bool {
	return f.HasAny(weather.Blizzard|weather.Lightning) ||
		(f.Has(weather.Frost) && night) ||
		((f.Has(weather.Heatwave) && !night) && canOnset)
}

func exposureFraction(outside, total time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	return float64(outside) / float64(total)
}

func clampUnit(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v >= 1:
		return math.Nextafter(1, 0)
	default:
		return v
	}
}

func drainAmount(magnitude int, multiplier float64) int {
	d := -int(math.Floor(float64(magnitude) * multiplier))
	if d > 0 {
		return 0
	}
	return d
}

func (e *Engine) narrate(msg string, args ...any) {
	if !e.cfg.Verbose {
		return
	}
	e.log.Info(msg, args...)
}
