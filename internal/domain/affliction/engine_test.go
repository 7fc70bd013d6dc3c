package affliction

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"ferngill/internal/domain/weather"
)

func fullExposure(flags weather.Flags, night bool, roll float64) TickInput {
	return TickInput{
		Flags:   flags,
		Outside: 600 * time.Second,
		Total:   600 * time.Second,
		IsNight: night,
		Roll:    roll,
	}
}

type noticeLog []Notice

func (n *noticeLog) Notify(x Notice) { *n = append(*n, x) }

func TestEngine_NightFrostOnsetDrainsSameTick(t *testing.T) {
	cfg := Config{ExposureThreshold: 0.5, OnsetThreshold: 0.9, DrainMagnitude: 4}
	var notices noticeLog
	e := NewEngine(cfg, State{}, WithNotifier(&notices))

	r := e.Evaluate(fullExposure(weather.Frost, true, 0.95))
	if !r.Onset || !e.IsAfflicted() {
		t.Fatalf("expected onset, report=%+v", r)
	}
	if r.Multiplier != 1.25 {
		t.Fatalf("multiplier = %v, want 1.25", r.Multiplier)
	}
	if r.Drain != -5 {
		t.Fatalf("drain = %d, want -5", r.Drain)
	}
	if len(r.Causes) != 1 || r.Causes[0] != CauseNightFrost {
		t.Fatalf("causes = %v, want [night_frost]", r.Causes)
	}
	if len(notices) != 1 || notices[0] != NoticeOnset {
		t.Fatalf("notices = %v, want [onset]", notices)
	}
}

func TestEngine_MultiplierStacking(t *testing.T) {
	cases := []struct {
		name  string
		flags weather.Flags
		night bool
		mult  float64
	}{
		{"blizzard and frost at night", weather.Blizzard | weather.Frost, true, 3.0},
		{"night thundersnow", weather.Lightning | weather.Snow, true, 1.5},
		{"day thundersnow", weather.Lightning | weather.Snow, false, 1.0},
		{"night fog", weather.Fog, true, 0.75},
		{"day fog", weather.Fog, false, 0.5},
		{"day heatwave", weather.Heatwave, false, 1.25},
		{"night heatwave", weather.Heatwave, true, 0},
		{"day frost", weather.Frost, false, 0},
		{"everything at night", weather.Lightning | weather.Fog | weather.Blizzard | weather.Frost | weather.Snow | weather.Heatwave, true, 1 + 0.5 + 0.25 + 1.25 + 1.25 + 0.5 + 0.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEngine(Config{ExposureThreshold: 0.5, OnsetThreshold: 0.9, DrainMagnitude: 4}, State{Afflicted: true, AfflictedToday: true})
			r := e.Evaluate(fullExposure(tc.flags, tc.night, 0))
			if math.Abs(r.Multiplier-tc.mult) > 1e-9 {
				t.Fatalf("multiplier = %v, want %v (causes %v)", r.Multiplier, tc.mult, r.Causes)
			}
			if want := -int(math.Floor(4 * tc.mult)); r.Drain != want {
				t.Fatalf("drain = %d, want %d", r.Drain, want)
			}
		})
	}
}

func TestEngine_BlizzardFrostNightDrainsTwelve(t *testing.T) {
	e := NewEngine(Config{ExposureThreshold: 0.5, OnsetThreshold: 0.9, DrainMagnitude: 4}, State{Afflicted: true, AfflictedToday: true})
	if got := e.EvaluateTick(fullExposure(weather.Blizzard|weather.Frost, true, 0.1)); got != -12 {
		t.Fatalf("drain = %d, want -12", got)
	}
}

func TestEngine_FractionalDrainFloors(t *testing.T) {
	e := NewEngine(Config{ExposureThreshold: 0, OnsetThreshold: 0, DrainMagnitude: 3}, State{Afflicted: true})
	// 3 * 0.75 = 2.25 -> -2
	if got := e.EvaluateTick(fullExposure(weather.Fog, true, 0)); got != -2 {
		t.Fatalf("drain = %d, want -2", got)
	}
}

func TestEngine_NoDrainWhenHealthy(t *testing.T) {
	e := NewEngine(Config{ExposureThreshold: 0.5, OnsetThreshold: 0.5, DrainMagnitude: 4}, State{})
	r := e.Evaluate(fullExposure(weather.Fog, true, 0.99))
	if r.Onset || r.Drain != 0 || r.Multiplier != 0 {
		t.Fatalf("fog alone must not afflict or drain, report=%+v", r)
	}
	if r.Qualifying {
		t.Fatalf("fog is not a qualifying condition")
	}
}

func TestEngine_RollGatesNewOnsetOnly(t *testing.T) {
	cfg := Config{ExposureThreshold: 0.5, OnsetThreshold: 0.9, DrainMagnitude: 2}

	healthy := NewEngine(cfg, State{})
	r := healthy.Evaluate(fullExposure(weather.Blizzard, false, 0.2))
	if r.Rolled || r.Onset || healthy.IsAfflicted() {
		t.Fatalf("low roll must not trigger onset, report=%+v", r)
	}

	sick := NewEngine(cfg, State{Afflicted: true, AfflictedToday: true})
	r = sick.Evaluate(fullExposure(weather.Blizzard, false, 0.2))
	if !r.Rolled || r.Drain != -2 {
		t.Fatalf("afflicted actor must bypass the roll, report=%+v", r)
	}
}

func TestEngine_ExposureBelowThreshold(t *testing.T) {
	e := NewEngine(Config{ExposureThreshold: 0.5, OnsetThreshold: 0, DrainMagnitude: 4}, State{Afflicted: true})
	r := e.Evaluate(TickInput{Flags: weather.Blizzard, Outside: 100 * time.Second, Total: 600 * time.Second, Roll: 0.99})
	if r.Rolled || r.Drain != 0 {
		t.Fatalf("expected no evaluation under threshold, report=%+v", r)
	}
	if math.Abs(r.Exposure-1.0/6) > 1e-9 {
		t.Fatalf("exposure = %v", r.Exposure)
	}
}

func TestEngine_ZeroTotalMeansNoExposure(t *testing.T) {
	e := NewEngine(Config{ExposureThreshold: 0.1, OnsetThreshold: 0, DrainMagnitude: 4}, State{})
	r := e.Evaluate(TickInput{Flags: weather.Blizzard, Outside: time.Minute, Total: 0, Roll: 0.5})
	if r.Exposure != 0 || r.Onset {
		t.Fatalf("expected zero exposure and no onset, report=%+v", r)
	}
}

func TestEngine_OutOfRangeRollIsAbsorbed(t *testing.T) {
	cfg := Config{ExposureThreshold: 0, OnsetThreshold: 0.5, DrainMagnitude: 1}
	for _, roll := range []float64{math.NaN(), -3} {
		e := NewEngine(cfg, State{})
		if r := e.Evaluate(fullExposure(weather.Blizzard, false, roll)); r.Onset {
			t.Fatalf("roll %v treated as passing", roll)
		}
	}
	e := NewEngine(cfg, State{})
	if r := e.Evaluate(fullExposure(weather.Blizzard, false, 7)); !r.Onset {
		t.Fatalf("roll above range should clamp below 1 and pass")
	}
}

func TestEngine_HeatwaveOnlyByDay(t *testing.T) {
	cfg := Config{ExposureThreshold: 0, OnsetThreshold: 0, DrainMagnitude: 4}

	day := NewEngine(cfg, State{})
	if r := day.Evaluate(fullExposure(weather.Heatwave, false, 0.5)); !r.Onset || r.Drain != -5 {
		t.Fatalf("expected day heatwave onset with drain -5, report=%+v", r)
	}
	night := NewEngine(cfg, State{})
	if r := night.Evaluate(fullExposure(weather.Heatwave, true, 0.5)); r.Onset {
		t.Fatalf("night heatwave must not afflict")
	}
}

func TestEngine_CanOnset(t *testing.T) {
	cases := []struct {
		name     string
		state    State
		multiple bool
		want     bool
	}{
		{"healthy fresh day", State{}, false, true},
		{"already afflicted", State{Afflicted: true, AfflictedToday: true}, true, false},
		{"cleared earlier today", State{AfflictedToday: true}, false, false},
		{"cleared earlier today, repeats allowed", State{AfflictedToday: true}, true, true},
	}
	for _, tc := range cases {
		e := NewEngine(Config{AllowMultiplePerDay: tc.multiple}, tc.state)
		if got := e.CanOnset(); got != tc.want {
			t.Fatalf("%s: CanOnset = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestEngine_NoReonsetAfterClearSameDay(t *testing.T) {
	cfg := Config{ExposureThreshold: 0, OnsetThreshold: 0, DrainMagnitude: 4}
	e := NewEngine(cfg, State{})
	e.Evaluate(fullExposure(weather.Lightning, false, 0.5))
	e.Clear()

	for _, flags := range []weather.Flags{weather.Lightning, weather.Blizzard, weather.Frost, weather.Heatwave} {
		r := e.Evaluate(fullExposure(flags, true, 0.99))
		if r.Onset || e.IsAfflicted() || r.Drain != 0 {
			t.Fatalf("flags %s re-afflicted after clear, report=%+v", flags, r)
		}
	}
}

func TestEngine_ClearIsIdempotent(t *testing.T) {
	var notices noticeLog
	e := NewEngine(DefaultConfig(), State{Afflicted: true, AfflictedToday: true}, WithNotifier(&notices))
	e.Clear()
	once := e.State()
	e.Clear()
	if e.State() != once {
		t.Fatalf("second clear changed state: %+v -> %+v", once, e.State())
	}
	if once != (State{AfflictedToday: true}) {
		t.Fatalf("clear must keep the day's record, got %+v", once)
	}
	if len(notices) != 2 || notices[0] != NoticeCleared {
		t.Fatalf("notices = %v, want two cleared notices", notices)
	}
}

func TestEngine_OnNewDayResets(t *testing.T) {
	for _, st := range []State{{}, {Afflicted: true, AfflictedToday: true}, {AfflictedToday: true}} {
		e := NewEngine(DefaultConfig(), st)
		e.OnNewDay()
		if e.IsAfflicted() {
			t.Fatalf("afflicted after new day from %+v", st)
		}
		if !e.CanOnset() {
			t.Fatalf("CanOnset false after new day from %+v", st)
		}
		e.OnNewDay()
		if e.State() != (State{}) {
			t.Fatalf("second new day changed state: %+v", e.State())
		}
	}
}

func TestEngine_VerboseNarratesToInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	cfg := Config{ExposureThreshold: 0, OnsetThreshold: 0, DrainMagnitude: 2, Verbose: true}
	NewEngine(cfg, State{}, WithLogger(logger)).Evaluate(fullExposure(weather.Blizzard, true, 0.5))
	if !strings.Contains(buf.String(), "actor became afflicted") || !strings.Contains(buf.String(), "night_blizzard") {
		t.Fatalf("expected narration, got %q", buf.String())
	}

	buf.Reset()
	cfg.Verbose = false
	NewEngine(cfg, State{}, WithLogger(logger)).Evaluate(fullExposure(weather.Blizzard, true, 0.5))
	if buf.Len() != 0 {
		t.Fatalf("expected silence when not verbose, got %q", buf.String())
	}
}

func TestEngine_VerboseRefusalLoggedOncePerTick(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	cfg := Config{ExposureThreshold: 0, OnsetThreshold: 0, DrainMagnitude: 2, Verbose: true}
	e := NewEngine(cfg, State{Afflicted: true, AfflictedToday: true}, WithLogger(logger))
	e.Evaluate(fullExposure(weather.Frost, true, 0.5))

	if got := strings.Count(buf.String(), "onset refused"); got != 1 {
		t.Fatalf("refusal lines = %d, want 1; log=%q", got, buf.String())
	}
}
