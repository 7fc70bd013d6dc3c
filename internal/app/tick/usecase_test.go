package tick

import (
	"context"
	"errors"
	"testing"
	"time"

	"ferngill/internal/adapter/repo/memory"
	"ferngill/internal/app/ports"
	"ferngill/internal/domain/affliction"
	"ferngill/internal/domain/calendar"
	"ferngill/internal/domain/survival"
	"ferngill/internal/domain/weather"
)

func TestUseCase_NightFrostAfflictsAndDrains(t *testing.T) {
	store, uc := newTickUseCase(weather.Frost, true, 0.95)
	seedActor(store, "actor-1", 3)

	resp, err := uc.Execute(context.Background(), Request{ActorID: "actor-1", At: at(3, 22, 0)})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !resp.Report.Onset || !resp.State.Affliction.Afflicted {
		t.Fatalf("expected onset, report=%+v", resp.Report)
	}
	if resp.Report.Drain != -2 || resp.StaminaApplied != -2 || resp.State.Stamina != 268 {
		t.Fatalf("expected -2 drain, got report=%+v state=%+v", resp.Report, resp.State)
	}
	if resp.State.Version != 2 {
		t.Fatalf("expected version 2, got %d", resp.State.Version)
	}
	types := eventTypes(resp.Events)
	if len(types) != 2 || types[0] != survival.EventAfflictionOnset || types[1] != survival.EventStaminaDrained {
		t.Fatalf("unexpected events %v", types)
	}

	stored, _ := memory.NewEventRepo(store).ListByActorID(context.Background(), "actor-1", 10)
	if len(stored) != 2 || stored[0].Type != survival.EventStaminaDrained {
		t.Fatalf("expected persisted events newest first, got %v", eventTypes(stored))
	}
}

func TestUseCase_NewDayResetsAfflictionAndWindow(t *testing.T) {
	store, uc := newTickUseCase(weather.None, false, 0.1)
	seed, _ := survival.NewActorState("actor-1", 0)
	seed.Day = 4
	seed.SecondsOutside = 6000
	seed.SecondsTotal = 6000
	seed.Affliction = affliction.State{Afflicted: true, AfflictedToday: true}
	store.SeedState(seed)

	resp, err := uc.Execute(context.Background(), Request{ActorID: "actor-1", At: at(5, 6, 0)})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if resp.State.Day != 5 || resp.State.Affliction != (affliction.State{}) {
		t.Fatalf("expected fresh day 5, got %+v", resp.State)
	}
	if resp.State.SecondsTotal != int64(survival.TickSeconds) {
		t.Fatalf("expected one tick in the window, got %d", resp.State.SecondsTotal)
	}
	if types := eventTypes(resp.Events); len(types) != 1 || types[0] != survival.EventDayStarted {
		t.Fatalf("expected day_started only, got %v", types)
	}
}

func TestUseCase_IndoorsLowersExposure(t *testing.T) {
	store, uc := newTickUseCase(weather.Blizzard, false, 0.99)
	seed, _ := survival.NewActorState("actor-1", 0)
	seed.Day = 2
	seed.Outdoors = false
	store.SeedState(seed)

	resp, err := uc.Execute(context.Background(), Request{ActorID: "actor-1", At: at(2, 12, 0)})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if resp.Report.Exposure != 0 || resp.Report.Onset {
		t.Fatalf("indoor actor must not be exposed, report=%+v", resp.Report)
	}
}

func TestUseCase_FlagOverrideSkipsProvider(t *testing.T) {
	store, uc := newTickUseCase(weather.None, false, 0.99)
	uc.Weather = failingWeather{}
	seedActor(store, "actor-1", 1)

	flags := weather.Lightning
	resp, err := uc.Execute(context.Background(), Request{ActorID: "actor-1", At: at(1, 12, 0), Flags: &flags})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if resp.Flags != weather.Lightning || !resp.Report.Onset {
		t.Fatalf("expected lightning onset, got flags=%s report=%+v", resp.Flags, resp.Report)
	}
}

func TestUseCase_UsesClockWhenNoMomentGiven(t *testing.T) {
	store, uc := newTickUseCase(weather.None, false, 0)
	seedActor(store, "actor-1", 0)
	start := time.Unix(1_700_000_000, 0)
	uc.Clock = calendar.NewClock(calendar.ClockConfig{StartAt: start, TickDuration: time.Second})
	uc.Now = func() time.Time { return start.Add(calendar.TicksPerDay*time.Second + 6*time.Second) }

	resp, err := uc.Execute(context.Background(), Request{ActorID: "actor-1"})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if resp.Date.Day != 2 || resp.Time.String() != "07:00" {
		t.Fatalf("expected day 2 07:00, got %d %s", resp.Date.Day, resp.Time)
	}
}

func TestUseCase_RejectsStaleAndInvalid(t *testing.T) {
	store, uc := newTickUseCase(weather.None, false, 0)
	seedActor(store, "actor-1", 5)

	if _, err := uc.Execute(context.Background(), Request{ActorID: "actor-1", At: at(4, 12, 0)}); !errors.Is(err, ErrStaleTick) {
		t.Fatalf("expected ErrStaleTick, got %v", err)
	}
	if _, err := uc.Execute(context.Background(), Request{ActorID: " "}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if _, err := uc.Execute(context.Background(), Request{ActorID: "nobody", At: at(5, 12, 0)}); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	metrics := uc.Metrics.(*countingMetrics)
	if metrics.failures != 2 {
		t.Fatalf("expected 2 recorded failures, got %d", metrics.failures)
	}
}

func TestNewDayUseCase_DefaultsToNextDay(t *testing.T) {
	store := memory.NewStore()
	seed, _ := survival.NewActorState("actor-1", 0)
	seed.Day = 7
	seed.Affliction = affliction.State{AfflictedToday: true}
	store.SeedState(seed)

	uc := NewDayUseCase{
		TxManager: memory.NewTxManager(store),
		StateRepo: memory.NewActorStateRepo(store),
		EventRepo: memory.NewEventRepo(store),
		Drain:     affliction.DefaultConfig(),
		Now:       func() time.Time { return time.Unix(10, 0) },
	}
	resp, err := uc.Execute(context.Background(), NewDayRequest{ActorID: "actor-1"})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if resp.State.Day != 8 || resp.State.Affliction.AfflictedToday {
		t.Fatalf("expected reset day 8, got %+v", resp.State)
	}
	if forced, _ := resp.Events[0].Payload["forced"].(bool); !forced {
		t.Fatalf("expected forced day_started event, got %+v", resp.Events[0])
	}
	if _, err := uc.Execute(context.Background(), NewDayRequest{ActorID: "actor-1", Day: 3}); !errors.Is(err, ErrStaleTick) {
		t.Fatalf("expected ErrStaleTick for earlier day, got %v", err)
	}
}

func TestNewDayUseCase_SameDayKeepsAffliction(t *testing.T) {
	store := memory.NewStore()
	seed, _ := survival.NewActorState("actor-1", 0)
	seed.Day = 5
	seed.Affliction = affliction.State{AfflictedToday: true}
	store.SeedState(seed)

	repo := memory.NewActorStateRepo(store)
	uc := NewDayUseCase{
		TxManager: memory.NewTxManager(store),
		StateRepo: repo,
		EventRepo: memory.NewEventRepo(store),
		Drain:     affliction.DefaultConfig(),
		Now:       func() time.Time { return time.Unix(10, 0) },
	}
	if _, err := uc.Execute(context.Background(), NewDayRequest{ActorID: "actor-1", Day: 5}); !errors.Is(err, ErrStaleTick) {
		t.Fatalf("expected ErrStaleTick for the current day, got %v", err)
	}
	got, err := repo.GetByActorID(context.Background(), "actor-1")
	if err != nil {
		t.Fatalf("GetByActorID error: %v", err)
	}
	if got.Day != 5 || got.Affliction != seed.Affliction {
		t.Fatalf("state changed: got=%+v want day 5 affliction %+v", got, seed.Affliction)
	}
}

func newTickUseCase(flags weather.Flags, night bool, roll float64) (*memory.Store, UseCase) {
	store := memory.NewStore()
	return store, UseCase{
		TxManager: memory.NewTxManager(store),
		StateRepo: memory.NewActorStateRepo(store),
		EventRepo: memory.NewEventRepo(store),
		Weather:   fixedWeather{flags: flags},
		Night:     fixedNight(night),
		Random:    fixedRoll(roll),
		Metrics:   &countingMetrics{},
		Clock:     calendar.DefaultClock(),
		Drain:     affliction.DefaultConfig(),
		Now:       func() time.Time { return time.Unix(1_700_000_000, 0) },
	}
}

func seedActor(store *memory.Store, id string, day int) {
	st, _ := survival.NewActorState(id, 0)
	st.Day = day
	store.SeedState(st)
}

func at(day, hour, minute int) *Moment {
	return &Moment{Date: calendar.Date{Day: day}, Time: calendar.ClockTime{Hour: hour, Minute: minute}}
}

func eventTypes(events []survival.DomainEvent) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Type)
	}
	return out
}

type fixedWeather struct{ flags weather.Flags }

func (w fixedWeather) FlagsAt(_ context.Context, _ calendar.Date, _ calendar.ClockTime) (weather.Flags, error) {
	return w.flags, nil
}

type failingWeather struct{}

func (failingWeather) FlagsAt(_ context.Context, _ calendar.Date, _ calendar.ClockTime) (weather.Flags, error) {
	return weather.None, errors.New("weather offline")
}

type fixedNight bool

func (n fixedNight) IsNight(_ calendar.Date, _ calendar.ClockTime) bool { return bool(n) }

type fixedRoll float64

func (r fixedRoll) Float64() float64 { return float64(r) }

type countingMetrics struct {
	ticks, onsets, remedies, conflicts, failures, drained int
}

func (m *countingMetrics) RecordTick(drain int, onset bool) {
	m.ticks++
	m.drained -= drain
	if onset {
		m.onsets++
	}
}
func (m *countingMetrics) RecordRemedy()   { m.remedies++ }
func (m *countingMetrics) RecordConflict() { m.conflicts++ }
func (m *countingMetrics) RecordFailure()  { m.failures++ }
