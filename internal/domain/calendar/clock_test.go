package calendar

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestClockDayCycle(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewClock(ClockConfig{StartAt: start, TickDuration: 7 * time.Second})

	date, tm := clock.At(start)
	if date.Day != 1 || tm != (ClockTime{Hour: 6}) {
		t.Fatalf("expected day 1 06:00 at start, got day %d %s", date.Day, tm)
	}

	date, tm = clock.At(start.Add(15 * time.Second))
	if date.Day != 1 || tm.String() != "06:20" {
		t.Fatalf("expected day 1 06:20 at +15s, got day %d %s", date.Day, tm)
	}

	lastTick := start.Add(time.Duration(TicksPerDay-1) * 7 * time.Second)
	date, tm = clock.At(lastTick)
	if date.Day != 1 || tm.Int() != 2550 {
		t.Fatalf("expected day 1 25:50 on last tick, got day %d %s", date.Day, tm)
	}

	date, tm = clock.At(lastTick.Add(7 * time.Second))
	if date.Day != 2 || tm.Int() != 600 {
		t.Fatalf("expected rollover to day 2 06:00, got day %d %s", date.Day, tm)
	}

	if got := clock.NextTickIn(start.Add(3 * time.Second)); got != 4*time.Second {
		t.Fatalf("NextTickIn = %s, want 4s", got)
	}
}

func TestClockBeforeStartPinsToFirstTick(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewClock(ClockConfig{StartAt: start})
	date, tm := clock.At(start.Add(-time.Hour))
	if date.Day != 1 || tm.Int() != 600 {
		t.Fatalf("expected day 1 06:00, got day %d %s", date.Day, tm)
	}
	if clock.TickDuration() != 7*time.Second {
		t.Fatalf("default tick = %s, want 7s", clock.TickDuration())
	}
}

func TestDateSeasonsAndYear(t *testing.T) {
	cases := []struct {
		day         int
		season      Season
		dayOfSeason int
		dayOfYear   int
		year        int
	}{
		{1, SeasonSpring, 1, 1, 1},
		{28, SeasonSpring, 28, 28, 1},
		{29, SeasonSummer, 1, 29, 1},
		{85, SeasonWinter, 1, 85, 1},
		{112, SeasonWinter, 28, 0, 1},
		{113, SeasonSpring, 1, 1, 2},
	}
	for _, tc := range cases {
		d := Date{Day: tc.day}
		if d.Season() != tc.season || d.DayOfSeason() != tc.dayOfSeason || d.DayOfYear() != tc.dayOfYear || d.Year() != tc.year {
			t.Fatalf("day %d = (%s,%d,%d,%d), want (%s,%d,%d,%d)", tc.day,
				d.Season(), d.DayOfSeason(), d.DayOfYear(), d.Year(),
				tc.season, tc.dayOfSeason, tc.dayOfYear, tc.year)
		}
	}
}

func TestClockTimeArithmetic(t *testing.T) {
	tm := ClockTime{Hour: 18, Minute: 7}
	if got := tm.ClampToTenMinutes(); got != (ClockTime{Hour: 18}) {
		t.Fatalf("clamp = %s, want 18:00", got)
	}
	if got := tm.AddMinutes(-30); got.String() != "17:37" {
		t.Fatalf("AddMinutes(-30) = %s, want 17:37", got)
	}
	if got := FromMinutes(-5); got != (ClockTime{Hour: -1, Minute: 55}) {
		t.Fatalf("FromMinutes(-5) = %+v", got)
	}
	if !(ClockTime{Hour: 6}).Before(ClockTime{Hour: 6, Minute: 10}) {
		t.Fatalf("expected 06:00 before 06:10")
	}
}

func TestParseClockTime(t *testing.T) {
	for raw, want := range map[string]ClockTime{
		"21:30": {Hour: 21, Minute: 30},
		"2130":  {Hour: 21, Minute: 30},
		"600":   {Hour: 6},
		"25:50": {Hour: 25, Minute: 50},
	} {
		got, err := ParseClockTime(raw)
		if err != nil {
			t.Fatalf("ParseClockTime(%q) error: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseClockTime(%q) = %s, want %s", raw, got, want)
		}
	}
	for _, raw := range []string{"", "ab", "12:75", "-1:00"} {
		if _, err := ParseClockTime(raw); !errors.Is(err, ErrInvalidClockTime) {
			t.Fatalf("ParseClockTime(%q) expected ErrInvalidClockTime, got %v", raw, err)
		}
	}
}

func TestClockTime_TextEncoding(t *testing.T) {
	b, err := json.Marshal(map[string]ClockTime{"sunset": {Hour: 18, Minute: 50}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"sunset":"18:50"}` {
		t.Fatalf("unexpected json %s", b)
	}
	var back struct {
		At ClockTime `json:"at"`
	}
	if err := json.Unmarshal([]byte(`{"at":"2540"}`), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.At != (ClockTime{Hour: 25, Minute: 40}) {
		t.Fatalf("unmarshal = %s, want 25:40", back.At)
	}
}
