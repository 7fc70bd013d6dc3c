package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidClockTime = errors.New("invalid clock time")

// ClockTime is a wall-clock reading inside an in-world day. Hours past 23 are
// legal: the host day runs until 26:00. It encodes as "HH:MM" text.
type ClockTime struct {
	Hour   int
	Minute int
}

func FromMinutes(total int) ClockTime {
	h := floorDiv(total, 60)
	return ClockTime{Hour: h, Minute: total - h*60}
}

func (t ClockTime) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Int encodes the time as HHMM, e.g. 21:30 -> 2130.
func (t ClockTime) Int() int {
	return t.Hour*100 + t.Minute
}

func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t ClockTime) AddMinutes(n int) ClockTime {
	return FromMinutes(t.Minutes() + n)
}

// ClampToTenMinutes rounds down to the containing ten-minute bucket.
func (t ClockTime) ClampToTenMinutes() ClockTime {
	n := FromMinutes(t.Minutes())
	n.Minute -= n.Minute % 10
	return n
}

func (t ClockTime) Before(o ClockTime) bool {
	return t.Minutes() < o.Minutes()
}

func (t ClockTime) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *ClockTime) UnmarshalText(b []byte) error {
	parsed, err := ParseClockTime(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseClockTime accepts "HH:MM" or the HHMM integer form.
func ParseClockTime(raw string) (ClockTime, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ClockTime{}, ErrInvalidClockTime
	}
	var h, m int
	if hh, mm, ok := strings.Cut(s, ":"); ok {
		var err error
		if h, err = strconv.Atoi(hh); err != nil {
			return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClockTime, raw)
		}
		if m, err = strconv.Atoi(mm); err != nil {
			return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClockTime, raw)
		}
	} else {
		n, err := strconv.Atoi(s)
		if err != nil {
			return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClockTime, raw)
		}
		h, m = n/100, n%100
	}
	if h < 0 || m < 0 || m > 59 {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClockTime, raw)
	}
	return ClockTime{Hour: h, Minute: m}, nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
