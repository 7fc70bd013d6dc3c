// Package weather holds the environmental condition set a tick is evaluated
// against. Several conditions can be active at once.
package weather

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

var ErrUnknownFlag = errors.New("unknown weather flag")

type Flags uint16

const (
	Sunny Flags = 1 << iota
	Rain
	Debris
	Lightning
	Fog
	Blizzard
	Frost
	Heatwave
	Snow
	Wind

	None Flags = 0
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{Sunny, "sunny"},
	{Rain, "rain"},
	{Debris, "debris"},
	{Lightning, "lightning"},
	{Fog, "fog"},
	{Blizzard, "blizzard"},
	{Frost, "frost"},
	{Heatwave, "heatwave"},
	{Snow, "snow"},
	{Wind, "wind"},
}

// Has reports whether every bit of f is set. Alias of HasAll kept for the
// single-flag reading at call sites.
func (s Flags) Has(f Flags) bool {
	return s.HasAll(f)
}

// HasAny reports whether s intersects f.
func (s Flags) HasAny(f Flags) bool {
	return s&f != 0
}

// HasAll reports whether s is a superset of f. The empty set is contained in
// everything.
func (s Flags) HasAll(f Flags) bool {
	return s&f == f
}

func (s Flags) With(f Flags) Flags {
	return s | f
}

func (s Flags) Without(f Flags) Flags {
	return s &^ f
}

func (s Flags) Len() int {
	return bits.OnesCount16(uint16(s))
}

func (s Flags) Names() []string {
	out := make([]string, 0, s.Len())
	for _, fn := range flagNames {
		if s.HasAll(fn.flag) {
			out = append(out, fn.name)
		}
	}
	return out
}

func (s Flags) String() string {
	if s == None {
		return "none"
	}
	return strings.Join(s.Names(), "|")
}

func ParseFlag(name string) (Flags, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, fn := range flagNames {
		if fn.name == key {
			return fn.flag, nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownFlag, name)
}

func ParseFlags(names []string) (Flags, error) {
	var out Flags
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		f, err := ParseFlag(n)
		if err != nil {
			return None, err
		}
		out |= f
	}
	return out, nil
}

func (s Flags) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

func (s *Flags) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	f, err := ParseFlags(names)
	if err != nil {
		return err
	}
	*s = f
	return nil
}
