// Package noise derives weather from seeded simplex noise over in-world
// time, so a given seed always replays the same conditions.
package noise

import (
	"context"
	"sync"

	"ferngill/internal/domain/calendar"
	"ferngill/internal/domain/weather"

	opensimplex "github.com/ojrac/opensimplex-go"
)

type Config struct {
	Seed int64 `yaml:"seed"`
	// Frequency is the number of noise cycles per in-world day.
	Frequency float64 `yaml:"frequency"`
	Octaves   int     `yaml:"octaves"`
}

func DefaultConfig() Config {
	return Config{Seed: 1, Frequency: 0.35, Octaves: 3}
}

// Seasonal temperature baseline in [0,1].
var seasonWarmth = map[calendar.Season]float64{
	calendar.SeasonSpring: 0.5,
	calendar.SeasonSummer: 0.78,
	calendar.SeasonFall:   0.42,
	calendar.SeasonWinter: 0.12,
}

type Provider struct {
	cfg   Config
	temp  opensimplex.Noise
	rain  opensimplex.Noise
	storm opensimplex.Noise
	mist  opensimplex.Noise
	gust  opensimplex.Noise

	mu    sync.Mutex
	cache map[sample]weather.Flags
}

type sample struct {
	day     int
	minutes int
}

func NewProvider(cfg Config) *Provider {
	def := DefaultConfig()
	if cfg.Frequency <= 0 {
		cfg.Frequency = def.Frequency
	}
	if cfg.Octaves <= 0 {
		cfg.Octaves = def.Octaves
	}
	return &Provider{
		cfg:   cfg,
		temp:  opensimplex.NewNormalized(cfg.Seed),
		rain:  opensimplex.NewNormalized(cfg.Seed + 1),
		storm: opensimplex.NewNormalized(cfg.Seed + 2),
		mist:  opensimplex.NewNormalized(cfg.Seed + 3),
		gust:  opensimplex.NewNormalized(cfg.Seed + 4),
		cache: map[sample]weather.Flags{},
	}
}

// Conditions are the raw channels the flags are derived from.
type Conditions struct {
	Warmth float64 `json:"warmth"`
	Rain   float64 `json:"rain"`
	Storm  float64 `json:"storm"`
	Mist   float64 `json:"mist"`
	Wind   float64 `json:"wind"`
}

func (p *Provider) FlagsAt(_ context.Context, date calendar.Date, at calendar.ClockTime) (weather.Flags, error) {
	key := sample{day: date.Day, minutes: at.ClampToTenMinutes().Minutes()}
	p.mu.Lock()
	defer p.mu.Unlock()
	if f, ok := p.cache[key]; ok {
		return f, nil
	}
	f := Derive(p.ConditionsAt(date, at), date.Season(), at)
	if len(p.cache) > 4*calendar.TicksPerDay {
		p.cache = map[sample]weather.Flags{}
	}
	p.cache[key] = f
	return f, nil
}

// ConditionsAt samples every channel. Weather drifts slowly within a day
// and changes over days.
func (p *Provider) ConditionsAt(date calendar.Date, at calendar.ClockTime) Conditions {
	t := float64(date.Day) + float64(at.Minutes())/(24*60)
	x := t * p.cfg.Frequency
	warmth := seasonWarmth[date.Season()] + 0.5*(octaveNoise(p.temp, x, 0, p.cfg.Octaves)-0.5)
	if night(at) {
		warmth -= 0.12
	}
	return Conditions{
		Warmth: clamp01(warmth),
		Rain:   octaveNoise(p.rain, x, 10, p.cfg.Octaves),
		Storm:  octaveNoise(p.storm, x*2, 20, p.cfg.Octaves),
		Mist:   octaveNoise(p.mist, x*3, 30, p.cfg.Octaves),
		Wind:   octaveNoise(p.gust, x*2, 40, p.cfg.Octaves),
	}
}

// Derive maps channel readings onto the flag set.
func Derive(c Conditions, season calendar.Season, at calendar.ClockTime) weather.Flags {
	var f weather.Flags
	wet := c.Rain > 0.62
	switch {
	case wet && c.Warmth < 0.28 && c.Rain > 0.78 && c.Wind > 0.6:
		f = f.With(weather.Blizzard).With(weather.Snow)
	case wet && c.Warmth < 0.28:
		f = f.With(weather.Snow)
	case wet:
		f = f.With(weather.Rain)
	case c.Rain < 0.45 && c.Warmth >= 0.3:
		f = f.With(weather.Sunny)
	}
	if wet && c.Storm > 0.72 {
		f = f.With(weather.Lightning)
	}
	if c.Warmth < 0.18 {
		f = f.With(weather.Frost)
	}
	if season == calendar.SeasonSummer && !wet && c.Warmth > 0.86 && !night(at) {
		f = f.With(weather.Heatwave)
	}
	if c.Mist > 0.7 && c.Wind < 0.45 {
		f = f.With(weather.Fog)
	}
	if c.Wind > 0.7 {
		f = f.With(weather.Wind)
		if season == calendar.SeasonFall || season == calendar.SeasonSpring {
			f = f.With(weather.Debris)
		}
	}
	return f
}

func night(at calendar.ClockTime) bool {
	m := at.Minutes()
	return m < 6*60 || m >= 20*60
}

func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	frequency := 1.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= 0.5
		frequency *= 2
	}
	return total / maxVal
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
