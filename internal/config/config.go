// Package config loads server settings from an optional YAML file, then
// applies FERNGILL_* environment overrides on top.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"ferngill/internal/adapter/weather/noise"
	"ferngill/internal/domain/affliction"
	"ferngill/internal/domain/calendar"
	"ferngill/internal/domain/solar"
	"ferngill/internal/domain/survival"
	"ferngill/internal/domain/weather"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"

	WeatherNoise  = "noise"
	WeatherStatic = "static"
)

type Config struct {
	Server    Server            `yaml:"server"`
	Storage   Storage           `yaml:"storage"`
	Clock     Clock             `yaml:"clock"`
	Actors    Actors            `yaml:"actors"`
	Drain     affliction.Config `yaml:"drain"`
	Solar     solar.Config      `yaml:"solar"`
	Weather   Weather           `yaml:"weather"`
	Random    Random            `yaml:"random"`
	Scheduler Scheduler         `yaml:"scheduler"`
	Log       Log               `yaml:"log"`
}

type Server struct {
	Addr string `yaml:"addr"`
}

type Storage struct {
	Driver     string `yaml:"driver"`
	DSN        string `yaml:"dsn"`
	SQLitePath string `yaml:"sqlite_path"`
	// MigrationsDir overrides the embedded Postgres migrations.
	MigrationsDir string `yaml:"migrations_dir"`
}

type Clock struct {
	StartUnix  int64 `yaml:"start_unix"`
	TickMillis int   `yaml:"tick_millis"`
}

type Actors struct {
	MaxStamina int `yaml:"max_stamina"`
}

type Weather struct {
	Mode        string       `yaml:"mode"`
	Noise       noise.Config `yaml:"noise"`
	StaticFlags []string     `yaml:"static_flags"`
}

type Random struct {
	Seed uint64 `yaml:"seed"`
}

type Scheduler struct {
	Enabled bool `yaml:"enabled"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() Config {
	return Config{
		Server:    Server{Addr: ":8080"},
		Storage:   Storage{Driver: StorageMemory, SQLitePath: "ferngill.db"},
		Clock:     Clock{TickMillis: 7000},
		Actors:    Actors{MaxStamina: survival.DefaultMaxStamina},
		Drain:     affliction.DefaultConfig(),
		Solar:     solar.DefaultConfig(),
		Weather:   Weather{Mode: WeatherNoise, Noise: noise.DefaultConfig()},
		Scheduler: Scheduler{Enabled: true},
		Log:       Log{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults (an empty path skips the file), then
// applies the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overlays FERNGILL_* variables. A malformed number is an error
// rather than silently ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	env := envReader{lookup: lookup}
	env.str("FERNGILL_ADDR", &c.Server.Addr)
	env.str("FERNGILL_STORAGE", &c.Storage.Driver)
	if env.str("FERNGILL_DB_DSN", &c.Storage.DSN) {
		if _, set := lookup("FERNGILL_STORAGE"); !set {
			c.Storage.Driver = StoragePostgres
		}
	}
	env.str("FERNGILL_SQLITE_PATH", &c.Storage.SQLitePath)
	env.str("FERNGILL_MIGRATIONS_DIR", &c.Storage.MigrationsDir)
	env.int64("FERNGILL_CLOCK_START_UNIX", &c.Clock.StartUnix)
	env.int("FERNGILL_TICK_MILLIS", &c.Clock.TickMillis)
	env.int("FERNGILL_MAX_STAMINA", &c.Actors.MaxStamina)
	env.float("FERNGILL_LATITUDE", &c.Solar.Latitude)
	env.float("FERNGILL_EXPOSURE_THRESHOLD", &c.Drain.ExposureThreshold)
	env.float("FERNGILL_ONSET_THRESHOLD", &c.Drain.OnsetThreshold)
	env.int("FERNGILL_DRAIN_MAGNITUDE", &c.Drain.DrainMagnitude)
	env.bool("FERNGILL_VERBOSE_DRAIN", &c.Drain.Verbose)
	env.str("FERNGILL_WEATHER", &c.Weather.Mode)
	env.int64("FERNGILL_WEATHER_SEED", &c.Weather.Noise.Seed)
	env.uint64("FERNGILL_RANDOM_SEED", &c.Random.Seed)
	env.bool("FERNGILL_SCHEDULER", &c.Scheduler.Enabled)
	env.str("FERNGILL_LOG_LEVEL", &c.Log.Level)
	env.str("FERNGILL_LOG_FORMAT", &c.Log.Format)
	return env.err
}

func (c Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if strings.TrimSpace(c.Storage.DSN) == "" {
			errs = append(errs, errors.New("storage.dsn is required for postgres"))
		}
	case StorageSQLite:
		if strings.TrimSpace(c.Storage.SQLitePath) == "" {
			errs = append(errs, errors.New("storage.sqlite_path is required for sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}
	switch c.Weather.Mode {
	case WeatherNoise:
	case WeatherStatic:
		if _, err := weather.ParseFlags(c.Weather.StaticFlags); err != nil {
			errs = append(errs, fmt.Errorf("weather.static_flags: %w", err))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown weather mode %q", c.Weather.Mode))
	}
	if c.Clock.TickMillis <= 0 {
		errs = append(errs, errors.New("clock.tick_millis must be positive"))
	}
	if c.Drain.DrainMagnitude < 0 {
		errs = append(errs, errors.New("drain.drain_magnitude must not be negative"))
	}
	if c.Actors.MaxStamina <= 0 {
		errs = append(errs, errors.New("actors.max_stamina must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func (c Config) ClockConfig() calendar.ClockConfig {
	return calendar.ClockConfig{
		StartAt:      time.Unix(c.Clock.StartUnix, 0),
		TickDuration: time.Duration(c.Clock.TickMillis) * time.Millisecond,
	}
}

func (c Config) StaticFlags() weather.Flags {
	f, _ := weather.ParseFlags(c.Weather.StaticFlags)
	return f
}

// NewLogger builds the process logger. Format is "json" or "text".
func (l Log) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

type envReader struct {
	lookup func(string) (string, bool)
	err    error
}

func (e *envReader) raw(key string) (string, bool) {
	v, ok := e.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (e *envReader) fail(key, v string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, v, err)
	}
}

func (e *envReader) str(key string, dst *string) bool {
	v, ok := e.raw(key)
	if ok {
		*dst = v
	}
	return ok
}

func (e *envReader) int(key string, dst *int) {
	if v, ok := e.raw(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			e.fail(key, v, err)
			return
		}
		*dst = n
	}
}

func (e *envReader) int64(key string, dst *int64) {
	if v, ok := e.raw(key); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			e.fail(key, v, err)
			return
		}
		*dst = n
	}
}

func (e *envReader) uint64(key string, dst *uint64) {
	if v, ok := e.raw(key); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			e.fail(key, v, err)
			return
		}
		*dst = n
	}
}

func (e *envReader) float(key string, dst *float64) {
	if v, ok := e.raw(key); ok {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			e.fail(key, v, err)
			return
		}
		*dst = n
	}
}

func (e *envReader) bool(key string, dst *bool) {
	if v, ok := e.raw(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			e.fail(key, v, err)
			return
		}
		*dst = b
	}
}
