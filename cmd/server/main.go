package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	migrations "ferngill/db"
	httpadapter "ferngill/internal/adapter/http"
	metricsinmem "ferngill/internal/adapter/metrics/inmemory"
	"ferngill/internal/adapter/random"
	gormrepo "ferngill/internal/adapter/repo/gorm"
	memoryrepo "ferngill/internal/adapter/repo/memory"
	sqliterepo "ferngill/internal/adapter/repo/sqlite"
	"ferngill/internal/adapter/weather/noise"
	"ferngill/internal/adapter/weather/static"
	"ferngill/internal/app/actors"
	"ferngill/internal/app/almanac"
	"ferngill/internal/app/daylight"
	"ferngill/internal/app/ports"
	"ferngill/internal/app/remedy"
	"ferngill/internal/app/replay"
	"ferngill/internal/app/scheduler"
	"ferngill/internal/app/status"
	"ferngill/internal/app/tick"
	"ferngill/internal/config"
	"ferngill/internal/domain/calendar"
	"ferngill/internal/domain/solar"

	"github.com/cloudwego/hertz/pkg/app/server"
	"gorm.io/gorm"
)

type repos struct {
	states ports.ActorStateRepository
	events ports.EventRepository
	tx     ports.TxManager
	close  func() error
}

func main() {
	cfg, err := config.Load(os.Getenv("FERNGILL_CONFIG"))
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	logger := cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	r, err := buildRepos(cfg, logger)
	if err != nil {
		logger.Error("open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer r.close()

	clock := calendar.NewClock(cfg.ClockConfig())
	estimator := solar.NewEstimator(cfg.Solar)
	oracle := daylight.NewOracle(estimator, logger)
	kpiRecorder := metricsinmem.NewRecorder()

	tickUC := tick.UseCase{
		TxManager: r.tx,
		StateRepo: r.states,
		EventRepo: r.events,
		Weather:   buildWeatherProvider(cfg),
		Night:     oracle,
		Random:    random.NewSource(cfg.Random.Seed),
		Metrics:   kpiRecorder,
		Clock:     clock,
		Drain:     cfg.Drain,
		Logger:    logger,
		Now:       time.Now,
	}

	h := httpadapter.Handler{
		RegisterUC: actors.RegisterUseCase{
			TxManager:  r.tx,
			StateRepo:  r.states,
			EventRepo:  r.events,
			MaxStamina: cfg.Actors.MaxStamina,
			Now:        time.Now,
		},
		LocateUC: actors.LocateUseCase{TxManager: r.tx, StateRepo: r.states, EventRepo: r.events, Now: time.Now},
		StatusUC: status.UseCase{StateRepo: r.states, Daylight: oracle, Clock: clock, Now: time.Now},
		TickUC:   tickUC,
		NewDayUC: tick.NewDayUseCase{TxManager: r.tx, StateRepo: r.states, EventRepo: r.events, Drain: cfg.Drain, Now: time.Now},
		RemedyUC: remedy.UseCase{
			TxManager: r.tx,
			StateRepo: r.states,
			EventRepo: r.events,
			Metrics:   kpiRecorder,
			Drain:     cfg.Drain,
			Now:       time.Now,
		},
		ReplayUC:  replay.UseCase{Events: r.events},
		AlmanacUC: almanac.UseCase{Estimator: estimator, Clock: clock, Now: time.Now},
		KPI:       kpiRecorder,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Scheduler.Enabled {
		runner := scheduler.Runner{Tick: tickUC, Actors: r.states, Clock: clock, Logger: logger, Now: time.Now}
		go func() {
			if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("scheduler stopped", "error", err)
			}
		}()
	}

	s := server.Default(server.WithHostPorts(cfg.Server.Addr))
	h.RegisterRoutes(s)

	logger.Info("ferngill server listening",
		"addr", cfg.Server.Addr,
		"storage", cfg.Storage.Driver,
		"weather", cfg.Weather.Mode,
		"latitude", estimator.Latitude(),
	)
	s.Spin()
}

func buildRepos(cfg config.Config, logger *slog.Logger) (repos, error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := gormrepo.OpenPostgres(cfg.Storage.DSN)
		if err != nil {
			return repos{}, err
		}
		if err := migrate(db, cfg.Storage.MigrationsDir); err != nil {
			return repos{}, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return repos{}, err
		}
		return repos{
			states: gormrepo.NewActorStateRepo(db),
			events: gormrepo.NewEventRepo(db),
			tx:     gormrepo.NewTxManager(db),
			close:  sqlDB.Close,
		}, nil
	case config.StorageSQLite:
		db, err := sqliterepo.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return repos{}, err
		}
		return repos{
			states: sqliterepo.NewActorStateRepo(db),
			events: sqliterepo.NewEventRepo(db),
			tx:     sqliterepo.NewTxManager(db),
			close:  db.Close,
		}, nil
	default:
		logger.Warn("using in-memory storage; state is lost on restart")
		store := memoryrepo.NewStore()
		return repos{
			states: memoryrepo.NewActorStateRepo(store),
			events: memoryrepo.NewEventRepo(store),
			tx:     memoryrepo.NewTxManager(store),
			close:  func() error { return nil },
		}, nil
	}
}

func migrate(db *gorm.DB, dir string) error {
	if dir != "" {
		return gormrepo.ApplyMigrations(context.Background(), db, dir)
	}
	return gormrepo.ApplyMigrationsFS(context.Background(), db, migrations.Migrations, "migrations")
}

func buildWeatherProvider(cfg config.Config) ports.WeatherProvider {
	if cfg.Weather.Mode == config.WeatherStatic {
		return static.Provider{Flags: cfg.StaticFlags()}
	}
	return noise.NewProvider(cfg.Weather.Noise)
}
