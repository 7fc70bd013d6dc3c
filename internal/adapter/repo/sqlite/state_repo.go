package sqliterepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ferngill/internal/app/ports"
	"ferngill/internal/domain/affliction"
	"ferngill/internal/domain/survival"

	"github.com/jmoiron/sqlx"
)

type actorRow struct {
	ActorID        string `db:"actor_id"`
	Stamina        int    `db:"stamina"`
	MaxStamina     int    `db:"max_stamina"`
	Outdoors       bool   `db:"outdoors"`
	Day            int    `db:"day"`
	SecondsOutside int64  `db:"seconds_outside"`
	SecondsTotal   int64  `db:"seconds_total"`
	Afflicted      bool   `db:"afflicted"`
	AfflictedToday bool   `db:"afflicted_today"`
	Version        int64  `db:"version"`
	UpdatedAt      int64  `db:"updated_at"`
}

type ActorStateRepo struct {
	db *DB
}

func NewActorStateRepo(db *DB) ActorStateRepo {
	return ActorStateRepo{db: db}
}

func (r ActorStateRepo) GetByActorID(ctx context.Context, actorID string) (survival.ActorState, error) {
	var row actorRow
	err := sqlx.GetContext(ctx, r.db.ext(ctx), &row, `SELECT * FROM actor_states WHERE actor_id = ?`, actorID)
	if errors.Is(err, sql.ErrNoRows) {
		return survival.ActorState{}, ports.ErrNotFound
	}
	if err != nil {
		return survival.ActorState{}, err
	}
	return survival.ActorState{
		ActorID:        row.ActorID,
		Stamina:        row.Stamina,
		MaxStamina:     row.MaxStamina,
		Outdoors:       row.Outdoors,
		Day:            row.Day,
		SecondsOutside: row.SecondsOutside,
		SecondsTotal:   row.SecondsTotal,
		Affliction:     affliction.State{Afflicted: row.Afflicted, AfflictedToday: row.AfflictedToday},
		Version:        row.Version,
		UpdatedAt:      time.Unix(0, row.UpdatedAt).UTC(),
	}, nil
}

func (r ActorStateRepo) SaveWithVersion(ctx context.Context, state survival.ActorState, expectedVersion int64) error {
	row := actorRow{
		ActorID:        state.ActorID,
		Stamina:        state.Stamina,
		MaxStamina:     state.MaxStamina,
		Outdoors:       state.Outdoors,
		Day:            state.Day,
		SecondsOutside: state.SecondsOutside,
		SecondsTotal:   state.SecondsTotal,
		Afflicted:      state.Affliction.Afflicted,
		AfflictedToday: state.Affliction.AfflictedToday,
		Version:        state.Version,
		UpdatedAt:      state.UpdatedAt.UnixNano(),
	}
	ext := r.db.ext(ctx)

	if expectedVersion == 0 {
		res, err := sqlx.NamedExecContext(ctx, ext, `INSERT INTO actor_states
			(actor_id, stamina, max_stamina, outdoors, day, seconds_outside, seconds_total,
			 afflicted, afflicted_today, version, updated_at)
			VALUES (:actor_id, :stamina, :max_stamina, :outdoors, :day, :seconds_outside, :seconds_total,
			 :afflicted, :afflicted_today, :version, :updated_at)
			ON CONFLICT(actor_id) DO NOTHING`, row)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ports.ErrAlreadyExists
		}
		return nil
	}

	res, err := ext.ExecContext(ctx, `UPDATE actor_states SET
		stamina = ?, max_stamina = ?, outdoors = ?, day = ?, seconds_outside = ?, seconds_total = ?,
		afflicted = ?, afflicted_today = ?, version = ?, updated_at = ?
		WHERE actor_id = ? AND version = ?`,
		row.Stamina, row.MaxStamina, row.Outdoors, row.Day, row.SecondsOutside, row.SecondsTotal,
		row.Afflicted, row.AfflictedToday, row.Version, row.UpdatedAt,
		row.ActorID, expectedVersion)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r ActorStateRepo) ListActorIDs(ctx context.Context) ([]string, error) {
	ids := []string{}
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &ids, `SELECT actor_id FROM actor_states ORDER BY actor_id`); err != nil {
		return nil, err
	}
	return ids, nil
}
