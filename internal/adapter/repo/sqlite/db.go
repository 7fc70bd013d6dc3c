// Package sqliterepo stores actors and their event log in a single SQLite
// file, for running without Postgres.
package sqliterepo

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

type DB struct {
	conn *sqlx.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One writer at a time; transactions hold the only connection.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS actor_states (
		actor_id TEXT PRIMARY KEY,
		stamina INTEGER NOT NULL,
		max_stamina INTEGER NOT NULL,
		outdoors INTEGER NOT NULL,
		day INTEGER NOT NULL,
		seconds_outside INTEGER NOT NULL,
		seconds_total INTEGER NOT NULL,
		afflicted INTEGER NOT NULL,
		afflicted_today INTEGER NOT NULL,
		version INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS domain_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		actor_id TEXT NOT NULL,
		type TEXT NOT NULL,
		occurred_at INTEGER NOT NULL,
		payload TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_domain_events_actor ON domain_events(actor_id, occurred_at, id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type txKey struct{}

func (db *DB) ext(ctx context.Context) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok && tx != nil {
		return tx
	}
	return db.conn
}

type TxManager struct {
	db *DB
}

func NewTxManager(db *DB) TxManager {
	return TxManager{db: db}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}
	tx, err := t.db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	return tx.Commit()
}
