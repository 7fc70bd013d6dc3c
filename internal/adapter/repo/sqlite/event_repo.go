package sqliterepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ferngill/internal/domain/survival"

	"github.com/jmoiron/sqlx"
)

type eventRow struct {
	ID         int64  `db:"id"`
	ActorID    string `db:"actor_id"`
	Type       string `db:"type"`
	OccurredAt int64  `db:"occurred_at"`
	Payload    string `db:"payload"`
}

type EventRepo struct {
	db *DB
}

func NewEventRepo(db *DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, actorID string, events []survival.DomainEvent) error {
	ext := r.db.ext(ctx)
	for _, e := range events {
		b, err := json.Marshal(e.Payload)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", e.Type, err)
		}
		if _, err := ext.ExecContext(ctx,
			`INSERT INTO domain_events (actor_id, type, occurred_at, payload) VALUES (?, ?, ?, ?)`,
			actorID, e.Type, e.OccurredAt.UnixNano(), string(b)); err != nil {
			return err
		}
	}
	return nil
}

// ListByActorID returns the newest events first.
func (r EventRepo) ListByActorID(ctx context.Context, actorID string, limit int) ([]survival.DomainEvent, error) {
	query := `SELECT * FROM domain_events WHERE actor_id = ? ORDER BY occurred_at DESC, id DESC`
	args := []any{actorID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	var rows []eventRow
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &rows, query, args...); err != nil {
		return nil, err
	}

	out := make([]survival.DomainEvent, 0, len(rows))
	for _, row := range rows {
		var payload map[string]any
		_ = json.Unmarshal([]byte(row.Payload), &payload)
		out = append(out, survival.DomainEvent{
			Type:       row.Type,
			OccurredAt: time.Unix(0, row.OccurredAt).UTC(),
			Payload:    payload,
		})
	}
	return out, nil
}
