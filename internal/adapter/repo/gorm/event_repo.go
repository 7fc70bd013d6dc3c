package gormrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"ferngill/internal/adapter/repo/gorm/model"
	"ferngill/internal/domain/survival"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, actorID string, events []survival.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]model.DomainEvent, 0, len(events))
	for _, e := range events {
		b, err := json.Marshal(e.Payload)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", e.Type, err)
		}
		rows = append(rows, model.DomainEvent{
			ActorID:    actorID,
			Type:       e.Type,
			OccurredAt: e.OccurredAt,
			Payload:    b,
		})
	}
	return getDBFromCtx(ctx, r.db).Create(&rows).Error
}

// ListByActorID returns the newest events first. Insertion order breaks ties
// between events of the same instant.
func (r EventRepo) ListByActorID(ctx context.Context, actorID string, limit int) ([]survival.DomainEvent, error) {
	rows := []model.DomainEvent{}
	query := getDBFromCtx(ctx, r.db).
		Where(&model.DomainEvent{ActorID: actorID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{
				{Column: clause.Column{Name: "occurred_at"}, Desc: true},
				{Column: clause.Column{Name: "id"}, Desc: true},
			},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]survival.DomainEvent, 0, len(rows))
	for _, row := range rows {
		var payload map[string]any
		if len(row.Payload) > 0 {
			_ = json.Unmarshal(row.Payload, &payload)
		}
		out = append(out, survival.DomainEvent{
			Type:       row.Type,
			OccurredAt: row.OccurredAt,
			Payload:    payload,
		})
	}
	return out, nil
}
