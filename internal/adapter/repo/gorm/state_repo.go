package gormrepo

import (
	"context"
	"errors"

	"ferngill/internal/adapter/repo/gorm/model"
	"ferngill/internal/app/ports"
	"ferngill/internal/domain/affliction"
	"ferngill/internal/domain/survival"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ActorStateRepo struct {
	db *gorm.DB
}

func NewActorStateRepo(db *gorm.DB) ActorStateRepo {
	return ActorStateRepo{db: db}
}

func (r ActorStateRepo) GetByActorID(ctx context.Context, actorID string) (survival.ActorState, error) {
	var m model.ActorState
	if err := getDBFromCtx(ctx, r.db).Where("actor_id = ?", actorID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return survival.ActorState{}, ports.ErrNotFound
		}
		return survival.ActorState{}, err
	}
	return survival.ActorState{
		ActorID:        m.ActorID,
		Stamina:        int(m.Stamina),
		MaxStamina:     int(m.MaxStamina),
		Outdoors:       m.Outdoors,
		Day:            int(m.Day),
		SecondsOutside: m.SecondsOutside,
		SecondsTotal:   m.SecondsTotal,
		Affliction: affliction.State{
			Afflicted:      m.Afflicted,
			AfflictedToday: m.AfflictedToday,
		},
		Version:   m.Version,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

func (r ActorStateRepo) SaveWithVersion(ctx context.Context, state survival.ActorState, expectedVersion int64) error {
	db := getDBFromCtx(ctx, r.db)
	if expectedVersion == 0 {
		m := toModel(state)
		res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&m)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ports.ErrAlreadyExists
		}
		return nil
	}

	updates := map[string]any{
		"stamina":         int32(state.Stamina),
		"max_stamina":     int32(state.MaxStamina),
		"outdoors":        state.Outdoors,
		"day":             int32(state.Day),
		"seconds_outside": state.SecondsOutside,
		"seconds_total":   state.SecondsTotal,
		"afflicted":       state.Affliction.Afflicted,
		"afflicted_today": state.Affliction.AfflictedToday,
		"version":         state.Version,
		"updated_at":      state.UpdatedAt,
	}

	res := db.Model(&model.ActorState{}).
		Where("actor_id = ? AND version = ?", state.ActorID, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r ActorStateRepo) ListActorIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := getDBFromCtx(ctx, r.db).
		Model(&model.ActorState{}).
		Order("actor_id").
		Pluck("actor_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func toModel(state survival.ActorState) model.ActorState {
	return model.ActorState{
		ActorID:        state.ActorID,
		Stamina:        int32(state.Stamina),
		MaxStamina:     int32(state.MaxStamina),
		Outdoors:       state.Outdoors,
		Day:            int32(state.Day),
		SecondsOutside: state.SecondsOutside,
		SecondsTotal:   state.SecondsTotal,
		Afflicted:      state.Affliction.Afflicted,
		AfflictedToday: state.Affliction.AfflictedToday,
		Version:        state.Version,
		UpdatedAt:      state.UpdatedAt,
	}
}
