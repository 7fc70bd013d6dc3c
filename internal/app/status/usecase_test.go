package status

import (
	"context"
	"errors"
	"testing"
	"time"

	"ferngill/internal/app/daylight"
	"ferngill/internal/app/ports"
	"ferngill/internal/domain/calendar"
	"ferngill/internal/domain/solar"
	"ferngill/internal/domain/survival"
)

func TestUseCase_IncludesDaylightForActorDay(t *testing.T) {
	repo := statusStateRepo{state: survival.ActorState{
		ActorID:        "actor-1",
		Stamina:        200,
		MaxStamina:     270,
		Day:            29,
		SecondsOutside: 300,
		SecondsTotal:   1200,
	}}
	uc := UseCase{
		StateRepo: repo,
		Daylight:  daylight.NewOracle(solar.NewEstimator(solar.DefaultConfig()), nil),
		Clock:     calendar.DefaultClock(),
		Now:       func() time.Time { return time.Unix(0, 0) },
	}
	resp, err := uc.Execute(context.Background(), Request{ActorID: "actor-1"})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if resp.Date.Day != 29 || resp.Season != calendar.SeasonSummer {
		t.Fatalf("expected day 29 summer, got %d %s", resp.Date.Day, resp.Season)
	}
	if resp.Daylight.Sunset.String() != "18:50" {
		t.Fatalf("expected sunset 18:50, got %s", resp.Daylight.Sunset)
	}
	if resp.Exposure != 0.25 {
		t.Fatalf("expected exposure 0.25, got %v", resp.Exposure)
	}
	if resp.CurrentTime.Int() != 600 {
		t.Fatalf("expected 06:00 at clock start, got %s", resp.CurrentTime)
	}
}

func TestUseCase_RejectsEmptyActorID(t *testing.T) {
	uc := UseCase{}
	if _, err := uc.Execute(context.Background(), Request{}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestUseCase_PropagatesStateRepoError(t *testing.T) {
	wantErr := errors.New("state repo down")
	uc := UseCase{StateRepo: statusStateRepo{err: wantErr}}
	if _, err := uc.Execute(context.Background(), Request{ActorID: "actor-1"}); !errors.Is(err, wantErr) {
		t.Fatalf("expected state repo error %v, got %v", wantErr, err)
	}
}

type statusStateRepo struct {
	state survival.ActorState
	err   error
}

func (r statusStateRepo) GetByActorID(_ context.Context, _ string) (survival.ActorState, error) {
	if r.err != nil {
		return survival.ActorState{}, r.err
	}
	return r.state, nil
}

func (r statusStateRepo) SaveWithVersion(_ context.Context, _ survival.ActorState, _ int64) error {
	return nil
}

func (r statusStateRepo) ListActorIDs(_ context.Context) ([]string, error) {
	return []string{r.state.ActorID}, nil
}

var _ ports.ActorStateRepository = statusStateRepo{}
