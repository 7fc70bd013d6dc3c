package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"ferngill/internal/app/actors"
	"ferngill/internal/app/almanac"
	"ferngill/internal/app/ports"
	"ferngill/internal/app/remedy"
	"ferngill/internal/app/replay"
	"ferngill/internal/app/status"
	"ferngill/internal/app/tick"
	"ferngill/internal/domain/calendar"
	"ferngill/internal/domain/solar"
	"ferngill/internal/domain/survival"
	"ferngill/internal/domain/weather"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type Handler struct {
	RegisterUC actors.RegisterUseCase
	LocateUC   actors.LocateUseCase
	StatusUC   status.UseCase
	TickUC     tick.UseCase
	NewDayUC   tick.NewDayUseCase
	RemedyUC   remedy.UseCase
	ReplayUC   replay.UseCase
	AlmanacUC  almanac.UseCase
	KPI        kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	api := s.Group("/api")
	api.POST("/actors", h.register)
	api.GET("/actors/:id", h.status)
	api.POST("/actors/:id/location", h.locate)
	api.POST("/actors/:id/tick", h.tick)
	api.POST("/actors/:id/new-day", h.newDay)
	api.POST("/actors/:id/remedy", h.remedy)
	api.GET("/actors/:id/events", h.replay)
	api.GET("/almanac", h.almanac)

	s.GET("/ops/kpi", h.kpi)
}

var ErrMissingActorID = errors.New("missing actor id")

type registerRequest struct {
	ActorID    string `json:"actor_id,omitempty"`
	MaxStamina int    `json:"max_stamina,omitempty"`
	Outdoors   *bool  `json:"outdoors,omitempty"`
}

type locateRequest struct {
	Outdoors *bool `json:"outdoors"`
}

type tickRequest struct {
	Day            int      `json:"day,omitempty"`
	Time           string   `json:"time,omitempty"`
	Flags          []string `json:"flags,omitempty"`
	ElapsedSeconds int      `json:"elapsed_seconds,omitempty"`
}

type newDayRequest struct {
	Day int `json:"day,omitempty"`
}

type remedyRequest struct {
	Item string `json:"item,omitempty"`
}

func (h Handler) register(c context.Context, ctx *app.RequestContext) {
	var body registerRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.RegisterUC.Execute(c, actors.RegisterRequest{
		ActorID:    body.ActorID,
		MaxStamina: body.MaxStamina,
		Outdoors:   body.Outdoors,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) status(c context.Context, ctx *app.RequestContext) {
	actorID, err := actorIDParam(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.StatusUC.Execute(c, status.Request{ActorID: actorID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) locate(c context.Context, ctx *app.RequestContext) {
	actorID, err := actorIDParam(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body locateRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if body.Outdoors == nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "outdoors is required")
		return
	}
	resp, err := h.LocateUC.Execute(c, actors.LocateRequest{ActorID: actorID, Outdoors: *body.Outdoors})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) tick(c context.Context, ctx *app.RequestContext) {
	actorID, err := actorIDParam(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body tickRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	req, err := body.toRequest(actorID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.TickUC.Execute(c, req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

// toRequest pins the tick to day/time only when both are given.
func (b tickRequest) toRequest(actorID string) (tick.Request, error) {
	req := tick.Request{ActorID: actorID}
	if b.ElapsedSeconds < 0 {
		return tick.Request{}, tick.ErrInvalidRequest
	}
	req.Elapsed = time.Duration(b.ElapsedSeconds) * time.Second
	if (b.Day == 0) != (strings.TrimSpace(b.Time) == "") {
		return tick.Request{}, errors.Join(tick.ErrInvalidRequest, errors.New("day and time go together"))
	}
	if b.Day != 0 {
		at, err := calendar.ParseClockTime(b.Time)
		if err != nil {
			return tick.Request{}, err
		}
		req.At = &tick.Moment{Date: calendar.Date{Day: b.Day}, Time: at}
	}
	if b.Flags != nil {
		flags, err := weather.ParseFlags(b.Flags)
		if err != nil {
			return tick.Request{}, err
		}
		req.Flags = &flags
	}
	return req, nil
}

func (h Handler) newDay(c context.Context, ctx *app.RequestContext) {
	actorID, err := actorIDParam(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body newDayRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.NewDayUC.Execute(c, tick.NewDayRequest{ActorID: actorID, Day: body.Day})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) remedy(c context.Context, ctx *app.RequestContext) {
	actorID, err := actorIDParam(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body remedyRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.RemedyUC.Execute(c, remedy.Request{ActorID: actorID, Item: body.Item})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) replay(c context.Context, ctx *app.RequestContext) {
	actorID, err := actorIDParam(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	occurredFrom, _ := strconv.ParseInt(string(ctx.Query("occurred_from")), 10, 64)
	occurredTo, _ := strconv.ParseInt(string(ctx.Query("occurred_to")), 10, 64)
	resp, err := h.ReplayUC.Execute(c, replay.Request{
		ActorID:      actorID,
		Limit:        limit,
		OccurredFrom: occurredFrom,
		OccurredTo:   occurredTo,
		Type:         string(ctx.Query("type")),
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) almanac(c context.Context, ctx *app.RequestContext) {
	day := 0
	if raw := strings.TrimSpace(string(ctx.Query("day"))); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", "day must be an integer")
			return
		}
		day = n
	}
	resp, err := h.AlmanacUC.Execute(c, almanac.Request{Day: day})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func actorIDParam(ctx *app.RequestContext) (string, error) {
	id := strings.TrimSpace(ctx.Param("id"))
	if id == "" {
		return "", ErrMissingActorID
	}
	return id, nil
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, ErrMissingActorID):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_actor_id", err.Error())
	case errors.Is(err, weather.ErrUnknownFlag):
		writeErrorBody(ctx, consts.StatusBadRequest, "unknown_weather_flag", err.Error())
	case errors.Is(err, calendar.ErrInvalidClockTime):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_clock_time", err.Error())
	case errors.Is(err, solar.ErrNoSolarCrossing):
		writeErrorBody(ctx, consts.StatusUnprocessableEntity, "no_solar_crossing", err.Error())
	case errors.Is(err, tick.ErrStaleTick):
		writeErrorBody(ctx, consts.StatusConflict, "stale_tick", err.Error())
	case errors.Is(err, actors.ErrInvalidRequest),
		errors.Is(err, almanac.ErrInvalidRequest),
		errors.Is(err, remedy.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest),
		errors.Is(err, status.ErrInvalidRequest),
		errors.Is(err, tick.ErrInvalidRequest),
		errors.Is(err, survival.ErrInvalidActor):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrAlreadyExists):
		writeErrorBody(ctx, consts.StatusConflict, "already_exists", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
