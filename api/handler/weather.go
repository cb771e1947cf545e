package handler

import (
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskdeck/backend/api/transport"
	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/pkg/httpcontext"
	"github.com/taskdeck/backend/usecase/tasksync"
)

type WeatherHandler struct {
	baseHandler
	cores *tasksync.Manager
}

func NewWeatherHandler(cores *tasksync.Manager, adapter *httpcontext.Adapter, logger *zap.Logger) *WeatherHandler {
	return &WeatherHandler{
		baseHandler: newBaseHandler(adapter, logger),
		cores:       cores,
	}
}

// @Summary Current conditions for a location (cached per session)
// @Tags weather
// @Router /api/v1/weather [get]
func (h *WeatherHandler) Current(ctx *fasthttp.RequestCtx) {
	userID := string(ctx.Request.Header.Peek("X-User-ID"))
	if userID == "" {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthorized), "missing user id", nil))
		return
	}

	location := string(ctx.QueryArgs().Peek("location"))
	if location == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing location", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	entry := h.cores.Open(userID).WeatherFor(stdCtx, location)
	h.respondSuccess(ctx, http.StatusOK, entry)
}

// @Summary Multi-day forecast for coordinates
// @Tags weather
// @Router /api/v1/weather/forecast [get]
func (h *WeatherHandler) Forecast(ctx *fasthttp.RequestCtx) {
	userID := string(ctx.Request.Header.Peek("X-User-ID"))
	if userID == "" {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthorized), "missing user id", nil))
		return
	}

	lat, latErr := strconv.ParseFloat(string(ctx.QueryArgs().Peek("lat")), 64)
	lon, lonErr := strconv.ParseFloat(string(ctx.QueryArgs().Peek("lon")), 64)
	if latErr != nil || lonErr != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid coordinates", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	forecast, err := h.cores.Open(userID).OutdoorForecast(stdCtx, lat, lon)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, forecast)
}
