package api

import (
	"errors"

	"StockDeck/internal/domain/models"
	domrepo "StockDeck/internal/domain/repository"
	"StockDeck/internal/handler/web"
	"StockDeck/internal/service/ratelimit"
	"StockDeck/internal/usecase"
	xhttp "StockDeck/pkg/http"
	xlogger "StockDeck/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ChartsHandler serves the dashboard: the chart dataset endpoint, the
// symbol selector source, health, and the static page itself.
type ChartsHandler struct {
	logger  *xlogger.Logger
	builder usecase.DatasetBuilder
	store   domrepo.PriceStore
	rl      *ratelimit.Limiter

	rateCapacity float64
	rateRefill   float64
}

func NewChartsHandler(logger *xlogger.Logger, builder usecase.DatasetBuilder, store domrepo.PriceStore) *ChartsHandler {
	return &ChartsHandler{
		logger:       logger,
		builder:      builder,
		store:        store,
		rl:           ratelimit.New(),
		rateCapacity: 10,
		rateRefill:   5,
	}
}

// SetRateLimit overrides the per-client token bucket for /api/chart.
func (h *ChartsHandler) SetRateLimit(capacity, refillPerSec float64) {
	if capacity > 0 {
		h.rateCapacity = capacity
	}
	if refillPerSec > 0 {
		h.rateRefill = refillPerSec
	}
}

func (h *ChartsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/chart", h.Chart)
	g.GET("/symbols", h.Symbols)
	g.GET("/health", h.Health)

	e.GET("/", web.Index)
}

// Chart returns the three-view dataset for one selection. Failures map to
// the interaction-level taxonomy; every one of them is a user-facing
// message, never a process failure.
func (h *ChartsHandler) Chart(c echo.Context) error {
	req := &models.ChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if !h.rl.Allow(c.RealIP()+":chart", h.rateCapacity, h.rateRefill) {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("too many chart requests"))
	}

	sel, err := req.Selection()
	if err != nil {
		return xhttp.AppErrorResponse(c,
			xhttp.BadRequestError("ERR_INVALID_RANGE", err.Error()).WithError(err))
	}

	ds, err := h.builder.BuildChartDataset(c.Request().Context(), sel)
	if err != nil {
		return xhttp.AppErrorResponse(c, h.appError(sel, err))
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, ds)
}

// Symbols lists the symbols available in the actuals table, feeding the
// dashboard's selector.
func (h *ChartsHandler) Symbols(c echo.Context) error {
	symbols, err := h.store.Symbols(c.Request().Context())
	if err != nil {
		return xhttp.AppErrorResponse(c, h.appError(models.Selection{}, err))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=300")
	return xhttp.ListResponse(c, symbols, int64(len(symbols)))
}

// Health pings the warehouse.
func (h *ChartsHandler) Health(c echo.Context) error {
	if err := h.store.Health(c.Request().Context()); err != nil {
		return xhttp.AppErrorResponse(c,
			xhttp.UnavailableError("ERR_STORE_UNAVAILABLE", "warehouse unreachable").WithError(err))
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *ChartsHandler) appError(sel models.Selection, err error) *xhttp.AppError {
	switch {
	case errors.Is(err, models.ErrInvalidRange):
		return xhttp.BadRequestError("ERR_INVALID_RANGE", err.Error()).
			WithParam("start", sel.Start.String()).
			WithParam("end", sel.End.String()).
			WithError(err)
	case errors.Is(err, models.ErrUnknownSymbol):
		return xhttp.NotFoundError("ERR_UNKNOWN_SYMBOL", err.Error()).
			WithParam("symbol", sel.Symbol).
			WithError(err)
	case errors.Is(err, models.ErrNoDataInRange):
		return xhttp.NotFoundError("ERR_NO_DATA_IN_RANGE", err.Error()).
			WithParam("symbol", sel.Symbol).
			WithError(err)
	case errors.Is(err, models.ErrStoreUnavailable):
		h.logError("store unavailable", err)
		return xhttp.UnavailableError("ERR_STORE_UNAVAILABLE", "warehouse unreachable, try again").
			WithError(err)
	default:
		h.logError("chart usecase error", err)
		return xhttp.InternalError("unexpected error").WithError(err)
	}
}

func (h *ChartsHandler) logError(msg string, err error) {
	if h.logger != nil {
		h.logger.Error(msg, xlogger.Error(err))
	}
}
