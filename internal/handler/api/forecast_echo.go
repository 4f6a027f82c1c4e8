package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"WaveCast/internal/backtest"
	models "WaveCast/internal/domain/models"
	domrepo "WaveCast/internal/domain/repository"
	"WaveCast/internal/service/marketdata"
	"WaveCast/internal/service/ratelimit"
	"WaveCast/internal/usecase"
	"WaveCast/internal/wave"
	xhttp "WaveCast/pkg/http"
	xlogger "WaveCast/pkg/logger"
	"WaveCast/pkg/queue"

	"github.com/labstack/echo/v4"
)

// Backtests are expensive; each client gets a small token bucket.
const (
	backtestBucketSize   = 5.0
	backtestRefillPerSec = 0.2
)

// ForecastEchoHandler exposes the analysis pipeline over HTTP.
type ForecastEchoHandler struct {
	logger    *xlogger.Logger
	forecasts *usecase.ForecastUseCase
	backtests *usecase.BacktestUseCase
	store     domrepo.ResultStore // nil when persistence is disabled
	publisher queue.QueueService  // nil when the job queue is disabled
	limiter   *ratelimit.Limiter
}

func NewForecastEchoHandler(
	logger *xlogger.Logger,
	forecasts *usecase.ForecastUseCase,
	backtests *usecase.BacktestUseCase,
	store domrepo.ResultStore,
	publisher queue.QueueService,
) *ForecastEchoHandler {
	return &ForecastEchoHandler{
		logger:    logger,
		forecasts: forecasts,
		backtests: backtests,
		store:     store,
		publisher: publisher,
		limiter:   ratelimit.New(),
	}
}

func (h *ForecastEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.GET("/forecast", h.Forecast)
	g.GET("/summary", h.Summary)
	g.GET("/backtest", h.Backtest)
	g.GET("/leaderboard", h.Leaderboard)
	g.POST("/leaderboard/refresh", h.RefreshLeaderboard)
}

func (h *ForecastEchoHandler) Forecast(c echo.Context) error {
	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	period := domrepo.NormalizePeriod(req.Period)
	asOf := xhttp.ParseTimeDefault(req.AsOf, time.Time{})

	pred, err := h.forecasts.Forecast(c.Request().Context(), strings.ToUpper(req.Symbol), period, asOf, req.Horizon)
	if err != nil {
		h.logger.Error("forecast usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapDomainError(err))
	}
	return xhttp.SuccessResponse(c, pred)
}

func (h *ForecastEchoHandler) Summary(c echo.Context) error {
	req := &models.SummaryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	period := domrepo.NormalizePeriod(req.Period)

	res, err := h.forecasts.Summary(c.Request().Context(), strings.ToUpper(req.Symbol), period)
	if err != nil {
		h.logger.Error("summary usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapDomainError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ForecastEchoHandler) Backtest(c echo.Context) error {
	if !h.limiter.Allow(c.RealIP(), backtestBucketSize, backtestRefillPerSec) {
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("ERR_RATE_LIMITED", "", "too many backtest requests", http.StatusTooManyRequests))
	}

	req := &models.BacktestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if req.DaysBack <= req.TestPeriod {
		return xhttp.AppErrorResponse(c,
			xhttp.BadRequestError("days_back must exceed test_period"))
	}
	period := domrepo.NormalizePeriod(req.Period)

	report, err := h.backtests.RunSymbol(c.Request().Context(), strings.ToUpper(req.Symbol), period, req.DaysBack, req.TestPeriod, req.Detailed)
	if err != nil {
		h.logger.Error("backtest usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapDomainError(err))
	}
	return xhttp.SuccessResponse(c, report)
}

func (h *ForecastEchoHandler) Leaderboard(c echo.Context) error {
	req := &models.LeaderboardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	period := domrepo.NormalizePeriod(req.Period)

	entries, err := h.backtests.Leaderboard(c.Request().Context(),
		splitSymbols(req.Symbols), period, req.DaysBack, req.TestPeriod, req.Limit)
	if err != nil {
		h.logger.Error("leaderboard usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapDomainError(err))
	}
	return xhttp.ListResponse(c, entries, int64(len(entries)))
}

// RefreshLeaderboard enqueues a background recompute of the persisted
// leaderboard. Returns 503 when the job queue is not configured.
func (h *ForecastEchoHandler) RefreshLeaderboard(c echo.Context) error {
	if h.publisher == nil {
		return xhttp.AppErrorResponse(c,
			xhttp.NewAppError("ERR_QUEUE_DISABLED", "", "job queue is not configured", http.StatusServiceUnavailable))
	}

	req := &models.LeaderboardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	symbols := splitSymbols(req.Symbols)
	if len(symbols) == 0 {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("symbols is required"))
	}

	payload := usecase.LeaderboardRefreshPayload{
		Symbols:    symbols,
		Period:     req.Period,
		DaysBack:   req.DaysBack,
		TestPeriod: req.TestPeriod,
	}
	if err := h.publisher.PublishMessage(c.Request().Context(), usecase.LeaderboardRefreshType, payload); err != nil {
		h.logger.Error("leaderboard refresh enqueue error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("enqueue refresh"))
	}
	return xhttp.DataResponse(c, http.StatusAccepted, map[string]interface{}{
		"enqueued": true,
		"symbols":  symbols,
	})
}

func (h *ForecastEchoHandler) Health(c echo.Context) error {
	status := map[string]string{"status": "ok"}
	if h.store != nil {
		if err := h.store.Health(c.Request().Context()); err != nil {
			status["result_store"] = "unavailable"
			return c.JSON(http.StatusServiceUnavailable, status)
		}
		status["result_store"] = "ok"
	}
	return c.JSON(http.StatusOK, status)
}

// mapDomainError converts pipeline errors into transport errors with the
// right status codes; anything unknown becomes a 500.
func mapDomainError(err error) error {
	switch {
	case errors.Is(err, wave.ErrInsufficientData):
		return xhttp.NewAppError("ERR_INSUFFICIENT_DATA", "",
			"not enough history for wave analysis", http.StatusUnprocessableEntity).WithError(err)
	case errors.Is(err, backtest.ErrNoEvaluableHistory):
		return xhttp.NewAppError("ERR_NO_EVALUABLE_HISTORY", "",
			"no anchor in the requested window produced a prediction", http.StatusUnprocessableEntity).WithError(err)
	case errors.Is(err, marketdata.ErrNoData):
		return xhttp.NotFoundError("no market data for symbol").WithError(err)
	default:
		return xhttp.InternalError("internal error").WithError(err)
	}
}

func splitSymbols(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
