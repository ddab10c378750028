package api

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"FolioPulse/internal/domain/models"
	domrepo "FolioPulse/internal/domain/repository"
	icache "FolioPulse/internal/service/cache"
	"FolioPulse/internal/service/metrics"
	"FolioPulse/internal/service/ratelimit"
	"FolioPulse/internal/services/analytics"
	"FolioPulse/internal/usecase"
	xhttp "FolioPulse/pkg/http"
	xlogger "FolioPulse/pkg/logger"
)

// PortfolioEchoHandler exposes the portfolio analytics API over Echo.
type PortfolioEchoHandler struct {
	logger  *xlogger.Logger
	advisor *usecase.PortfolioAdvisor
	cache   icache.BytesCache
	rl      *ratelimit.Limiter
}

func NewPortfolioEchoHandler(logger *xlogger.Logger, advisor *usecase.PortfolioAdvisor) *PortfolioEchoHandler {
	metrics.Register()
	return &PortfolioEchoHandler{logger: logger, advisor: advisor, rl: ratelimit.New()}
}

// SetCache enables response caching for universe search.
func (h *PortfolioEchoHandler) SetCache(c icache.BytesCache) { h.cache = c }

func (h *PortfolioEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.ServiceHealth)

	g := e.Group("/api")
	g.GET("/universe/search", h.UniverseSearch)
	g.POST("/portfolio/health", h.PortfolioHealth)
	g.POST("/portfolio/insights", h.PortfolioInsights)
	g.POST("/starter-portfolio", h.StarterPortfolio)
	g.POST("/portfolio/simulate", h.Simulate)
	g.POST("/simulations", h.SaveSimulation)
	g.GET("/simulations/latest", h.LatestSimulation)
}

func (h *PortfolioEchoHandler) observe(endpoint string, start time.Time) {
	metrics.PortfolioLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func (h *PortfolioEchoHandler) fail(c echo.Context, endpoint string, err error) error {
	metrics.PortfolioErrors.WithLabelValues(endpoint).Inc()

	switch {
	case errors.Is(err, models.ErrNoHoldings),
		errors.Is(err, analytics.ErrUnknownTicker),
		errors.Is(err, analytics.ErrNoTickers),
		errors.Is(err, analytics.ErrBadInvestment),
		errors.Is(err, usecase.ErrAllocationMismatch):
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	case errors.Is(err, domrepo.ErrDuplicateSimulation):
		return xhttp.AppErrorResponse(c, xhttp.ConflictError(err.Error()))
	case errors.Is(err, domrepo.ErrSimulationNotFound):
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError(err.Error()))
	case errors.Is(err, usecase.ErrSimulationUnavailable),
		errors.Is(err, usecase.ErrRecordsUnavailable):
		return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError(err.Error()))
	}

	h.logger.Error(endpoint+" failed", xlogger.Error(err))
	return xhttp.AppErrorResponse(c, err)
}

func (h *PortfolioEchoHandler) ServiceHealth(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.advisor.ServiceHealth())
}

func (h *PortfolioEchoHandler) UniverseSearch(c echo.Context) error {
	start := time.Now()
	defer h.observe("universe_search", start)

	q := c.QueryParam("q")
	if q == "" {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("q is required"))
	}
	limit := 10
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestError("limit must be an integer"))
		}
		limit = n
	}

	cacheKey := "universe:" + q + ":" + strconv.Itoa(limit)
	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(cacheKey); err != nil {
			h.logger.Warn("universe cache get failed", xlogger.Error(err))
		} else if ok {
			var cached models.UniverseSearchResponse
			if err := json.Unmarshal(b, &cached); err == nil {
				return xhttp.SuccessResponse(c, cached)
			}
		}
	}

	resp := h.advisor.SearchUniverse(q, limit)
	if h.cache != nil {
		if b, err := json.Marshal(resp); err == nil {
			if err := h.cache.SetBytes(cacheKey, b, 5*time.Minute); err != nil {
				h.logger.Warn("universe cache set failed", xlogger.Error(err))
			}
		}
	}
	return xhttp.SuccessResponse(c, resp)
}

func (h *PortfolioEchoHandler) PortfolioHealth(c echo.Context) error {
	start := time.Now()
	defer h.observe("portfolio_health", start)

	req := &models.PortfolioRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.advisor.Health(*req)
	if err != nil {
		return h.fail(c, "portfolio_health", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *PortfolioEchoHandler) PortfolioInsights(c echo.Context) error {
	start := time.Now()
	defer h.observe("portfolio_insights", start)

	req := &models.PortfolioRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.advisor.Insights(*req)
	if err != nil {
		return h.fail(c, "portfolio_insights", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *PortfolioEchoHandler) StarterPortfolio(c echo.Context) error {
	start := time.Now()
	defer h.observe("starter_portfolio", start)

	req := &models.StarterPortfolioRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.advisor.StarterPortfolio(*req)
	if err != nil {
		metrics.PortfolioErrors.WithLabelValues("starter_portfolio").Inc()
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *PortfolioEchoHandler) Simulate(c echo.Context) error {
	start := time.Now()
	defer h.observe("simulate", start)

	if !h.rl.Allow(c.RealIP()+":simulate", 5, 1) {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_RATE_LIMITED", "", "rate limited", 429))
	}

	req := &models.SimulateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.advisor.Simulate(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "simulate", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *PortfolioEchoHandler) SaveSimulation(c echo.Context) error {
	start := time.Now()
	defer h.observe("save_simulation", start)

	req := &models.SaveSimulationRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	rec, err := h.advisor.SaveSimulation(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "save_simulation", err)
	}
	return xhttp.CreatedResponse(c, rec)
}

func (h *PortfolioEchoHandler) LatestSimulation(c echo.Context) error {
	start := time.Now()
	defer h.observe("latest_simulation", start)

	email := c.QueryParam("email")
	if email == "" {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("email is required"))
	}
	rec, err := h.advisor.LatestSimulation(c.Request().Context(), email)
	if err != nil {
		return h.fail(c, "latest_simulation", err)
	}
	return xhttp.SuccessResponse(c, rec)
}
