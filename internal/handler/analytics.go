package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tradebi/internal/service"
)

type AnalyticsHandler struct {
	Metrics     *service.MetricsService
	Performance *service.PerformanceService
}

func (h *AnalyticsHandler) Register(r *gin.Engine) {
	group := r.Group("/api/analytics")
	group.GET("/metrics", h.tradingMetrics)
	group.GET("/strategies/:id/performance", h.strategyPerformance)
}

// @Summary Trading metrics over a rolling window
// @Tags analytics
// @Param strategy_id query int false "filter by strategy"
// @Param symbol_id query int false "filter by symbol"
// @Param days query int false "window length in days (default 30)"
// @Router /api/analytics/metrics [get]
func (h *AnalyticsHandler) tradingMetrics(c *gin.Context) {
	if h.Metrics == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	days, ok := intQuery(c, "days", service.DefaultMetricsWindowDays)
	if !ok {
		Error(c, http.StatusBadRequest, "invalid days", nil)
		return
	}
	if days < 0 {
		Error(c, http.StatusBadRequest, "days must be >= 0", nil)
		return
	}
	result, err := h.Metrics.CalculateTradingMetrics(c.Request.Context(), service.MetricsQuery{
		StrategyID: idQueryPtr(c, "strategy_id"),
		SymbolID:   idQueryPtr(c, "symbol_id"),
		WindowDays: days,
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, result, nil)
}

// @Summary Per-strategy performance breakdowns
// @Tags analytics
// @Param id path int true "strategy id"
// @Param days query int false "window length in days (default 90)"
// @Router /api/analytics/strategies/{id}/performance [get]
func (h *AnalyticsHandler) strategyPerformance(c *gin.Context) {
	if h.Performance == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	strategyID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || strategyID == 0 {
		Error(c, http.StatusBadRequest, "invalid strategy id", nil)
		return
	}
	days, ok := intQuery(c, "days", service.DefaultPerformanceWindowDays)
	if !ok {
		Error(c, http.StatusBadRequest, "invalid days", nil)
		return
	}
	if days < 0 {
		Error(c, http.StatusBadRequest, "days must be >= 0", nil)
		return
	}
	result, err := h.Performance.AnalyzeStrategyPerformance(c.Request.Context(), strategyID, days)
	if errors.Is(err, service.ErrStrategyNotFound) {
		Error(c, http.StatusNotFound, "strategy not found", nil)
		return
	}
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, result, nil)
}
