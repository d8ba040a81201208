package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"tradebi/internal/repository"
)

// CatalogHandler serves the dimension listings and the joined trade browse
// endpoint consumed by the dashboard.
type CatalogHandler struct {
	Repo repository.Repository
}

func (h *CatalogHandler) Register(r *gin.Engine) {
	group := r.Group("/api")
	group.GET("/symbols", h.listSymbols)
	group.GET("/traders", h.listTraders)
	group.GET("/strategies", h.listStrategies)
	group.GET("/trades", h.listTrades)
}

func (h *CatalogHandler) listSymbols(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	items, err := h.Repo.ListSymbols(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}

func (h *CatalogHandler) listTraders(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	items, err := h.Repo.ListTraders(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}

func (h *CatalogHandler) listStrategies(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	items, err := h.Repo.ListStrategies(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}

// @Summary Browse trades joined to their dimensions
// @Tags catalog
// @Param start_date query string false "inclusive lower bound (RFC3339 or YYYY-MM-DD)"
// @Param end_date query string false "inclusive upper bound"
// @Param symbol_id query int false "filter by symbol"
// @Param strategy_id query int false "filter by strategy"
// @Param trader_id query int false "filter by trader"
// @Param limit query int false "page size (default 100, max 500)"
// @Param offset query int false "page offset"
// @Router /api/trades [get]
func (h *CatalogHandler) listTrades(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	since, ok := timeQuery(c, "start_date")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid start_date", nil)
		return
	}
	until, ok := timeQuery(c, "end_date")
	if !ok {
		Error(c, http.StatusBadRequest, "invalid end_date", nil)
		return
	}
	limit, ok := intQuery(c, "limit", 100)
	if !ok {
		Error(c, http.StatusBadRequest, "invalid limit", nil)
		return
	}
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	offset, ok := intQuery(c, "offset", 0)
	if !ok {
		Error(c, http.StatusBadRequest, "invalid offset", nil)
		return
	}
	params := repository.ListTradesParams{
		Since:      since,
		Until:      until,
		SymbolID:   idQueryPtr(c, "symbol_id"),
		StrategyID: idQueryPtr(c, "strategy_id"),
		TraderID:   idQueryPtr(c, "trader_id"),
		Limit:      limit,
		Offset:     offset,
		OrderBy:    "trade_facts.timestamp",
		Asc:        boolPtr(false),
	}

	total, err := h.Repo.CountTrades(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	items, err := h.Repo.ListTradeRows(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, map[string]any{
		"total":  total,
		"limit":  params.Limit,
		"offset": params.Offset,
	})
}

// intQuery parses an integer query value. The bool is false only when a value
// was supplied and unparseable; callers reject that with 400.
func intQuery(c *gin.Context, key string, def int) (int, bool) {
	val := c.Query(key)
	if val == "" {
		return def, true
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return def, false
	}
	return i, true
}

func idQueryPtr(c *gin.Context, key string) *uint64 {
	if val := c.Query(key); val != "" {
		if id, err := strconv.ParseUint(val, 10, 64); err == nil && id > 0 {
			return &id
		}
	}
	return nil
}

// timeQuery accepts RFC3339 or a bare date. The bool is false only when a
// value was supplied and unparseable.
func timeQuery(c *gin.Context, key string) (*time.Time, bool) {
	val := strings.TrimSpace(c.Query(key))
	if val == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, val); err == nil {
			return &ts, true
		}
	}
	return nil, false
}

func boolPtr(v bool) *bool { return &v }
