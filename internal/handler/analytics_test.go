package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"tradebi/internal/models"
	"tradebi/internal/repository"
	"tradebi/internal/service"
)

type stubRepo struct {
	strategies map[uint64]*models.Strategy
	rows       []repository.TradeRow
}

func (s *stubRepo) GetStrategyByID(_ context.Context, id uint64) (*models.Strategy, error) {
	return s.strategies[id], nil
}

func (s *stubRepo) ListTradeRows(_ context.Context, _ repository.ListTradesParams) ([]repository.TradeRow, error) {
	return s.rows, nil
}

func (s *stubRepo) CountTrades(_ context.Context, _ repository.ListTradesParams) (int64, error) {
	return int64(len(s.rows)), nil
}

func (s *stubRepo) FindOrCreateSymbol(_ context.Context, _ *models.Symbol) error { return nil }
func (s *stubRepo) FindOrCreateTrader(_ context.Context, _ *models.Trader) error { return nil }
func (s *stubRepo) FindOrCreateStrategy(_ context.Context, _ *models.Strategy) error { return nil }
func (s *stubRepo) ListSymbols(_ context.Context) ([]models.Symbol, error) { return nil, nil }
func (s *stubRepo) ListTraders(_ context.Context) ([]models.Trader, error) { return nil, nil }
func (s *stubRepo) ListStrategies(_ context.Context) ([]models.Strategy, error) { return nil, nil }
func (s *stubRepo) InsertTrades(_ context.Context, _ []models.Trade) error { return nil }
func (s *stubRepo) InsertIngestRun(_ context.Context, _ *models.IngestRun) error { return nil }
func (s *stubRepo) UpdateIngestRun(_ context.Context, _ *models.IngestRun) error { return nil }
func (s *stubRepo) GetIngestRunBySourceFile(_ context.Context, _ string) (*models.IngestRun, error) {
	return nil, nil
}

func newAnalyticsEngine(repo repository.Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := &AnalyticsHandler{
		Metrics:     &service.MetricsService{Repo: repo},
		Performance: &service.PerformanceService{Repo: repo},
	}
	h.Register(engine)
	return engine
}

func TestTradingMetricsEndpoint(t *testing.T) {
	now := time.Now()
	repo := &stubRepo{rows: []repository.TradeRow{
		{Timestamp: now, TotalValue: decimal.NewFromInt(100)},
		{Timestamp: now, TotalValue: decimal.NewFromInt(300)},
	}}
	engine := newAnalyticsEngine(repo)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/analytics/metrics?days=7", nil)
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want=200 body=%s", rec.Code, rec.Body.String())
	}
	var body struct {
		Code int                    `json:"code"`
		Data service.TradingMetrics `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Code != 0 {
		t.Fatalf("code=%d want=0", body.Code)
	}
	if body.Data.TradeCount != 2 || !body.Data.TotalValue.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("data=%+v", body.Data)
	}
	if body.Data.PeriodDays != 7 {
		t.Fatalf("period_days=%d want=7", body.Data.PeriodDays)
	}
}

func TestTradingMetricsEndpoint_NegativeDays(t *testing.T) {
	engine := newAnalyticsEngine(&stubRepo{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/analytics/metrics?days=-1", nil)
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=400", rec.Code)
	}
}

func TestTradingMetricsEndpoint_NonNumericDays(t *testing.T) {
	engine := newAnalyticsEngine(&stubRepo{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/analytics/metrics?days=abc", nil)
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=400 body=%s", rec.Code, rec.Body.String())
	}
}

func TestStrategyPerformanceEndpoint_NonNumericDays(t *testing.T) {
	engine := newAnalyticsEngine(&stubRepo{strategies: map[uint64]*models.Strategy{
		1: {ID: 1, Name: "Momentum", Type: "Technical", RiskProfile: "High"},
	}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/analytics/strategies/1/performance?days=abc", nil)
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=400 body=%s", rec.Code, rec.Body.String())
	}
}

func TestStrategyPerformanceEndpoint_NotFound(t *testing.T) {
	engine := newAnalyticsEngine(&stubRepo{strategies: map[uint64]*models.Strategy{}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/analytics/strategies/99/performance", nil)
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d want=404 body=%s", rec.Code, rec.Body.String())
	}
}

func TestStrategyPerformanceEndpoint_EmptyWindow(t *testing.T) {
	repo := &stubRepo{strategies: map[uint64]*models.Strategy{
		3: {ID: 3, Name: "Value", Type: "Fundamental", RiskProfile: "Medium"},
	}}
	engine := newAnalyticsEngine(repo)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/analytics/strategies/3/performance", nil)
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d want=200 body=%s", rec.Code, rec.Body.String())
	}
	var body struct {
		Data service.StrategyPerformance `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Data.StrategyName != "Value" || body.Data.TradeCount != 0 {
		t.Fatalf("data=%+v", body.Data)
	}
}
