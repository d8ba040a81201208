package service

import (
	"context"

	"tradebi/internal/models"
	"tradebi/internal/repository"
)

// stubRepo is an in-memory repository.Repository for service tests. Only the
// read paths used by the analytics services are meaningful; the ETL methods
// are inert.
type stubRepo struct {
	strategies map[uint64]*models.Strategy
	rows       []repository.TradeRow
	err        error

	lastParams repository.ListTradesParams
}

func (s *stubRepo) GetStrategyByID(_ context.Context, id uint64) (*models.Strategy, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.strategies[id], nil
}

func (s *stubRepo) ListTradeRows(_ context.Context, params repository.ListTradesParams) ([]repository.TradeRow, error) {
	s.lastParams = params
	if s.err != nil {
		return nil, s.err
	}
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
