package etl

import (
	"context"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tradebi/internal/models"
	"tradebi/internal/repository"
)

// SeedSampleData populates an empty database with demo dimensions and 100
// random trades over the last 30 days. No-op when any trades already exist.
func SeedSampleData(ctx context.Context, repo repository.Repository, logger *zap.Logger) error {
	total, err := repo.CountTrades(ctx, repository.ListTradesParams{})
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}

	symbols := []*models.Symbol{
		{Symbol: "AAPL", AssetClass: "Equity", Sector: "Technology"},
		{Symbol: "MSFT", AssetClass: "Equity", Sector: "Technology"},
		{Symbol: "BTC", AssetClass: "Crypto", Sector: "Currency"},
		{Symbol: "EUR/USD", AssetClass: "Forex", Sector: "Currency"},
	}
	for _, s := range symbols {
		if err := repo.FindOrCreateSymbol(ctx, s); err != nil {
			return err
		}
	}

	traders := []*models.Trader{
		{Name: "John Smith", Team: "Alpha"},
		{Name: "Jane Doe", Team: "Beta"},
	}
	for _, t := range traders {
		if err := repo.FindOrCreateTrader(ctx, t); err != nil {
			return err
		}
	}

	strategies := []*models.Strategy{
		{Name: "Momentum", Type: "Technical", RiskProfile: "High"},
		{Name: "Value", Type: "Fundamental", RiskProfile: "Medium"},
		{Name: "Market Neutral", Type: "Quantitative", RiskProfile: "Low"},
	}
	for _, s := range strategies {
		if err := repo.FindOrCreateStrategy(ctx, s); err != nil {
			return err
		}
	}

	start := time.Now().Add(-30 * 24 * time.Hour)
	trades := make([]models.Trade, 0, 100)
	for i := 0; i < 100; i++ {
		timestamp := start.Add(
			time.Duration(rand.Intn(31))*24*time.Hour +
				time.Duration(rand.Intn(24))*time.Hour +
				time.Duration(rand.Intn(60))*time.Minute,
		)
		price := decimal.NewFromFloat(10 + rand.Float64()*990).Round(2)
		quantity := decimal.NewFromInt(int64(1 + rand.Intn(100)))

		trades = append(trades, models.Trade{
			Timestamp:  timestamp,
			Quantity:   quantity,
			Price:      price,
			TotalValue: quantity.Mul(price),
			SymbolID:   symbols[rand.Intn(len(symbols))].ID,
			TraderID:   traders[rand.Intn(len(traders))].ID,
			StrategyID: strategies[rand.Intn(len(strategies))].ID,
		})
	}

	if err := repo.InsertTrades(ctx, trades); err != nil {
		return err
	}
	if logger != nil {
		logger.Info("seeded sample trading data", zap.Int("trades", len(trades)))
	}
	return nil
}
