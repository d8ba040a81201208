package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"tradebi/internal/models"
)

// TradeRow is a fact row joined to its dimensions, the shape the analytics
// services and the /api/trades endpoint consume.
type TradeRow struct {
	ID           uint64          `json:"id"`
	Timestamp    time.Time       `json:"timestamp"`
	Quantity     decimal.Decimal `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	TotalValue   decimal.Decimal `json:"total_value"`
	Symbol       string          `json:"symbol"`
	AssetClass   string          `json:"asset_class"`
	Sector       string          `json:"sector"`
	TraderName   string          `json:"trader_name"`
	StrategyName string          `json:"strategy_name"`
}

type ListTradesParams struct {
	Since      *time.Time
	Until      *time.Time
	SymbolID   *uint64
	TraderID   *uint64
	StrategyID *uint64
	Limit      int
	Offset     int
	OrderBy    string
	Asc        *bool
}

// Repository is the storage boundary of the BI core. Analytics is read-only;
// the write half exists for the ETL path.
type Repository interface {
	// Dimensions. FindOrCreate* resolve by natural key and fill in the ID,
	// creating the row when absent.
	FindOrCreateSymbol(ctx context.Context, item *models.Symbol) error
	FindOrCreateTrader(ctx context.Context, item *models.Trader) error
	FindOrCreateStrategy(ctx context.Context, item *models.Strategy) error
	GetStrategyByID(ctx context.Context, id uint64) (*models.Strategy, error)
	ListSymbols(ctx context.Context) ([]models.Symbol, error)
	ListTraders(ctx context.Context) ([]models.Trader, error)
	ListStrategies(ctx context.Context) ([]models.Strategy, error)

	// Facts.
	InsertTrades(ctx context.Context, items []models.Trade) error
	ListTradeRows(ctx context.Context, params ListTradesParams) ([]TradeRow, error)
	CountTrades(ctx context.Context, params ListTradesParams) (int64, error)

	// ETL bookkeeping.
	InsertIngestRun(ctx context.Context, item *models.IngestRun) error
	UpdateIngestRun(ctx context.Context, item *models.IngestRun) error
	GetIngestRunBySourceFile(ctx context.Context, sourceFile string) (*models.IngestRun, error)
}
