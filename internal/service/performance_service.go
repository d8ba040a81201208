package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tradebi/internal/repository"
)

const DefaultPerformanceWindowDays = 90

// topSymbolsLimit caps the symbol breakdown.
const topSymbolsLimit = 10

var ErrStrategyNotFound = errors.New("strategy not found")

type PerformanceService struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

type DailyPerformance struct {
	Date  string          `json:"date"`
	Value decimal.Decimal `json:"value"`
}

type AssetClassBreakdown struct {
	AssetClass string          `json:"asset_class"`
	Value      decimal.Decimal `json:"value"`
	Percentage float64         `json:"percentage"`
}

type SymbolBreakdown struct {
	Symbol     string          `json:"symbol"`
	Value      decimal.Decimal `json:"value"`
	Percentage float64         `json:"percentage"`
}

type PerformanceSummary struct {
	TotalValue    decimal.Decimal `json:"total_value"`
	DailyAverage  decimal.Decimal `json:"daily_average"`
	TradeCount    int             `json:"trade_count"`
	UniqueSymbols int             `json:"unique_symbols"`
}

type StrategyPerformance struct {
	StrategyName        string                `json:"strategy_name"`
	StrategyType        string                `json:"strategy_type"`
	RiskProfile         string                `json:"risk_profile"`
	TradeCount          int                   `json:"trade_count"`
	Summary             PerformanceSummary    `json:"performance_summary"`
	AssetClassBreakdown []AssetClassBreakdown `json:"asset_class_breakdown,omitempty"`
	TopSymbols          []SymbolBreakdown     `json:"top_symbols,omitempty"`
	DailyPerformance    []DailyPerformance    `json:"daily_performance"`
}

// AnalyzeStrategyPerformance breaks a strategy's trades in the last windowDays
// days down by date, asset class, and symbol. An unknown strategy ID returns
// ErrStrategyNotFound; a known strategy with no trades returns its descriptive
// fields with zeroed sections.
func (s *PerformanceService) AnalyzeStrategyPerformance(ctx context.Context, strategyID uint64, windowDays int) (StrategyPerformance, error) {
	strategy, err := s.Repo.GetStrategyByID(ctx, strategyID)
	if err != nil {
		return StrategyPerformance{}, err
	}
	if strategy == nil {
		return StrategyPerformance{}, ErrStrategyNotFound
	}

	days := windowDays
	if days < 0 {
		days = DefaultPerformanceWindowDays
	}
	until := time.Now()
	since := until.Add(-time.Duration(days) * 24 * time.Hour)

	asc := true
	rows, err := s.Repo.ListTradeRows(ctx, repository.ListTradesParams{
		Since:      &since,
		Until:      &until,
		StrategyID: &strategyID,
		OrderBy:    "trade_facts.timestamp",
		Asc:        &asc,
	})
	if err != nil {
		return StrategyPerformance{}, err
	}

	out := StrategyPerformance{
		StrategyName: strategy.Name,
		StrategyType: strategy.Type,
		RiskProfile:  strategy.RiskProfile,
		Summary: PerformanceSummary{
			TotalValue:   decimal.Zero,
			DailyAverage: decimal.Zero,
		},
		DailyPerformance: []DailyPerformance{},
	}
	if len(rows) == 0 {
		return out, nil
	}

	grandTotal := decimal.Zero
	for _, row := range rows {
		grandTotal = grandTotal.Add(row.TotalValue)
	}

	daily := groupSum(rows,
		func(r repository.TradeRow) string { return r.Timestamp.Format(dateLayout) },
		func(r repository.TradeRow) decimal.Decimal { return r.TotalValue },
	)
	for _, date := range sortedKeys(daily) {
		out.DailyPerformance = append(out.DailyPerformance, DailyPerformance{
			Date:  date,
			Value: daily[date].Sum,
		})
	}

	byClass := groupSum(rows,
		func(r repository.TradeRow) string { return r.AssetClass },
		func(r repository.TradeRow) decimal.Decimal { return r.TotalValue },
	)
	out.AssetClassBreakdown = make([]AssetClassBreakdown, 0, len(byClass))
	for _, class := range sortedKeys(byClass) {
		out.AssetClassBreakdown = append(out.AssetClassBreakdown, AssetClassBreakdown{
			AssetClass: class,
			Value:      byClass[class].Sum,
			Percentage: percentOf(byClass[class].Sum, grandTotal),
		})
	}

	bySymbol := groupSum(rows,
		func(r repository.TradeRow) string { return r.Symbol },
		func(r repository.TradeRow) decimal.Decimal { return r.TotalValue },
	)
	uniqueSymbols := len(bySymbol)
	out.TopSymbols = make([]SymbolBreakdown, 0, len(bySymbol))
	for symbol, g := range bySymbol {
		out.TopSymbols = append(out.TopSymbols, SymbolBreakdown{
			Symbol:     symbol,
			Value:      g.Sum,
			Percentage: percentOf(g.Sum, grandTotal),
		})
	}
	sort.Slice(out.TopSymbols, func(i, j int) bool {
		cmp := out.TopSymbols[i].Value.Cmp(out.TopSymbols[j].Value)
		if cmp != 0 {
			return cmp > 0
		}
		return out.TopSymbols[i].Symbol < out.TopSymbols[j].Symbol
	})
	if len(out.TopSymbols) > topSymbolsLimit {
		out.TopSymbols = out.TopSymbols[:topSymbolsLimit]
	}

	out.TradeCount = len(rows)
	out.Summary = PerformanceSummary{
		TotalValue:    grandTotal,
		DailyAverage:  dailyAverage(grandTotal, len(daily)),
		TradeCount:    len(rows),
		UniqueSymbols: uniqueSymbols,
	}

	if s.Logger != nil {
		s.Logger.Debug("strategy performance computed",
			zap.Uint64("strategy_id", strategyID),
			zap.Int("trades", len(rows)),
			zap.Int("days", len(daily)),
		)
	}
	return out, nil
}

func percentOf(part, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	pct, _ := part.Mul(decimal.NewFromInt(100)).Div(total).Float64()
	return pct
}

func dailyAverage(total decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(days)))
}
