package service

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tradebi/internal/repository"
)

const (
	DefaultMetricsWindowDays = 30

	// Annualization assumes a 252-trading-day year.
	tradingDaysPerYear = 252
)

type MetricsService struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

// MetricsQuery filters the trade window. Nil IDs mean no constraint on that
// dimension; filters are conjunctive.
type MetricsQuery struct {
	StrategyID *uint64
	SymbolID   *uint64
	WindowDays int
}

type DailyValue struct {
	Date       string          `json:"date"`
	Value      decimal.Decimal `json:"value"`
	TradeCount int             `json:"trade_count"`
}

type TradingMetrics struct {
	TradeCount   int             `json:"trade_count"`
	TotalValue   decimal.Decimal `json:"total_value"`
	AvgTradeSize decimal.Decimal `json:"avg_trade_size"`
	Volatility   float64         `json:"volatility"`
	PeriodDays   int             `json:"metrics_period_days"`
	DailyValues  []DailyValue    `json:"daily_values,omitempty"`
}

// CalculateTradingMetrics aggregates trades from the last WindowDays days into
// counts, totals, a per-date series, and annualized volatility. An empty match
// set yields a zero-valued result, not an error.
func (s *MetricsService) CalculateTradingMetrics(ctx context.Context, q MetricsQuery) (TradingMetrics, error) {
	days := q.WindowDays
	if days < 0 {
		days = DefaultMetricsWindowDays
	}
	since := time.Now().Add(-time.Duration(days) * 24 * time.Hour)

	asc := true
	rows, err := s.Repo.ListTradeRows(ctx, repository.ListTradesParams{
		Since:      &since,
		SymbolID:   q.SymbolID,
		StrategyID: q.StrategyID,
		OrderBy:    "trade_facts.timestamp",
		Asc:        &asc,
	})
	if err != nil {
		return TradingMetrics{}, err
	}

	out := TradingMetrics{
		TotalValue:   decimal.Zero,
		AvgTradeSize: decimal.Zero,
		PeriodDays:   days,
	}
	if len(rows) == 0 {
		return out, nil
	}

	out.TradeCount = len(rows)
	for _, row := range rows {
		out.TotalValue = out.TotalValue.Add(row.TotalValue)
	}
	out.AvgTradeSize = out.TotalValue.Div(decimal.NewFromInt(int64(out.TradeCount)))

	daily := groupSum(rows,
		func(r repository.TradeRow) string { return r.Timestamp.Format(dateLayout) },
		func(r repository.TradeRow) decimal.Decimal { return r.TotalValue },
	)
	dates := sortedKeys(daily)
	out.DailyValues = make([]DailyValue, 0, len(dates))
	values := make([]decimal.Decimal, 0, len(dates))
	for _, date := range dates {
		g := daily[date]
		out.DailyValues = append(out.DailyValues, DailyValue{
			Date:       date,
			Value:      g.Sum,
			TradeCount: g.Count,
		})
		values = append(values, g.Sum)
	}

	if len(values) > 1 {
		out.Volatility = annualizedVolatility(values)
	}

	if s.Logger != nil {
		s.Logger.Debug("trading metrics computed",
			zap.Int("trades", out.TradeCount),
			zap.Int("days", len(dates)),
			zap.Int("window_days", days),
		)
	}
	return out, nil
}

// annualizedVolatility is the population standard deviation of day-over-day
// percentage changes, scaled by sqrt(252). A zero-valued previous day makes
// the change undefined; that pair contributes no observation.
func annualizedVolatility(values []decimal.Decimal) float64 {
	returns := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		prev := values[i-1]
		if prev.IsZero() {
			continue
		}
		chg, _ := values[i].Sub(prev).Div(prev).Float64()
		returns = append(returns, chg)
	}
	if len(returns) == 0 {
		return 0
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))

	return math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear)
}
