package etl

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"tradebi/internal/models"
	"tradebi/internal/repository"
)

const (
	RunStatusLoaded = "loaded"
	RunStatusFailed = "failed"

	defaultBatchSize = 500
)

// Loader ingests trade CSVs into the star schema. Dimension rows are resolved
// by natural key (find-or-create) and cached for the duration of one run, so a
// key repeated within a file hits the database once.
type Loader struct {
	Repo      repository.Repository
	Logger    *zap.Logger
	BatchSize int
}

type LoadResult struct {
	SourceFile string `json:"source_file"`
	Trades     int    `json:"trades"`
	Skipped    int    `json:"skipped"`
	Symbols    int    `json:"symbols"`
	Traders    int    `json:"traders"`
	Strategies int    `json:"strategies"`
}

// timestampLayouts are tried in order when parsing the timestamp column.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// LoadCSV reads one CSV stream and inserts its trades. The expected header is
// symbol,trader,strategy,timestamp,quantity,price with optional descriptive
// columns (asset_class, sector, team, strategy_type, risk_profile). Rows that
// fail to parse are skipped and counted, not fatal.
func (l *Loader) LoadCSV(ctx context.Context, r io.Reader, sourceFile string) (LoadResult, error) {
	result := LoadResult{SourceFile: sourceFile}

	run, err := l.beginRun(ctx, sourceFile)
	if err != nil {
		return result, err
	}

	res, err := l.loadRows(ctx, r)
	res.SourceFile = sourceFile
	now := time.Now().UTC()
	run.FinishedAt = &now
	run.TradesLoaded = res.Trades
	run.RowsSkipped = res.Skipped
	if stats, merr := json.Marshal(res); merr == nil {
		run.Stats = datatypes.JSON(stats)
	}
	if err != nil {
		run.Error = err.Error()
	} else {
		run.Status = RunStatusLoaded
	}
	if uerr := l.Repo.UpdateIngestRun(ctx, run); uerr != nil && err == nil {
		err = uerr
	}
	return res, err
}

// beginRun records the attempt. A file seen before reuses its run row with the
// counters reset; inserting a second row would trip the source_file unique
// index and make failed files impossible to retry.
func (l *Loader) beginRun(ctx context.Context, sourceFile string) (*models.IngestRun, error) {
	run, err := l.Repo.GetIngestRunBySourceFile(ctx, sourceFile)
	if err != nil {
		return nil, err
	}
	if run == nil {
		run = &models.IngestRun{
			SourceFile: sourceFile,
			Status:     RunStatusFailed,
			StartedAt:  time.Now().UTC(),
		}
		return run, l.Repo.InsertIngestRun(ctx, run)
	}
	run.Status = RunStatusFailed
	run.StartedAt = time.Now().UTC()
	run.FinishedAt = nil
	run.TradesLoaded = 0
	run.RowsSkipped = 0
	run.Error = ""
	run.Stats = nil
	return run, l.Repo.UpdateIngestRun(ctx, run)
}

func (l *Loader) loadRows(ctx context.Context, r io.Reader) (LoadResult, error) {
	var result LoadResult

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return result, fmt.Errorf("read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"symbol", "trader", "strategy", "timestamp", "quantity", "price"} {
		if _, ok := cols[required]; !ok {
			return result, fmt.Errorf("csv missing required column %q", required)
		}
	}

	symbols := map[string]uint64{}
	traders := map[string]uint64{}
	strategies := map[string]uint64{}

	batchSize := l.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	batch := make([]models.Trade, 0, batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := l.Repo.InsertTrades(ctx, batch); err != nil {
			return err
		}
		result.Trades += len(batch)
		batch = batch[:0]
		return nil
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return result, fmt.Errorf("read csv row: %w", err)
		}

		field := func(name string) string {
			idx, ok := cols[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}
		fieldOr := func(name, fallback string) string {
			if v := field(name); v != "" {
				return v
			}
			return fallback
		}

		trade, err := l.buildTrade(ctx, field, fieldOr, symbols, traders, strategies)
		if err != nil {
			result.Skipped++
			if l.Logger != nil {
				l.Logger.Warn("skipping csv row", zap.Error(err))
			}
			continue
		}

		batch = append(batch, trade)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return result, err
			}
		}
	}
	if err := flush(); err != nil {
		return result, err
	}

	result.Symbols = len(symbols)
	result.Traders = len(traders)
	result.Strategies = len(strategies)
	return result, nil
}

func (l *Loader) buildTrade(
	ctx context.Context,
	field func(string) string,
	fieldOr func(string, string) string,
	symbols, traders, strategies map[string]uint64,
) (models.Trade, error) {
	ticker := field("symbol")
	traderName := field("trader")
	strategyName := field("strategy")
	if ticker == "" || traderName == "" || strategyName == "" {
		return models.Trade{}, fmt.Errorf("row missing dimension keys")
	}

	timestamp, err := parseTimestamp(field("timestamp"))
	if err != nil {
		return models.Trade{}, err
	}
	quantity, err := decimal.NewFromString(field("quantity"))
	if err != nil {
		return models.Trade{}, fmt.Errorf("parse quantity: %w", err)
	}
	price, err := decimal.NewFromString(field("price"))
	if err != nil {
		return models.Trade{}, fmt.Errorf("parse price: %w", err)
	}

	symbolID, ok := symbols[ticker]
	if !ok {
		symbol := &models.Symbol{
			Symbol:     ticker,
			AssetClass: fieldOr("asset_class", "Unknown"),
			Sector:     fieldOr("sector", "Unknown"),
		}
		if err := l.Repo.FindOrCreateSymbol(ctx, symbol); err != nil {
			return models.Trade{}, err
		}
		symbolID = symbol.ID
		symbols[ticker] = symbolID
	}

	traderID, ok := traders[traderName]
	if !ok {
		trader := &models.Trader{
			Name: traderName,
			Team: fieldOr("team", "Unknown"),
		}
		if err := l.Repo.FindOrCreateTrader(ctx, trader); err != nil {
			return models.Trade{}, err
		}
		traderID = trader.ID
		traders[traderName] = traderID
	}

	strategyID, ok := strategies[strategyName]
	if !ok {
		strategy := &models.Strategy{
			Name:        strategyName,
			Type:        fieldOr("strategy_type", "Unknown"),
			RiskProfile: fieldOr("risk_profile", "Medium"),
		}
		if err := l.Repo.FindOrCreateStrategy(ctx, strategy); err != nil {
			return models.Trade{}, err
		}
		strategyID = strategy.ID
		strategies[strategyName] = strategyID
	}

	return models.Trade{
		Timestamp:  timestamp,
		Quantity:   quantity,
		Price:      price,
		TotalValue: quantity.Mul(price),
		SymbolID:   symbolID,
		TraderID:   traderID,
		StrategyID: strategyID,
	}, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", raw)
}

// LoadFile ingests one file unless a prior run already loaded it.
func (l *Loader) LoadFile(ctx context.Context, path string) (LoadResult, error) {
	name := filepath.Base(path)
	prior, err := l.Repo.GetIngestRunBySourceFile(ctx, name)
	if err != nil {
		return LoadResult{}, err
	}
	if prior != nil && prior.Status == RunStatusLoaded {
		return LoadResult{SourceFile: name}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return LoadResult{}, err
	}
	defer f.Close()

	return l.LoadCSV(ctx, f, name)
}

// SweepDir loads every not-yet-ingested CSV in dir, oldest name first. Used by
// the cron job; individual file failures are logged and do not stop the sweep.
func (l *Loader) SweepDir(ctx context.Context, dir string) error {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return err
	}
	sort.Strings(paths)
	for _, path := range paths {
		res, err := l.LoadFile(ctx, path)
		if err != nil {
			if l.Logger != nil {
				l.Logger.Warn("etl sweep: load failed", zap.String("file", path), zap.Error(err))
			}
			continue
		}
		if res.Trades > 0 && l.Logger != nil {
			l.Logger.Info("etl sweep: file loaded",
				zap.String("file", res.SourceFile),
				zap.Int("trades", res.Trades),
				zap.Int("skipped", res.Skipped),
			)
		}
	}
	return nil
}
