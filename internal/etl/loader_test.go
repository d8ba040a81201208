package etl

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"tradebi/internal/models"
	"tradebi/internal/repository"
)

// stubRepo assigns dimension IDs by natural key and records inserts, counting
// how many find-or-create calls reached storage.
type stubRepo struct {
	symbolIDs   map[string]uint64
	traderIDs   map[string]uint64
	strategyIDs map[string]uint64
	nextID      uint64

	symbolLookups   int
	traderLookups   int
	strategyLookups int

	inserted []models.Trade
	runs     []*models.IngestRun
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		symbolIDs:   map[string]uint64{},
		traderIDs:   map[string]uint64{},
		strategyIDs: map[string]uint64{},
	}
}

func (s *stubRepo) allocate(ids map[string]uint64, key string) uint64 {
	if id, ok := ids[key]; ok {
		return id
	}
	s.nextID++
	ids[key] = s.nextID
	return s.nextID
}

func (s *stubRepo) FindOrCreateSymbol(_ context.Context, item *models.Symbol) error {
	s.symbolLookups++
	item.ID = s.allocate(s.symbolIDs, item.Symbol)
	return nil
}

func (s *stubRepo) FindOrCreateTrader(_ context.Context, item *models.Trader) error {
	s.traderLookups++
	item.ID = s.allocate(s.traderIDs, item.Name)
	return nil
}

func (s *stubRepo) FindOrCreateStrategy(_ context.Context, item *models.Strategy) error {
	s.strategyLookups++
	item.ID = s.allocate(s.strategyIDs, item.Name)
	return nil
}

func (s *stubRepo) InsertTrades(_ context.Context, items []models.Trade) error {
	s.inserted = append(s.inserted, items...)
	return nil
}

func (s *stubRepo) InsertIngestRun(_ context.Context, item *models.IngestRun) error {
	for _, run := range s.runs {
		if run.SourceFile == item.SourceFile {
			return fmt.Errorf("duplicate key value violates unique constraint %q", "idx_ingest_runs_source_file")
		}
	}
	item.ID = uint64(len(s.runs) + 1)
	s.runs = append(s.runs, item)
	return nil
}

func (s *stubRepo) UpdateIngestRun(_ context.Context, _ *models.IngestRun) error { return nil }

func (s *stubRepo) GetIngestRunBySourceFile(_ context.Context, sourceFile string) (*models.IngestRun, error) {
	for _, run := range s.runs {
		if run.SourceFile == sourceFile {
			return run, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) GetStrategyByID(_ context.Context, _ uint64) (*models.Strategy, error) {
	return nil, nil
}
func (s *stubRepo) ListSymbols(_ context.Context) ([]models.Symbol, error) { return nil, nil }
func (s *stubRepo) ListTraders(_ context.Context) ([]models.Trader, error) { return nil, nil }
func (s *stubRepo) ListStrategies(_ context.Context) ([]models.Strategy, error) { return nil, nil }
func (s *stubRepo) ListTradeRows(_ context.Context, _ repository.ListTradesParams) ([]repository.TradeRow, error) {
	return nil, nil
}
func (s *stubRepo) CountTrades(_ context.Context, _ repository.ListTradesParams) (int64, error) {
	return int64(len(s.inserted)), nil
}

const sampleCSV = `symbol,asset_class,sector,trader,team,strategy,strategy_type,risk_profile,timestamp,quantity,price
AAPL,Equity,Technology,John Smith,Alpha,Momentum,Technical,High,2026-03-10 09:30:00,10,150.50
AAPL,Equity,Technology,John Smith,Alpha,Momentum,Technical,High,2026-03-10 11:00:00,5,151.00
BTC,Crypto,Currency,Jane Doe,Beta,Momentum,Technical,High,2026-03-11T14:00:00,0.25,40000
`

func TestLoadCSV(t *testing.T) {
	repo := newStubRepo()
	loader := &Loader{Repo: repo}

	result, err := loader.LoadCSV(context.Background(), strings.NewReader(sampleCSV), "trades.csv")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if result.Trades != 3 || result.Skipped != 0 {
		t.Fatalf("result=%+v", result)
	}
	if result.Symbols != 2 || result.Traders != 2 || result.Strategies != 1 {
		t.Fatalf("dimension counts=%+v", result)
	}

	// Natural keys repeated within the run resolve from the cache, one storage
	// round-trip per distinct key.
	if repo.symbolLookups != 2 || repo.traderLookups != 2 || repo.strategyLookups != 1 {
		t.Fatalf("lookups symbols=%d traders=%d strategies=%d",
			repo.symbolLookups, repo.traderLookups, repo.strategyLookups)
	}

	if len(repo.inserted) != 3 {
		t.Fatalf("inserted=%d want=3", len(repo.inserted))
	}
	first := repo.inserted[0]
	if !first.TotalValue.Equal(decimal.RequireFromString("1505")) {
		t.Fatalf("total_value=%s want=1505", first.TotalValue)
	}
	if first.SymbolID == 0 || first.TraderID == 0 || first.StrategyID == 0 {
		t.Fatalf("dimension refs not set: %+v", first)
	}
	if repo.inserted[0].SymbolID != repo.inserted[1].SymbolID {
		t.Fatalf("same ticker mapped to different symbol ids")
	}
	crypto := repo.inserted[2]
	if !crypto.Quantity.Equal(decimal.RequireFromString("0.25")) {
		t.Fatalf("fractional quantity=%s want=0.25", crypto.Quantity)
	}
	if !crypto.TotalValue.Equal(decimal.RequireFromString("10000")) {
		t.Fatalf("crypto total=%s want=10000", crypto.TotalValue)
	}

	if len(repo.runs) != 1 {
		t.Fatalf("runs=%d want=1", len(repo.runs))
	}
	run := repo.runs[0]
	if run.Status != RunStatusLoaded || run.TradesLoaded != 3 || run.FinishedAt == nil {
		t.Fatalf("run=%+v", run)
	}
}

func TestLoadCSV_SkipsBadRows(t *testing.T) {
	csvData := `symbol,trader,strategy,timestamp,quantity,price
AAPL,John Smith,Momentum,2026-03-10 09:30:00,10,150.50
AAPL,John Smith,Momentum,not-a-timestamp,10,150.50
AAPL,John Smith,Momentum,2026-03-10 10:00:00,ten,150.50
,John Smith,Momentum,2026-03-10 10:30:00,10,150.50
AAPL,John Smith,Momentum,2026-03-10 11:00:00,5,100
`
	repo := newStubRepo()
	loader := &Loader{Repo: repo}

	result, err := loader.LoadCSV(context.Background(), strings.NewReader(csvData), "mixed.csv")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if result.Trades != 2 {
		t.Fatalf("trades=%d want=2", result.Trades)
	}
	if result.Skipped != 3 {
		t.Fatalf("skipped=%d want=3", result.Skipped)
	}
}

func TestLoadCSV_MissingColumn(t *testing.T) {
	csvData := `symbol,trader,timestamp,quantity,price
AAPL,John Smith,2026-03-10 09:30:00,10,150.50
`
	repo := newStubRepo()
	loader := &Loader{Repo: repo}

	result, err := loader.LoadCSV(context.Background(), strings.NewReader(csvData), "broken.csv")
	if err == nil {
		t.Fatalf("want error for missing strategy column")
	}
	if result.Trades != 0 {
		t.Fatalf("trades=%d want=0", result.Trades)
	}
	if len(repo.runs) != 1 || repo.runs[0].Status != RunStatusFailed {
		t.Fatalf("run not marked failed: %+v", repo.runs)
	}
}

func TestLoadCSV_RetryAfterFailureReusesRun(t *testing.T) {
	repo := newStubRepo()
	loader := &Loader{Repo: repo}

	broken := `symbol,trader,timestamp,quantity,price
AAPL,John Smith,2026-03-10 09:30:00,10,150.50
`
	if _, err := loader.LoadCSV(context.Background(), strings.NewReader(broken), "retry.csv"); err == nil {
		t.Fatalf("want error for missing strategy column")
	}
	if len(repo.runs) != 1 || repo.runs[0].Status != RunStatusFailed {
		t.Fatalf("run not marked failed: %+v", repo.runs)
	}

	fixed := `symbol,trader,strategy,timestamp,quantity,price
AAPL,John Smith,Momentum,2026-03-10 09:30:00,10,150.50
`
	result, err := loader.LoadCSV(context.Background(), strings.NewReader(fixed), "retry.csv")
	if err != nil {
		t.Fatalf("retry err=%v", err)
	}
	if result.Trades != 1 {
		t.Fatalf("trades=%d want=1", result.Trades)
	}
	if len(repo.runs) != 1 {
		t.Fatalf("runs=%d want=1, retry must reuse the row", len(repo.runs))
	}
	run := repo.runs[0]
	if run.Status != RunStatusLoaded || run.TradesLoaded != 1 || run.Error != "" {
		t.Fatalf("run after retry=%+v", run)
	}
	if run.FinishedAt == nil {
		t.Fatalf("finished_at not set after retry")
	}
}

func TestLoadCSV_DefaultsForOptionalColumns(t *testing.T) {
	csvData := `symbol,trader,strategy,timestamp,quantity,price
TSLA,Ada Smith,Value,2026-03-12,3,200
`
	repo := newStubRepo()
	loader := &Loader{Repo: repo}

	if _, err := loader.LoadCSV(context.Background(), strings.NewReader(csvData), "min.csv"); err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("inserted=%d want=1", len(repo.inserted))
	}
	if _, ok := repo.symbolIDs["TSLA"]; !ok {
		t.Fatalf("symbol not created: %v", repo.symbolIDs)
	}
}
