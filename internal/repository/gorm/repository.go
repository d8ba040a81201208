package gormrepository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tradebi/internal/models"
	"tradebi/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- dimensions --------------------------------------------------------------

// findOrCreate resolves a dimension row by its natural key. The unique index
// plus ON CONFLICT DO NOTHING makes this safe against concurrent ingestion
// runs: a lost insert race falls through to the re-fetch.
func findOrCreate[T any](db *gorm.DB, item *T, keyColumn string, keyValue string) error {
	err := db.Where(keyColumn+" = ?", keyValue).First(item).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: keyColumn}},
		DoNothing: true,
	}).Create(item)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	return db.Where(keyColumn+" = ?", keyValue).First(item).Error
}

func (s *Store) FindOrCreateSymbol(ctx context.Context, item *models.Symbol) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	item.Symbol = strings.TrimSpace(item.Symbol)
	if item.Symbol == "" {
		return nil
	}
	return findOrCreate(s.db.WithContext(ctx), item, "symbol", item.Symbol)
}

func (s *Store) FindOrCreateTrader(ctx context.Context, item *models.Trader) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return nil
	}
	return findOrCreate(s.db.WithContext(ctx), item, "name", item.Name)
}

func (s *Store) FindOrCreateStrategy(ctx context.Context, item *models.Strategy) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return nil
	}
	return findOrCreate(s.db.WithContext(ctx), item, "name", item.Name)
}

func (s *Store) GetStrategyByID(ctx context.Context, id uint64) (*models.Strategy, error) {
	if s == nil || s.db == nil || id == 0 {
		return nil, nil
	}
	var item models.Strategy
	err := s.db.WithContext(ctx).Model(&models.Strategy{}).Where("id = ?", id).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListSymbols(ctx context.Context) ([]models.Symbol, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Symbol
	if err := s.db.WithContext(ctx).
		Model(&models.Symbol{}).
		Order("symbol asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListTraders(ctx context.Context) ([]models.Trader, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Trader
	if err := s.db.WithContext(ctx).
		Model(&models.Trader{}).
		Order("name asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListStrategies(ctx context.Context) ([]models.Strategy, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Strategy
	if err := s.db.WithContext(ctx).
		Model(&models.Strategy{}).
		Order("name asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- facts --------------------------------------------------------------------

func (s *Store) InsertTrades(ctx context.Context, items []models.Trade) error {
	if s == nil || s.db == nil || len(items) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).CreateInBatches(items, 500).Error
}

func (s *Store) applyTradeFilters(query *gorm.DB, params repository.ListTradesParams) *gorm.DB {
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("trade_facts.timestamp >= ?", *params.Since)
	}
	if params.Until != nil && !params.Until.IsZero() {
		query = query.Where("trade_facts.timestamp <= ?", *params.Until)
	}
	if params.SymbolID != nil && *params.SymbolID > 0 {
		query = query.Where("trade_facts.symbol_id = ?", *params.SymbolID)
	}
	if params.TraderID != nil && *params.TraderID > 0 {
		query = query.Where("trade_facts.trader_id = ?", *params.TraderID)
	}
	if params.StrategyID != nil && *params.StrategyID > 0 {
		query = query.Where("trade_facts.strategy_id = ?", *params.StrategyID)
	}
	return query
}

func (s *Store) ListTradeRows(ctx context.Context, params repository.ListTradesParams) ([]repository.TradeRow, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).
		Model(&models.Trade{}).
		Select(`trade_facts.id,
			trade_facts.timestamp,
			trade_facts.quantity,
			trade_facts.price,
			trade_facts.total_value,
			symbol_dim.symbol AS symbol,
			symbol_dim.asset_class AS asset_class,
			symbol_dim.sector AS sector,
			trader_dim.name AS trader_name,
			strategy_dim.name AS strategy_name`).
		Joins("JOIN symbol_dim ON symbol_dim.id = trade_facts.symbol_id").
		Joins("JOIN trader_dim ON trader_dim.id = trade_facts.trader_id").
		Joins("JOIN strategy_dim ON strategy_dim.id = trade_facts.strategy_id")
	query = s.applyTradeFilters(query, params)
	query = applyOrder(query, params.OrderBy, params.Asc, "trade_facts.timestamp")
	if params.Limit > 0 {
		query = query.Limit(params.Limit).Offset(normalizeOffset(params.Offset))
	}
	var rows []repository.TradeRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) CountTrades(ctx context.Context, params repository.ListTradesParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Trade{})
	query = s.applyTradeFilters(query, params)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// --- ETL bookkeeping -----------------------------------------------------------

func (s *Store) InsertIngestRun(ctx context.Context, item *models.IngestRun) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) UpdateIngestRun(ctx context.Context, item *models.IngestRun) error {
	if s == nil || s.db == nil || item == nil || item.ID == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) GetIngestRunBySourceFile(ctx context.Context, sourceFile string) (*models.IngestRun, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	sourceFile = strings.TrimSpace(sourceFile)
	if sourceFile == "" {
		return nil, nil
	}
	var item models.IngestRun
	err := s.db.WithContext(ctx).
		Model(&models.IngestRun{}).
		Where("source_file = ?", sourceFile).
		First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// --- helpers --------------------------------------------------------------------

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	if column == "" {
		column = fallback
	}
	direction := "desc"
	if asc != nil && *asc {
		direction = "asc"
	}
	return query.Order(column + " " + direction)
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
