package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is the fact row of the star schema. Rows are written once by the ETL
// path and never updated; TotalValue is fixed to Quantity*Price at creation.
type Trade struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamp time.Time `gorm:"type:timestamptz;not null;index" json:"timestamp"`

	Quantity   decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"quantity"`
	Price      decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"price"`
	TotalValue decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"total_value"`

	SymbolID   uint64 `gorm:"not null;index" json:"symbol_id"`
	TraderID   uint64 `gorm:"not null;index" json:"trader_id"`
	StrategyID uint64 `gorm:"not null;index" json:"strategy_id"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"-"`
}

func (Trade) TableName() string {
	return "trade_facts"
}
