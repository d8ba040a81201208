package models

import "time"

// Symbol is the instrument dimension. Ticker is the natural key; the ETL path
// looks up by ticker and creates the row only when absent.
type Symbol struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Symbol     string `gorm:"type:varchar(30);uniqueIndex;not null" json:"symbol"`
	AssetClass string `gorm:"type:varchar(30);not null;index" json:"asset_class"`
	Sector     string `gorm:"type:varchar(50);not null" json:"sector"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"-"`
}

func (Symbol) TableName() string {
	return "symbol_dim"
}
