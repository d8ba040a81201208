package models

import "time"

// Trader dimension; Name is the natural key.
type Trader struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Team string `gorm:"type:varchar(50);not null" json:"team"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"-"`
}

func (Trader) TableName() string {
	return "trader_dim"
}
