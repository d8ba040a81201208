package models

import "time"

// Strategy dimension; Name is the natural key.
type Strategy struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Type        string `gorm:"type:varchar(50);not null" json:"type"`
	RiskProfile string `gorm:"type:varchar(20);not null" json:"risk_profile"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"-"`
}

func (Strategy) TableName() string {
	return "strategy_dim"
}
