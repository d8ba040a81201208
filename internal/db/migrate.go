package db

import (
	"tradebi/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Symbol{},
		&models.Trader{},
		&models.Strategy{},
		&models.Trade{},
		&models.IngestRun{},
	)
}
