package models

import (
	"time"

	"gorm.io/datatypes"
)

// IngestRun records one ETL load of a source file. SourceFile is unique so a
// scheduled directory sweep can skip files that were already loaded.
type IngestRun struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	SourceFile string `gorm:"type:varchar(255);uniqueIndex;not null" json:"source_file"`
	Status     string `gorm:"type:varchar(20);not null;index" json:"status"`

	TradesLoaded int            `gorm:"not null;default:0" json:"trades_loaded"`
	RowsSkipped  int            `gorm:"not null;default:0" json:"rows_skipped"`
	Stats        datatypes.JSON `gorm:"type:jsonb" json:"stats,omitempty"`
	Error        string         `gorm:"type:text" json:"error,omitempty"`

	StartedAt  time.Time  `gorm:"type:timestamptz;not null" json:"started_at"`
	FinishedAt *time.Time `gorm:"type:timestamptz" json:"finished_at,omitempty"`
}

func (IngestRun) TableName() string {
	return "ingest_runs"
}
