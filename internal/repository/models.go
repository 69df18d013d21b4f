package repository

import (
	"time"

	"github.com/stackfold/pkg/model"
)

// ConversionRunRecord is the conversion_runs table.
type ConversionRunRecord struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	InputFile    string    `gorm:"column:input_file;type:varchar(512);index"`
	Format       string    `gorm:"column:format;type:varchar(16)"`
	Flags        string    `gorm:"column:flags;type:varchar(256)"`
	UniqueStacks int       `gorm:"column:unique_stacks"`
	TotalSamples int64     `gorm:"column:total_samples"`
	Skipped      int       `gorm:"column:skipped"`
	DurationMs   int64     `gorm:"column:duration_ms"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName returns the table name for ConversionRunRecord.
func (ConversionRunRecord) TableName() string {
	return "conversion_runs"
}

// ToModel converts the record to a model.ConversionRun.
func (r *ConversionRunRecord) ToModel() *model.ConversionRun {
	return &model.ConversionRun{
		ID:           r.ID,
		InputFile:    r.InputFile,
		Format:       model.InputFormat(r.Format),
		Flags:        r.Flags,
		UniqueStacks: r.UniqueStacks,
		TotalSamples: r.TotalSamples,
		Skipped:      r.Skipped,
		DurationMs:   r.DurationMs,
		CreatedAt:    r.CreatedAt,
	}
}

// FromModel converts a model.ConversionRun to its table record.
func FromModel(run *model.ConversionRun) *ConversionRunRecord {
	return &ConversionRunRecord{
		ID:           run.ID,
		InputFile:    run.InputFile,
		Format:       run.Format.String(),
		Flags:        run.Flags,
		UniqueStacks: run.UniqueStacks,
		TotalSamples: run.TotalSamples,
		Skipped:      run.Skipped,
		DurationMs:   run.DurationMs,
		CreatedAt:    run.CreatedAt,
	}
}
