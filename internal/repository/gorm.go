package repository

import (
	"context"

	"gorm.io/gorm"

	apperrors "github.com/stackfold/pkg/errors"
	"github.com/stackfold/pkg/model"
)

// GormRunRepository is the GORM-backed RunRepository.
type GormRunRepository struct {
	db *gorm.DB
}

// NewGormRunRepository creates a GormRunRepository.
func NewGormRunRepository(db *gorm.DB) *GormRunRepository {
	return &GormRunRepository{db: db}
}

// SaveRun persists a completed run and fills in its ID.
func (r *GormRunRepository) SaveRun(ctx context.Context, run *model.ConversionRun) error {
	record := FromModel(run)

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return apperrors.Wrap(apperrors.CodeDatabaseError, "saving conversion run", err)
	}

	run.ID = record.ID
	run.CreatedAt = record.CreatedAt
	return nil
}

// RecentRuns returns the most recent runs, newest first.
func (r *GormRunRepository) RecentRuns(ctx context.Context, limit int) ([]*model.ConversionRun, error) {
	if limit <= 0 {
		limit = 20
	}

	var records []ConversionRunRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "listing conversion runs", err)
	}

	return toModels(records), nil
}

// RunsForInput returns all runs recorded for the given input file,
// newest first.
func (r *GormRunRepository) RunsForInput(ctx context.Context, inputFile string) ([]*model.ConversionRun, error) {
	var records []ConversionRunRecord
	err := r.db.WithContext(ctx).
		Where("input_file = ?", inputFile).
		Order("created_at DESC, id DESC").
		Find(&records).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "querying conversion runs", err)
	}

	return toModels(records), nil
}

func toModels(records []ConversionRunRecord) []*model.ConversionRun {
	runs := make([]*model.ConversionRun, 0, len(records))
	for i := range records {
		runs = append(runs, records[i].ToModel())
	}
	return runs
}
