// Package repository persists the conversion history: one row per
// completed run, so repeated conversions of the same inputs can be
// compared later.
package repository

import (
	"context"

	"github.com/stackfold/pkg/model"
)

// RunRepository stores and queries conversion runs.
type RunRepository interface {
	// SaveRun persists a completed run and fills in its ID.
	SaveRun(ctx context.Context, run *model.ConversionRun) error

	// RecentRuns returns the most recent runs, newest first.
	RecentRuns(ctx context.Context, limit int) ([]*model.ConversionRun, error)

	// RunsForInput returns all runs recorded for the given input file,
	// newest first.
	RunsForInput(ctx context.Context, inputFile string) ([]*model.ConversionRun, error)
}
