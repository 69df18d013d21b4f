// Package converter wires the format parsers, the folder and the output
// writers into complete conversion runs.
package converter

import (
	"context"
	"io"

	"github.com/stackfold/pkg/model"
)

// Stats summarizes what a conversion produced.
type Stats struct {
	// UniqueStacks is the number of output lines.
	UniqueStacks int
	// TotalSamples is the sum of all emitted sample counts.
	TotalSamples int64
	// SkippedTraces counts traces dropped by a skip option.
	SkippedTraces int
}

// Converter turns one profiler input into collapsed output lines.
type Converter interface {
	// Format names the input format this converter handles.
	Format() model.InputFormat

	// Convert reads the whole input and returns the output lines in
	// their emission order.
	Convert(ctx context.Context, r io.Reader) ([]model.FoldedLine, *Stats, error)
}

func sumCounts(lines []model.FoldedLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.Count
	}
	return total
}
