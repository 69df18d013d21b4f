package converter

import (
	"context"
	"io"

	"github.com/stackfold/internal/parser/collapsed"
	"github.com/stackfold/pkg/model"
	"github.com/stackfold/pkg/parallel"
)

// CollapsedConverter re-folds already-collapsed input: duplicate stacks
// are summed and the output is sorted. Folding collapsed output again
// is a no-op, which makes merging outputs of separate runs safe.
type CollapsedConverter struct {
	parser *collapsed.Parser
}

// NewCollapsedConverter creates a collapsed-format converter.
func NewCollapsedConverter() *CollapsedConverter {
	return &CollapsedConverter{parser: collapsed.NewParser()}
}

// Format returns model.FormatCollapsed.
func (c *CollapsedConverter) Format() model.InputFormat {
	return model.FormatCollapsed
}

// Convert aggregates the input lines.
func (c *CollapsedConverter) Convert(ctx context.Context, r io.Reader) ([]model.FoldedLine, *Stats, error) {
	folded, err := c.parser.Parse(ctx, r)
	if err != nil {
		return nil, nil, err
	}

	lines := folded.SortedLines()
	return lines, &Stats{
		UniqueStacks: len(lines),
		TotalSamples: folded.Total(),
	}, nil
}

// Merge re-folds several collapsed inputs into one sorted aggregation.
// Inputs are parsed concurrently; the aggregation itself follows the
// input order, so the result is deterministic.
func Merge(ctx context.Context, readers []io.Reader) ([]model.FoldedLine, *Stats, error) {
	p := collapsed.NewParser()
	pool := parallel.NewWorkerPool[io.Reader, *model.FoldedStacks](parallel.DefaultPoolConfig())

	parsed := pool.ExecuteFunc(ctx, readers, func(ctx context.Context, r io.Reader) (*model.FoldedStacks, error) {
		return p.Parse(ctx, r)
	})

	merged := model.NewFoldedStacks()
	for _, result := range parsed {
		if result.Err != nil {
			return nil, nil, result.Err
		}
		folded := result.Result
		for _, stack := range folded.FirstSeen() {
			merged.Add(stack, folded.Count(stack))
		}
	}

	lines := merged.SortedLines()
	return lines, &Stats{
		UniqueStacks: len(lines),
		TotalSamples: merged.Total(),
	}, nil
}
