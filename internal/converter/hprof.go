package converter

import (
	"context"
	"io"

	"github.com/stackfold/internal/parser/hprof"
	"github.com/stackfold/pkg/model"
	"github.com/stackfold/pkg/utils"
)

// HPROFConverter extracts collapsed stacks from textual HPROF dumps.
// Lines come out in samples-section order and are never merged, so two
// trace ids folding to the same text stay on separate lines.
type HPROFConverter struct {
	parser *hprof.Parser
}

// NewHPROFConverter creates an HPROF converter.
func NewHPROFConverter(opts *hprof.Options, logger utils.Logger) *HPROFConverter {
	return &HPROFConverter{
		parser: hprof.NewParser(opts, logger),
	}
}

// Format returns model.FormatHPROF.
func (c *HPROFConverter) Format() model.InputFormat {
	return model.FormatHPROF
}

// Convert extracts the dump's sampled stacks.
func (c *HPROFConverter) Convert(ctx context.Context, r io.Reader) ([]model.FoldedLine, *Stats, error) {
	lines, err := c.parser.Parse(ctx, r)
	if err != nil {
		return nil, nil, err
	}

	return lines, &Stats{
		UniqueStacks: len(lines),
		TotalSamples: sumCounts(lines),
	}, nil
}
