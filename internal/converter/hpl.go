package converter

import (
	"context"
	"io"

	"github.com/stackfold/internal/fold"
	"github.com/stackfold/internal/parser/hpl"
	"github.com/stackfold/pkg/model"
	"github.com/stackfold/pkg/utils"
)

// HPLConverter decodes binary HPL streams and folds the traces. Output
// lines are sorted lexicographically by stack.
type HPLConverter struct {
	parser *hpl.Parser
	folder *fold.Folder
}

// NewHPLConverter creates an HPL converter.
func NewHPLConverter(parserOpts *hpl.Options, foldOpts *fold.Options, logger utils.Logger) *HPLConverter {
	return &HPLConverter{
		parser: hpl.NewParser(parserOpts),
		folder: fold.NewFolder(foldOpts, logger),
	}
}

// Format returns model.FormatHPL.
func (c *HPLConverter) Format() model.InputFormat {
	return model.FormatHPL
}

// Convert decodes, folds and aggregates the stream.
func (c *HPLConverter) Convert(ctx context.Context, r io.Reader) ([]model.FoldedLine, *Stats, error) {
	profile, err := c.parser.Parse(ctx, r)
	if err != nil {
		return nil, nil, err
	}

	folded, foldStats, err := c.folder.Fold(ctx, profile)
	if err != nil {
		return nil, nil, err
	}

	lines := folded.SortedLines()
	return lines, &Stats{
		UniqueStacks:  len(lines),
		TotalSamples:  folded.Total(),
		SkippedTraces: foldStats.SkippedTraces,
	}, nil
}
