package flamegraph

import (
	"context"
	"strings"

	"github.com/stackfold/pkg/model"
)

// GeneratorOptions configures tree generation.
type GeneratorOptions struct {
	// MinPercent is the minimum share (0-100) of total samples a node
	// needs to stay in the tree.
	MinPercent float64
}

// DefaultGeneratorOptions returns the default generator options.
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		MinPercent: 0.01,
	}
}

// Generator turns folded lines into a flame graph tree.
type Generator struct {
	opts *GeneratorOptions
}

// NewGenerator creates a Generator. Nil options select the defaults.
func NewGenerator(opts *GeneratorOptions) *Generator {
	if opts == nil {
		opts = DefaultGeneratorOptions()
	}
	return &Generator{opts: opts}
}

// Generate builds the tree. Each folded line contributes its count to
// every node along its stack, root-to-leaf.
func (g *Generator) Generate(ctx context.Context, lines []model.FoldedLine) (*FlameGraph, error) {
	fg := NewFlameGraph()

	for _, line := range lines {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		g.appendStack(fg, line)
	}

	fg.TotalSamples = fg.Root.Value
	fg.Cleanup(g.opts.MinPercent)
	fg.CalculateMaxDepth()

	return fg, nil
}

func (g *Generator) appendStack(fg *FlameGraph, line model.FoldedLine) {
	if line.Stack == "" {
		return
	}

	node := fg.Root
	node.Value += line.Count

	for _, frame := range strings.Split(line.Stack, ";") {
		child := node.Child(frame)
		child.Value += line.Count
		node = child
	}
}
