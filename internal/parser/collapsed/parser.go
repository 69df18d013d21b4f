// Package collapsed parses the collapsed-stack text format produced by
// the converters, so existing outputs can be merged and re-aggregated.
package collapsed

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/stackfold/internal/parser"
	"github.com/stackfold/pkg/model"
)

const maxLineSize = 1024 * 1024

// Parser reads "<stack> <count>" lines.
type Parser struct{}

// NewParser creates a collapsed-format parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse aggregates the input lines into folded stacks, summing counts
// for stacks that occur more than once. Blank lines are skipped; a line
// without a trailing integer count is a format error.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (*model.FoldedStacks, error) {
	folded := model.NewFoldedStacks()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		stack, count, err := splitLine(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", parser.ErrInvalidFormat, lineNo, err)
		}
		folded.Add(stack, count)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	if folded.Len() == 0 {
		return nil, fmt.Errorf("%w: no folded stacks found", parser.ErrEmptyInput)
	}
	return folded, nil
}

// splitLine splits at the last space: everything before is the stack,
// everything after must be a non-negative integer count.
func splitLine(line string) (string, int64, error) {
	i := strings.LastIndexByte(line, ' ')
	if i < 0 {
		return "", 0, fmt.Errorf("missing sample count")
	}

	stack := line[:i]
	count, err := strconv.ParseInt(line[i+1:], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("bad sample count %q", line[i+1:])
	}
	if count < 0 {
		return "", 0, fmt.Errorf("negative sample count %d", count)
	}
	return stack, count, nil
}
