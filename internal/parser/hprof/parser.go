// Package hprof extracts collapsed stacks from textual JVM HPROF dumps
// recorded in CPU sampling mode.
package hprof

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/stackfold/internal/fold"
	"github.com/stackfold/internal/parser"
	"github.com/stackfold/pkg/model"
	"github.com/stackfold/pkg/utils"
)

// MissingTracePolicy decides what happens when the samples section
// references a trace id with no stack block.
type MissingTracePolicy string

const (
	// MissingTraceError aborts the run.
	MissingTraceError MissingTracePolicy = "error"
	// MissingTraceDrop logs the sample and drops it.
	MissingTraceDrop MissingTracePolicy = "drop"
)

// Options configures HPROF extraction.
type Options struct {
	DiscardLineNumbers bool
	DiscardThread      bool
	ShortenPackages    bool
	MissingTrace       MissingTracePolicy
}

// DefaultOptions returns the default extraction options.
func DefaultOptions() *Options {
	return &Options{MissingTrace: MissingTraceError}
}

// Parser extracts stack blocks and sample counts from an HPROF text
// dump. Unlike the binary path there is no aggregation step: each
// sampled trace id becomes exactly one output line, in the order of
// the samples section, even when two traces fold to the same text.
type Parser struct {
	opts   *Options
	logger utils.Logger
}

// NewParser creates an HPROF parser. Nil options select the defaults; a
// nil logger discards diagnostics.
func NewParser(opts *Options, logger utils.Logger) *Parser {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.MissingTrace == "" {
		opts.MissingTrace = MissingTraceError
	}
	if logger == nil {
		logger = &utils.NullLogger{}
	}
	return &Parser{opts: opts, logger: logger}
}

// Parse reads the whole dump and returns the collapsed output lines.
func (p *Parser) Parse(ctx context.Context, r io.Reader) ([]model.FoldedLine, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading dump: %w", err)
	}
	content := string(raw)

	if !headerRe.MatchString(content) {
		return nil, fmt.Errorf("%w: not an hprof file", parser.ErrInvalidFormat)
	}
	if tracingRe.MatchString(content) {
		return nil, parser.ErrTracingMode
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	stacks := p.extractStacks(content)
	if len(stacks) == 0 {
		return nil, fmt.Errorf("%w: no stack traces found", parser.ErrEmptyInput)
	}

	counts, err := extractCounts(content)
	if err != nil {
		return nil, err
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("%w: no cpu samples found", parser.ErrEmptyInput)
	}

	lines := make([]model.FoldedLine, 0, len(counts))
	for _, sample := range counts {
		stack, ok := stacks[sample.traceID]
		if !ok {
			if p.opts.MissingTrace == MissingTraceDrop {
				p.logger.Info("dropped sample for unknown trace %s", sample.traceID)
				continue
			}
			return nil, fmt.Errorf("%w: trace %s", parser.ErrMissingTrace, sample.traceID)
		}
		lines = append(lines, model.FoldedLine{Stack: stack, Count: sample.count})
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: every sample referenced an unknown trace", parser.ErrEmptyInput)
	}
	return lines, nil
}

// extractStacks returns the folded stack text per trace id. Blocks with
// an <empty> body are skipped.
func (p *Parser) extractStacks(content string) map[string]string {
	stacks := make(map[string]string)

	for _, m := range traceRe.FindAllStringSubmatch(content, -1) {
		traceID := m[traceIDIdx]
		threadID := m[threadIDIdx]
		body := m[stackIdx]

		if strings.Contains(body, "<empty>") {
			continue
		}

		frames := p.processStack(body)
		if threadID != "" && !p.opts.DiscardThread {
			frames = append(frames, "Thread "+threadID)
		}

		reverse(frames)
		stacks[traceID] = strings.Join(frames, ";")
	}

	return stacks
}

// processStack splits a stack block into display frames, top of stack
// first as dumped.
func (p *Parser) processStack(body string) []string {
	rawLines := strings.Split(body, "\n")
	frames := make([]string, 0, len(rawLines))

	for _, line := range rawLines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		frame := p.rewriteFrame(line)
		if p.opts.ShortenPackages {
			frame = fold.AbbreviatePackage(frame)
		}
		frames = append(frames, frame)
	}
	return frames
}

// rewriteFrame turns "pkg.Class.method(File.java:42)" into
// "pkg.Class.method:42", dropping the line part when it is the
// "Unknown line" sentinel or line numbers are discarded. Frames without
// a source suffix pass through unchanged.
func (p *Parser) rewriteFrame(line string) string {
	m := frameRe.FindStringSubmatch(line)
	if m == nil {
		return line
	}
	name, lineNo := m[1], m[3]
	if lineNo == "Unknown line" || p.opts.DiscardLineNumbers {
		return name
	}
	return name + ":" + lineNo
}

// sampleEntry is one row of the CPU samples section.
type sampleEntry struct {
	traceID string
	count   int64
}

// extractCounts returns the samples in section order. A trace id
// sampled twice keeps its first position with the last count.
func extractCounts(content string) ([]sampleEntry, error) {
	m := countsRe.FindStringSubmatch(content)
	if m == nil {
		return nil, nil
	}

	var entries []sampleEntry
	index := make(map[string]int)

	for _, row := range strings.Split(m[samplesIdx], "\n") {
		if strings.TrimSpace(row) == "" {
			continue
		}
		fields := strings.Fields(row)
		if len(fields) < 5 {
			return nil, fmt.Errorf("%w: malformed sample row %q", parser.ErrInvalidFormat, row)
		}
		count, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad sample count in row %q", parser.ErrInvalidFormat, row)
		}
		traceID := fields[4]

		if i, ok := index[traceID]; ok {
			entries[i].count = count
			continue
		}
		index[traceID] = len(entries)
		entries = append(entries, sampleEntry{traceID: traceID, count: count})
	}
	return entries, nil
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
