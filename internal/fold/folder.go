package fold

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/stackfold/pkg/model"
	"github.com/stackfold/pkg/utils"
)

// ErrMissingMethod is returned when a frame references a method id with
// no declaration and missing-frame skipping is off.
var ErrMissingMethod = errors.New("method not declared")

// sleepMethodName is matched against the unshortened, line-number-free
// frame name when sleep-frame skipping is on.
const sleepMethodName = "java.lang.Thread.sleep"

// Options controls frame formatting and trace filtering.
type Options struct {
	DiscardLineNumbers      bool
	DiscardThread           bool
	ShortenPackages         bool
	SkipTraceOnMissingFrame bool
	SkipSleepFrames         bool
}

// DefaultOptions returns the default folding options: everything kept.
func DefaultOptions() *Options {
	return &Options{}
}

// Stats reports what one Fold run did with its input.
type Stats struct {
	FoldedTraces  int
	SkippedTraces int
}

// Folder aggregates raw traces into counted folded stacks.
type Folder struct {
	opts   *Options
	logger utils.Logger
}

// NewFolder creates a Folder. Nil options select the defaults; a nil
// logger discards skip diagnostics.
func NewFolder(opts *Options, logger utils.Logger) *Folder {
	if opts == nil {
		opts = DefaultOptions()
	}
	if logger == nil {
		logger = &utils.NullLogger{}
	}
	return &Folder{opts: opts, logger: logger}
}

// Fold converts every trace of the profile into a folded stack and
// aggregates identical stacks into sample counts. Traces filtered by
// the skip options are logged and dropped; a missing method declaration
// without the skip option is fatal.
func (f *Folder) Fold(ctx context.Context, profile *model.Profile) (*model.FoldedStacks, *Stats, error) {
	folded := model.NewFoldedStacks()
	stats := &Stats{}

	for _, trace := range profile.Traces {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		default:
		}

		stack, ok, err := f.foldTrace(trace, profile.Methods)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			stats.SkippedTraces++
			continue
		}

		folded.Add(stack, 1)
		stats.FoldedTraces++
	}

	return folded, stats, nil
}

// foldTrace renders one trace. The second return value is false when
// the trace was filtered out by a skip option.
func (f *Folder) foldTrace(trace *model.Trace, methods model.MethodTable) (string, bool, error) {
	frames := make([]string, 0, len(trace.Frames)+1)

	for _, frame := range trace.Frames {
		method, ok := methods.Lookup(frame.MethodID)
		if !ok {
			if f.opts.SkipTraceOnMissingFrame {
				f.logger.Info("skipped missing frame %d", frame.MethodID)
				return "", false, nil
			}
			return "", false, fmt.Errorf("%w: id %d", ErrMissingMethod, frame.MethodID)
		}

		if f.opts.SkipSleepFrames && MethodDisplayName(method, false) == sleepMethodName {
			f.logger.Info("skipped sleeping trace on thread %d", trace.ThreadID)
			return "", false, nil
		}

		frames = append(frames, FormatFrame(
			frame, method, f.opts.DiscardLineNumbers, f.opts.ShortenPackages))
	}

	if !f.opts.DiscardThread {
		frames = append(frames, "Thread "+strconv.FormatUint(trace.ThreadID, 10))
	}

	reverse(frames)
	return strings.Join(frames, ";"), true, nil
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
