package converter

import (
	"context"
	"io"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/stackfold/internal/flamegraph"
	"github.com/stackfold/internal/fold"
	"github.com/stackfold/internal/repository"
	"github.com/stackfold/internal/storage"
	apperrors "github.com/stackfold/pkg/errors"
	"github.com/stackfold/pkg/model"
	"github.com/stackfold/pkg/utils"
)

const tracerName = "github.com/stackfold/internal/converter"

// remotePrefix marks inputs that live in the configured object store
// instead of the local filesystem.
const remotePrefix = "cos://"

// OutputFormat selects how the folded lines are emitted.
type OutputFormat string

const (
	// OutputCollapsed is the flamegraph.pl text format.
	OutputCollapsed OutputFormat = "collapsed"
	// OutputJSON is a flame graph tree as JSON.
	OutputJSON OutputFormat = "json"
	// OutputJSONGzip is a flame graph tree as gzipped JSON.
	OutputJSONGzip OutputFormat = "json.gz"
)

// Request describes one conversion run.
type Request struct {
	// InputPath is a local file path or a cos:// key.
	InputPath string
	// Format is the input format to decode.
	Format model.InputFormat
	// Output receives the converted result.
	Output io.Writer
	// OutputFormat defaults to OutputCollapsed.
	OutputFormat OutputFormat
	// Flags is a human-readable summary of the options, recorded with
	// the history entry.
	Flags string
}

// Runner executes conversion runs: it resolves the input, converts it,
// emits the output and records the run in the history store.
type Runner struct {
	converter Converter
	store     storage.Storage
	history   repository.RunRepository
	logger    utils.Logger
}

// NewRunner creates a Runner. The storage may be nil when only local
// inputs are used; the history repository may be nil to disable run
// recording.
func NewRunner(conv Converter, store storage.Storage, history repository.RunRepository, logger utils.Logger) *Runner {
	if logger == nil {
		logger = &utils.NullLogger{}
	}
	return &Runner{
		converter: conv,
		store:     store,
		history:   history,
		logger:    logger,
	}
}

// Run executes the request and returns the recorded conversion run.
func (r *Runner) Run(ctx context.Context, req *Request) (*model.ConversionRun, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "convert")
	defer span.End()
	span.SetAttributes(
		attribute.String("input.path", req.InputPath),
		attribute.String("input.format", req.Format.String()),
	)

	timer := utils.NewTimer("convert")

	run, err := r.run(ctx, req, timer)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("output.unique_stacks", run.UniqueStacks),
		attribute.Int64("output.total_samples", run.TotalSamples),
	)
	timer.Report(r.logger)
	return run, nil
}

func (r *Runner) run(ctx context.Context, req *Request, timer *utils.Timer) (*model.ConversionRun, error) {
	fetchPhase := timer.Start("fetch")
	input, err := r.openInput(ctx, req.InputPath)
	fetchPhase.Stop()
	if err != nil {
		return nil, err
	}
	defer input.Close()

	convertPhase := timer.Start("convert")
	lines, stats, err := r.converter.Convert(ctx, input)
	convertPhase.Stop()
	if err != nil {
		return nil, err
	}

	emitPhase := timer.Start("emit")
	err = Emit(ctx, req.Output, req.OutputFormat, lines)
	emitPhase.Stop()
	if err != nil {
		return nil, err
	}

	run := &model.ConversionRun{
		InputFile:    req.InputPath,
		Format:       req.Format,
		Flags:        req.Flags,
		UniqueStacks: stats.UniqueStacks,
		TotalSamples: stats.TotalSamples,
		Skipped:      stats.SkippedTraces,
		DurationMs:   timer.TotalDuration().Milliseconds(),
	}

	if r.history != nil {
		recordPhase := timer.Start("record")
		err = r.history.SaveRun(ctx, run)
		recordPhase.Stop()
		if err != nil {
			// The output is already written; losing the history entry
			// is not worth failing the run.
			r.logger.Warn("failed to record conversion run: %v", err)
		}
	}

	return run, nil
}

// openInput opens a local file, or fetches the object from storage for
// cos:// paths.
func (r *Runner) openInput(ctx context.Context, path string) (io.ReadCloser, error) {
	if key, ok := strings.CutPrefix(path, remotePrefix); ok {
		if r.store == nil {
			return nil, apperrors.New(apperrors.CodeConfigError, "remote input given but storage is not configured")
		}
		return r.store.Fetch(ctx, key)
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Newf(apperrors.CodeInvalidInput, "input not found: %s", path)
		}
		return nil, apperrors.Wrap(apperrors.CodeStorageError, "opening input", err)
	}
	return file, nil
}

// Emit writes the folded lines in the requested output format.
func Emit(ctx context.Context, w io.Writer, format OutputFormat, lines []model.FoldedLine) error {
	switch format {
	case OutputCollapsed, "":
		return fold.WriteCollapsed(w, lines)

	case OutputJSON, OutputJSONGzip:
		fg, err := flamegraph.NewGenerator(nil).Generate(ctx, lines)
		if err != nil {
			return err
		}
		if format == OutputJSONGzip {
			return flamegraph.NewGzipWriter().Write(fg, w)
		}
		return flamegraph.NewJSONWriter().Write(fg, w)

	default:
		return apperrors.Newf(apperrors.CodeInvalidInput, "unsupported output format: %s", format)
	}
}
