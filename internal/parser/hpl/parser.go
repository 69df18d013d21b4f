package hpl

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/stackfold/internal/parser"
	"github.com/stackfold/pkg/model"
)

// FormatVersion selects the stream sub-variant to decode.
type FormatVersion int

const (
	// V1 is the legacy variant: marker 2 carries a display line number,
	// agent errors and the extended frame record do not occur.
	V1 FormatVersion = 1
	// V2 is the extended variant: marker 2 carries a byte-code index,
	// marker 21 carries both index and line number, and non-positive
	// frame counts report agent errors.
	V2 FormatVersion = 2
)

// Options configures HPL decoding.
type Options struct {
	Version FormatVersion
}

// DefaultOptions returns the default decode options.
func DefaultOptions() *Options {
	return &Options{Version: V2}
}

// Parser decodes an HPL binary stream into a Profile.
type Parser struct {
	opts *Options
}

// NewParser creates an HPL parser with the given options. Nil options
// select the defaults.
func NewParser(opts *Options) *Parser {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Parser{opts: opts}
}

// Parse reads the stream until the end marker or EOF and returns the
// decoded profile. Decoding is strict: an unknown marker, a truncated
// record or a frame outside any trace aborts with the byte offset of
// the fault.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (*model.Profile, error) {
	profile := model.NewProfile()
	if p.opts.Version == V2 {
		seedAgentErrors(profile.Methods)
	}

	rd := NewReader(r)

	// The trace currently being extended by frame records. Frame
	// records arriving before any trace-start are a stream fault.
	var open *model.Trace

loop:
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		recordOffset := rd.Offset()
		rec, err := rd.ReadRecord()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// Stream ended without a terminator record.
				break loop
			}
			var um *UnexpectedMarkerError
			if errors.As(err, &um) {
				return nil, fmt.Errorf("%w: %v", parser.ErrInvalidFormat, um)
			}
			return nil, fmt.Errorf("%w: truncated record at offset %d: %v",
				parser.ErrInvalidFormat, recordOffset, err)
		}

		switch rec := rec.(type) {
		case EndRecord:
			break loop

		case TraceStartRecord:
			trace, err := p.startTrace(profile, rec, recordOffset)
			if err != nil {
				return nil, err
			}
			open = trace

		case FrameRecord:
			if open == nil {
				return nil, fmt.Errorf("%w: frame record before any trace at offset %d",
					parser.ErrInvalidFormat, recordOffset)
			}
			open.AddFrame(p.shortFrame(rec))

		case FrameFullRecord:
			if p.opts.Version != V2 {
				return nil, fmt.Errorf("%w: unexpected marker %d at offset %d",
					parser.ErrInvalidFormat, MarkerFrameFull, recordOffset)
			}
			if open == nil {
				return nil, fmt.Errorf("%w: frame record before any trace at offset %d",
					parser.ErrInvalidFormat, recordOffset)
			}
			open.AddFrame(model.Frame{
				BCI:      rec.BCI,
				LineNo:   rec.LineNo,
				HasLine:  rec.LineNo > 0,
				MethodID: int64(rec.MethodID),
			})

		case SymbolRecord:
			// Re-declarations overwrite: the last declaration wins.
			profile.Methods[int64(rec.MethodID)] = model.Method{
				ID:         int64(rec.MethodID),
				FileName:   rec.FileName,
				ClassName:  rec.ClassName,
				MethodName: rec.MethodName,
			}
		}
	}

	if profile.TraceCount() == 0 {
		return nil, fmt.Errorf("%w: no traces decoded", parser.ErrEmptyInput)
	}
	return profile, nil
}

// startTrace opens a new trace, synthesizing the single error frame
// when the declared frame count reports an agent error.
func (p *Parser) startTrace(profile *model.Profile, rec TraceStartRecord, offset int64) (*model.Trace, error) {
	if rec.FrameCount > 0 {
		trace := &model.Trace{
			ThreadID:   rec.ThreadID,
			FrameCount: rec.FrameCount,
			Frames:     make([]model.Frame, 0, rec.FrameCount),
		}
		profile.Traces = append(profile.Traces, trace)
		return trace, nil
	}

	if p.opts.Version != V2 {
		return nil, fmt.Errorf("%w: non-positive frame count %d at offset %d",
			parser.ErrInvalidFormat, rec.FrameCount, offset)
	}

	methodID := int64(rec.FrameCount) - 1
	if _, ok := profile.Methods.Lookup(methodID); !ok {
		m := unknownAgentError(rec.FrameCount)
		profile.Methods[m.ID] = m
	}

	trace := &model.Trace{
		ThreadID:   rec.ThreadID,
		FrameCount: 1,
		Frames:     []model.Frame{{MethodID: methodID}},
	}
	profile.Traces = append(profile.Traces, trace)
	return trace, nil
}

// shortFrame interprets the short frame record per the stream variant:
// the legacy form stores a display line number where the extended form
// stores a byte-code index.
func (p *Parser) shortFrame(rec FrameRecord) model.Frame {
	if p.opts.Version == V1 {
		return model.Frame{
			LineNo:   rec.LineOrBCI,
			HasLine:  rec.LineOrBCI > 0,
			MethodID: int64(rec.MethodID),
		}
	}
	return model.Frame{
		BCI:      rec.LineOrBCI,
		MethodID: int64(rec.MethodID),
	}
}
