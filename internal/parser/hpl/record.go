// Package hpl decodes the HPL binary sampling-log format: a sequence of
// tagged big-endian records declaring symbols and stack traces.
package hpl

// Marker tags a wire record. Every record starts with a single signed
// marker byte.
type Marker int8

const (
	// MarkerEnd terminates the stream; trailing bytes are ignored.
	MarkerEnd Marker = 0
	// MarkerTraceStart opens a new trace (or reports an agent error).
	MarkerTraceStart Marker = 1
	// MarkerFrame is the short frame record. Its first field is a
	// byte-code index in the extended stream version and a display
	// line number in the legacy version.
	MarkerFrame Marker = 2
	// MarkerSymbol declares a method referenced by frame records.
	MarkerSymbol Marker = 3
	// MarkerFrameFull is the extended frame record carrying both a
	// byte-code index and a line number.
	MarkerFrameFull Marker = 21
)

// Record is one decoded wire record. The concrete types below form a
// closed set; decoding resolves the record kind before any semantic
// interpretation happens.
type Record interface {
	recordMarker() Marker
}

// EndRecord terminates the stream.
type EndRecord struct{}

func (EndRecord) recordMarker() Marker { return MarkerEnd }

// TraceStartRecord opens a new trace. A non-positive FrameCount encodes
// an agent-error report instead of a real stack.
type TraceStartRecord struct {
	FrameCount int32
	ThreadID   uint64
}

func (TraceStartRecord) recordMarker() Marker { return MarkerTraceStart }

// FrameRecord is the short frame form.
type FrameRecord struct {
	LineOrBCI int32
	MethodID  uint64
}

func (FrameRecord) recordMarker() Marker { return MarkerFrame }

// FrameFullRecord is the extended frame form.
type FrameFullRecord struct {
	BCI      int32
	LineNo   int32
	MethodID uint64
}

func (FrameFullRecord) recordMarker() Marker { return MarkerFrameFull }

// SymbolRecord declares a method.
type SymbolRecord struct {
	MethodID   uint64
	FileName   string
	ClassName  string
	MethodName string
}

func (SymbolRecord) recordMarker() Marker { return MarkerSymbol }
