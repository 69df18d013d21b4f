// Package model defines the data types shared by the stackfold parsers,
// folders and writers.
package model

// Method identifies a profiled method as declared by a symbol record.
//
// ClassName is stored in the wire form: wrapped in one leading and one
// trailing delimiter character with '/' as the package separator
// (e.g. "/Lcom/foo/Bar;/"). It must be unwrapped before display.
type Method struct {
	ID         int64
	FileName   string
	ClassName  string
	MethodName string
}

// MethodTable maps a method id to its declaration.
// IDs are unique within one decoded input; synthetic agent-error
// methods use small negative ids.
type MethodTable map[int64]Method

// Lookup returns the method for the given id.
func (t MethodTable) Lookup(id int64) (Method, bool) {
	m, ok := t[id]
	return m, ok
}

// Frame is one activation within a trace.
//
// BCI is the byte-code index; it is decoded but never displayed.
// LineNo is only meaningful when HasLine is true: the wire format uses
// negative sentinel values to report that no line number is available,
// and those normalize to HasLine=false during decode.
type Frame struct {
	BCI      int32
	LineNo   int32
	HasLine  bool
	MethodID int64
}

// Trace is one observed call stack. Frames are stored leaf first, as
// recorded by the profiler agent.
//
// FrameCount is the cardinality declared by the trace-start record. For
// an agent-error trace the declared count was negative and the trace
// holds exactly one synthetic frame referencing a negative method id.
type Trace struct {
	ThreadID   uint64
	FrameCount int32
	Frames     []Frame
}

// AddFrame appends a frame to the trace.
func (t *Trace) AddFrame(f Frame) {
	t.Frames = append(t.Frames, f)
}

// Profile is a fully decoded profiling input: the symbol table plus the
// ordered list of raw traces.
type Profile struct {
	Methods MethodTable
	Traces  []*Trace
}

// NewProfile creates an empty Profile.
func NewProfile() *Profile {
	return &Profile{
		Methods: make(MethodTable),
		Traces:  make([]*Trace, 0),
	}
}

// TraceCount returns the number of decoded traces.
func (p *Profile) TraceCount() int {
	return len(p.Traces)
}
