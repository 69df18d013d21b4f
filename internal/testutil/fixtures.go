// Package testutil provides fixture builders for the parser and folder
// tests.
package testutil

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// HPLBuilder assembles an HPL binary stream in memory. All values are
// written big-endian, matching the wire format.
type HPLBuilder struct {
	buf bytes.Buffer
}

// NewHPLBuilder creates an empty stream builder.
func NewHPLBuilder() *HPLBuilder {
	return &HPLBuilder{}
}

// Symbol appends a method declaration record (marker 3).
func (b *HPLBuilder) Symbol(methodID uint64, fileName, className, methodName string) *HPLBuilder {
	b.buf.WriteByte(3)
	b.writeUint64(methodID)
	b.writeString(fileName)
	b.writeString(className)
	b.writeString(methodName)
	return b
}

// TraceStart appends a trace-start record (marker 1).
func (b *HPLBuilder) TraceStart(frameCount int32, threadID uint64) *HPLBuilder {
	b.buf.WriteByte(1)
	b.writeInt32(frameCount)
	b.writeUint64(threadID)
	return b
}

// Frame appends a short frame record (marker 2).
func (b *HPLBuilder) Frame(lineOrBCI int32, methodID uint64) *HPLBuilder {
	b.buf.WriteByte(2)
	b.writeInt32(lineOrBCI)
	b.writeUint64(methodID)
	return b
}

// FullFrame appends an extended frame record (marker 21).
func (b *HPLBuilder) FullFrame(bci, lineNo int32, methodID uint64) *HPLBuilder {
	b.buf.WriteByte(21)
	b.writeInt32(bci)
	b.writeInt32(lineNo)
	b.writeUint64(methodID)
	return b
}

// End appends the terminator record (marker 0).
func (b *HPLBuilder) End() *HPLBuilder {
	b.buf.WriteByte(0)
	return b
}

// Raw appends arbitrary bytes, for corrupt-stream cases.
func (b *HPLBuilder) Raw(p ...byte) *HPLBuilder {
	b.buf.Write(p)
	return b
}

// Bytes returns the assembled stream.
func (b *HPLBuilder) Bytes() []byte {
	return b.buf.Bytes()
}

// Reader returns the assembled stream as a reader.
func (b *HPLBuilder) Reader() *bytes.Reader {
	return bytes.NewReader(b.buf.Bytes())
}

func (b *HPLBuilder) writeInt32(v int32) {
	var p [4]byte
	binary.BigEndian.PutUint32(p[:], uint32(v))
	b.buf.Write(p[:])
}

func (b *HPLBuilder) writeUint64(v uint64) {
	var p [8]byte
	binary.BigEndian.PutUint64(p[:], v)
	b.buf.Write(p[:])
}

func (b *HPLBuilder) writeString(s string) {
	b.writeInt32(int32(len(s)))
	b.buf.WriteString(s)
}

// HPROFDump assembles a textual HPROF dump from stack blocks and a CPU
// samples section.
type HPROFDump struct {
	header string
	blocks []string
	ranks  []string
	total  int
}

// NewHPROFDump creates a dump with a valid sampling header.
func NewHPROFDump() *HPROFDump {
	return &HPROFDump{
		header: "JAVA PROFILE 1.0.1, created Fri Jan 15 10:30:00 2016\n\n",
	}
}

// WithHeader overrides the header line, for format-check cases.
func (d *HPROFDump) WithHeader(header string) *HPROFDump {
	d.header = header
	return d
}

// Trace appends a stack block. Frames are given top (leaf) first, one
// per line, already in HPROF syntax (without the leading tab).
func (d *HPROFDump) Trace(traceID int, threadID int, frames ...string) *HPROFDump {
	var sb strings.Builder
	if threadID > 0 {
		fmt.Fprintf(&sb, "TRACE %d: (thread=%d)\n", traceID, threadID)
	} else {
		fmt.Fprintf(&sb, "TRACE %d:\n", traceID)
	}
	for _, f := range frames {
		sb.WriteString("\t" + f + "\n")
	}
	d.blocks = append(d.blocks, sb.String())
	return d
}

// EmptyTrace appends a stack block with an <empty> body.
func (d *HPROFDump) EmptyTrace(traceID int) *HPROFDump {
	d.blocks = append(d.blocks, fmt.Sprintf("TRACE %d:\n\t<empty>\n", traceID))
	return d
}

// Sample appends one row to the CPU samples section.
func (d *HPROFDump) Sample(rank int, percent string, count int, traceID int) *HPROFDump {
	d.ranks = append(d.ranks, fmt.Sprintf(
		"%4d %6s %6s %9d %5d n/a\n", rank, percent, percent, count, traceID))
	d.total += count
	return d
}

// String renders the complete dump.
func (d *HPROFDump) String() string {
	var sb strings.Builder
	sb.WriteString(d.header)
	for _, b := range d.blocks {
		sb.WriteString(b)
		sb.WriteString("\n")
	}
	if len(d.ranks) > 0 {
		fmt.Fprintf(&sb, "CPU SAMPLES BEGIN (total = %d) Fri Jan 15 10:30:05 2016\n", d.total)
		sb.WriteString("rank   self  accum   count trace method\n")
		for _, r := range d.ranks {
			sb.WriteString(r)
		}
		sb.WriteString("CPU SAMPLES END\n")
	}
	return sb.String()
}
