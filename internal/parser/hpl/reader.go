package hpl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	readerBufferSize = 64 * 1024
	maxStringLength  = 1 << 20
)

// Reader decodes primitive values from an HPL stream. All multi-byte
// values are big-endian. The reader tracks the byte offset of every
// read so decode errors can point at the offending position.
type Reader struct {
	r      *bufio.Reader
	offset int64
	buf    []byte
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		r:   bufio.NewReaderSize(r, readerBufferSize),
		buf: make([]byte, 8),
	}
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int64 {
	return r.offset
}

// ReadMarker reads the next record marker byte. It returns io.EOF at a
// clean end of stream.
func (r *Reader) ReadMarker() (Marker, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return 0, err
	}
	r.offset++
	return Marker(int8(b)), nil
}

// ReadInt32 reads a signed 32-bit big-endian integer.
func (r *Reader) ReadInt32() (int32, error) {
	if err := r.readFull(r.buf[:4]); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(r.buf[:4])), nil
}

// ReadUint64 reads an unsigned 64-bit big-endian integer.
func (r *Reader) ReadUint64() (uint64, error) {
	if err := r.readFull(r.buf[:8]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(r.buf[:8]), nil
}

// ReadString reads a length-prefixed UTF-8 string: a signed 32-bit
// length followed by that many bytes.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadInt32()
	if err != nil {
		return "", err
	}
	if n < 0 || n > maxStringLength {
		return "", fmt.Errorf("invalid string length %d", n)
	}
	if n == 0 {
		return "", nil
	}
	buf := make([]byte, n)
	if err := r.readFull(buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// ReadRecord reads and decodes the next complete record. Truncation
// inside a record body surfaces as io.ErrUnexpectedEOF.
func (r *Reader) ReadRecord() (Record, error) {
	marker, err := r.ReadMarker()
	if err != nil {
		return nil, err
	}

	switch marker {
	case MarkerEnd:
		return EndRecord{}, nil

	case MarkerTraceStart:
		frameCount, err := r.ReadInt32()
		if err != nil {
			return nil, err
		}
		threadID, err := r.ReadUint64()
		if err != nil {
			return nil, err
		}
		return TraceStartRecord{FrameCount: frameCount, ThreadID: threadID}, nil

	case MarkerFrame:
		lineOrBCI, err := r.ReadInt32()
		if err != nil {
			return nil, err
		}
		methodID, err := r.ReadUint64()
		if err != nil {
			return nil, err
		}
		return FrameRecord{LineOrBCI: lineOrBCI, MethodID: methodID}, nil

	case MarkerFrameFull:
		bci, err := r.ReadInt32()
		if err != nil {
			return nil, err
		}
		lineNo, err := r.ReadInt32()
		if err != nil {
			return nil, err
		}
		methodID, err := r.ReadUint64()
		if err != nil {
			return nil, err
		}
		return FrameFullRecord{BCI: bci, LineNo: lineNo, MethodID: methodID}, nil

	case MarkerSymbol:
		methodID, err := r.ReadUint64()
		if err != nil {
			return nil, err
		}
		fileName, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		className, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		methodName, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		return SymbolRecord{
			MethodID:   methodID,
			FileName:   fileName,
			ClassName:  className,
			MethodName: methodName,
		}, nil

	default:
		return nil, &UnexpectedMarkerError{Marker: marker, Offset: r.offset - 1}
	}
}

func (r *Reader) readFull(buf []byte) error {
	n, err := io.ReadFull(r.r, buf)
	r.offset += int64(n)
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// UnexpectedMarkerError reports an unknown marker byte and the offset
// at which it was read.
type UnexpectedMarkerError struct {
	Marker Marker
	Offset int64
}

func (e *UnexpectedMarkerError) Error() string {
	return fmt.Sprintf("unexpected marker %d at offset %d", e.Marker, e.Offset)
}
