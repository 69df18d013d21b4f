package flamegraph

import (
	"github.com/stackfold/pkg/writer"
)

// JSONWriter writes flame graph data as JSON.
type JSONWriter = writer.JSONWriter[*FlameGraph]

// NewJSONWriter creates a compact JSON writer.
func NewJSONWriter() *JSONWriter {
	return writer.NewJSONWriter[*FlameGraph]()
}

// NewPrettyJSONWriter creates a JSON writer with pretty printing.
func NewPrettyJSONWriter() *JSONWriter {
	return writer.NewPrettyJSONWriter[*FlameGraph]()
}

// GzipWriter writes flame graph data as gzipped JSON.
type GzipWriter = writer.GzipWriter[*FlameGraph]

// NewGzipWriter creates a gzip writer with default compression.
func NewGzipWriter() *GzipWriter {
	return writer.NewGzipWriter[*FlameGraph]()
}
