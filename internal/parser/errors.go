// Package parser hosts the format-specific profiler input parsers and
// the error values they share.
package parser

import "errors"

var (
	// ErrInvalidFormat is returned when the input format is invalid.
	ErrInvalidFormat = errors.New("invalid input format")

	// ErrEmptyInput is returned when the input holds no traces or samples.
	ErrEmptyInput = errors.New("empty input")

	// ErrTracingMode is returned when an HPROF dump was recorded in CPU
	// tracing mode instead of sampling mode.
	ErrTracingMode = errors.New("cpu tracing is not supported, use sampling")

	// ErrMissingTrace is returned when a sample count references a trace
	// id with no stack block.
	ErrMissingTrace = errors.New("trace not found for sample count")
)
