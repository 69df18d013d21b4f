package model

import "time"

// InputFormat identifies the profiling input format of a conversion run.
type InputFormat string

const (
	// FormatHPL is the binary sampling-log format.
	FormatHPL InputFormat = "hpl"
	// FormatHPROF is the textual JVM profiler dump format.
	FormatHPROF InputFormat = "hprof"
	// FormatCollapsed is an already-collapsed input re-folded by merge.
	FormatCollapsed InputFormat = "collapsed"
)

// String returns the format name.
func (f InputFormat) String() string {
	return string(f)
}

// ConversionRun records one completed conversion for the history store.
type ConversionRun struct {
	ID           int64
	InputFile    string
	Format       InputFormat
	Flags        string
	UniqueStacks int
	TotalSamples int64
	Skipped      int
	DurationMs   int64
	CreatedAt    time.Time
}
