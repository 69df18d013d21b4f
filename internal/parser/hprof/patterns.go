package hprof

import "regexp"

var (
	// headerRe matches the dump preamble at the very start of the file,
	// e.g. "JAVA PROFILE 1.0.1, created Fri Jan 15 10:30:00 2016".
	headerRe = regexp.MustCompile(`^JAVA PROFILE \d\.\d\.\d, created \w+ \w+ +\d+ \d{2}:\d{2}:\d{2} \d{4}`)

	// tracingRe detects dumps recorded with cpu=times instead of
	// cpu=samples.
	tracingRe = regexp.MustCompile(`CPU TIME \(ms\) BEGIN`)

	// traceRe captures one stack block: the trace id, an optional
	// thread id, and the tab-indented frame lines.
	traceRe = regexp.MustCompile(`TRACE (?P<trace_id>[0-9]+):( \(thread=(?P<thread_id>[0-9]+)\))?\n(?P<stack>(\t.+\n)+)`)

	// countsRe captures the body of the CPU samples section, between
	// the rank header line and the END marker.
	countsRe = regexp.MustCompile(`CPU SAMPLES BEGIN \(total = \d+\).+\nrank[^\n]+\n(?P<samples>([^\n]+\n)+)CPU SAMPLES END`)

	// frameRe splits a frame line into the qualified method name and
	// its source position, e.g. "java.lang.Thread.run(Thread.java:745)".
	frameRe = regexp.MustCompile(`^(?P<start>.+)\((.+):(?P<line>.+)\)$`)
)

var (
	traceIDIdx  = traceRe.SubexpIndex("trace_id")
	threadIDIdx = traceRe.SubexpIndex("thread_id")
	stackIdx    = traceRe.SubexpIndex("stack")
	samplesIdx  = countsRe.SubexpIndex("samples")
)
