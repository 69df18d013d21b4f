package converter

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackfold/internal/mock"
	"github.com/stackfold/internal/testutil"
	"github.com/stackfold/pkg/config"
	"github.com/stackfold/pkg/model"
)

func hplStream() []byte {
	return testutil.NewHPLBuilder().
		Symbol(1, "Main.java", "Lcom/foo/Main;", "main").
		Symbol(2, "Worker.java", "Lcom/foo/Worker;", "work").
		TraceStart(2, 1).
		Frame(0, 2).
		Frame(0, 1).
		TraceStart(2, 1).
		Frame(0, 2).
		Frame(0, 1).
		TraceStart(1, 2).
		Frame(0, 1).
		End().
		Bytes()
}

func TestRegistry_New(t *testing.T) {
	for _, format := range SupportedFormats() {
		conv, err := New(format, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, format, conv.Format())
	}

	_, err := New("perf", nil, nil)
	assert.Error(t, err)
}

func TestHPLConverter_SortedAggregatedOutput(t *testing.T) {
	conv, err := New(model.FormatHPL, &config.FoldConfig{}, nil)
	require.NoError(t, err)

	lines, stats, err := conv.Convert(context.Background(), bytes.NewReader(hplStream()))
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.Equal(t, "Thread 1;com.foo.Main.main;com.foo.Worker.work", lines[0].Stack)
	assert.Equal(t, int64(2), lines[0].Count)
	assert.Equal(t, "Thread 2;com.foo.Main.main", lines[1].Stack)
	assert.Equal(t, int64(1), lines[1].Count)

	assert.Equal(t, 2, stats.UniqueStacks)
	assert.Equal(t, int64(3), stats.TotalSamples)
}

func TestHPROFConverter_PreservesSampleOrder(t *testing.T) {
	dump := testutil.NewHPROFDump().
		Trace(10, 0, "com.foo.B.b(B.java:2)").
		Trace(20, 0, "com.foo.A.a(A.java:1)").
		Sample(1, "60%", 3, 20).
		Sample(2, "40%", 2, 10).
		String()

	conv, err := New(model.FormatHPROF, &config.FoldConfig{}, nil)
	require.NoError(t, err)

	lines, stats, err := conv.Convert(context.Background(), strings.NewReader(dump))
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.Equal(t, "com.foo.A.a:1", lines[0].Stack, "samples-section order, not sorted")
	assert.Equal(t, int64(5), stats.TotalSamples)
}

func TestCollapsedConverter_RefoldIsIdempotent(t *testing.T) {
	conv, err := New(model.FormatHPL, nil, nil)
	require.NoError(t, err)
	lines, _, err := conv.Convert(context.Background(), bytes.NewReader(hplStream()))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, Emit(context.Background(), &out, OutputCollapsed, lines))

	refold := NewCollapsedConverter()
	again, _, err := refold.Convert(context.Background(), bytes.NewReader(out.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, lines, again)
}

func TestMerge_SumsAcrossInputs(t *testing.T) {
	a := strings.NewReader("x;y 2\nz 1\n")
	b := strings.NewReader("x;y 3\n")

	lines, stats, err := Merge(context.Background(), []io.Reader{a, b})
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.Equal(t, model.FoldedLine{Stack: "x;y", Count: 5}, lines[0])
	assert.Equal(t, model.FoldedLine{Stack: "z", Count: 1}, lines[1])
	assert.Equal(t, int64(6), stats.TotalSamples)
}

func TestRunner_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "example.hpl")
	require.NoError(t, os.WriteFile(inputPath, hplStream(), 0o644))

	conv, err := New(model.FormatHPL, nil, nil)
	require.NoError(t, err)

	history := &fakeHistory{}
	runner := NewRunner(conv, nil, history, nil)

	var out bytes.Buffer
	run, err := runner.Run(context.Background(), &Request{
		InputPath: inputPath,
		Format:    model.FormatHPL,
		Output:    &out,
		Flags:     "",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, run.UniqueStacks)
	assert.Equal(t, int64(3), run.TotalSamples)
	assert.Contains(t, out.String(), "Thread 2;com.foo.Main.main 1\n")

	require.Len(t, history.saved, 1)
	assert.Equal(t, inputPath, history.saved[0].InputFile)
}

func TestRunner_MissingInput(t *testing.T) {
	conv, err := New(model.FormatHPL, nil, nil)
	require.NoError(t, err)

	runner := NewRunner(conv, nil, nil, nil)
	_, err = runner.Run(context.Background(), &Request{
		InputPath: filepath.Join(t.TempDir(), "missing.hpl"),
		Format:    model.FormatHPL,
		Output:    &bytes.Buffer{},
	})
	assert.ErrorContains(t, err, "input not found")
}

func TestRunner_RemoteInput(t *testing.T) {
	conv, err := New(model.FormatHPL, nil, nil)
	require.NoError(t, err)

	store := &mock.MockStorage{}
	store.ExpectFetch("profiles/example.hpl", io.NopCloser(bytes.NewReader(hplStream())), nil)

	runner := NewRunner(conv, store, nil, nil)
	var out bytes.Buffer
	run, err := runner.Run(context.Background(), &Request{
		InputPath: "cos://profiles/example.hpl",
		Format:    model.FormatHPL,
		Output:    &out,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3), run.TotalSamples)
	assert.Contains(t, out.String(), "Thread 1;com.foo.Main.main;com.foo.Worker.work 2\n")
	store.AssertExpectations(t)
}

func TestRunner_HistoryFailureIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "example.hpl")
	require.NoError(t, os.WriteFile(inputPath, hplStream(), 0o644))

	conv, err := New(model.FormatHPL, nil, nil)
	require.NoError(t, err)

	history := &mock.MockRunRepository{}
	history.ExpectSaveRun(errors.New("database gone"))

	runner := NewRunner(conv, nil, history, nil)
	var out bytes.Buffer
	run, err := runner.Run(context.Background(), &Request{
		InputPath: inputPath,
		Format:    model.FormatHPL,
		Output:    &out,
	})
	require.NoError(t, err, "a failed history write must not fail the conversion")
	assert.NotEmpty(t, out.String())
	assert.Equal(t, 2, run.UniqueStacks)
	history.AssertExpectations(t)
}

func TestRunner_RemoteInputWithoutStorage(t *testing.T) {
	conv, err := New(model.FormatHPL, nil, nil)
	require.NoError(t, err)

	runner := NewRunner(conv, nil, nil, nil)
	_, err = runner.Run(context.Background(), &Request{
		InputPath: "cos://profiles/example.hpl",
		Format:    model.FormatHPL,
		Output:    &bytes.Buffer{},
	})
	assert.ErrorContains(t, err, "storage is not configured")
}

func TestEmit_JSON(t *testing.T) {
	lines := []model.FoldedLine{{Stack: "a;b", Count: 2}}

	var out bytes.Buffer
	require.NoError(t, Emit(context.Background(), &out, OutputJSON, lines))
	assert.Contains(t, out.String(), `"totalSamples":2`)

	var gz bytes.Buffer
	require.NoError(t, Emit(context.Background(), &gz, OutputJSONGzip, lines))
	assert.NotEmpty(t, gz.Bytes())

	err := Emit(context.Background(), &out, OutputFormat("xml"), lines)
	assert.ErrorContains(t, err, "unsupported output format")
}

type fakeHistory struct {
	saved []*model.ConversionRun
}

func (f *fakeHistory) SaveRun(_ context.Context, run *model.ConversionRun) error {
	f.saved = append(f.saved, run)
	return nil
}

func (f *fakeHistory) RecentRuns(_ context.Context, _ int) ([]*model.ConversionRun, error) {
	return f.saved, nil
}

func (f *fakeHistory) RunsForInput(_ context.Context, _ string) ([]*model.ConversionRun, error) {
	return f.saved, nil
}
