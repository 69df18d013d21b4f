package integration

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackfold/internal/converter"
	"github.com/stackfold/internal/testutil"
	"github.com/stackfold/pkg/config"
	"github.com/stackfold/pkg/model"
)

func sampleHPL() []byte {
	return testutil.NewHPLBuilder().
		Symbol(1, "Main.java", "Lcom/example/Main;", "main").
		Symbol(2, "Service.java", "Lcom/example/Service;", "handle").
		Symbol(3, "Dao.java", "Lcom/example/Dao;", "query").
		TraceStart(3, 1).
		Frame(0, 3).
		Frame(0, 2).
		Frame(0, 1).
		TraceStart(3, 1).
		Frame(0, 3).
		Frame(0, 2).
		Frame(0, 1).
		TraceStart(2, 1).
		Frame(0, 2).
		Frame(0, 1).
		End().
		Bytes()
}

func TestPipeline_HPLToCollapsedToFlameGraph(t *testing.T) {
	ctx := context.Background()

	// Convert the binary sampling log to collapsed text.
	conv, err := converter.New(model.FormatHPL, &config.FoldConfig{}, nil)
	require.NoError(t, err)

	lines, stats, err := conv.Convert(ctx, bytes.NewReader(sampleHPL()))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.UniqueStacks)
	assert.Equal(t, int64(3), stats.TotalSamples)

	var collapsed bytes.Buffer
	require.NoError(t, converter.Emit(ctx, &collapsed, converter.OutputCollapsed, lines))
	assert.Contains(t, collapsed.String(),
		"Thread 1;com.example.Main.main;com.example.Service.handle;com.example.Dao.query 2\n")

	// Re-folding the collapsed output must be a no-op.
	refold := converter.NewCollapsedConverter()
	again, _, err := refold.Convert(ctx, bytes.NewReader(collapsed.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, lines, again)

	// Merging the output with itself doubles every count.
	merged, mergedStats, err := converter.Merge(ctx, []io.Reader{
		bytes.NewReader(collapsed.Bytes()),
		bytes.NewReader(collapsed.Bytes()),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6), mergedStats.TotalSamples)
	assert.Equal(t, 2, mergedStats.UniqueStacks)

	// And the merged lines still render as a flame graph tree.
	var graphJSON bytes.Buffer
	require.NoError(t, converter.Emit(ctx, &graphJSON, converter.OutputJSON, merged))

	var graph struct {
		Root struct {
			Name     string `json:"name"`
			Value    int64  `json:"value"`
			Children []struct {
				Name string `json:"name"`
			} `json:"children"`
		} `json:"root"`
		TotalSamples int64 `json:"totalSamples"`
	}
	require.NoError(t, json.Unmarshal(graphJSON.Bytes(), &graph))
	assert.Equal(t, int64(6), graph.TotalSamples)
	assert.Equal(t, int64(6), graph.Root.Value)
	require.Len(t, graph.Root.Children, 1)
	assert.Equal(t, "Thread 1", graph.Root.Children[0].Name)
}

func TestPipeline_HPROFToGzippedFlameGraph(t *testing.T) {
	ctx := context.Background()

	dump := testutil.NewHPROFDump().
		Trace(301000, 200001,
			"com.example.Dao.query(Dao.java:42)",
			"com.example.Service.handle(Service.java:17)",
			"com.example.Main.main(Main.java:5)").
		Trace(301001, 200001,
			"com.example.Main.main(Main.java:5)").
		Sample(1, "75%", 9, 301000).
		Sample(2, "25%", 3, 301001).
		String()

	conv, err := converter.New(model.FormatHPROF, &config.FoldConfig{}, nil)
	require.NoError(t, err)

	lines, stats, err := conv.Convert(ctx, strings.NewReader(dump))
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, int64(12), stats.TotalSamples)

	var compressed bytes.Buffer
	require.NoError(t, converter.Emit(ctx, &compressed, converter.OutputJSONGzip, lines))

	zr, err := gzip.NewReader(bytes.NewReader(compressed.Bytes()))
	require.NoError(t, err)
	defer zr.Close()

	decoded, err := io.ReadAll(zr)
	require.NoError(t, err)

	var graph struct {
		TotalSamples int64 `json:"totalSamples"`
	}
	require.NoError(t, json.Unmarshal(decoded, &graph))
	assert.Equal(t, int64(12), graph.TotalSamples)
}
