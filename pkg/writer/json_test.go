package writer

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

func TestJSONWriter_Compact(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter[payload]()

	err := w.Write(payload{Name: "main", Value: 7}, &buf)

	require.NoError(t, err)
	assert.Equal(t, "{\"name\":\"main\",\"value\":7}\n", buf.String())
}

func TestJSONWriter_Pretty(t *testing.T) {
	var buf bytes.Buffer
	w := NewPrettyJSONWriter[payload]()

	err := w.Write(payload{Name: "main", Value: 7}, &buf)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "\n  \"name\": \"main\"")
}

func TestGzipWriter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewGzipWriter[payload]()

	err := w.Write(payload{Name: "leaf", Value: 3}, &buf)
	require.NoError(t, err)

	gz, err := gzip.NewReader(&buf)
	require.NoError(t, err)
	raw, err := io.ReadAll(gz)
	require.NoError(t, err)

	var got payload
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, payload{Name: "leaf", Value: 3}, got)
}
