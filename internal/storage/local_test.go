package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackfold/pkg/config"
)

func TestLocalStorage_StoreAndFetch(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Store(ctx, "out/result.folded", strings.NewReader("main 3\n")))

	ok, err := s.Exists(ctx, "out/result.folded")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Fetch(ctx, "out/result.folded")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "main 3\n", string(data))
}

func TestLocalStorage_FetchMissing(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Fetch(context.Background(), "nope.hpl")
	assert.ErrorContains(t, err, "input not found")
}

func TestLocalStorage_ExistsMissing(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ok, err := s.Exists(context.Background(), "nope.hpl")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStorage_ContextCancelled(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Fetch(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_DefaultsToLocal(t *testing.T) {
	s, err := New(&config.StorageConfig{LocalPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)
}

func TestNew_ValidatesCOS(t *testing.T) {
	_, err := New(&config.StorageConfig{Type: "cos"})
	assert.ErrorContains(t, err, "bucket and region")

	_, err = New(&config.StorageConfig{Type: "cos", Bucket: "b", Region: "ap-guangzhou"})
	assert.ErrorContains(t, err, "credentials")

	_, err = New(&config.StorageConfig{Type: "tape"})
	assert.ErrorContains(t, err, "unsupported storage type")
}

func TestCOSStorage_URL(t *testing.T) {
	s, err := NewCOSStorage(&COSConfig{
		Bucket:    "profiles-123",
		Region:    "ap-guangzhou",
		SecretID:  "id",
		SecretKey: "key",
	})
	require.NoError(t, err)

	assert.Equal(t,
		"https://profiles-123.cos.ap-guangzhou.myqcloud.com/a/b.hpl",
		s.URL("a/b.hpl"))
}
