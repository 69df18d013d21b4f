package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := New(CodeFormatError, "unexpected marker")
	assert.Equal(t, "[FORMAT_ERROR] unexpected marker", err.Error())

	wrapped := Wrap(CodeFormatError, "decode failed", errors.New("boom"))
	assert.Equal(t, "[FORMAT_ERROR] decode failed: boom", wrapped.Error())
}

func TestAppError_Is(t *testing.T) {
	err := Newf(CodeMissingSymbol, "method %d not declared", 42)
	assert.True(t, errors.Is(err, ErrMissingSymbol))
	assert.False(t, errors.Is(err, ErrFormatError))
	assert.True(t, IsMissingSymbol(err))
}

func TestAppError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	err := Wrap(CodeStorageError, "download failed", inner)
	assert.Equal(t, inner, errors.Unwrap(err))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, CodeEmptyResult, GetErrorCode(ErrEmptyResult))
	assert.Equal(t, CodeUnknown, GetErrorCode(errors.New("plain")))

	wrapped := fmt.Errorf("outer: %w", New(CodeConfigError, "bad config"))
	assert.Equal(t, CodeConfigError, GetErrorCode(wrapped))
}

func TestGetErrorMessage(t *testing.T) {
	assert.Equal(t, "empty result", GetErrorMessage(ErrEmptyResult))
	assert.Equal(t, "plain", GetErrorMessage(errors.New("plain")))
	assert.Equal(t, "", GetErrorMessage(nil))
}
