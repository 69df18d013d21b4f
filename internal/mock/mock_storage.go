// Package mock provides testify-based mocks for the storage and
// history interfaces, for tests that need to script failures or
// inspect calls.
package mock

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a mock implementation of the storage.Storage interface.
type MockStorage struct {
	mock.Mock
}

// Fetch mocks the Fetch method.
func (m *MockStorage) Fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

// Store mocks the Store method.
func (m *MockStorage) Store(ctx context.Context, key string, reader io.Reader) error {
	args := m.Called(ctx, key, reader)
	return args.Error(0)
}

// Exists mocks the Exists method.
func (m *MockStorage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// URL mocks the URL method.
func (m *MockStorage) URL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

// ExpectFetch sets up an expectation for Fetch.
func (m *MockStorage) ExpectFetch(key string, body io.ReadCloser, err error) *mock.Call {
	return m.On("Fetch", mock.Anything, key).Return(body, err)
}

// ExpectStore sets up an expectation for Store.
func (m *MockStorage) ExpectStore(key string, err error) *mock.Call {
	return m.On("Store", mock.Anything, key, mock.Anything).Return(err)
}

// ExpectExists sets up an expectation for Exists.
func (m *MockStorage) ExpectExists(key string, exists bool, err error) *mock.Call {
	return m.On("Exists", mock.Anything, key).Return(exists, err)
}
