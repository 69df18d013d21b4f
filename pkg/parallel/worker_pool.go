// Package parallel provides a small generic worker pool for running
// independent tasks concurrently while preserving input order.
package parallel

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// PoolConfig configures the worker pool.
type PoolConfig struct {
	// MaxWorkers is the maximum number of concurrent workers.
	// Default: min(runtime.NumCPU(), 8)
	MaxWorkers int

	// Timeout bounds the entire Execute call. Zero means no timeout.
	Timeout time.Duration
}

// DefaultPoolConfig returns the default pool configuration.
func DefaultPoolConfig() PoolConfig {
	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}
	if workers < 2 {
		workers = 2
	}
	return PoolConfig{MaxWorkers: workers}
}

// WithWorkers returns a copy of the config with the worker count set.
func (c PoolConfig) WithWorkers(n int) PoolConfig {
	c.MaxWorkers = n
	return c
}

// TaskResult holds the outcome of one task. Results keep the position
// of their input, so callers can rely on deterministic ordering even
// though execution is concurrent.
type TaskResult[T any, R any] struct {
	Input  T
	Result R
	Err    error
}

// WorkerPool runs tasks of type T producing results of type R.
type WorkerPool[T any, R any] struct {
	config PoolConfig
}

// NewWorkerPool creates a worker pool with the given configuration.
func NewWorkerPool[T any, R any](config PoolConfig) *WorkerPool[T, R] {
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = DefaultPoolConfig().MaxWorkers
	}
	return &WorkerPool[T, R]{config: config}
}

// ExecuteFunc runs fn for every input and returns one result per input,
// in input order. A cancelled context leaves the affected results with
// the context error.
func (p *WorkerPool[T, R]) ExecuteFunc(ctx context.Context, inputs []T, fn func(ctx context.Context, input T) (R, error)) []TaskResult[T, R] {
	if len(inputs) == 0 {
		return nil
	}

	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}

	results := make([]TaskResult[T, R], len(inputs))
	indexCh := make(chan int)

	var wg sync.WaitGroup
	workers := p.config.MaxWorkers
	if workers > len(inputs) {
		workers = len(inputs)
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexCh {
				input := inputs[idx]
				result, err := fn(ctx, input)
				results[idx] = TaskResult[T, R]{Input: input, Result: result, Err: err}
			}
		}()
	}

	for i := range inputs {
		select {
		case <-ctx.Done():
			for j := i; j < len(inputs); j++ {
				results[j] = TaskResult[T, R]{Input: inputs[j], Err: ctx.Err()}
			}
			close(indexCh)
			wg.Wait()
			return results
		case indexCh <- i:
		}
	}
	close(indexCh)
	wg.Wait()

	return results
}
