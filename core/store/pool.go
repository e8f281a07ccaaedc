// Package store bounds and times out every call the assistants make into
// their record stores.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"
)

const (
	DefaultWorkers = 4
	DefaultTimeout = 5 * time.Second
)

var (
	// ErrTimeout is returned when a store operation does not finish within
	// the pool timeout. The operation itself keeps its worker slot until it
	// returns.
	ErrTimeout = errors.New("store operation timed out")
	// ErrPoolClosed is returned for operations submitted after Close.
	ErrPoolClosed = errors.New("store pool closed")
)

// Pool runs store operations on at most a fixed number of workers.
type Pool struct {
	sem     *semaphore.Weighted
	workers int
	timeout time.Duration

	mu       sync.RWMutex
	closed   bool
	inFlight sync.WaitGroup

	timeouts metric.Int64Counter
}

type PoolOption func(*Pool)

// WithWorkers sets how many store operations may run at the same time.
// Values below one are ignored.
func WithWorkers(workers int) PoolOption {
	return func(p *Pool) {
		if workers > 0 {
			p.workers = workers
		}
	}
}

// WithTimeout sets how long a caller waits for a worker and for the
// operation itself. Non-positive values are ignored.
func WithTimeout(timeout time.Duration) PoolOption {
	return func(p *Pool) {
		if timeout > 0 {
			p.timeout = timeout
		}
	}
}

func NewPool(opts ...PoolOption) *Pool {
	p := &Pool{workers: DefaultWorkers, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(p)
	}
	p.sem = semaphore.NewWeighted(int64(p.workers))

	counter, err := meter.Int64Counter("store.timeouts",
		metric.WithDescription("Store operations abandoned after the pool timeout"))
	if err != nil {
		logger.Warn("failed to create store timeout counter", "error", err)
	}
	p.timeouts = counter

	return p
}

// Do runs op on a pool worker and waits for it or for the pool timeout,
// whichever comes first.
func (p *Pool) Do(ctx context.Context, name string, op func(context.Context) error) error {
	if p == nil {
		return op(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	ctx, span := tracer.Start(ctx, "store "+name)
	defer span.End()
	span.SetAttributes(attribute.String("store.operation", name))

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return p.fail(ctx, name, p.contextErr(ctx, err))
	}

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		p.sem.Release(1)
		return p.fail(ctx, name, ErrPoolClosed)
	}
	p.inFlight.Add(1)
	p.mu.RUnlock()

	done := make(chan error, 1)
	go func() {
		defer p.inFlight.Done()
		defer p.sem.Release(1)
		done <- runRecovered(ctx, name, op)
	}()

	select {
	case err := <-done:
		if err != nil {
			return p.fail(ctx, name, err)
		}
		return nil
	case <-ctx.Done():
		return p.fail(ctx, name, p.contextErr(ctx, ctx.Err()))
	}
}

// Run is Do for operations that produce a value.
func Run[T any](ctx context.Context, p *Pool, name string, op func(context.Context) (T, error)) (T, error) {
	var result T
	err := p.Do(ctx, name, func(ctx context.Context) error {
		value, err := op(ctx)
		if err != nil {
			return err
		}
		result = value
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// Close stops accepting operations and waits for the running ones.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.inFlight.Wait()
}

func (p *Pool) contextErr(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		if p.timeouts != nil {
			p.timeouts.Add(ctx, 1)
		}
		return ErrTimeout
	}
	return err
}

func (p *Pool) fail(ctx context.Context, name string, err error) error {
	err = fmt.Errorf("store %s: %w", name, err)
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	logger.ErrorContext(ctx, "store operation failed", "operation", name, "error", err)
	return err
}

func runRecovered(ctx context.Context, name string, op func(context.Context) error) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("%s panicked: %v", name, recovered)
		}
	}()
	return op(ctx)
}
