package core

import (
	"context"
	"sync"
	"time"
)

// Future is the completion latch handed out by Track. It completes when the
// tracked op has executed, carrying the op's error (nil on success).
type Future struct {
	done chan struct{}
	once sync.Once
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) complete(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Done returns a channel closed when the op has executed.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Err returns the op's error once complete, nil before completion.
func (f *Future) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}

// Await blocks until the op has executed or ctx is done.
func (f *Future) Await(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AwaitWithTimeout blocks until the op has executed or timeout elapses, in
// which case it returns ErrAwaitTimeout.
func (f *Future) AwaitWithTimeout(timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.err
	case <-timer.C:
		return ErrAwaitTimeout
	}
}

// =============================================================================
// TaskContext
// =============================================================================

// TaskContext guards a dependent code section behind a set of outstanding
// setup tasks: Wait suspends until all of them have completed, proceeding
// immediately when there are none. Task errors do not fail the wait; only
// ctx cancellation does.
type TaskContext struct {
	futures []*Future
}

// NewTaskContext creates a context over the given outstanding tasks.
// Nil entries are ignored.
func NewTaskContext(futures ...*Future) *TaskContext {
	return &TaskContext{futures: futures}
}

// Wait blocks until every tracked task has completed or ctx is done.
func (tc *TaskContext) Wait(ctx context.Context) error {
	for _, f := range tc.futures {
		if f == nil {
			continue
		}
		select {
		case <-f.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
