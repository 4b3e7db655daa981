package core

import (
	"context"
	"time"
)

// TaskFunc is the unit of deferred work submitted to a runner.
// The returned error is logged by the owning runner and never reported back
// to the producer; a failing task does not stop the runner.
type TaskFunc func(ctx context.Context) error

// BatchHandler is invoked exactly once after a contiguous run of batchable
// ops sharing the same name has been drained from the queue.
type BatchHandler func(ctx context.Context) error

// Op pairs a task function with an explicit identity tag.
//
// The tag is chosen by the producer: it keys batch handler lookup and is
// what Queued() reports. Two ops are batched together only when their Name
// values are equal and a handler is registered for that name.
type Op struct {
	Name string
	Fn   TaskFunc
}

// =============================================================================
// Runner: common surface of OrderedRunner and BatchedOrderedRunner
// =============================================================================

// Runner is the submission surface shared by OrderedRunner and
// BatchedOrderedRunner. DocumentBatchedOrderedRunner accepts any Runner as
// its shared underlying runner.
type Runner interface {
	// Run appends op to the queue and wakes the loop. Non-blocking; the only
	// errors it returns are ErrRunnerClosed and ErrNilTask.
	Run(op Op) error

	// RunFunc is shorthand for Run(Op{Name: name, Fn: fn}).
	RunFunc(name string, fn TaskFunc) error

	// Track submits op like Run and returns a Future completed when the op
	// has executed (successfully or not).
	Track(op Op) (*Future, error)

	// Queued returns the names of all ops still waiting in the queue,
	// excluding the one currently executing. Diagnostic snapshot only.
	Queued() []string

	// Sync submits the syncer's Execute step as an ordinary op, so it
	// participates in strict ordering with everything else on this runner.
	Sync(s Syncer) error

	// WaitTillCloseout blocks until the runner is idle or timeout elapses.
	// On expiry it logs the runner state and returns; it never fails.
	// A timeout <= 0 means the runner's configured closeout timeout.
	WaitTillCloseout(timeout time.Duration)

	// Close drains (bounded by the closeout timeout), stops the loop and
	// releases the runner. Idempotent. Run rejects after Close.
	Close()

	// Stats returns a point-in-time snapshot of the runner state.
	Stats() RunnerStats
}
