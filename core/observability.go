package core

import "time"

// =============================================================================
// Metrics: Interface for observability and monitoring
// =============================================================================

// Metrics defines the interface for collecting runner execution metrics.
// Implementations can send metrics to monitoring systems (Prometheus, StatsD, etc.).
//
// Methods should be non-blocking and fast, they run inside the runner loop.
type Metrics interface {
	// RecordTaskDuration records how long an op took to execute.
	RecordTaskDuration(runnerName, opName string, duration time.Duration)

	// RecordTaskFailure records that an op (or batch handler) returned an
	// error or panicked.
	RecordTaskFailure(runnerName, opName string)

	// RecordBatchSize records the length of a contiguous batched run that
	// was collapsed into a single handler call.
	RecordBatchSize(runnerName, opName string, size int)

	// RecordQueueDepth records the current queue depth.
	RecordQueueDepth(runnerName string, depth int)

	// RecordCloseoutTimeout records that WaitTillCloseout expired before
	// the runner drained.
	RecordCloseoutTimeout(runnerName string)
}

// NilMetrics provides a no-op metrics implementation that does nothing.
// This is the default when no metrics interface is provided.
type NilMetrics struct{}

// RecordTaskDuration is a no-op.
func (m *NilMetrics) RecordTaskDuration(runnerName, opName string, duration time.Duration) {}

// RecordTaskFailure is a no-op.
func (m *NilMetrics) RecordTaskFailure(runnerName, opName string) {}

// RecordBatchSize is a no-op.
func (m *NilMetrics) RecordBatchSize(runnerName, opName string, size int) {}

// RecordQueueDepth is a no-op.
func (m *NilMetrics) RecordQueueDepth(runnerName string, depth int) {}

// RecordCloseoutTimeout is a no-op.
func (m *NilMetrics) RecordCloseoutTimeout(runnerName string) {}

// =============================================================================
// FailureObserver: optional hook into the swallow-and-continue policy
// =============================================================================

// FailureObserver is notified of every task or batch handler failure.
//
// Task failures are never reported back to the producer that called Run;
// they are logged and the loop moves on. The observer exists purely for
// diagnostics on top of that policy and must not block.
type FailureObserver interface {
	ObserveTaskFailure(runnerName, opName string, err error)
}

// =============================================================================
// Snapshots
// =============================================================================

// RunnerStats represents runtime observability state for a runner.
type RunnerStats struct {
	Name       string
	Type       string
	Pending    int
	Current    string
	Idle       bool
	Closed     bool
	LastOpName string
	LastOpAt   time.Time
}

// OpExecutionRecord captures a completed op execution event.
type OpExecutionRecord struct {
	Runner    string
	Op        string
	StartedAt time.Time
	Duration  time.Duration
	Failed    bool
}
