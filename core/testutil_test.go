package core

import (
	"sync"
	"time"
)

// captureLogger records error entries so tests can assert on the logged
// degradation paths (closeout timeout, task failures).
type captureLogger struct {
	mu      sync.Mutex
	errors  []string
	entries []string
}

func newCaptureLogger() *captureLogger {
	return &captureLogger{}
}

func (l *captureLogger) Debug(msg string, fields ...Field) { l.record(msg) }
func (l *captureLogger) Info(msg string, fields ...Field)  { l.record(msg) }
func (l *captureLogger) Warn(msg string, fields ...Field)  { l.record(msg) }

func (l *captureLogger) Error(msg string, fields ...Field) {
	l.mu.Lock()
	l.errors = append(l.errors, msg)
	l.mu.Unlock()
	l.record(msg)
}

func (l *captureLogger) record(msg string) {
	l.mu.Lock()
	l.entries = append(l.entries, msg)
	l.mu.Unlock()
}

func (l *captureLogger) errorCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.errors)
}

func (l *captureLogger) lastError() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.errors) == 0 {
		return ""
	}
	return l.errors[len(l.errors)-1]
}

// captureMetrics records metric calls for assertions.
type captureMetrics struct {
	mu               sync.Mutex
	durations        int
	failures         []string
	batchSizes       []int
	queueDepths      []int
	closeoutTimeouts int
}

func newCaptureMetrics() *captureMetrics {
	return &captureMetrics{}
}

func (m *captureMetrics) RecordTaskDuration(runnerName, opName string, duration time.Duration) {
	m.mu.Lock()
	m.durations++
	m.mu.Unlock()
}

func (m *captureMetrics) RecordTaskFailure(runnerName, opName string) {
	m.mu.Lock()
	m.failures = append(m.failures, opName)
	m.mu.Unlock()
}

func (m *captureMetrics) RecordBatchSize(runnerName, opName string, size int) {
	m.mu.Lock()
	m.batchSizes = append(m.batchSizes, size)
	m.mu.Unlock()
}

func (m *captureMetrics) RecordQueueDepth(runnerName string, depth int) {
	m.mu.Lock()
	m.queueDepths = append(m.queueDepths, depth)
	m.mu.Unlock()
}

func (m *captureMetrics) RecordCloseoutTimeout(runnerName string) {
	m.mu.Lock()
	m.closeoutTimeouts++
	m.mu.Unlock()
}

func (m *captureMetrics) recordedBatchSizes() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.batchSizes...)
}

func (m *captureMetrics) failureOps() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.failures...)
}

// captureFailures implements FailureObserver.
type captureFailures struct {
	mu       sync.Mutex
	observed []string
}

func (o *captureFailures) ObserveTaskFailure(runnerName, opName string, err error) {
	o.mu.Lock()
	o.observed = append(o.observed, opName)
	o.mu.Unlock()
}

func (o *captureFailures) ops() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.observed...)
}

// orderRecorder collects the observable side-effect order of executed ops.
// Runner single-flight execution serializes the appends; reads happen after
// WaitTillCloseout, which orders them behind the writes.
type orderRecorder struct {
	mu    sync.Mutex
	order []string
}

func (r *orderRecorder) add(name string) {
	r.mu.Lock()
	r.order = append(r.order, name)
	r.mu.Unlock()
}

func (r *orderRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...)
}
