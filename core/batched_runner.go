package core

import "sync"

// BatchedOrderedRunner behaves like OrderedRunner, with one optimization: a
// contiguous run of queued ops sharing a name that has a registered batch
// handler is drained greedily with plain synchronous calls, and the handler
// runs exactly once afterwards. N consecutive batchable ops cost one handler
// call; runs interrupted by a different name cost one handler call per run.
//
// Batchable ops must be quick, non-blocking mutations; only their shared
// handler may do real (slow) work.
type BatchedOrderedRunner struct {
	*runnerBase

	handlersMu sync.RWMutex
	handlers   map[string]BatchHandler
}

var _ Runner = (*BatchedOrderedRunner)(nil)

// NewBatchedOrderedRunner creates a batching runner named name, logging
// through logger, and starts its loop goroutine.
func NewBatchedOrderedRunner(name string, logger Logger) *BatchedOrderedRunner {
	return NewBatchedOrderedRunnerWithConfig(name, &RunnerConfig{Logger: logger})
}

// NewBatchedOrderedRunnerWithConfig creates a batching runner with explicit
// configuration.
func NewBatchedOrderedRunnerWithConfig(name string, cfg *RunnerConfig) *BatchedOrderedRunner {
	r := &BatchedOrderedRunner{
		runnerBase: newRunnerBase(name, "batched", cfg),
		handlers:   make(map[string]BatchHandler),
	}
	go r.runLoop()
	return r
}

// RegisterBatchHandler marks ops named opName as batchable and installs the
// follow-up handler. Register before submitting ops of that name; the last
// registration for a name wins.
func (r *BatchedOrderedRunner) RegisterBatchHandler(opName string, handler BatchHandler) {
	r.handlersMu.Lock()
	r.handlers[opName] = handler
	r.handlersMu.Unlock()
}

func (r *BatchedOrderedRunner) handlerFor(opName string) BatchHandler {
	r.handlersMu.RLock()
	defer r.handlersMu.RUnlock()
	return r.handlers[opName]
}

func (r *BatchedOrderedRunner) runLoop() {
	defer close(r.stopped)

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-r.signal:
		}

		if !r.enterDrain() {
			continue
		}
		if !r.drain() {
			return
		}
		r.finishDrain()
	}
}

// drain works the queue in order, collapsing batchable runs. It reports
// false when the runner context was cancelled mid-drain.
func (r *BatchedOrderedRunner) drain() bool {
	op, ok := r.dequeue()
	for ok {
		if r.ctx.Err() != nil {
			return false
		}

		handler := r.handlerFor(op.Name)
		if handler == nil {
			// Not batchable, normal operation.
			r.invoke(op)
			op, ok = r.dequeue()
			continue
		}

		// Drain the contiguous run of same-name ops with synchronous calls.
		name := op.Name
		size := 0
		for ok && op.Name == name {
			r.invoke(op)
			size++
			op, ok = r.dequeue()
		}

		r.metrics.RecordBatchSize(r.name, name, size)
		r.invokeHandler(name, handler)

		// op now holds whatever ended the run (already popped); process it
		// next without re-reading the queue.
	}
	return true
}

// invokeHandler runs the batch follow-up handler under the same failure
// policy as ordinary ops.
func (r *BatchedOrderedRunner) invokeHandler(name string, handler BatchHandler) {
	r.setCurrent(name)
	if err := callTask(r.ctx, TaskFunc(handler)); err != nil {
		r.reportFailure("batch handler failed", name, err)
	}
}
