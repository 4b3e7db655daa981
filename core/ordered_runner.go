package core

// OrderedRunner executes submitted ops strictly in submission order, one at
// a time, on a dedicated loop goroutine. Producers never block: Run appends
// to the queue and nudges the loop.
//
// A failing op is logged and the loop continues with the next one; failures
// are never reported back to the producer. Use Track or a FailureObserver
// when the outcome matters to the caller.
type OrderedRunner struct {
	*runnerBase
}

var _ Runner = (*OrderedRunner)(nil)

// NewOrderedRunner creates a runner named name, logging through logger, and
// starts its loop goroutine.
func NewOrderedRunner(name string, logger Logger) *OrderedRunner {
	return NewOrderedRunnerWithConfig(name, &RunnerConfig{Logger: logger})
}

// NewOrderedRunnerWithConfig creates a runner with explicit configuration.
func NewOrderedRunnerWithConfig(name string, cfg *RunnerConfig) *OrderedRunner {
	r := &OrderedRunner{runnerBase: newRunnerBase(name, "ordered", cfg)}
	go r.runLoop()
	return r
}

// runLoop is the actor loop: wait for work, drain the queue FIFO, go idle.
func (r *OrderedRunner) runLoop() {
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

		for {
			if r.ctx.Err() != nil {
				return
			}
			op, ok := r.dequeue()
			if !ok {
				break
			}
			r.invoke(op)
		}

		r.finishDrain()
	}
}
