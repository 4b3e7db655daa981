package core

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/ygrebnov/errorc"
)

// syncOpName is the identity tag used for ops submitted via Sync.
const syncOpName = "synchronize"

// runnerBase carries the queue, state signals and loop plumbing shared by
// OrderedRunner and BatchedOrderedRunner. The loop goroutine is the sole
// consumer of the queue; producers only append under mu and nudge the signal
// channel.
type runnerBase struct {
	name     string
	typ      string
	logger   Logger
	metrics  Metrics
	failures FailureObserver
	closeout time.Duration

	mu      sync.Mutex
	queue   *opQueue
	current string
	idle    bool
	idleCh  chan struct{} // closed while idle, replaced on each drain cycle
	closed  bool

	signal    chan struct{}
	ctx       context.Context
	cancel    context.CancelFunc
	stopped   chan struct{}
	closeOnce sync.Once

	history *executionHistory
}

func newRunnerBase(name, typ string, cfg *RunnerConfig) *runnerBase {
	resolved := cfg.resolved()
	ctx, cancel := context.WithCancel(context.Background())

	idleCh := make(chan struct{})
	close(idleCh) // a fresh runner starts idle

	return &runnerBase{
		name:     name,
		typ:      typ,
		logger:   resolved.Logger,
		metrics:  resolved.Metrics,
		failures: resolved.FailureObserver,
		closeout: resolved.CloseoutTimeout,
		queue:    newOpQueue(),
		idle:     true,
		idleCh:   idleCh,
		signal:   make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
		stopped:  make(chan struct{}),
		history:  newExecutionHistory(resolved.HistoryCapacity),
	}
}

// Name returns the runner identity used in logs and metrics.
func (b *runnerBase) Name() string {
	return b.name
}

// Run appends op to the queue and wakes the loop. It never blocks; after
// Close it rejects with ErrRunnerClosed.
func (b *runnerBase) Run(op Op) error {
	if op.Fn == nil {
		return ErrNilTask
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return runnerClosedError(b.name)
	}
	b.queue.push(op)
	depth := b.queue.len()
	b.mu.Unlock()

	b.metrics.RecordQueueDepth(b.name, depth)

	select {
	case b.signal <- struct{}{}:
	default:
		// Signal already pending, the loop will drain everything queued.
	}
	return nil
}

// RunFunc is shorthand for Run(Op{Name: name, Fn: fn}).
func (b *runnerBase) RunFunc(name string, fn TaskFunc) error {
	return b.Run(Op{Name: name, Fn: fn})
}

// Sync submits the syncer's Execute step as an ordinary op.
func (b *runnerBase) Sync(s Syncer) error {
	return b.Run(Op{Name: syncOpName, Fn: s.Execute})
}

// Track submits op like Run and returns a Future completed once the op has
// executed. The op's failure is still logged by the runner; the Future just
// additionally exposes it to the submitter.
func (b *runnerBase) Track(op Op) (*Future, error) {
	if op.Fn == nil {
		return nil, ErrNilTask
	}

	f := newFuture()
	inner := op.Fn
	err := b.Run(Op{Name: op.Name, Fn: func(ctx context.Context) error {
		err := callTask(ctx, inner)
		f.complete(err)
		return err
	}})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Queued returns the names of all ops still waiting in the queue, excluding
// the one currently executing.
func (b *runnerBase) Queued() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.queue.names()
}

// WaitTillCloseout blocks until the runner is idle or timeout elapses. On
// expiry it logs the runner state (loop liveness, current op, remaining
// queue) and returns; the caller cannot distinguish "drained" from "timed
// out" except via the log. A timeout <= 0 selects the configured default.
func (b *runnerBase) WaitTillCloseout(timeout time.Duration) {
	if timeout <= 0 {
		timeout = b.closeout
	}

	b.mu.Lock()
	ch := b.idleCh
	b.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ch:
	case <-timer.C:
		alive := true
		select {
		case <-b.stopped:
			alive = false
		default:
		}

		b.mu.Lock()
		current := b.current
		remaining := b.queue.names()
		b.mu.Unlock()

		b.metrics.RecordCloseoutTimeout(b.name)
		b.logger.Error("runner closeout timed out",
			F("runner", b.name),
			F("loopAlive", alive),
			F("current", current),
			F("remaining", remaining))
	}
}

// Close drains the queue (bounded by the closeout timeout), cancels the loop
// goroutine, waits for it to exit and forces the idle signal. Idempotent;
// subsequent Run calls fail with ErrRunnerClosed.
func (b *runnerBase) Close() {
	b.closeOnce.Do(func() {
		b.WaitTillCloseout(0)

		b.mu.Lock()
		b.closed = true
		b.mu.Unlock()

		b.cancel()
		<-b.stopped

		// Force the idle signal regardless of drain outcome so no waiter
		// stays parked on a dead runner.
		b.mu.Lock()
		if !b.idle {
			b.idle = true
			b.current = ""
			close(b.idleCh)
		}
		b.mu.Unlock()
	})
}

// Stats returns a point-in-time snapshot of the runner state.
func (b *runnerBase) Stats() RunnerStats {
	b.mu.Lock()
	stats := RunnerStats{
		Name:    b.name,
		Type:    b.typ,
		Pending: b.queue.len(),
		Current: b.current,
		Idle:    b.idle,
		Closed:  b.closed,
	}
	b.mu.Unlock()

	if rec, ok := b.history.Last(); ok {
		stats.LastOpName = rec.Op
		stats.LastOpAt = rec.StartedAt
	}
	return stats
}

// RecentExecutions returns up to limit recent op execution records, most
// recent first. limit <= 0 means all retained records.
func (b *runnerBase) RecentExecutions(limit int) []OpExecutionRecord {
	return b.history.Recent(limit)
}

// =============================================================================
// Loop helpers (called only from the loop goroutine)
// =============================================================================

// enterDrain transitions Idle -> Draining. It reports false when the queue
// turned out to be empty (a stale wake-up), in which case the runner stays
// idle.
func (b *runnerBase) enterDrain() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.queue.isEmpty() {
		return false
	}
	if b.idle {
		b.idle = false
		b.idleCh = make(chan struct{})
	}
	return true
}

// finishDrain transitions Draining -> Idle, but only if the queue is still
// empty; producers may have appended while the last op ran, in which case
// the pending signal wakes the loop again.
func (b *runnerBase) finishDrain() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.queue.isEmpty() || b.idle {
		return
	}
	b.idle = true
	b.current = ""
	close(b.idleCh)
}

// dequeue pops the front op and marks it current.
func (b *runnerBase) dequeue() (Op, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	op, ok := b.queue.pop()
	if !ok {
		b.current = ""
		return Op{}, false
	}
	b.current = op.Name
	return op, true
}

func (b *runnerBase) setCurrent(name string) {
	b.mu.Lock()
	b.current = name
	b.mu.Unlock()
}

// invoke executes one op, recovers panics and applies the
// swallow-and-continue failure policy.
func (b *runnerBase) invoke(op Op) {
	start := time.Now()
	err := callTask(b.ctx, op.Fn)
	duration := time.Since(start)

	b.history.Add(OpExecutionRecord{
		Runner:    b.name,
		Op:        op.Name,
		StartedAt: start,
		Duration:  duration,
		Failed:    err != nil,
	})
	b.metrics.RecordTaskDuration(b.name, op.Name, duration)

	if err != nil {
		b.reportFailure("task failed", op.Name, err)
	}
}

func (b *runnerBase) reportFailure(msg, opName string, err error) {
	b.metrics.RecordTaskFailure(b.name, opName)
	if b.failures != nil {
		b.failures.ObserveTaskFailure(b.name, opName, err)
	}
	b.logger.Error(msg,
		F("runner", b.name),
		F("op", opName),
		F("error", err))
}

// callTask invokes fn, converting a panic into ErrTaskPanicked.
func callTask(ctx context.Context, fn TaskFunc) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errorc.With(ErrTaskPanicked,
				errorc.String("panic", fmt.Sprint(rec)),
				errorc.String("stack", string(debug.Stack())))
		}
	}()
	if fn == nil {
		return ErrNilTask
	}
	return fn(ctx)
}
