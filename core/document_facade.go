package core

import (
	"context"
	"sync"
	"time"
)

// DocumentBatchedOrderedRunner is a per-caller facade over one shared
// underlying runner. It keeps its own batch handler table but no queue:
// batchable ops are wrapped into "op then handler" closures before being
// submitted, so several independent facades can interleave their own batch
// semantics while all being globally ordered by the shared runner.
//
// Its API matches BatchedOrderedRunner, making it a drop-in replacement for
// producers that only need the submission surface.
type DocumentBatchedOrderedRunner struct {
	shared Runner

	handlersMu sync.RWMutex
	handlers   map[string]BatchHandler
}

var _ Runner = (*DocumentBatchedOrderedRunner)(nil)

// NewDocumentBatchedOrderedRunner creates a facade over shared.
func NewDocumentBatchedOrderedRunner(shared Runner) *DocumentBatchedOrderedRunner {
	return &DocumentBatchedOrderedRunner{
		shared:   shared,
		handlers: make(map[string]BatchHandler),
	}
}

// RegisterBatchHandler installs the follow-up handler for ops named opName
// submitted through this facade. The last registration for a name wins.
func (d *DocumentBatchedOrderedRunner) RegisterBatchHandler(opName string, handler BatchHandler) {
	d.handlersMu.Lock()
	d.handlers[opName] = handler
	d.handlersMu.Unlock()
}

func (d *DocumentBatchedOrderedRunner) handlerFor(opName string) BatchHandler {
	d.handlersMu.RLock()
	defer d.handlersMu.RUnlock()
	return d.handlers[opName]
}

// Run submits op to the shared runner. When this facade has a handler
// registered for op.Name, the submitted unit invokes op synchronously and
// then awaits the handler; a failing op skips its handler.
func (d *DocumentBatchedOrderedRunner) Run(op Op) error {
	if op.Fn == nil {
		return ErrNilTask
	}

	handler := d.handlerFor(op.Name)
	if handler == nil {
		return d.shared.Run(op)
	}

	fn := op.Fn
	return d.shared.Run(Op{Name: op.Name, Fn: func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			return err
		}
		return handler(ctx)
	}})
}

// RunFunc is shorthand for Run(Op{Name: name, Fn: fn}).
func (d *DocumentBatchedOrderedRunner) RunFunc(name string, fn TaskFunc) error {
	return d.Run(Op{Name: name, Fn: fn})
}

// Track submits op like Run and returns a Future completed when the wrapped
// unit (op plus any facade handler) has executed.
func (d *DocumentBatchedOrderedRunner) Track(op Op) (*Future, error) {
	if op.Fn == nil {
		return nil, ErrNilTask
	}

	fn := op.Fn
	unit := fn
	if handler := d.handlerFor(op.Name); handler != nil {
		unit = func(ctx context.Context) error {
			if err := fn(ctx); err != nil {
				return err
			}
			return handler(ctx)
		}
	}

	f := newFuture()
	err := d.shared.Run(Op{Name: op.Name, Fn: func(ctx context.Context) error {
		err := callTask(ctx, unit)
		f.complete(err)
		return err
	}})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Queued returns the names of all ops waiting on the shared runner.
func (d *DocumentBatchedOrderedRunner) Queued() []string {
	return d.shared.Queued()
}

// Sync submits the syncer's Execute step to the shared runner.
func (d *DocumentBatchedOrderedRunner) Sync(s Syncer) error {
	return d.shared.Sync(s)
}

// WaitTillCloseout waits for the shared runner to drain. Note that it also
// waits for ops submitted through other facades of the same runner.
func (d *DocumentBatchedOrderedRunner) WaitTillCloseout(timeout time.Duration) {
	d.shared.WaitTillCloseout(timeout)
}

// Close closes the shared runner, affecting every facade over it.
func (d *DocumentBatchedOrderedRunner) Close() {
	d.shared.Close()
}

// Stats returns the shared runner's snapshot.
func (d *DocumentBatchedOrderedRunner) Stats() RunnerStats {
	return d.shared.Stats()
}
