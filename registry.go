package docrunner

import (
	"errors"
	"sync"

	"github.com/collabfc/go-doc-runner/core"
)

// ErrRegistryClosed is returned by runner lookups after the registry has
// been closed.
var ErrRegistryClosed = errors.New(core.Namespace + ": registry closed")

// DocumentRunner hands out sender and receiver runners per document, so all
// actions of all producers touching the same document and direction are
// executed in one global order.
//
// Each (document, direction) pair owns exactly one underlying OrderedRunner,
// created lazily on first request and kept for the registry's lifetime;
// every lookup returns a fresh DocumentBatchedOrderedRunner facade over it.
// The registry is meant to be owned by the hosting session: create it at
// session start and Close it at session end, which closes every underlying
// runner.
type DocumentRunner struct {
	mu       sync.Mutex
	config   *core.RunnerConfig
	sender   map[string]*core.OrderedRunner
	receiver map[string]*core.OrderedRunner
	closed   bool
}

// NewDocumentRunner creates an empty registry with default runner
// configuration.
func NewDocumentRunner() *DocumentRunner {
	return NewDocumentRunnerWithConfig(nil)
}

// NewDocumentRunnerWithConfig creates an empty registry; cfg applies to
// every underlying runner it creates (the per-lookup logger overrides
// cfg.Logger for the runner created by that lookup).
func NewDocumentRunnerWithConfig(cfg *core.RunnerConfig) *DocumentRunner {
	return &DocumentRunner{
		config:   cfg,
		sender:   make(map[string]*core.OrderedRunner),
		receiver: make(map[string]*core.OrderedRunner),
	}
}

// GetSenderRunner returns a fresh facade over the shared sender runner for
// docID, creating that runner on first use.
func (d *DocumentRunner) GetSenderRunner(docID string, logger core.Logger) (*core.DocumentBatchedOrderedRunner, error) {
	return d.getRunner(d.sender, docID, "sender", logger)
}

// GetReceiverRunner returns a fresh facade over the shared receiver runner
// for docID, creating that runner on first use.
func (d *DocumentRunner) GetReceiverRunner(docID string, logger core.Logger) (*core.DocumentBatchedOrderedRunner, error) {
	return d.getRunner(d.receiver, docID, "receiver", logger)
}

func (d *DocumentRunner) getRunner(runners map[string]*core.OrderedRunner, docID, direction string, logger core.Logger) (*core.DocumentBatchedOrderedRunner, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrRegistryClosed
	}

	runner, ok := runners[docID]
	if !ok {
		cfg := core.RunnerConfig{}
		if d.config != nil {
			cfg = *d.config
		}
		if logger != nil {
			cfg.Logger = logger
		}
		runner = core.NewOrderedRunnerWithConfig(docID+"/"+direction, &cfg)
		runners[docID] = runner
	}

	return core.NewDocumentBatchedOrderedRunner(runner), nil
}

// RunnerNames returns the names of all underlying runners currently held.
func (d *DocumentRunner) RunnerNames() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	names := make([]string, 0, len(d.sender)+len(d.receiver))
	for _, r := range d.sender {
		names = append(names, r.Name())
	}
	for _, r := range d.receiver {
		names = append(names, r.Name())
	}
	return names
}

// Stats returns snapshots of every underlying runner, for diagnostics and
// metric pollers.
func (d *DocumentRunner) Stats() []core.RunnerStats {
	d.mu.Lock()
	runners := make([]*core.OrderedRunner, 0, len(d.sender)+len(d.receiver))
	for _, r := range d.sender {
		runners = append(runners, r)
	}
	for _, r := range d.receiver {
		runners = append(runners, r)
	}
	d.mu.Unlock()

	stats := make([]core.RunnerStats, 0, len(runners))
	for _, r := range runners {
		stats = append(stats, r.Stats())
	}
	return stats
}

// Close tears down the registry: every underlying runner is drained and
// closed, and later lookups fail with ErrRegistryClosed. Idempotent.
func (d *DocumentRunner) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	runners := make([]*core.OrderedRunner, 0, len(d.sender)+len(d.receiver))
	for _, r := range d.sender {
		runners = append(runners, r)
	}
	for _, r := range d.receiver {
		runners = append(runners, r)
	}
	d.mu.Unlock()

	for _, r := range runners {
		r.Close()
	}
}
