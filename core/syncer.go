package core

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ygrebnov/errorc"
)

// Syncers are rendezvous primitives used to coordinate multiple runners with
// each other and with an outside process. They are injected into a runner's
// queue through its Sync method, so they inherit the runner's FIFO position
// like any other op.

// Syncer is any rendezvous primitive whose Execute step can be enqueued as
// an ordinary op.
type Syncer interface {
	Execute(ctx context.Context) error
}

// =============================================================================
// AcknowledgeSyncer
// =============================================================================

// AcknowledgeSyncer lets an external waiter block until num synced runners
// have executed it. The runners themselves never block; they move straight
// on to their next op.
type AcknowledgeSyncer struct {
	count    atomic.Int64
	released chan struct{}
	once     sync.Once
}

var _ Syncer = (*AcknowledgeSyncer)(nil)

// NewAcknowledgeSyncer creates a syncer released after num Execute calls.
func NewAcknowledgeSyncer(num int) *AcknowledgeSyncer {
	s := &AcknowledgeSyncer{released: make(chan struct{})}
	s.count.Store(int64(num))
	return s
}

// Execute decrements the remaining count and releases the latch once it
// reaches zero. It never blocks the calling runner.
func (s *AcknowledgeSyncer) Execute(ctx context.Context) error {
	if s.count.Add(-1) <= 0 {
		s.once.Do(func() { close(s.released) })
	}
	return nil
}

// WaitAllAcknowledge blocks the external caller until all runners have
// acknowledged or timeout elapses. A timeout <= 0 selects
// DefaultAcknowledgeTimeout. This is the one synchronizer path where a
// timeout surfaces as an error instead of a log line.
func (s *AcknowledgeSyncer) WaitAllAcknowledge(timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultAcknowledgeTimeout
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-s.released:
		return nil
	case <-timer.C:
		return errorc.With(ErrAcknowledgeTimeout,
			errorc.String("remaining", strconv.FormatInt(s.count.Load(), 10)))
	}
}

// =============================================================================
// BlockSyncer
// =============================================================================

// BlockSyncer parks every synced runner inside Execute until Restart is
// called. Tasks submitted behind the syncer do not start until then; tasks
// submitted before it complete normally.
//
// The gate is one-shot: once Restart fires, the latch stays released
// forever, and a later Execute on the same instance passes through
// immediately. Create a fresh instance to block again.
type BlockSyncer struct {
	released chan struct{}
	once     sync.Once
}

var _ Syncer = (*BlockSyncer)(nil)

// NewBlockSyncer creates a blocked gate.
func NewBlockSyncer() *BlockSyncer {
	return &BlockSyncer{released: make(chan struct{})}
}

// Execute suspends the calling runner until Restart is called. It also
// returns when the runner is being closed, so a forgotten Restart cannot
// deadlock Close.
func (s *BlockSyncer) Execute(ctx context.Context) error {
	select {
	case <-s.released:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Restart releases every runner currently parked in Execute. Safe to call
// more than once.
func (s *BlockSyncer) Restart() {
	s.once.Do(func() { close(s.released) })
}

// =============================================================================
// AcknowledgeBlockSyncer
// =============================================================================

// AcknowledgeBlockSyncer waits for num runners to arrive and then blocks
// them until Restart is called: acknowledge first, block second.
type AcknowledgeBlockSyncer struct {
	Acknowledge *AcknowledgeSyncer
	Block       *BlockSyncer
}

var _ Syncer = (*AcknowledgeBlockSyncer)(nil)

// NewAcknowledgeBlockSyncer creates the composed syncer for num runners.
func NewAcknowledgeBlockSyncer(num int) *AcknowledgeBlockSyncer {
	return &AcknowledgeBlockSyncer{
		Acknowledge: NewAcknowledgeSyncer(num),
		Block:       NewBlockSyncer(),
	}
}

// Execute performs the acknowledge step, then parks on the block step.
func (s *AcknowledgeBlockSyncer) Execute(ctx context.Context) error {
	if err := s.Acknowledge.Execute(ctx); err != nil {
		return err
	}
	return s.Block.Execute(ctx)
}

// Wait blocks the external caller until all runners have arrived.
func (s *AcknowledgeBlockSyncer) Wait(timeout time.Duration) error {
	return s.Acknowledge.WaitAllAcknowledge(timeout)
}

// Restart releases the parked runners.
func (s *AcknowledgeBlockSyncer) Restart() {
	s.Block.Restart()
}
