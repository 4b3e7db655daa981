package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDocumentFacade_WrapsOpWithHandler tests the facade batch wrapping
// Given: a facade over a shared runner with a handler registered for X
// When: an X op is submitted through the facade
// Then: the op runs first, then its handler, as one unit
func TestDocumentFacade_WrapsOpWithHandler(t *testing.T) {
	// Arrange
	shared := NewOrderedRunner("shared", NewNoOpLogger())
	defer shared.Close()
	facade := NewDocumentBatchedOrderedRunner(shared)

	recorder := &orderRecorder{}
	facade.RegisterBatchHandler("X", func(ctx context.Context) error {
		recorder.add("H")
		return nil
	})

	// Act
	require.NoError(t, facade.RunFunc("X", func(ctx context.Context) error {
		recorder.add("X")
		return nil
	}))
	facade.WaitTillCloseout(2 * time.Second)

	// Assert
	assert.Equal(t, []string{"X", "H"}, recorder.snapshot())
}

// TestDocumentFacade_FailingOpSkipsHandler tests the error short-circuit
// Given: a facade with a handler for X and an X op that fails
// When: the op executes
// Then: the handler is never invoked and the shared runner logs the failure
func TestDocumentFacade_FailingOpSkipsHandler(t *testing.T) {
	// Arrange
	logger := newCaptureLogger()
	shared := NewOrderedRunnerWithConfig("shared", &RunnerConfig{Logger: logger})
	defer shared.Close()
	facade := NewDocumentBatchedOrderedRunner(shared)

	handlerRan := false
	facade.RegisterBatchHandler("X", func(ctx context.Context) error {
		handlerRan = true
		return nil
	})

	// Act
	require.NoError(t, facade.RunFunc("X", func(ctx context.Context) error {
		return errors.New("transform failed")
	}))
	facade.WaitTillCloseout(2 * time.Second)

	// Assert
	assert.False(t, handlerRan, "handler must be skipped when the op fails")
	assert.Equal(t, 1, logger.errorCount())
}

// TestDocumentFacade_SharedGlobalOrdering tests cross-facade ordering
// Given: two facades over the same shared runner, each with its own handler
// table, submitting interleaved ops behind a gate
// When: the shared runner drains
// Then: all units execute in global submission order and each facade's
// handler fires only for its own ops
func TestDocumentFacade_SharedGlobalOrdering(t *testing.T) {
	// Arrange
	shared := NewOrderedRunner("shared", NewNoOpLogger())
	defer shared.Close()

	sender := NewDocumentBatchedOrderedRunner(shared)
	receiver := NewDocumentBatchedOrderedRunner(shared)

	recorder := &orderRecorder{}
	sender.RegisterBatchHandler("write", func(ctx context.Context) error {
		recorder.add("sendFlush")
		return nil
	})
	receiver.RegisterBatchHandler("write", func(ctx context.Context) error {
		recorder.add("recvFlush")
		return nil
	})

	gate := NewBlockSyncer()
	require.NoError(t, shared.Sync(gate))

	// Act: interleave submissions from both facades
	require.NoError(t, sender.RunFunc("write", func(ctx context.Context) error {
		recorder.add("send")
		return nil
	}))
	require.NoError(t, receiver.RunFunc("write", func(ctx context.Context) error {
		recorder.add("recv")
		return nil
	}))
	gate.Restart()
	shared.WaitTillCloseout(2 * time.Second)

	// Assert
	assert.Equal(t, []string{"send", "sendFlush", "recv", "recvFlush"}, recorder.snapshot())
}

// TestDocumentFacade_TrackCoversHandler tests Track through the facade
// Given: a facade with a handler for X whose handler fails
// When: an X op is tracked
// Then: the future completes with the handler's error
func TestDocumentFacade_TrackCoversHandler(t *testing.T) {
	// Arrange
	shared := NewOrderedRunner("shared", NewNoOpLogger())
	defer shared.Close()
	facade := NewDocumentBatchedOrderedRunner(shared)

	handlerErr := errors.New("flush failed")
	facade.RegisterBatchHandler("X", func(ctx context.Context) error {
		return handlerErr
	})

	// Act
	future, err := facade.Track(Op{Name: "X", Fn: func(ctx context.Context) error { return nil }})
	require.NoError(t, err)

	// Assert
	assert.ErrorIs(t, future.AwaitWithTimeout(2*time.Second), handlerErr)
}

// TestDocumentFacade_ForwardsRunnerSurface tests surface delegation
// Given: a facade over a shared runner
// When: Queued, Stats, Sync and Close are used through the facade
// Then: they operate on the shared runner
func TestDocumentFacade_ForwardsRunnerSurface(t *testing.T) {
	// Arrange
	shared := NewOrderedRunner("shared", NewNoOpLogger())
	facade := NewDocumentBatchedOrderedRunner(shared)

	gate := NewAcknowledgeBlockSyncer(1)
	require.NoError(t, facade.Sync(gate))
	require.NoError(t, gate.Wait(2*time.Second)) // loop is now parked inside the gate
	require.NoError(t, facade.RunFunc("pending", func(ctx context.Context) error { return nil }))

	// Assert: the queued op is visible through both surfaces
	assert.Equal(t, []string{"pending"}, facade.Queued())
	assert.Equal(t, shared.Stats(), facade.Stats())

	// Act
	gate.Restart()
	facade.Close()

	// Assert: closing the facade closed the shared runner
	assert.ErrorIs(t, shared.RunFunc("late", func(ctx context.Context) error { return nil }), ErrRunnerClosed)
	assert.ErrorIs(t, facade.RunFunc("late", func(ctx context.Context) error { return nil }), ErrRunnerClosed)
}

// TestDocumentFacade_NilTaskRejected tests input validation
// Given: a facade
// When: an op without a function is submitted
// Then: Run and Track reject with ErrNilTask
func TestDocumentFacade_NilTaskRejected(t *testing.T) {
	// Arrange
	shared := NewOrderedRunner("shared", NewNoOpLogger())
	defer shared.Close()
	facade := NewDocumentBatchedOrderedRunner(shared)

	// Act / Assert
	assert.ErrorIs(t, facade.Run(Op{Name: "empty"}), ErrNilTask)
	_, err := facade.Track(Op{Name: "empty"})
	assert.ErrorIs(t, err, ErrNilTask)
}
