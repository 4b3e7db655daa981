package core

import (
	"errors"

	"github.com/ygrebnov/errorc"
)

const Namespace = "docrunner"

var (
	// ErrRunnerClosed is returned by Run/Sync/Track after Close.
	ErrRunnerClosed = errors.New(Namespace + ": runner closed")

	// ErrNilTask is returned when an op carries no function.
	ErrNilTask = errors.New(Namespace + ": nil task function")

	// ErrTaskPanicked wraps a panic recovered at the loop boundary.
	ErrTaskPanicked = errors.New(Namespace + ": task panicked")

	// ErrAcknowledgeTimeout is returned by WaitAllAcknowledge on expiry.
	ErrAcknowledgeTimeout = errors.New(Namespace + ": acknowledge wait timed out")

	// ErrAwaitTimeout is returned by Future.AwaitWithTimeout on expiry.
	ErrAwaitTimeout = errors.New(Namespace + ": future await timed out")
)

func runnerClosedError(runner string) error {
	return errorc.With(ErrRunnerClosed, errorc.String("runner", runner))
}
