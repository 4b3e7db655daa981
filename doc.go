// Package docrunner provides cooperative task-ordering runners for
// collaborative document sessions.
//
// Each runner is an actor owning a private FIFO queue and one loop
// goroutine: producers post asynchronous units of work from anywhere, and
// the runner executes them strictly in submission order, one at a time. A
// batching variant collapses contiguous same-name operations into a single
// follow-up handler call, and composable synchronizers (acknowledge, block,
// acknowledge-then-block) let independent runners rendezvous with each other
// and with external waiters by riding the queue like ordinary work.
//
// # Quick Start
//
// Create a runner and post ops:
//
//	runner := docrunner.NewOrderedRunner("doc42-sender", docrunner.NewDefaultLogger())
//	defer runner.Close()
//
//	runner.RunFunc("writeProperty", func(ctx context.Context) error {
//		// Your code here - guaranteed sequential execution
//		return nil
//	})
//
// For per-document sessions, use the registry: one shared runner per
// document and direction, fresh facades per caller:
//
//	registry := docrunner.NewDocumentRunner()
//	defer registry.Close()
//
//	sender, _ := registry.GetSenderRunner("doc42", logger)
//	sender.RegisterBatchHandler("writeProperty", flushProperties)
//
// # Key Concepts
//
// OrderedRunner: minimal FIFO single-flight executor. Run is fire-and-forget;
// a failing op is logged and the loop continues (swallow-and-continue policy).
//
// BatchedOrderedRunner: same contract plus RegisterBatchHandler. Contiguous
// runs of same-name batchable ops are invoked synchronously and followed by
// exactly one handler call.
//
// DocumentBatchedOrderedRunner: a facade with its own handler table that
// delegates ordering to one shared underlying runner, so independent
// subsystems keep their own batch semantics under a global order.
//
// Syncers: AcknowledgeSyncer, BlockSyncer and AcknowledgeBlockSyncer are
// submitted via a runner's Sync method and inherit its FIFO position; they
// are the only way to establish cross-runner ordering.
package docrunner
