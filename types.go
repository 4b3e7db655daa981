package docrunner

import "github.com/collabfc/go-doc-runner/core"

// Re-export commonly used types from core package for convenience.
// This allows users to import only the docrunner package for most use cases.

// Op pairs a task function with an explicit identity tag
type Op = core.Op

// TaskFunc is the unit of deferred work
type TaskFunc = core.TaskFunc

// BatchHandler runs once after a contiguous run of same-name batchable ops
type BatchHandler = core.BatchHandler

// Runner is the submission surface shared by all runner flavors
type Runner = core.Runner

// OrderedRunner executes ops strictly in submission order
type OrderedRunner = core.OrderedRunner

// BatchedOrderedRunner adds contiguous-run batch collapsing
type BatchedOrderedRunner = core.BatchedOrderedRunner

// DocumentBatchedOrderedRunner is a facade over one shared runner
type DocumentBatchedOrderedRunner = core.DocumentBatchedOrderedRunner

// RunnerConfig configures a runner (logger, metrics, history, timeouts)
type RunnerConfig = core.RunnerConfig

// RunnerStats is a point-in-time runner snapshot
type RunnerStats = core.RunnerStats

// Syncer is a rendezvous primitive enqueued like ordinary work
type Syncer = core.Syncer

// AcknowledgeSyncer releases an external waiter after N runner arrivals
type AcknowledgeSyncer = core.AcknowledgeSyncer

// BlockSyncer parks runners until Restart (one-shot gate)
type BlockSyncer = core.BlockSyncer

// AcknowledgeBlockSyncer composes acknowledge-then-block
type AcknowledgeBlockSyncer = core.AcknowledgeBlockSyncer

// Future is the completion latch handed out by Track
type Future = core.Future

// TaskContext waits for a set of outstanding tasks before proceeding
type TaskContext = core.TaskContext

// Logger is the structured log sink consumed by runners
type Logger = core.Logger

// Field is a structured log field
type Field = core.Field

// F creates a log field
var F = core.F

// Constructors re-exported from core
var (
	NewOrderedRunner                  = core.NewOrderedRunner
	NewOrderedRunnerWithConfig        = core.NewOrderedRunnerWithConfig
	NewBatchedOrderedRunner           = core.NewBatchedOrderedRunner
	NewBatchedOrderedRunnerWithConfig = core.NewBatchedOrderedRunnerWithConfig
	NewDocumentBatchedOrderedRunner   = core.NewDocumentBatchedOrderedRunner
	NewAcknowledgeSyncer              = core.NewAcknowledgeSyncer
	NewBlockSyncer                    = core.NewBlockSyncer
	NewAcknowledgeBlockSyncer         = core.NewAcknowledgeBlockSyncer
	NewTaskContext                    = core.NewTaskContext
	NewDefaultLogger                  = core.NewDefaultLogger
	NewNoOpLogger                     = core.NewNoOpLogger
	NewSlogLogger                     = core.NewSlogLogger
	DefaultRunnerConfig               = core.DefaultRunnerConfig
)

// Sentinel errors re-exported from core
var (
	ErrRunnerClosed       = core.ErrRunnerClosed
	ErrNilTask            = core.ErrNilTask
	ErrTaskPanicked       = core.ErrTaskPanicked
	ErrAcknowledgeTimeout = core.ErrAcknowledgeTimeout
	ErrAwaitTimeout       = core.ErrAwaitTimeout
)
