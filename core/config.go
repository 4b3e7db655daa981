package core

import "time"

const (
	// DefaultCloseoutTimeout bounds WaitTillCloseout and the drain phase of
	// Close when no explicit timeout is configured.
	DefaultCloseoutTimeout = 10 * time.Second

	// DefaultAcknowledgeTimeout bounds WaitAllAcknowledge when no explicit
	// timeout is given.
	DefaultAcknowledgeTimeout = 60 * time.Second
)

// =============================================================================
// RunnerConfig: Configuration for runners
// =============================================================================

// RunnerConfig holds configuration options for runners.
// All fields are optional; zero values select defaults.
type RunnerConfig struct {
	// Logger receives all runner diagnostics. Defaults to DefaultLogger.
	Logger Logger

	// Metrics is called to record execution metrics. Defaults to NilMetrics.
	Metrics Metrics

	// FailureObserver, if set, is notified of every task failure in
	// addition to the log entry. Optional.
	FailureObserver FailureObserver

	// HistoryCapacity sizes the ring buffer of recent op executions.
	// Defaults to 100.
	HistoryCapacity int

	// CloseoutTimeout bounds WaitTillCloseout(0) and Close's drain phase.
	// Defaults to DefaultCloseoutTimeout.
	CloseoutTimeout time.Duration
}

// DefaultRunnerConfig returns a config with default values.
func DefaultRunnerConfig() *RunnerConfig {
	return &RunnerConfig{
		Logger:          NewDefaultLogger(),
		Metrics:         &NilMetrics{},
		HistoryCapacity: defaultHistoryCapacity,
		CloseoutTimeout: DefaultCloseoutTimeout,
	}
}

// resolved returns a copy with every unset field filled in.
func (c *RunnerConfig) resolved() RunnerConfig {
	out := RunnerConfig{}
	if c != nil {
		out = *c
	}
	if out.Logger == nil {
		out.Logger = NewDefaultLogger()
	}
	if out.Metrics == nil {
		out.Metrics = &NilMetrics{}
	}
	if out.HistoryCapacity < 1 {
		out.HistoryCapacity = defaultHistoryCapacity
	}
	if out.CloseoutTimeout <= 0 {
		out.CloseoutTimeout = DefaultCloseoutTimeout
	}
	return out
}
