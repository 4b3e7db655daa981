package prometheus

import (
	"errors"
	"fmt"
	"time"

	"github.com/collabfc/go-doc-runner/core"
	prom "github.com/prometheus/client_golang/prometheus"
)

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	DurationBuckets []float64
	BatchBuckets    []float64
}

// MetricsExporter adapts core.Metrics to Prometheus collectors.
type MetricsExporter struct {
	taskDurationSeconds  *prom.HistogramVec
	taskFailureTotal     *prom.CounterVec
	batchSize            *prom.HistogramVec
	queueDepth           *prom.GaugeVec
	closeoutTimeoutTotal *prom.CounterVec
}

var _ core.Metrics = (*MetricsExporter)(nil)

// NewMetricsExporter creates and registers Prometheus collectors for core.Metrics.
func NewMetricsExporter(namespace string, reg prom.Registerer, opts ExporterOptions) (*MetricsExporter, error) {
	if namespace == "" {
		namespace = "docrunner"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	durationBuckets := opts.DurationBuckets
	if len(durationBuckets) == 0 {
		durationBuckets = prom.DefBuckets
	}
	batchBuckets := opts.BatchBuckets
	if len(batchBuckets) == 0 {
		batchBuckets = prom.ExponentialBuckets(1, 2, 8)
	}

	durationVec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "task_duration_seconds",
		Help:      "Op execution duration in seconds.",
		Buckets:   durationBuckets,
	}, []string{"runner", "op"})
	failureVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "task_failure_total",
		Help:      "Total number of failed ops and batch handlers.",
	}, []string{"runner", "op"})
	batchVec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "batch_size",
		Help:      "Length of contiguous batched runs collapsed into one handler call.",
		Buckets:   batchBuckets,
	}, []string{"runner", "op"})
	queueDepthVec := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "queue_depth",
		Help:      "Current queue depth.",
	}, []string{"runner"})
	closeoutVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "closeout_timeout_total",
		Help:      "Total number of closeout waits that expired before the runner drained.",
	}, []string{"runner"})

	var err error
	if durationVec, err = registerCollector(reg, durationVec); err != nil {
		return nil, err
	}
	if failureVec, err = registerCollector(reg, failureVec); err != nil {
		return nil, err
	}
	if batchVec, err = registerCollector(reg, batchVec); err != nil {
		return nil, err
	}
	if queueDepthVec, err = registerCollector(reg, queueDepthVec); err != nil {
		return nil, err
	}
	if closeoutVec, err = registerCollector(reg, closeoutVec); err != nil {
		return nil, err
	}

	return &MetricsExporter{
		taskDurationSeconds:  durationVec,
		taskFailureTotal:     failureVec,
		batchSize:            batchVec,
		queueDepth:           queueDepthVec,
		closeoutTimeoutTotal: closeoutVec,
	}, nil
}

// RecordTaskDuration records op execution duration.
func (m *MetricsExporter) RecordTaskDuration(runnerName, opName string, duration time.Duration) {
	if m == nil {
		return
	}
	m.taskDurationSeconds.WithLabelValues(normalizeLabel(runnerName, "unknown"), normalizeLabel(opName, "unknown")).Observe(duration.Seconds())
}

// RecordTaskFailure records op and batch handler failures.
func (m *MetricsExporter) RecordTaskFailure(runnerName, opName string) {
	if m == nil {
		return
	}
	m.taskFailureTotal.WithLabelValues(normalizeLabel(runnerName, "unknown"), normalizeLabel(opName, "unknown")).Inc()
}

// RecordBatchSize records the length of a collapsed batch run.
func (m *MetricsExporter) RecordBatchSize(runnerName, opName string, size int) {
	if m == nil {
		return
	}
	m.batchSize.WithLabelValues(normalizeLabel(runnerName, "unknown"), normalizeLabel(opName, "unknown")).Observe(float64(size))
}

// RecordQueueDepth records queue depth.
func (m *MetricsExporter) RecordQueueDepth(runnerName string, depth int) {
	if m == nil {
		return
	}
	m.queueDepth.WithLabelValues(normalizeLabel(runnerName, "unknown")).Set(float64(depth))
}

// RecordCloseoutTimeout records an expired closeout wait.
func (m *MetricsExporter) RecordCloseoutTimeout(runnerName string) {
	if m == nil {
		return
	}
	m.closeoutTimeoutTotal.WithLabelValues(normalizeLabel(runnerName, "unknown")).Inc()
}

func normalizeLabel(v string, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
