package prometheus

import (
	"context"
	"sync"
	"time"

	"github.com/collabfc/go-doc-runner/core"
	prom "github.com/prometheus/client_golang/prometheus"
)

// RunnerSnapshotProvider provides current runner stats snapshots.
type RunnerSnapshotProvider interface {
	Stats() core.RunnerStats
}

// RegistrySnapshotProvider provides stats for a whole set of runners, e.g.
// a DocumentRunner registry.
type RegistrySnapshotProvider interface {
	Stats() []core.RunnerStats
}

// SnapshotPoller periodically exports runner Stats() snapshots into
// Prometheus gauges.
type SnapshotPoller struct {
	interval time.Duration

	runnersMu sync.RWMutex
	runners   map[string]RunnerSnapshotProvider

	registriesMu sync.RWMutex
	registries   map[string]RegistrySnapshotProvider

	runnerPending *prom.GaugeVec
	runnerIdle    *prom.GaugeVec
	runnerClosed  *prom.GaugeVec

	stateMu sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSnapshotPoller creates a snapshot poller and registers its collectors.
func NewSnapshotPoller(reg prom.Registerer, interval time.Duration) (*SnapshotPoller, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if interval <= 0 {
		interval = time.Second
	}

	runnerPending := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "docrunner",
		Name:      "runner_pending",
		Help:      "Number of pending ops per runner.",
	}, []string{"runner", "type"})
	runnerIdle := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "docrunner",
		Name:      "runner_idle",
		Help:      "Runner idle state (1=idle, 0=draining).",
	}, []string{"runner", "type"})
	runnerClosed := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "docrunner",
		Name:      "runner_closed",
		Help:      "Runner closed state (1=closed, 0=open).",
	}, []string{"runner", "type"})

	var err error
	if runnerPending, err = registerCollector(reg, runnerPending); err != nil {
		return nil, err
	}
	if runnerIdle, err = registerCollector(reg, runnerIdle); err != nil {
		return nil, err
	}
	if runnerClosed, err = registerCollector(reg, runnerClosed); err != nil {
		return nil, err
	}

	return &SnapshotPoller{
		interval:      interval,
		runners:       make(map[string]RunnerSnapshotProvider),
		registries:    make(map[string]RegistrySnapshotProvider),
		runnerPending: runnerPending,
		runnerIdle:    runnerIdle,
		runnerClosed:  runnerClosed,
	}, nil
}

// AddRunner adds or replaces a runner snapshot provider by name.
func (p *SnapshotPoller) AddRunner(name string, provider RunnerSnapshotProvider) {
	if p == nil || provider == nil {
		return
	}
	name = normalizeLabel(name, "runner")
	p.runnersMu.Lock()
	p.runners[name] = provider
	p.runnersMu.Unlock()
}

// AddRegistry adds or replaces a registry snapshot provider by name. Every
// runner the registry reports is exported under its own name.
func (p *SnapshotPoller) AddRegistry(name string, provider RegistrySnapshotProvider) {
	if p == nil || provider == nil {
		return
	}
	name = normalizeLabel(name, "registry")
	p.registriesMu.Lock()
	p.registries[name] = provider
	p.registriesMu.Unlock()
}

// Start begins periodic polling; repeated calls are no-ops.
func (p *SnapshotPoller) Start(ctx context.Context) {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if p.running {
		p.stateMu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	p.stateMu.Unlock()

	go p.loop(pollCtx)
}

// Stop stops periodic polling; repeated calls are safe.
func (p *SnapshotPoller) Stop() {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if !p.running {
		p.stateMu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	p.stateMu.Lock()
	p.running = false
	p.cancel = nil
	p.done = nil
	p.stateMu.Unlock()
}

func (p *SnapshotPoller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collectOnce()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.collectOnce()
		}
	}
}

func (p *SnapshotPoller) collectOnce() {
	p.runnersMu.RLock()
	for name, provider := range p.runners {
		p.export(name, provider.Stats())
	}
	p.runnersMu.RUnlock()

	p.registriesMu.RLock()
	for _, provider := range p.registries {
		for _, stats := range provider.Stats() {
			p.export(normalizeLabel(stats.Name, "runner"), stats)
		}
	}
	p.registriesMu.RUnlock()
}

func (p *SnapshotPoller) export(name string, stats core.RunnerStats) {
	typeLabel := normalizeLabel(stats.Type, "unknown")
	p.runnerPending.WithLabelValues(name, typeLabel).Set(float64(stats.Pending))
	if stats.Idle {
		p.runnerIdle.WithLabelValues(name, typeLabel).Set(1)
	} else {
		p.runnerIdle.WithLabelValues(name, typeLabel).Set(0)
	}
	if stats.Closed {
		p.runnerClosed.WithLabelValues(name, typeLabel).Set(1)
	} else {
		p.runnerClosed.WithLabelValues(name, typeLabel).Set(0)
	}
}
