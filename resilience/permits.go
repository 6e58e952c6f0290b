package resilience

import (
	"context"
	"math"
	"sync"
)

// PermitPoolConfig configures the permit pool.
type PermitPoolConfig struct {
	// Permits is the number of operations allowed to run at once.
	// Default: 1
	Permits int
}

// PermitsForRate converts a requests-per-second budget into a permit count:
// ceil(rate), never less than one.
func PermitsForRate(rate float64) int {
	if rate <= 0 || math.IsNaN(rate) {
		return 1
	}
	if rate >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Ceil(rate))
}

// PermitPool bounds concurrent operations with a fixed set of permits.
// It approximates a rate limit by capping concurrency; it does not pace
// requests over time.
type PermitPool struct {
	config PermitPoolConfig
	sem    chan struct{}

	mu        sync.Mutex
	active    int
	maxActive int
	acquired  int64
	waited    int64
}

// NewPermitPool creates a new permit pool.
func NewPermitPool(config PermitPoolConfig) *PermitPool {
	// Apply defaults
	if config.Permits <= 0 {
		config.Permits = 1
	}

	return &PermitPool{
		config: config,
		sem:    make(chan struct{}, config.Permits),
	}
}

// Acquire takes a permit, suspending until one is free.
// It fails only when ctx is done first.
func (p *PermitPool) Acquire(ctx context.Context) error {
	// Fast path: try non-blocking acquire
	select {
	case p.sem <- struct{}{}:
		p.track(false)
		return nil
	default:
	}

	select {
	case p.sem <- struct{}{}:
		p.track(true)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *PermitPool) track(waited bool) {
	p.mu.Lock()
	p.active++
	p.acquired++
	if waited {
		p.waited++
	}
	if p.active > p.maxActive {
		p.maxActive = p.active
	}
	p.mu.Unlock()
}

// Release returns a permit to the pool.
func (p *PermitPool) Release() {
	select {
	case <-p.sem:
		p.mu.Lock()
		p.active--
		p.mu.Unlock()
	default:
		// Semaphore was empty, this shouldn't happen in normal usage
	}
}

// Execute runs the operation while holding a permit. The permit is released
// on every return path.
func (p *PermitPool) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := p.Acquire(ctx); err != nil {
		return err
	}
	defer p.Release()

	return op(ctx)
}

// Metrics returns current permit pool metrics.
func (p *PermitPool) Metrics() PermitPoolMetrics {
	p.mu.Lock()
	defer p.mu.Unlock()

	return PermitPoolMetrics{
		Active:    p.active,
		MaxActive: p.maxActive,
		Available: p.config.Permits - p.active,
		Permits:   p.config.Permits,
		Acquired:  p.acquired,
		Waited:    p.waited,
	}
}

// PermitPoolMetrics contains permit pool statistics.
type PermitPoolMetrics struct {
	Active    int
	MaxActive int
	Available int
	Permits   int
	Acquired  int64
	Waited    int64
}
