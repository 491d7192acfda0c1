// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through the registered hooks; the defaults are
// no-ops. [LogHooks] writes debug logs and [MetricHooks] records
// OpenTelemetry metrics. Register hooks once at startup:
//
//	func main() {
//	    observability.SetBenchHooks(observability.NewLogHooks(logger))
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Bench().OnTrialComplete(ctx, n, m, trial, size, elapsed)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Bench Hooks
// =============================================================================

// BenchHooks receives events from benchmark sweeps.
type BenchHooks interface {
	// OnSweepStart fires before the first trial. points is the number of
	// distinct edge counts.
	OnSweepStart(ctx context.Context, left, right, points, trials int)

	// OnTrialComplete fires after every timed matcher run.
	OnTrialComplete(ctx context.Context, n, m, trial, size int, elapsed time.Duration)

	// OnSweepComplete fires once, also when the sweep was cancelled.
	OnSweepComplete(ctx context.Context, records int, duration time.Duration, err error)
}

// =============================================================================
// Match Hooks
// =============================================================================

// MatchHooks receives events from single matching computations.
type MatchHooks interface {
	OnMatchStart(ctx context.Context, left, right, edges int, randomized bool)
	OnMatchComplete(ctx context.Context, size int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
// keyType is the kind of cached value ("match", "dot").
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server.
// route is the matched route pattern, not the raw path.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, status int, duration time.Duration)
	OnPanic(ctx context.Context, method, route string, recovered any)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopBenchHooks is a no-op implementation of BenchHooks.
type NoopBenchHooks struct{}

func (NoopBenchHooks) OnSweepStart(context.Context, int, int, int, int)                   {}
func (NoopBenchHooks) OnTrialComplete(context.Context, int, int, int, int, time.Duration) {}
func (NoopBenchHooks) OnSweepComplete(context.Context, int, time.Duration, error)         {}

// NoopMatchHooks is a no-op implementation of MatchHooks.
type NoopMatchHooks struct{}

func (NoopMatchHooks) OnMatchStart(context.Context, int, int, int, bool)          {}
func (NoopMatchHooks) OnMatchComplete(context.Context, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnPanic(context.Context, string, string, any)                   {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	benchHooks BenchHooks = NoopBenchHooks{}
	matchHooks MatchHooks = NoopMatchHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetBenchHooks registers benchmark hooks. A nil h is ignored.
func SetBenchHooks(h BenchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		benchHooks = h
	}
}

// SetMatchHooks registers matching hooks. A nil h is ignored.
func SetMatchHooks(h MatchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		matchHooks = h
	}
}

// SetCacheHooks registers cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers HTTP hooks. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Bench returns the registered benchmark hooks.
func Bench() BenchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return benchHooks
}

// Match returns the registered matching hooks.
func Match() MatchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return matchHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	benchHooks = NoopBenchHooks{}
	matchHooks = NoopMatchHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
