package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level log
// lines. Trial events are frequent, so they only show with --verbose.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger. A nil logger uses log.Default().
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger}
}

// Install registers h for every hook category.
func (h *LogHooks) Install() {
	SetBenchHooks(h)
	SetMatchHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnSweepStart(_ context.Context, left, right, points, trials int) {
	h.logger.Debug("sweep started", "left", left, "right", right, "points", points, "trials", trials)
}

func (h *LogHooks) OnTrialComplete(_ context.Context, n, m, trial, size int, elapsed time.Duration) {
	h.logger.Debug("trial", "n", n, "m", m, "trial", trial, "size", size, "elapsed", elapsed)
}

func (h *LogHooks) OnSweepComplete(_ context.Context, records int, duration time.Duration, err error) {
	if err != nil {
		h.logger.Warn("sweep stopped", "records", records, "duration", duration, "err", err)
		return
	}
	h.logger.Debug("sweep finished", "records", records, "duration", duration)
}

func (h *LogHooks) OnMatchStart(_ context.Context, left, right, edges int, randomized bool) {
	h.logger.Debug("matching", "left", left, "right", right, "edges", edges, "randomized", randomized)
}

func (h *LogHooks) OnMatchComplete(_ context.Context, size int, duration time.Duration, err error) {
	if err != nil {
		h.logger.Debug("matching failed", "err", err)
		return
	}
	h.logger.Debug("matched", "size", size, "duration", duration)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, duration time.Duration) {
	h.logger.Debug("response", "method", method, "route", route, "status", status, "duration", duration)
}

func (h *LogHooks) OnPanic(_ context.Context, method, route string, recovered any) {
	h.logger.Error("handler panic", "method", method, "route", route, "panic", recovered)
}

var (
	_ BenchHooks = (*LogHooks)(nil)
	_ MatchHooks = (*LogHooks)(nil)
	_ CacheHooks = (*LogHooks)(nil)
	_ HTTPHooks  = (*LogHooks)(nil)
)
