package observability

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// MeterName scopes every instrument created by [NewMetricHooks].
const MeterName = "github.com/matzehuels/matchbench"

// Metric names.
const (
	MetricSweeps          = "matchbench.sweeps"
	MetricTrials          = "matchbench.trials"
	MetricTrialDuration   = "matchbench.trial.duration"
	MetricMatches         = "matchbench.matches"
	MetricMatchDuration   = "matchbench.match.duration"
	MetricCacheLookups    = "matchbench.cache.lookups"
	MetricCacheBytes      = "matchbench.cache.bytes"
	MetricRequests        = "matchbench.http.requests"
	MetricRequestDuration = "matchbench.http.duration"
	MetricPanics          = "matchbench.http.panics"
)

// MetricHooks implements every hook interface by recording OpenTelemetry
// counters and histograms. Durations are recorded in seconds.
type MetricHooks struct {
	sweeps          metric.Int64Counter
	trials          metric.Int64Counter
	trialDuration   metric.Float64Histogram
	matches         metric.Int64Counter
	matchDuration   metric.Float64Histogram
	cacheLookups    metric.Int64Counter
	cacheBytes      metric.Int64Counter
	requests        metric.Int64Counter
	requestDuration metric.Float64Histogram
	panics          metric.Int64Counter
}

// NewMetricHooks creates the instruments on a meter from mp.
func NewMetricHooks(mp metric.MeterProvider) (*MetricHooks, error) {
	meter := mp.Meter(MeterName)
	h := &MetricHooks{}
	var err error

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
		unit string
	}{
		{&h.sweeps, MetricSweeps, "Benchmark sweeps finished, by outcome", "{sweep}"},
		{&h.trials, MetricTrials, "Timed matcher runs", "{trial}"},
		{&h.matches, MetricMatches, "Single matchings computed, by outcome", "{matching}"},
		{&h.cacheLookups, MetricCacheLookups, "Cache lookups, by value type and result", "{lookup}"},
		{&h.cacheBytes, MetricCacheBytes, "Bytes written to the cache", "By"},
		{&h.requests, MetricRequests, "HTTP requests served", "{request}"},
		{&h.panics, MetricPanics, "Recovered handler panics", "{panic}"},
	}
	for _, c := range counters {
		*c.dst, err = meter.Int64Counter(c.name, metric.WithDescription(c.desc), metric.WithUnit(c.unit))
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", c.name, err)
		}
	}

	histograms := []struct {
		dst  *metric.Float64Histogram
		name string
		desc string
	}{
		{&h.trialDuration, MetricTrialDuration, "Matcher run time per trial"},
		{&h.matchDuration, MetricMatchDuration, "Time to compute a single matching"},
		{&h.requestDuration, MetricRequestDuration, "HTTP request latency"},
	}
	for _, hg := range histograms {
		*hg.dst, err = meter.Float64Histogram(hg.name, metric.WithDescription(hg.desc), metric.WithUnit("s"))
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", hg.name, err)
		}
	}
	return h, nil
}

// Install registers h for every hook category.
func (h *MetricHooks) Install() {
	SetBenchHooks(h)
	SetMatchHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func outcome(err error) attribute.KeyValue {
	if err != nil {
		return attribute.String("outcome", "error")
	}
	return attribute.String("outcome", "ok")
}

func (h *MetricHooks) OnSweepStart(context.Context, int, int, int, int) {}

func (h *MetricHooks) OnTrialComplete(ctx context.Context, n, _, _, _ int, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.Int("n", n))
	h.trials.Add(ctx, 1, attrs)
	h.trialDuration.Record(ctx, elapsed.Seconds(), attrs)
}

func (h *MetricHooks) OnSweepComplete(ctx context.Context, _ int, _ time.Duration, err error) {
	h.sweeps.Add(ctx, 1, metric.WithAttributes(outcome(err)))
}

func (h *MetricHooks) OnMatchStart(context.Context, int, int, int, bool) {}

func (h *MetricHooks) OnMatchComplete(ctx context.Context, _ int, duration time.Duration, err error) {
	h.matches.Add(ctx, 1, metric.WithAttributes(outcome(err)))
	if err == nil {
		h.matchDuration.Record(ctx, duration.Seconds())
	}
}

func (h *MetricHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.cacheLookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", keyType), attribute.String("result", "hit")))
}

func (h *MetricHooks) OnCacheMiss(ctx context.Context, keyType string) {
	h.cacheLookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", keyType), attribute.String("result", "miss")))
}

func (h *MetricHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	h.cacheBytes.Add(ctx, int64(size), metric.WithAttributes(attribute.String("type", keyType)))
}

func (h *MetricHooks) OnRequest(context.Context, string, string) {}

func (h *MetricHooks) OnResponse(ctx context.Context, method, route string, status int, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.String("status", strconv.Itoa(status)))
	h.requests.Add(ctx, 1, attrs)
	h.requestDuration.Record(ctx, duration.Seconds(), attrs)
}

func (h *MetricHooks) OnPanic(ctx context.Context, method, route string, _ any) {
	h.panics.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method), attribute.String("route", route)))
}

var (
	_ BenchHooks = (*MetricHooks)(nil)
	_ MatchHooks = (*MetricHooks)(nil)
	_ CacheHooks = (*MetricHooks)(nil)
	_ HTTPHooks  = (*MetricHooks)(nil)
)

// NewOTLPMeterProvider returns a meter provider that pushes to an OTLP/HTTP
// collector at endpoint (host:port, plain HTTP) every reporting interval.
// Shut it down to flush the last batch.
func NewOTLPMeterProvider(ctx context.Context, endpoint, version string) (*sdkmetric.MeterProvider, error) {
	exp, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(endpoint),
		otlpmetrichttp.WithInsecure())
	if err != nil {
		return nil, fmt.Errorf("create OTLP metrics exporter: %w", err)
	}
	res := resource.NewSchemaless(
		attribute.String("service.name", "matchbench"),
		attribute.String("service.version", version))
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	), nil
}
