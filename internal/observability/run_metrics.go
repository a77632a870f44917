package observability

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/pipeline"
	"github.com/spf13/cast"
)

const metricsNamespace = "hoops_reconciler"

// RunMetrics turns pipeline run summaries into Prometheus series. It owns its
// registry so a one-shot command can push exactly what it produced.
type RunMetrics struct {
	registry    *prometheus.Registry
	runs        *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	items       *prometheus.GaugeVec
	lastSuccess *prometheus.GaugeVec
}

func NewRunMetrics() *RunMetrics {
	m := &RunMetrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "runs_total",
			Help:      "Batch runs by kind and final status.",
		}, []string{"kind", "status", "dry_run"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of batch runs.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"kind"}),
		items: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "run_items",
			Help:      "Numeric counters reported by the most recent run of each kind.",
		}, []string{"kind", "counter"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "run_last_success_timestamp_seconds",
			Help:      "Unix time of the last succeeded run.",
		}, []string{"kind"}),
	}
	m.registry.MustRegister(m.runs, m.duration, m.items, m.lastSuccess)
	return m
}

// ObserveRun implements usecase.RunObserver.
func (m *RunMetrics) ObserveRun(run pipeline.Run) {
	if m == nil {
		return
	}
	kind := string(run.Kind)
	m.runs.WithLabelValues(kind, string(run.Status), cast.ToString(run.DryRun)).Inc()
	if d := run.Duration(); d > 0 {
		m.duration.WithLabelValues(kind).Observe(d.Seconds())
	}
	if run.Status == pipeline.StatusSucceeded && !run.DryRun {
		m.lastSuccess.WithLabelValues(kind).Set(float64(run.FinishedAt.Unix()))
	}

	keys := make([]string, 0, len(run.Payload))
	for key := range run.Payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value, err := cast.ToFloat64E(run.Payload[key])
		if err != nil {
			continue
		}
		m.items.WithLabelValues(kind, key).Set(value)
	}
}

func (m *RunMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry for long-running commands.
func (m *RunMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Push sends the registry to a Prometheus pushgateway. An empty url is a no-op.
func (m *RunMetrics) Push(ctx context.Context, url, job string) error {
	url = strings.TrimSpace(url)
	if m == nil || url == "" {
		return nil
	}
	if err := push.New(url, job).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
