// Package prommetrics exports selection metrics to Prometheus.
//
//	c := prommetrics.New("topk")
//	prometheus.MustRegister(c)
//	res, err := topk.SelectParallel(ctx, src, 10, cmp, 0, topk.WithMetricsCollector(c))
package prommetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/topk"
)

// Collector implements topk.MetricsCollector and prometheus.Collector.
type Collector struct {
	selections *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	elements   *prometheus.CounterVec
	retained   prometheus.Counter
	combines   prometheus.Histogram
}

var _ topk.MetricsCollector = (*Collector)(nil)
var _ prometheus.Collector = (*Collector)(nil)

// New creates a collector whose metric names start with namespace.
func New(namespace string) *Collector {
	return &Collector{
		selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selections_total",
			Help:      "Total selections by mode and status",
		}, []string{"mode", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "selection_duration_seconds",
			Help:      "Latency of selections",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
		elements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "elements_total",
			Help:      "Elements seen by successful selections, by outcome",
		}, []string{"outcome"}),
		retained: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_total",
			Help:      "Total elements returned by successful selections",
		}),
		combines: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "combine_duration_seconds",
			Help:      "Latency of pairwise combinations of partial results",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
	}
}

// RecordSelect implements topk.MetricsCollector.
func (c *Collector) RecordSelect(stats topk.SelectStats, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.selections.WithLabelValues(stats.Mode, status).Inc()
	c.duration.WithLabelValues(stats.Mode).Observe(d.Seconds())
	if err != nil {
		return
	}

	c.elements.WithLabelValues("offered").Add(float64(stats.Offered))
	c.elements.WithLabelValues("rejected").Add(float64(stats.Rejected))
	c.elements.WithLabelValues("evicted").Add(float64(stats.Evicted))
	c.elements.WithLabelValues("skipped").Add(float64(stats.Skipped))
	c.retained.Add(float64(stats.Retained))
}

// RecordCombine implements topk.MetricsCollector.
func (c *Collector) RecordCombine(d time.Duration) {
	c.combines.Observe(d.Seconds())
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.selections.Describe(ch)
	c.duration.Describe(ch)
	c.elements.Describe(ch)
	c.retained.Describe(ch)
	c.combines.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.selections.Collect(ch)
	c.duration.Collect(ch)
	c.elements.Collect(ch)
	c.retained.Collect(ch)
	c.combines.Collect(ch)
}
