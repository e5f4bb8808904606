// Package prom exports table engine metrics to Prometheus.
package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/tskit"
)

const namespace = "tskit"

// Collector implements tskit.MetricsCollector with Prometheus metrics.
type Collector struct {
	handlesOpen  *prometheus.GaugeVec
	handlesTotal *prometheus.CounterVec
	ioLatency    *prometheus.HistogramVec
	ioBytes      *prometheus.CounterVec
	simplify     *prometheus.HistogramVec
	nodesRemoved prometheus.Counter
	treeAdvances prometheus.Counter
}

var _ tskit.MetricsCollector = (*Collector)(nil)

// NewCollector creates the metrics and registers them with reg. A nil reg
// uses prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		handlesOpen: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "handles_open",
			Help:      "Table collections and tree sequences currently open.",
		}, []string{"kind"}),
		handlesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handles_opened_total",
			Help:      "Table collections and tree sequences opened.",
		}, []string{"kind"}),
		ioLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "io_duration_seconds",
			Help:      "Latency of dumps and loads.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "status"}),
		ioBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "io_bytes_total",
			Help:      "Bytes written by dumps and read by loads.",
		}, []string{"op"}),
		simplify: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "simplify_duration_seconds",
			Help:      "Latency of simplify.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		nodesRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simplify_nodes_removed_total",
			Help:      "Nodes removed by simplify.",
		}),
		treeAdvances: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tree_advances_total",
			Help:      "Tree iterator moves.",
		}),
	}
	for _, m := range []prometheus.Collector{
		c.handlesOpen, c.handlesTotal, c.ioLatency, c.ioBytes,
		c.simplify, c.nodesRemoved, c.treeAdvances,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordHandleOpen implements tskit.MetricsCollector.
func (c *Collector) RecordHandleOpen(kind string) {
	c.handlesOpen.WithLabelValues(kind).Inc()
	c.handlesTotal.WithLabelValues(kind).Inc()
}

// RecordHandleClose implements tskit.MetricsCollector.
func (c *Collector) RecordHandleClose(kind string) {
	c.handlesOpen.WithLabelValues(kind).Dec()
}

// RecordDump implements tskit.MetricsCollector.
func (c *Collector) RecordDump(bytes int64, d time.Duration, err error) {
	c.recordIO("dump", bytes, d, err)
}

// RecordLoad implements tskit.MetricsCollector.
func (c *Collector) RecordLoad(bytes int64, d time.Duration, err error) {
	c.recordIO("load", bytes, d, err)
}

func (c *Collector) recordIO(op string, bytes int64, d time.Duration, err error) {
	c.ioLatency.WithLabelValues(op, status(err)).Observe(d.Seconds())
	if err == nil {
		c.ioBytes.WithLabelValues(op).Add(float64(bytes))
	}
}

// RecordSimplify implements tskit.MetricsCollector.
func (c *Collector) RecordSimplify(nodesBefore, nodesAfter int, d time.Duration, err error) {
	c.simplify.WithLabelValues(status(err)).Observe(d.Seconds())
	if err == nil && nodesBefore > nodesAfter {
		c.nodesRemoved.Add(float64(nodesBefore - nodesAfter))
	}
}

// RecordTreeAdvance implements tskit.MetricsCollector.
func (c *Collector) RecordTreeAdvance() { c.treeAdvances.Inc() }
