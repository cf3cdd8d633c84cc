// Package metrics exports link statistics to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/robotalks/orbus/pkg/l0/comm"
)

// Collector exports the counters of one link.
type Collector struct {
	stats *comm.Stats
	desc  *prometheus.Desc
}

// NewCollector creates a Collector for the stats of the named link.
func NewCollector(link string, stats *comm.Stats) *Collector {
	return &Collector{
		stats: stats,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName("orbus", "link", "events_total"),
			"Link events by counter.",
			[]string{"counter"},
			prometheus.Labels{"link": link},
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for counter, val := range c.stats.Snapshot() {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.CounterValue, float64(val), counter.String())
	}
}
