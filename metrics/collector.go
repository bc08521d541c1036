/*
Package metrics exports rule tree statistics to Prometheus.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package metrics

import (
	"net/http"

	"github.com/npillmayer/cascade/ruletree"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector is a prometheus.Collector reading the counters of a rule tree
// at scrape time.
type Collector struct {
	tree      *ruletree.RuleTree
	created   *prometheus.Desc
	freed     *prometheus.Desc
	live      *prometheus.Desc
	lookups   *prometheus.Desc
	fastPaths *prometheus.Desc
	sweeps    *prometheus.Desc
	swept     *prometheus.Desc
	pending   *prometheus.Desc
}

var _ prometheus.Collector = &Collector{}

// NewCollector creates a collector for tree. Metric names are prefixed with
// namespace, e.g. "cascade".
func NewCollector(tree *ruletree.RuleTree, namespace string) *Collector {
	name := func(n string) string {
		return prometheus.BuildFQName(namespace, "ruletree", n)
	}
	return &Collector{
		tree:      tree,
		created:   prometheus.NewDesc(name("nodes_created_total"), "Rule nodes created.", nil, nil),
		freed:     prometheus.NewDesc(name("nodes_freed_total"), "Rule nodes reclaimed by the garbage collector.", nil, nil),
		live:      prometheus.NewDesc(name("nodes_live"), "Rule nodes not yet reclaimed.", nil, nil),
		lookups:   prometheus.NewDesc(name("child_lookups_total"), "Child lookups, by result.", []string{"result"}, nil),
		fastPaths: prometheus.NewDesc(name("update_fast_paths_total"), "Rule updates leaving the path unchanged.", nil, nil),
		sweeps:    prometheus.NewDesc(name("gc_sweeps_total"), "Sweeps of stale child entries.", nil, nil),
		swept:     prometheus.NewDesc(name("gc_slots_swept_total"), "Stale child entries removed.", nil, nil),
		pending:   prometheus.NewDesc(name("gc_pending_frees"), "Nodes reclaimed since the last sweep.", nil, nil),
	}
}

// Describe is part of interface prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.created
	ch <- c.freed
	ch <- c.live
	ch <- c.lookups
	ch <- c.fastPaths
	ch <- c.sweeps
	ch <- c.swept
	ch <- c.pending
}

// Collect is part of interface prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.tree.Stats()
	ch <- prometheus.MustNewConstMetric(c.created, prometheus.CounterValue, float64(s.NodesCreated))
	ch <- prometheus.MustNewConstMetric(c.freed, prometheus.CounterValue, float64(s.NodesFreed))
	ch <- prometheus.MustNewConstMetric(c.live, prometheus.GaugeValue, float64(s.Live()))
	ch <- prometheus.MustNewConstMetric(c.lookups, prometheus.CounterValue, float64(s.ChildHits), "hit")
	ch <- prometheus.MustNewConstMetric(c.lookups, prometheus.CounterValue, float64(s.ChildMisses), "miss")
	ch <- prometheus.MustNewConstMetric(c.fastPaths, prometheus.CounterValue, float64(s.FastPaths))
	ch <- prometheus.MustNewConstMetric(c.sweeps, prometheus.CounterValue, float64(s.Sweeps))
	ch <- prometheus.MustNewConstMetric(c.swept, prometheus.CounterValue, float64(s.SlotsSwept))
	ch <- prometheus.MustNewConstMetric(c.pending, prometheus.GaugeValue, float64(s.PendingFrees))
}

// Handler registers a collector for tree with a fresh registry and returns
// an http.Handler serving the metrics.
func Handler(tree *ruletree.RuleTree, namespace string) (http.Handler, error) {
	registry := prometheus.NewRegistry()
	if err := registry.Register(NewCollector(tree, namespace)); err != nil {
		return nil, err
	}
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), nil
}
