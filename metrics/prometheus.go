// Copyright (c) 2026 The Slimcache Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector adapts Metrics's flat counter taxonomy onto
// prometheus.Collector, so the optional /metrics endpoint exposes the
// exact same counters STATS does, without keeping a second,
// independently-updated set of counters. Grounded on
// marmos91-dittofs's pkg/metrics/prometheus package, but built as a
// single dynamic Collector over Snapshot() rather than one
// promauto-registered CounterVec per field, since the taxonomy here is
// a flat, already-enumerable name/value list. Each worker shard gets
// its own Collector (one per *Metrics), and the worker label below
// keeps their series distinct: without it, two workers reporting the
// same stat name collide on identical label sets and Gather fails the
// whole scrape.
type Collector struct {
	m      *Metrics
	desc   *prometheus.Desc
	worker string
}

// NewCollector wraps m for Prometheus registration. worker identifies
// the owning worker shard (e.g. its index) and is attached to every
// sample as a constant label, so registering one Collector per worker
// into the same Registry does not produce duplicate series.
func NewCollector(m *Metrics, worker string) *Collector {
	return &Collector{
		m:      m,
		worker: worker,
		desc: prometheus.NewDesc(
			"slimcache_stat",
			"Slimcache command and storage-engine counters, labeled by STAT name and worker.",
			[]string{"stat", "worker"},
			nil,
		),
	}
}

// Describe satisfies prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect satisfies prometheus.Collector, emitting one counter sample
// per entry of m.Snapshot().
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, s := range c.m.Snapshot() {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.CounterValue, float64(s.Value), s.Name, c.worker)
	}
}
