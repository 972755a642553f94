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

package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sonic182/slimcache/metrics"
)

// MetricsServer is the optional scrape endpoint that supplements (does
// not replace) the STATS verb, registering every worker's counters
// under one /metrics handler. Grounded on
// agilira-balios/examples/otel-prometheus's promhttp.Handler() +
// http.Server wiring.
type MetricsServer struct {
	srv *http.Server
}

// NewMetricsServer registers collectors for every worker's Metrics and
// binds addr. It does not start serving until Serve is called. Each
// worker's Collector carries a distinct "worker" label (its index in
// workerMetrics) so that running with Server.Workers > 1 does not
// produce colliding series for the same stat name across workers.
func NewMetricsServer(addr string, workerMetrics []*metrics.Metrics) *MetricsServer {
	reg := prometheus.NewRegistry()
	for i, m := range workerMetrics {
		reg.MustRegister(metrics.NewCollector(m, strconv.Itoa(i)))
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return &MetricsServer{srv: &http.Server{Addr: addr, Handler: mux}}
}

// Serve blocks until the server is shut down, returning
// http.ErrServerClosed on a clean Shutdown.
func (s *MetricsServer) Serve() error {
	return s.srv.ListenAndServe()
}

// Shutdown gracefully stops the metrics server.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
