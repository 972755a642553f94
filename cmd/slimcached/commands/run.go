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

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sonic182/slimcache/config"
	"github.com/sonic182/slimcache/cuckoo"
	"github.com/sonic182/slimcache/logging"
	"github.com/sonic182/slimcache/metrics"
	"github.com/sonic182/slimcache/server"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the cache server in the foreground",
	RunE:  runServer,
}

func init() {
	runCmd.Flags().String("listen-addr", "", "address to listen on (overrides config/env/default)")
	runCmd.Flags().Int("workers", 0, "number of worker goroutines (overrides config/env/default)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cmd.Flags().Changed("listen-addr") {
		cfg.Server.ListenAddr, _ = cmd.Flags().GetString("listen-addr")
	}
	if cmd.Flags().Changed("workers") {
		cfg.Server.Workers, _ = cmd.Flags().GetInt("workers")
	}

	tableCfg := cuckoo.Config{
		Slots:   cfg.Storage.Slots,
		D:       cfg.Storage.D,
		MaxHops: cfg.Storage.MaxHops,
		KeyMax:  cfg.Storage.KeyMax,
		ValMax:  cfg.Storage.ValMax,
	}

	log := logging.NewStdLogger(logging.ParseLevel(cfg.Logging.Level))

	ln, err := server.NewListener(cfg.Server.ListenAddr, cfg.Server.Workers, tableCfg, log)
	if err != nil {
		return fmt.Errorf("binding %s: %w", cfg.Server.ListenAddr, err)
	}
	log.Info("listening", "addr", ln.Addr().String())

	for _, w := range ln.Workers() {
		go w.Run()
	}

	var metricsSrv *server.MetricsServer
	if cfg.Metrics.Enabled {
		workerMetrics := make([]*metrics.Metrics, 0, len(ln.Workers()))
		for _, w := range ln.Workers() {
			workerMetrics = append(workerMetrics, w.Metrics())
		}
		metricsSrv = server.NewMetricsServer(cfg.Metrics.Addr, workerMetrics)
		go func() {
			_ = metricsSrv.Serve()
		}()
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- ln.Serve() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return err
	case <-sigCh:
		if metricsSrv != nil {
			_ = metricsSrv.Shutdown(context.Background())
		}
		return ln.Close()
	}
}
