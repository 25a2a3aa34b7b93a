// Command coordinator runs the MapReduce coordinator RPC server described
// in spec.md §4.3–§4.6.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/flowmr/mapreduce/internal/config"
	"github.com/flowmr/mapreduce/internal/coordinatorsvc"
	"github.com/flowmr/mapreduce/internal/obs"
)

func main() {
	log := obs.NewLogger("coordinator")

	tuning, err := config.Load("config.yaml")
	if err != nil {
		log.WithError(err).Fatal("loading config")
	}
	env := config.CoordinatorFromEnv()

	dataRoot := envOr("MR_DATA_ROOT", "/data")
	stagingDir := filepath.Join(dataRoot, "staging")
	intermediateDir := filepath.Join(dataRoot, "intermediate")
	outputDir := filepath.Join(dataRoot, "output")

	registry := prometheus.NewRegistry()
	metrics := obs.NewMetrics(registry)

	coord := coordinatorsvc.New(stagingDir, intermediateDir, outputDir, tuning, log, metrics)
	server := &coordinatorsvc.Server{Coordinator: coord}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("received shutdown signal")
		cancel()
	}()

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error { return coord.RunStragglerMonitor(gctx) })
	group.Go(func() error { return coord.RunLivenessMonitor(gctx) })

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	metricsServer := &http.Server{Addr: ":" + env.MetricsPort, Handler: mux}
	go func() {
		log.WithField("port", env.MetricsPort).Info("serving metrics")
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("metrics server stopped")
		}
	}()
	go func() {
		<-gctx.Done()
		metricsServer.Close()
	}()

	log.WithField("port", env.Port).Info("coordinator listening")
	if err := coordinatorsvc.Listen(server, ":"+env.Port); err != nil {
		log.WithError(err).Fatal("coordinator RPC server stopped")
	}

	_ = group.Wait()
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
