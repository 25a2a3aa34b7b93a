// Command worker runs a MapReduce worker: spec.md §4.7's fetch/execute/
// report loop plus a heartbeat emitter.
package main

import (
	"os"
	"path/filepath"

	"github.com/flowmr/mapreduce/internal/config"
	"github.com/flowmr/mapreduce/internal/obs"
	"github.com/flowmr/mapreduce/internal/worker"

	// Registering the built-in jobs is a side effect of importing this
	// package; a worker must be deployed with the same registry as the
	// coordinator's validated job names (SPEC_FULL.md §4.9).
	_ "github.com/flowmr/mapreduce/internal/userfunc"
)

func main() {
	log := obs.NewLogger("worker")

	env := config.WorkerFromEnv()
	tuning, err := config.Load("config.yaml")
	if err != nil {
		log.WithError(err).Fatal("loading config")
	}

	dataRoot := envOr("MR_DATA_ROOT", "/data")
	exec := &worker.Executor{
		IntermediateDir:   filepath.Join(dataRoot, "intermediate"),
		OutputDir:         filepath.Join(dataRoot, "output"),
		SimulateStraggler: env.SimulateStraggler,
		Log:               log,
	}

	client := worker.NewClient(env.CoordinatorHost, env.CoordinatorPort)
	w := worker.New(env.ID, client, exec, tuning, log)

	log.WithFields(map[string]interface{}{
		"worker_id":          env.ID,
		"coordinator":        env.CoordinatorHost + ":" + env.CoordinatorPort,
		"simulate_straggler": env.SimulateStraggler,
	}).Info("worker starting")

	w.Run()
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
