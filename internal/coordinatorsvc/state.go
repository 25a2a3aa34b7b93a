// Package coordinatorsvc implements the coordinator's scheduling state
// machine: spec.md §4.1, §4.3, §4.4, §4.5, and §4.6.
package coordinatorsvc

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/flowmr/mapreduce/internal/config"
	"github.com/flowmr/mapreduce/internal/model"
	"github.com/flowmr/mapreduce/internal/obs"
)

// Coordinator owns every job and task record for its lifetime and protects
// them with a single process-wide mutex, per spec.md §5: RPC handlers and
// both background monitors all acquire the same lock.
type Coordinator struct {
	mu sync.Mutex

	jobs  map[string]*model.Job
	tasks map[string]*model.Task

	heartbeats map[string]time.Time

	stagingDir      string
	intermediateDir string
	outputDir       string

	tuning config.Tuning
	log    *logrus.Entry
	metrics *obs.Metrics
}

// New constructs an empty coordinator. stagingDir holds input chunks,
// intermediateDir holds shuffle partitions, outputDir holds reduce output —
// the filesystem layout from spec.md §6.
func New(stagingDir, intermediateDir, outputDir string, tuning config.Tuning, log *logrus.Entry, metrics *obs.Metrics) *Coordinator {
	return &Coordinator{
		jobs:            make(map[string]*model.Job),
		tasks:           make(map[string]*model.Task),
		heartbeats:      make(map[string]time.Time),
		stagingDir:      stagingDir,
		intermediateDir: intermediateDir,
		outputDir:       outputDir,
		tuning:          tuning,
		log:             log,
		metrics:         metrics,
	}
}
