// Package config loads scheduler tuning constants from config.yaml
// (ported from alicklee-mapreduce's yaml-backed Config map) and layers the
// environment variables named in SPEC_FULL.md §6 on top.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Tuning holds the periods and thresholds that govern scheduling. Every
// field has a spec.md-mandated default; config.yaml may only override them
// for testing or deployment tuning, never change the defaults' meaning. No
// environment variable overrides a Tuning field.
type Tuning struct {
	StragglerPeriod    time.Duration
	StragglerThreshold float64
	StragglerMinSample float64
	LivenessPeriod     time.Duration
	LivenessTimeout    time.Duration
	HeartbeatPeriod    time.Duration
	PollIdleBackoff    time.Duration
	PollErrorBackoff   time.Duration
}

// Defaults returns the tuning values spec.md §4.4/§4.5/§4.7 specify.
func Defaults() Tuning {
	return Tuning{
		StragglerPeriod:    5 * time.Second,
		StragglerThreshold: 1.5,
		StragglerMinSample: 0.25,
		LivenessPeriod:     10 * time.Second,
		LivenessTimeout:    30 * time.Second,
		HeartbeatPeriod:    5 * time.Second,
		PollIdleBackoff:    2 * time.Second,
		PollErrorBackoff:   5 * time.Second,
	}
}

// rawTuning mirrors Tuning but with durations spelled as Go duration
// strings ("5s"), since yaml.v2 has no built-in text-unmarshaler support
// for time.Duration. An empty field means "not set in this file" and
// leaves the corresponding Tuning default untouched.
type rawTuning struct {
	StragglerPeriod    string  `yaml:"straggler_period"`
	StragglerThreshold float64 `yaml:"straggler_threshold"`
	StragglerMinSample float64 `yaml:"straggler_min_sample"`
	LivenessPeriod     string  `yaml:"liveness_period"`
	LivenessTimeout    string  `yaml:"liveness_timeout"`
	HeartbeatPeriod    string  `yaml:"heartbeat_period"`
	PollIdleBackoff    string  `yaml:"poll_idle_backoff"`
	PollErrorBackoff   string  `yaml:"poll_error_backoff"`
}

// Load reads path (if present) over Defaults(). A missing file is not an
// error: config.yaml is an optional tuning override, not a required
// deployment artifact.
func Load(path string) (Tuning, error) {
	t := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return t, errors.Wrapf(err, "reading config file %s", path)
	}

	var raw rawTuning
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return t, errors.Wrapf(err, "parsing config file %s", path)
	}

	if raw.StragglerThreshold != 0 {
		t.StragglerThreshold = raw.StragglerThreshold
	}
	if raw.StragglerMinSample != 0 {
		t.StragglerMinSample = raw.StragglerMinSample
	}
	durations := []struct {
		raw string
		dst *time.Duration
	}{
		{raw.StragglerPeriod, &t.StragglerPeriod},
		{raw.LivenessPeriod, &t.LivenessPeriod},
		{raw.LivenessTimeout, &t.LivenessTimeout},
		{raw.HeartbeatPeriod, &t.HeartbeatPeriod},
		{raw.PollIdleBackoff, &t.PollIdleBackoff},
		{raw.PollErrorBackoff, &t.PollErrorBackoff},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return t, errors.Wrapf(err, "parsing duration %q in %s", d.raw, path)
		}
		*d.dst = parsed
	}

	return t, nil
}

// Coordinator holds environment-sourced coordinator settings (SPEC_FULL.md §6).
type Coordinator struct {
	Port        string
	MetricsPort string
}

// CoordinatorFromEnv reads COORDINATOR_PORT and COORDINATOR_METRICS_PORT,
// defaulting to 50051/50052 per SPEC_FULL.md §6.
func CoordinatorFromEnv() Coordinator {
	return Coordinator{
		Port:        envOr("COORDINATOR_PORT", "50051"),
		MetricsPort: envOr("COORDINATOR_METRICS_PORT", "50052"),
	}
}

// Worker holds environment-sourced worker settings (spec.md §6).
type Worker struct {
	ID                string
	CoordinatorHost   string
	CoordinatorPort   string
	SimulateStraggler bool
}

// WorkerFromEnv reads WORKER_ID, COORDINATOR_HOST, COORDINATOR_PORT, and
// SIMULATE_STRAGGLER.
func WorkerFromEnv() Worker {
	simulate, _ := strconv.ParseBool(envOr("SIMULATE_STRAGGLER", "false"))
	return Worker{
		ID:                envOr("WORKER_ID", "worker-unknown"),
		CoordinatorHost:   envOr("COORDINATOR_HOST", "localhost"),
		CoordinatorPort:   envOr("COORDINATOR_PORT", "50051"),
		SimulateStraggler: simulate,
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
