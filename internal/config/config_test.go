package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	tuning, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), tuning)
}

func TestLoad_OverridesOnlyFieldsPresentInFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("straggler_period: 1s\nstraggler_threshold: 2.0\n"), 0o644))

	tuning, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, time.Second, tuning.StragglerPeriod)
	assert.Equal(t, 2.0, tuning.StragglerThreshold)
	assert.Equal(t, Defaults().LivenessPeriod, tuning.LivenessPeriod, "fields absent from the file keep their default")
}

func TestLoad_InvalidDurationIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("heartbeat_period: not-a-duration\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestCoordinatorFromEnv_UsesDefaultsWhenUnset(t *testing.T) {
	c := CoordinatorFromEnv()
	assert.Equal(t, "50051", c.Port)
	assert.Equal(t, "50052", c.MetricsPort)
}

func TestWorkerFromEnv_ParsesSimulateStraggler(t *testing.T) {
	t.Setenv("SIMULATE_STRAGGLER", "true")
	w := WorkerFromEnv()
	assert.True(t, w.SimulateStraggler)
}
