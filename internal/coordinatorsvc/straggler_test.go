package coordinatorsvc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowmr/mapreduce/internal/model"
)

func TestDetectStragglers_LaunchesBackupPastThreshold(t *testing.T) {
	c := newTestCoordinator(t)
	input := writeInput(t, "a\nb\nc\nd\n")
	jobID, ok, _ := c.SubmitJob(input, "/out", "wordcount", "wordcount", 4, 1)
	require.True(t, ok)
	job := c.jobs[jobID]

	now := time.Now()
	// Three fast completions establish a ~1s median (>= 25% of 4 tasks).
	i := 0
	for _, task := range job.MapTasks {
		if i >= 3 {
			break
		}
		task.State = model.TaskCompleted
		task.StartTime = now.Add(-2 * time.Second)
		task.EndTime = now.Add(-1 * time.Second)
		i++
	}
	// The fourth task has been running far past 1.5x the ~1s median.
	var straggler *model.Task
	for _, task := range job.MapTasks {
		if task.State != model.TaskCompleted {
			straggler = task
			break
		}
	}
	require.NotNil(t, straggler)
	straggler.State = model.TaskInProgress
	straggler.StartTime = now.Add(-30 * time.Second)

	c.scanForStragglers()

	assert.NotEmpty(t, straggler.BackupTaskID, "a backup should have been launched for the straggler")
	backup, ok := c.tasks[straggler.BackupTaskID]
	require.True(t, ok)
	assert.True(t, backup.IsBackup)
	assert.Equal(t, model.TaskIdle, backup.State)
	assert.Equal(t, straggler.Type, backup.Type)
	assert.Equal(t, straggler.MapTaskNumber, backup.MapTaskNumber)
}

func TestDetectStragglers_SkipsPhaseBelowSampleThreshold(t *testing.T) {
	c := newTestCoordinator(t)
	input := writeInput(t, "a\nb\nc\nd\n")
	jobID, ok, _ := c.SubmitJob(input, "/out", "wordcount", "wordcount", 4, 1)
	require.True(t, ok)
	job := c.jobs[jobID]

	now := time.Now()
	for _, task := range job.MapTasks {
		task.State = model.TaskInProgress
		task.StartTime = now.Add(-100 * time.Second)
	}

	c.scanForStragglers()

	for _, task := range job.MapTasks {
		assert.Empty(t, task.BackupTaskID, "no completed baseline yet, so no backup should be launched")
	}
}

func TestDetectStragglers_NeverBacksUpATwiceOverBackup(t *testing.T) {
	c := newTestCoordinator(t)
	input := writeInput(t, "a\n")
	jobID, ok, _ := c.SubmitJob(input, "/out", "wordcount", "wordcount", 1, 1)
	require.True(t, ok)
	job := c.jobs[jobID]

	var task *model.Task
	for _, t := range job.MapTasks {
		task = t
	}
	task.State = model.TaskInProgress
	task.StartTime = time.Now().Add(-100 * time.Second)
	task.BackupTaskID = "already-backed-up"

	c.scanForStragglers()

	assert.Equal(t, "already-backed-up", task.BackupTaskID, "a task that already has a backup is not backed up again")
}
