package coordinatorsvc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowmr/mapreduce/internal/config"
	"github.com/flowmr/mapreduce/internal/model"
	_ "github.com/flowmr/mapreduce/internal/userfunc"
)

func newTestCoordinator(t *testing.T) *Coordinator {
	t.Helper()
	dir := t.TempDir()
	log := logrus.NewEntry(logrus.New())
	return New(filepath.Join(dir, "staging"), filepath.Join(dir, "intermediate"), filepath.Join(dir, "output"), config.Defaults(), log, nil)
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSubmitJob_CreatesMPlusRTasks(t *testing.T) {
	c := newTestCoordinator(t)
	input := writeInput(t, "a\nb\nc\nd\n")

	jobID, ok, msg := c.SubmitJob(input, "/out", "wordcount", "wordcount", 2, 3)
	require.True(t, ok, msg)
	require.NotEmpty(t, jobID)

	job := c.jobs[jobID]
	assert.Equal(t, model.JobRunning, job.State)
	assert.Len(t, job.MapTasks, 2)
	assert.Len(t, job.ReduceTasks, 3)
}

func TestSubmitJob_RejectsMissingInput(t *testing.T) {
	c := newTestCoordinator(t)

	jobID, ok, msg := c.SubmitJob("/no/such/file", "/out", "wordcount", "wordcount", 2, 2)
	assert.False(t, ok)
	assert.Empty(t, jobID)
	assert.NotEmpty(t, msg)
	assert.Empty(t, c.jobs, "no job record should exist after a rejected submission")
}

func TestSubmitJob_RejectsUnknownRegistryName(t *testing.T) {
	c := newTestCoordinator(t)
	input := writeInput(t, "a\n")

	_, ok, msg := c.SubmitJob(input, "/out", "no-such-job", "wordcount", 1, 1)
	assert.False(t, ok)
	assert.Contains(t, msg, "no-such-job")
}

func TestGetTask_PhaseGate(t *testing.T) {
	c := newTestCoordinator(t)
	input := writeInput(t, "a\nb\nc\nd\n")
	jobID, ok, _ := c.SubmitJob(input, "/out", "wordcount", "wordcount", 2, 2)
	require.True(t, ok)
	_ = jobID

	first := c.GetTask("w1")
	require.True(t, first.Found)
	assert.Equal(t, model.TaskMap, first.Type)

	second := c.GetTask("w2")
	require.True(t, second.Found)
	assert.Equal(t, model.TaskMap, second.Type, "both map tasks claimed before any reduce task is assignable")

	c.ReportTaskComplete("w1", first.TaskID, true, "")

	// Exactly one map task (second) is still IN_PROGRESS: GetTask must
	// never return REDUCE yet, regardless of how many reduce tasks are
	// idle (spec.md §8 S6).
	gated := c.GetTask("w3")
	assert.False(t, gated.Found, "reduce must not be assignable while any map task is still in progress")

	c.ReportTaskComplete("w2", second.TaskID, true, "")

	third := c.GetTask("w3")
	require.True(t, third.Found)
	assert.Equal(t, model.TaskReduce, third.Type, "reduce becomes assignable only once all maps are complete")
}

func TestReportTaskComplete_UnknownTaskNotAcknowledged(t *testing.T) {
	c := newTestCoordinator(t)
	ack := c.ReportTaskComplete("w1", "no-such-task", true, "")
	assert.False(t, ack)
}

func TestReportTaskComplete_DuplicateIsIdempotent(t *testing.T) {
	c := newTestCoordinator(t)
	input := writeInput(t, "a\n")
	_, ok, _ := c.SubmitJob(input, "/out", "wordcount", "wordcount", 1, 1)
	require.True(t, ok)

	task := c.GetTask("w1")
	require.True(t, task.Found)

	first := c.ReportTaskComplete("w1", task.TaskID, true, "")
	second := c.ReportTaskComplete("w1", task.TaskID, true, "")
	assert.True(t, first)
	assert.True(t, second)
	assert.Equal(t, model.TaskCompleted, c.tasks[task.TaskID].State)
}

func TestReportTaskComplete_BackupPropagatesBothWays(t *testing.T) {
	c := newTestCoordinator(t)
	input := writeInput(t, "a\n")
	_, ok, _ := c.SubmitJob(input, "/out", "wordcount", "wordcount", 1, 1)
	require.True(t, ok)

	primary := c.tasks[c.GetTask("w1").TaskID]
	c.launchBackupLocked(primary)
	backupID := primary.BackupTaskID
	require.NotEmpty(t, backupID)

	c.ReportTaskComplete("backup-worker", backupID, true, "")

	assert.Equal(t, model.TaskCompleted, c.tasks[backupID].State)
	assert.Equal(t, model.TaskCompleted, primary.State, "completing a backup must also complete its primary")

	reduceAssignment := c.GetTask("w2")
	require.True(t, reduceAssignment.Found)
	reducePrimary := c.tasks[reduceAssignment.TaskID]
	require.Equal(t, model.TaskReduce, reducePrimary.Type)
	c.launchBackupLocked(reducePrimary)
	reduceBackupID := reducePrimary.BackupTaskID
	require.NotEmpty(t, reduceBackupID)

	c.ReportTaskComplete("w2", reducePrimary.ID, true, "")

	assert.Equal(t, model.TaskCompleted, reducePrimary.State)
	assert.Equal(t, model.TaskCompleted, c.tasks[reduceBackupID].State, "completing a primary must also complete its backup")
}

func TestReportTaskComplete_FailedTaskNeverRetried(t *testing.T) {
	c := newTestCoordinator(t)
	input := writeInput(t, "a\n")
	jobID, ok, _ := c.SubmitJob(input, "/out", "wordcount", "wordcount", 1, 1)
	require.True(t, ok)

	task := c.GetTask("w1")
	require.True(t, task.Found)
	c.ReportTaskComplete("w1", task.TaskID, false, "boom")

	status := c.GetJobStatus(jobID)
	assert.Equal(t, model.JobRunning, status.State, "a failed task leaves the job stuck RUNNING, never FAILED in the core")
	assert.Equal(t, 1, status.FailedTasks)

	again := c.GetTask("w2")
	assert.False(t, again.Found, "FAILED tasks are never re-offered")
}
