package coordinatorsvc

import (
	"time"

	"github.com/flowmr/mapreduce/internal/model"
)

// TaskAssignment is everything a worker needs to execute a task without a
// further coordinator round-trip, per spec.md §4.3.
type TaskAssignment struct {
	Found bool

	TaskID           string
	Type             model.TaskType
	JobID            string
	InputFile        string
	MapTaskNumber    int
	ReduceTaskNumber int
	NumMaps          int
	NumReduces       int
	MapperName       string
	ReducerName      string
}

// GetTask implements spec.md §4.3's assignment policy: a linear scan for an
// IDLE, non-backup task of the preferred type, gated so reduce tasks are
// unassignable until every non-backup map task of every RUNNING job is
// COMPLETED. If no primary task matches, a second explicit scan looks for
// an IDLE backup task (SPEC_FULL.md §4 OQ3) — the source's single-scan
// approach happened to depend on map iteration order to reach backups at
// all.
//
// SPEC_FULL.md §4 OQ2 reproduces the source faithfully: the phase gate
// checks every RUNNING job's maps, not just the job a candidate reduce task
// belongs to. A single slow job's maps block reduce dispatch everywhere.
func (c *Coordinator) GetTask(workerID string) TaskAssignment {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t := c.findIdle(model.TaskMap, false); t != nil {
		return c.assignLocked(t, workerID)
	}

	if c.allRunningJobsMapsCompleteLocked() {
		if t := c.findIdle(model.TaskReduce, false); t != nil {
			return c.assignLocked(t, workerID)
		}
	}

	// Secondary pass: IDLE backups are dispatched once no primary task is
	// assignable. Map backups are always eligible; reduce backups pass the
	// same phase gate as primary reduce tasks.
	if t := c.findIdle(model.TaskMap, true); t != nil {
		return c.assignLocked(t, workerID)
	}
	if c.allRunningJobsMapsCompleteLocked() {
		if t := c.findIdle(model.TaskReduce, true); t != nil {
			return c.assignLocked(t, workerID)
		}
	}

	return TaskAssignment{Found: false}
}

func (c *Coordinator) findIdle(typ model.TaskType, backup bool) *model.Task {
	for _, t := range c.tasks {
		if t.Type == typ && t.State == model.TaskIdle && t.IsBackup == backup {
			return t
		}
	}
	return nil
}

func (c *Coordinator) allRunningJobsMapsCompleteLocked() bool {
	for _, job := range c.jobs {
		if job.State != model.JobRunning {
			continue
		}
		if !job.AllMapTasksCompleted() {
			return false
		}
	}
	return true
}

func (c *Coordinator) assignLocked(t *model.Task, workerID string) TaskAssignment {
	t.State = model.TaskInProgress
	t.WorkerID = workerID
	t.StartTime = time.Now()

	job := c.jobs[t.JobID]

	assignment := TaskAssignment{
		Found: true,
		TaskID: t.ID,
		Type:   t.Type,
		JobID:  t.JobID,
	}
	if t.Type == model.TaskMap {
		assignment.InputFile = t.InputFile
		assignment.MapTaskNumber = t.MapTaskNumber
		assignment.NumReduces = job.NumReduces
		assignment.MapperName = job.MapperName
	} else {
		assignment.ReduceTaskNumber = t.ReduceTaskNumber
		assignment.NumMaps = job.NumMaps
		assignment.ReducerName = job.ReducerName
	}

	if c.metrics != nil {
		c.metrics.TasksAssigned.WithLabelValues(string(t.Type)).Inc()
	}
	c.log.WithFields(map[string]interface{}{
		"task_id":   t.ID,
		"worker_id": workerID,
		"type":      t.Type,
	}).Info("task assigned")

	return assignment
}

// ReportTaskComplete implements spec.md §4.3's completion handling:
// unknown task IDs are rejected, duplicate completions on an already
// COMPLETED task are idempotent no-ops, successes propagate to a linked
// backup, and the job-completion predicate runs after every success.
func (c *Coordinator) ReportTaskComplete(workerID, taskID string, success bool, errMsg string) (acknowledged bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.tasks[taskID]
	if !ok {
		c.log.WithField("task_id", taskID).Warn("report for unknown task")
		return false
	}

	if t.State == model.TaskCompleted {
		c.log.WithField("task_id", taskID).Info("duplicate completion, ignoring")
		return true
	}

	if success {
		t.State = model.TaskCompleted
		t.EndTime = time.Now()
		if c.metrics != nil {
			c.metrics.TasksCompleted.WithLabelValues(string(t.Type)).Inc()
		}
		c.log.WithFields(map[string]interface{}{"task_id": taskID, "worker_id": workerID}).Info("task completed")

		if t.BackupTaskID != "" {
			if backup, ok := c.tasks[t.BackupTaskID]; ok && backup.State != model.TaskCompleted {
				backup.State = model.TaskCompleted
				backup.EndTime = t.EndTime
				c.log.WithField("task_id", backup.ID).Info("marking backup completed via primary")
			}
		}
		// The reverse link doesn't exist on Task (only primary->backup is
		// stored), but a backup completing first must also satisfy its
		// primary: derive its ID from the backup's "-backup" suffix.
		if t.IsBackup {
			primaryID := primaryIDFromBackup(taskID)
			if primary, ok := c.tasks[primaryID]; ok && primary.State != model.TaskCompleted {
				primary.State = model.TaskCompleted
				primary.EndTime = t.EndTime
				c.log.WithField("task_id", primary.ID).Info("marking primary completed via backup")
			}
		}

		c.checkJobCompletionLocked(t.JobID)
	} else {
		t.State = model.TaskFailed
		if c.metrics != nil {
			c.metrics.TasksFailed.WithLabelValues(string(t.Type)).Inc()
		}
		c.log.WithFields(map[string]interface{}{
			"task_id": taskID,
			"error":   errMsg,
		}).Error("task failed, no retry")
	}

	return true
}

func primaryIDFromBackup(backupID string) string {
	const suffix = "-backup"
	if len(backupID) > len(suffix) && backupID[len(backupID)-len(suffix):] == suffix {
		return backupID[:len(backupID)-len(suffix)]
	}
	return backupID
}

func (c *Coordinator) checkJobCompletionLocked(jobID string) {
	job, ok := c.jobs[jobID]
	if !ok || job.State == model.JobCompleted {
		return
	}
	if job.AllTasksCompleted() {
		job.State = model.JobCompleted
		if c.metrics != nil {
			c.metrics.JobsActive.Dec()
			c.metrics.JobsCompleted.Inc()
		}
		c.log.WithField("job_id", jobID).Info("job completed")
	}
}

// Heartbeat records worker liveness for the liveness monitor (spec.md
// §4.5); it is not authoritative for task ownership.
func (c *Coordinator) Heartbeat(workerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.heartbeats[workerID] = time.Now()
}
