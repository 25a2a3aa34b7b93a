package coordinatorsvc

import (
	"context"
	"sort"
	"time"

	"github.com/flowmr/mapreduce/internal/model"
)

// RunStragglerMonitor implements spec.md §4.4: every StragglerPeriod, for
// each RUNNING job, independently in the map and reduce phases, it computes
// the median duration of completed non-backup tasks and backs up any
// IN_PROGRESS, non-backup, not-yet-backed-up task running more than
// StragglerThreshold times that median. It returns when ctx is cancelled.
func (c *Coordinator) RunStragglerMonitor(ctx context.Context) error {
	ticker := time.NewTicker(c.tuning.StragglerPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.scanForStragglers()
		}
	}
}

func (c *Coordinator) scanForStragglers() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for _, job := range c.jobs {
		if job.State != model.JobRunning {
			continue
		}
		c.detectStragglersLocked(job.MapTasks, now)
		c.detectStragglersLocked(job.ReduceTasks, now)
	}
}

func (c *Coordinator) detectStragglersLocked(tasks map[string]*model.Task, now time.Time) {
	var durations []float64
	for _, t := range tasks {
		if t.State == model.TaskCompleted && !t.IsBackup && !t.StartTime.IsZero() {
			durations = append(durations, t.Duration().Seconds())
		}
	}

	minSample := int(float64(len(tasks)) * c.tuning.StragglerMinSample)
	if minSample < 1 {
		minSample = 1
	}
	if len(durations) < minSample {
		return
	}

	sort.Float64s(durations)
	median := durations[len(durations)/2]

	for _, t := range tasks {
		if t.State != model.TaskInProgress || t.IsBackup || t.BackupTaskID != "" {
			continue
		}
		elapsed := now.Sub(t.StartTime).Seconds()
		if elapsed > median*c.tuning.StragglerThreshold {
			c.launchBackupLocked(t)
		}
	}
}

func (c *Coordinator) launchBackupLocked(original *model.Task) {
	backup := model.NewBackup(original)
	original.BackupTaskID = backup.ID
	c.tasks[backup.ID] = backup

	job := c.jobs[original.JobID]
	if job != nil {
		if backup.Type == model.TaskMap {
			job.MapTasks[backup.ID] = backup
		} else {
			job.ReduceTasks[backup.ID] = backup
		}
	}

	if c.metrics != nil {
		c.metrics.BackupsLaunched.WithLabelValues(string(backup.Type)).Inc()
	}
	c.log.WithFields(map[string]interface{}{
		"original_task_id": original.ID,
		"backup_task_id":   backup.ID,
	}).Warn("straggler detected, launching backup task")
}
