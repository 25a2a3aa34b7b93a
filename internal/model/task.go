// Package model holds the coordinator's in-memory job and task records.
package model

import (
	"fmt"
	"time"
)

// TaskType distinguishes map tasks from reduce tasks.
type TaskType string

const (
	TaskMap    TaskType = "MAP"
	TaskReduce TaskType = "REDUCE"
)

// TaskState is a task's position in its IDLE -> IN_PROGRESS -> (COMPLETED |
// FAILED) lifecycle. COMPLETED is terminal.
type TaskState string

const (
	TaskIdle       TaskState = "IDLE"
	TaskInProgress TaskState = "IN_PROGRESS"
	TaskCompleted  TaskState = "COMPLETED"
	TaskFailed     TaskState = "FAILED"
)

// Task is one unit of assignable work. MapTaskNumber is meaningful only for
// TaskMap; ReduceTaskNumber only for TaskReduce.
type Task struct {
	ID       string
	JobID    string
	Type     TaskType
	State    TaskState
	WorkerID string

	StartTime time.Time
	EndTime   time.Time

	IsBackup     bool
	BackupTaskID string

	InputFile       string
	MapTaskNumber   int
	ReduceTaskNumber int
}

// Duration returns the task's completed wall-clock runtime. Callers must
// check State == TaskCompleted first.
func (t *Task) Duration() time.Duration {
	return t.EndTime.Sub(t.StartTime)
}

// TaskID builds the canonical `{job-id}-{map|reduce}-{index}` identifier.
func TaskID(jobID string, typ TaskType, index int) string {
	kind := "map"
	if typ == TaskReduce {
		kind = "reduce"
	}
	return fmt.Sprintf("%s-%s-%d", jobID, kind, index)
}

// BackupID derives the speculative twin's ID from its primary's.
func BackupID(primaryID string) string {
	return primaryID + "-backup"
}

// NewMapTask constructs an IDLE, non-backup map task for inputFile.
func NewMapTask(jobID string, index int, inputFile string) *Task {
	return &Task{
		ID:            TaskID(jobID, TaskMap, index),
		JobID:         jobID,
		Type:          TaskMap,
		State:         TaskIdle,
		InputFile:     inputFile,
		MapTaskNumber: index,
	}
}

// NewReduceTask constructs an IDLE, non-backup reduce task for index.
func NewReduceTask(jobID string, index int) *Task {
	return &Task{
		ID:               TaskID(jobID, TaskReduce, index),
		JobID:            jobID,
		Type:             TaskReduce,
		State:            TaskIdle,
		ReduceTaskNumber: index,
	}
}

// NewBackup clones the type- and index-specific fields of original into a
// fresh IDLE, is_backup=true task. It does not mutate original.
func NewBackup(original *Task) *Task {
	backup := &Task{
		ID:       BackupID(original.ID),
		JobID:    original.JobID,
		Type:     original.Type,
		State:    TaskIdle,
		IsBackup: true,
	}
	if original.Type == TaskMap {
		backup.InputFile = original.InputFile
		backup.MapTaskNumber = original.MapTaskNumber
	} else {
		backup.ReduceTaskNumber = original.ReduceTaskNumber
	}
	return backup
}
