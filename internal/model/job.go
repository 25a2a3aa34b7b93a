package model

import "time"

// JobState is a job's coarse lifecycle state.
type JobState string

const (
	JobPending   JobState = "PENDING"
	JobRunning   JobState = "RUNNING"
	JobCompleted JobState = "COMPLETED"
	JobFailed    JobState = "FAILED"
)

// Job owns the map and reduce tasks it was submitted with. MapperName and
// ReducerName are registry keys (internal/userfunc), not code blobs: see
// SPEC_FULL.md §4.9.
type Job struct {
	ID         string
	InputPath  string
	OutputPath string

	MapperName  string
	ReducerName string

	NumMaps    int
	NumReduces int

	State     JobState
	CreatedAt time.Time

	MapTasks    map[string]*Task
	ReduceTasks map[string]*Task
}

// NewJob builds a PENDING job shell with no tasks yet; SubmitJob populates
// MapTasks/ReduceTasks and flips the state to RUNNING.
func NewJob(id, inputPath, outputPath, mapperName, reducerName string, numMaps, numReduces int) *Job {
	return &Job{
		ID:          id,
		InputPath:   inputPath,
		OutputPath:  outputPath,
		MapperName:  mapperName,
		ReducerName: reducerName,
		NumMaps:     numMaps,
		NumReduces:  numReduces,
		State:       JobPending,
		CreatedAt:   time.Now(),
		MapTasks:    make(map[string]*Task),
		ReduceTasks: make(map[string]*Task),
	}
}

// Progress reports completed-task counts and a count of tasks stuck FAILED
// (see SPEC_FULL.md §4 OQ4 — FAILED tasks have no retry path, so a job that
// hits one never reaches COMPLETED; callers surface this separately from
// State so a stuck-RUNNING job is distinguishable from genuine progress).
func (j *Job) Progress() (mapDone, reduceDone, failed int) {
	for _, t := range j.MapTasks {
		if t.State == TaskCompleted {
			mapDone++
		}
		if t.State == TaskFailed {
			failed++
		}
	}
	for _, t := range j.ReduceTasks {
		if t.State == TaskCompleted {
			reduceDone++
		}
		if t.State == TaskFailed {
			failed++
		}
	}
	return
}

// AllTasksCompleted reports whether every map and reduce task owned by j is
// COMPLETED — the job-completion predicate from spec.md §4.3.
func (j *Job) AllTasksCompleted() bool {
	for _, t := range j.MapTasks {
		if t.State != TaskCompleted {
			return false
		}
	}
	for _, t := range j.ReduceTasks {
		if t.State != TaskCompleted {
			return false
		}
	}
	return true
}

// AllMapTasksCompleted reports whether every map task owned by j is
// COMPLETED — used by the phase gate.
func (j *Job) AllMapTasksCompleted() bool {
	for _, t := range j.MapTasks {
		if t.State != TaskCompleted {
			return false
		}
	}
	return true
}
