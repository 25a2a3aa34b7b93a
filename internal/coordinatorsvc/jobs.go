package coordinatorsvc

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/flowmr/mapreduce/internal/model"
	"github.com/flowmr/mapreduce/internal/split"
	"github.com/flowmr/mapreduce/internal/userfunc"
)

// SubmitJob implements spec.md §4.6's SubmitJob: either the job with all
// M+R tasks is created, or nothing is. Input splitting (disk I/O) runs
// outside the coordinator lock per SPEC_FULL.md §4 OQ5; only installing the
// finished job and its tasks is done under lock.
func (c *Coordinator) SubmitJob(inputPath, outputPath, mapperName, reducerName string, numMaps, numReduces int) (jobID string, success bool, message string) {
	if !userfunc.Known(mapperName) {
		return "", false, userfunc.ErrUnknownJob(mapperName).Error()
	}
	if !userfunc.Known(reducerName) {
		return "", false, userfunc.ErrUnknownJob(reducerName).Error()
	}
	if numMaps <= 0 || numReduces <= 0 {
		return "", false, "num_maps and num_reduces must be positive"
	}

	id := uuid.NewString()

	// SPEC_FULL.md §4 OQ1: a missing input file is rejected up front rather
	// than silently accepted as a zero-map job.
	chunkPaths, err := split.Split(inputPath, c.stagingDir, numMaps)
	if err != nil {
		c.log.WithError(err).WithField("input_path", inputPath).Warn("rejecting job: input split failed")
		return "", false, fmt.Sprintf("could not split input %s: %v", inputPath, err)
	}

	job := model.NewJob(id, inputPath, outputPath, mapperName, reducerName, numMaps, numReduces)
	for i, chunkPath := range chunkPaths {
		t := model.NewMapTask(id, i, chunkPath)
		job.MapTasks[t.ID] = t
	}
	for i := 0; i < numReduces; i++ {
		t := model.NewReduceTask(id, i)
		job.ReduceTasks[t.ID] = t
	}
	job.State = model.JobRunning

	c.mu.Lock()
	c.jobs[id] = job
	for tid, t := range job.MapTasks {
		c.tasks[tid] = t
	}
	for tid, t := range job.ReduceTasks {
		c.tasks[tid] = t
	}
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.JobsActive.Inc()
	}
	c.log.WithFields(map[string]interface{}{
		"job_id":      id,
		"num_maps":    numMaps,
		"num_reduces": numReduces,
	}).Info("job submitted")

	return id, true, fmt.Sprintf("job submitted with %d map tasks and %d reduce tasks", numMaps, numReduces)
}

// JobStatus is the result of GetJobStatus: spec.md §4.6.
type JobStatus struct {
	Found        bool
	State        model.JobState
	MapProgress  int
	ReduceProgress int
	TotalMaps    int
	TotalReduces int
	FailedTasks  int
}

// GetJobStatus implements spec.md §4.6's GetJobStatus.
func (c *Coordinator) GetJobStatus(jobID string) JobStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	job, ok := c.jobs[jobID]
	if !ok {
		return JobStatus{Found: false}
	}

	mapDone, reduceDone, failed := job.Progress()
	return JobStatus{
		Found:          true,
		State:          job.State,
		MapProgress:    mapDone,
		ReduceProgress: reduceDone,
		TotalMaps:      len(job.MapTasks),
		TotalReduces:   len(job.ReduceTasks),
		FailedTasks:    failed,
	}
}

// IntermediateDir exposes the shuffle staging root so the RPC layer can
// hand workers the right partition path parameters.
func (c *Coordinator) IntermediateDir() string { return c.intermediateDir }

// OutputDir exposes the output root.
func (c *Coordinator) OutputDir() string { return c.outputDir }
