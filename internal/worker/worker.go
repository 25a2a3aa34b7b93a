package worker

import (
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/flowmr/mapreduce/internal/config"
	"github.com/flowmr/mapreduce/internal/mrrpc"
)

// Worker runs the infinite GetTask -> execute -> ReportTaskComplete loop
// from spec.md §4.7, alongside a heartbeat emitter.
type Worker struct {
	ID     string
	client *Client
	exec   *Executor
	tuning config.Tuning
	log    *logrus.Entry

	currentTaskID atomic.Value // string
}

// New builds a Worker that dials the coordinator via client and executes
// tasks with exec.
func New(id string, client *Client, exec *Executor, tuning config.Tuning, log *logrus.Entry) *Worker {
	w := &Worker{ID: id, client: client, exec: exec, tuning: tuning, log: log}
	w.currentTaskID.Store("")
	return w
}

// Run blocks forever, polling for tasks. Workers retry GetTask after
// PollIdleBackoff on NONE and after PollErrorBackoff on any RPC error,
// per spec.md §5.
func (w *Worker) Run() {
	go w.sendHeartbeats()

	for {
		var resp mrrpc.GetTaskResponse
		if err := w.client.Call(mrrpc.MethodGetTask, &mrrpc.GetTaskRequest{WorkerID: w.ID}, &resp); err != nil {
			w.log.WithError(err).Error("GetTask RPC failed")
			time.Sleep(w.tuning.PollErrorBackoff)
			continue
		}

		if resp.TaskType == mrrpc.KindNone {
			time.Sleep(w.tuning.PollIdleBackoff)
			continue
		}

		w.currentTaskID.Store(resp.TaskID)
		success, errMsg := w.execute(&resp)
		w.currentTaskID.Store("")

		complete := mrrpc.ReportTaskCompleteRequest{
			WorkerID:     w.ID,
			TaskID:       resp.TaskID,
			Success:      success,
			ErrorMessage: errMsg,
		}
		var ack mrrpc.ReportTaskCompleteResponse
		if err := w.client.Call(mrrpc.MethodReportTaskComplete, &complete, &ack); err != nil {
			w.log.WithError(err).WithField("task_id", resp.TaskID).Error("ReportTaskComplete RPC failed")
			time.Sleep(w.tuning.PollErrorBackoff)
		}
	}
}

// execute runs a task's body and translates a returned error into the
// (success, error_message) pair ReportTaskComplete expects, per spec.md
// §7's "user-code load failure" taxonomy: any error here fails the whole
// task, unlike per-record mapper/reducer errors, which the executor itself
// swallows.
func (w *Worker) execute(task *mrrpc.GetTaskResponse) (success bool, errMsg string) {
	var err error
	switch task.TaskType {
	case mrrpc.KindMap:
		err = w.exec.ExecuteMap(task)
	case mrrpc.KindReduce:
		err = w.exec.ExecuteReduce(task)
	}
	if err != nil {
		w.log.WithError(err).WithField("task_id", task.TaskID).Error("task failed")
		return false, err.Error()
	}
	return true, ""
}

func (w *Worker) sendHeartbeats() {
	ticker := time.NewTicker(w.tuning.HeartbeatPeriod)
	defer ticker.Stop()
	for range ticker.C {
		current, _ := w.currentTaskID.Load().(string)
		req := mrrpc.HeartbeatRequest{WorkerID: w.ID, CurrentTaskID: current}
		var resp mrrpc.HeartbeatResponse
		if err := w.client.Call(mrrpc.MethodHeartbeat, &req, &resp); err != nil {
			w.log.WithError(err).Warn("heartbeat failed")
		}
	}
}
