// Package mrrpc declares the five coordinator RPCs from SPEC_FULL.md §4.6
// and §6: SubmitJob, GetJobStatus, GetTask, ReportTaskComplete, Heartbeat.
//
// remember to capitalize all exported fields: net/rpc/gob only ships them
// if they are.
package mrrpc

// TaskKind mirrors model.TaskType plus the NONE sentinel GetTask returns
// when nothing is assignable yet.
type TaskKind string

const (
	KindMap    TaskKind = "MAP"
	KindReduce TaskKind = "REDUCE"
	KindNone   TaskKind = "NONE"
)

// JobStatus mirrors model.JobState plus NOT_FOUND for unknown job IDs.
type JobStatus string

const (
	StatusPending   JobStatus = "PENDING"
	StatusRunning   JobStatus = "RUNNING"
	StatusCompleted JobStatus = "COMPLETED"
	StatusFailed    JobStatus = "FAILED"
	StatusNotFound  JobStatus = "NOT_FOUND"
)

// RPC method names, qualified the way net/rpc expects ("Type.Method").
const (
	MethodSubmitJob           = "Coordinator.SubmitJob"
	MethodGetJobStatus        = "Coordinator.GetJobStatus"
	MethodGetTask             = "Coordinator.GetTask"
	MethodReportTaskComplete  = "Coordinator.ReportTaskComplete"
	MethodHeartbeat           = "Coordinator.Heartbeat"
)

type SubmitJobRequest struct {
	InputPath   string
	OutputPath  string
	MapperCode  []byte
	ReducerCode []byte
	NumMaps     int
	NumReduces  int
}

type SubmitJobResponse struct {
	JobID   string
	Success bool
	Message string
}

type GetJobStatusRequest struct {
	JobID string
}

type GetJobStatusResponse struct {
	JobID        string
	Status       JobStatus
	MapProgress  int
	ReduceProgress int
	TotalMaps    int
	TotalReduces int
	FailedTasks  int
}

type GetTaskRequest struct {
	WorkerID string
}

type GetTaskResponse struct {
	TaskID          string
	TaskType        TaskKind
	JobID           string
	InputFile       string
	MapTaskNumber   int
	ReduceTaskNumber int
	NumMaps         int
	NumReduces      int
	MapperCode      []byte
	ReducerCode     []byte
}

type ReportTaskCompleteRequest struct {
	WorkerID     string
	TaskID       string
	Success      bool
	ErrorMessage string
}

type ReportTaskCompleteResponse struct {
	Acknowledged bool
}

type HeartbeatRequest struct {
	WorkerID      string
	CurrentTaskID string
}

type HeartbeatResponse struct {
	Acknowledged bool
}
