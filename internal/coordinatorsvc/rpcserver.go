package coordinatorsvc

import (
	"net"
	"net/http"
	"net/rpc"

	"github.com/pkg/errors"

	"github.com/flowmr/mapreduce/internal/model"
	"github.com/flowmr/mapreduce/internal/mrrpc"
)

// Server adapts Coordinator's plain-Go API to the net/rpc wire types in
// internal/mrrpc, matching the teacher's net/rpc-over-HTTP transport
// (YousefRabi-map-reduce/src/mr/coordinator.go's (*Coordinator) server())
// generalized from a Unix socket to TCP per SPEC_FULL.md §6.
type Server struct {
	*Coordinator
}

// SubmitJob is the net/rpc entry point for spec.md §4.6's SubmitJob.
func (s *Server) SubmitJob(req *mrrpc.SubmitJobRequest, resp *mrrpc.SubmitJobResponse) error {
	jobID, success, message := s.Coordinator.SubmitJob(
		req.InputPath, req.OutputPath,
		string(req.MapperCode), string(req.ReducerCode),
		req.NumMaps, req.NumReduces,
	)
	resp.JobID = jobID
	resp.Success = success
	resp.Message = message
	return nil
}

// GetJobStatus is the net/rpc entry point for spec.md §4.6's GetJobStatus.
func (s *Server) GetJobStatus(req *mrrpc.GetJobStatusRequest, resp *mrrpc.GetJobStatusResponse) error {
	status := s.Coordinator.GetJobStatus(req.JobID)
	resp.JobID = req.JobID
	if !status.Found {
		resp.Status = mrrpc.StatusNotFound
		return nil
	}
	resp.Status = mrrpc.JobStatus(status.State)
	resp.MapProgress = status.MapProgress
	resp.ReduceProgress = status.ReduceProgress
	resp.TotalMaps = status.TotalMaps
	resp.TotalReduces = status.TotalReduces
	resp.FailedTasks = status.FailedTasks
	return nil
}

// GetTask is the net/rpc entry point for spec.md §4.6's GetTask.
func (s *Server) GetTask(req *mrrpc.GetTaskRequest, resp *mrrpc.GetTaskResponse) error {
	assignment := s.Coordinator.GetTask(req.WorkerID)
	if !assignment.Found {
		resp.TaskType = mrrpc.KindNone
		return nil
	}

	resp.TaskID = assignment.TaskID
	resp.JobID = assignment.JobID
	if assignment.Type == model.TaskMap {
		resp.TaskType = mrrpc.KindMap
		resp.InputFile = assignment.InputFile
		resp.MapTaskNumber = assignment.MapTaskNumber
		resp.NumReduces = assignment.NumReduces
		resp.MapperCode = []byte(assignment.MapperName)
	} else {
		resp.TaskType = mrrpc.KindReduce
		resp.ReduceTaskNumber = assignment.ReduceTaskNumber
		resp.NumMaps = assignment.NumMaps
		resp.ReducerCode = []byte(assignment.ReducerName)
	}
	return nil
}

// ReportTaskComplete is the net/rpc entry point for spec.md §4.6's
// ReportTaskComplete.
func (s *Server) ReportTaskComplete(req *mrrpc.ReportTaskCompleteRequest, resp *mrrpc.ReportTaskCompleteResponse) error {
	resp.Acknowledged = s.Coordinator.ReportTaskComplete(req.WorkerID, req.TaskID, req.Success, req.ErrorMessage)
	return nil
}

// Heartbeat is the net/rpc entry point for spec.md §4.6's Heartbeat.
func (s *Server) Heartbeat(req *mrrpc.HeartbeatRequest, resp *mrrpc.HeartbeatResponse) error {
	s.Coordinator.Heartbeat(req.WorkerID)
	resp.Acknowledged = true
	return nil
}

// Listen registers s under the net/rpc name "Coordinator" and serves
// RPC-over-HTTP on addr (e.g. ":50051"), blocking until the listener
// errors or is closed.
func Listen(s *Server, addr string) error {
	rpcServer := rpc.NewServer()
	if err := rpcServer.RegisterName("Coordinator", s); err != nil {
		return errors.Wrap(err, "registering coordinator RPC service")
	}

	mux := http.NewServeMux()
	mux.Handle(rpc.DefaultRPCPath, rpcServer)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listening on %s", addr)
	}

	return http.Serve(listener, mux)
}
