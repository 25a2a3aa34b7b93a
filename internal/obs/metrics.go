package obs

import "github.com/prometheus/client_golang/prometheus"

// Metrics groups the coordinator's Prometheus instrumentation. It is safe
// for concurrent use: the client_golang collectors are themselves
// thread-safe, independent of the coordinator's own state lock.
type Metrics struct {
	TasksAssigned  *prometheus.CounterVec
	TasksCompleted *prometheus.CounterVec
	TasksFailed    *prometheus.CounterVec
	BackupsLaunched *prometheus.CounterVec
	JobsActive     prometheus.Gauge
	JobsCompleted  prometheus.Counter
}

// NewMetrics constructs and registers the coordinator's metrics against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TasksAssigned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mapreduce_tasks_assigned_total",
			Help: "Tasks handed out by GetTask, by task type.",
		}, []string{"type"}),
		TasksCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mapreduce_tasks_completed_total",
			Help: "Tasks reported complete, by task type.",
		}, []string{"type"}),
		TasksFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mapreduce_tasks_failed_total",
			Help: "Tasks reported failed, by task type.",
		}, []string{"type"}),
		BackupsLaunched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mapreduce_backups_launched_total",
			Help: "Speculative backup tasks launched by the straggler monitor, by task type.",
		}, []string{"type"}),
		JobsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mapreduce_jobs_active",
			Help: "Jobs currently in PENDING or RUNNING state.",
		}),
		JobsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mapreduce_jobs_completed_total",
			Help: "Jobs that have reached COMPLETED.",
		}),
	}
	reg.MustRegister(m.TasksAssigned, m.TasksCompleted, m.TasksFailed, m.BackupsLaunched, m.JobsActive, m.JobsCompleted)
	return m
}
