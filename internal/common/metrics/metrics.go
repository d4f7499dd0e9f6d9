package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visa_worker_jobs_completed_total",
			Help: "Jobs completed per task type",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visa_worker_jobs_failed_total",
			Help: "Jobs failed per task type and error code",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "visa_worker_job_duration_seconds",
			Help:    "Job processing time in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "visa_worker_jobs_active",
			Help: "Jobs currently being handled per task type",
		},
		[]string{"task_type"},
	)

	EligibilityScores = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visa_eligibility_scores_total",
			Help: "Visa scores produced, by resulting status",
		},
		[]string{"status"},
	)

	RecommendedPathSteps = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "visa_recommended_path_steps",
			Help:    "Number of steps in recommended paths",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		},
	)
)

// JobTimer tracks one in-flight job. Call Done with an empty error code on success.
type JobTimer struct {
	taskType string
	start    time.Time
}

func StartJob(taskType string) *JobTimer {
	WorkerJobsActive.WithLabelValues(taskType).Inc()
	return &JobTimer{taskType: taskType, start: time.Now()}
}

func (t *JobTimer) Done(errorCode string) {
	WorkerJobsActive.WithLabelValues(t.taskType).Dec()
	WorkerJobDuration.WithLabelValues(t.taskType).Observe(time.Since(t.start).Seconds())
	if errorCode == "" {
		WorkerJobsCompleted.WithLabelValues(t.taskType).Inc()
		return
	}
	WorkerJobsFailed.WithLabelValues(t.taskType, errorCode).Inc()
}

func RecordScores(status string, n int) {
	if n > 0 {
		EligibilityScores.WithLabelValues(status).Add(float64(n))
	}
}
