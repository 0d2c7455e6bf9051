package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		videoJobSubmissions,
		videoJobPolls,
		videoJobOutcomes,
		videoJobWaitSeconds,
	)
}

var (
	videoJobSubmissions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "video_job_submissions_total",
			Help: "Total asynchronous video jobs submitted.",
		},
	)

	videoJobPolls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_job_polls_total",
			Help: "Status polls issued against the video endpoint, labeled by reported status ('error' for failed poll calls).",
		},
		[]string{"status"},
	)

	videoJobOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_job_outcomes_total",
			Help: "Terminal video job outcomes.",
		},
		[]string{"outcome"}, // 'completed', 'failed', 'timeout', 'integrity'
	)

	videoJobWaitSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_job_wait_seconds",
			Help:    "Total wait from submission to a terminal outcome.",
			Buckets: []float64{15, 30, 60, 120, 240, 360, 480, 600},
		},
	)
)

func IncVideoJobSubmission()        { videoJobSubmissions.Inc() }
func IncVideoJobPoll(status string) { videoJobPolls.WithLabelValues(norm(status)).Inc() }

func ObserveVideoJobOutcome(outcome string, wait time.Duration) {
	videoJobOutcomes.WithLabelValues(norm(outcome)).Inc()
	videoJobWaitSeconds.Observe(wait.Seconds())
}
