package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		pipelineRunsTotal,
		pipelineStageSeconds,
		pipelineStageFailures,
	)
}

var (
	pipelineRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_runs_total",
			Help: "Total pipeline runs, labeled by final status.",
		},
		[]string{"status"}, // 'completed', 'failed'
	)

	pipelineStageSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_stage_seconds",
			Help:    "Wall-clock duration of each pipeline stage.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"stage", "success"},
	)

	pipelineStageFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_stage_failures_total",
			Help: "Fatal stage failures, labeled by stage.",
		},
		[]string{"stage"},
	)
)

func IncPipelineRun(status string) {
	pipelineRunsTotal.WithLabelValues(norm(status)).Inc()
}

func ObserveStage(stage string, d time.Duration, success bool) {
	pipelineStageSeconds.WithLabelValues(norm(stage), strconv.FormatBool(success)).Observe(d.Seconds())
	if !success {
		pipelineStageFailures.WithLabelValues(norm(stage)).Inc()
	}
}
