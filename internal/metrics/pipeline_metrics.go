package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultSuccess = "success"
	ResultFailed  = "failed"
)

type PipelineMetrics struct {
	runs             *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	snapshotsWritten *prometheus.CounterVec
}

var (
	pipelineMetricsOnce sync.Once
	pipelineMetrics     *PipelineMetrics
)

// Pipeline returns the process-wide metrics registered on the default registerer.
func Pipeline() *PipelineMetrics {
	pipelineMetricsOnce.Do(func() {
		pipelineMetrics = NewPipelineMetrics(prometheus.DefaultRegisterer)
	})
	return pipelineMetrics
}

func NewPipelineMetrics(registerer prometheus.Registerer) *PipelineMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	runs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feature_store_pipeline_runs_total",
			Help: "Feature store pipeline runs by outcome.",
		},
		[]string{"pipeline", "result"}, // success | failed
	)

	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feature_store_pipeline_duration_seconds",
			Help:    "Wall time of a feature store pipeline run.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"pipeline"},
	)

	snapshotsWritten := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feature_store_snapshots_written_total",
			Help: "Snapshots upserted per feature definition.",
		},
		[]string{"feature"},
	)

	registerer.MustRegister(runs, duration, snapshotsWritten)

	return &PipelineMetrics{
		runs:             runs,
		duration:         duration,
		snapshotsWritten: snapshotsWritten,
	}
}

func (m *PipelineMetrics) ObserveRun(pipeline string, started time.Time, err error) {
	if m == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultFailed
	}
	m.runs.WithLabelValues(pipeline, result).Inc()
	m.duration.WithLabelValues(pipeline).Observe(time.Since(started).Seconds())
}

func (m *PipelineMetrics) AddSnapshotsWritten(feature string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.snapshotsWritten.WithLabelValues(feature).Add(float64(count))
}
