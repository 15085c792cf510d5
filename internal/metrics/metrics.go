// Package metrics provides Prometheus metrics for the weekly wrapped pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wrapped"

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

var (
	// RunsTotal counts pipeline runs by mode and outcome.
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of pipeline runs",
		},
		[]string{"mode", "status"},
	)

	// RunDuration measures end-to-end run duration.
	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of pipeline runs in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	// StageDuration measures each pipeline stage.
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	// UploadsTotal counts asset uploads by backend and outcome.
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Total number of asset uploads",
		},
		[]string{"backend", "status"},
	)

	// UploadBytes observes uploaded PNG sizes.
	UploadBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_bytes",
			Help:      "Distribution of uploaded asset sizes in bytes",
			Buckets:   prometheus.ExponentialBuckets(4096, 4, 7),
		},
		[]string{"backend"},
	)

	// HeapAllocBytes is the live heap as last seen by the resource limiter.
	HeapAllocBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "heap_alloc_bytes",
			Help:      "Heap bytes allocated at the last resource check",
		},
	)

	Goroutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "limiter_goroutines",
			Help:      "Goroutines at the last resource check",
		},
	)

	// HostMemoryUsedRatio is the host memory in use, 0 to 1.
	HostMemoryUsedRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "host_memory_used_ratio",
			Help:      "Fraction of host memory in use at the last sample",
		},
	)

	HostCPUPercent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "host_cpu_percent",
			Help:      "Host CPU utilisation at the last sample",
		},
	)

	// AdmissionRejectedTotal counts requests refused by the resource limiter.
	AdmissionRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admission_rejected_total",
			Help:      "Total number of render requests rejected under resource pressure",
		},
	)
)

// RecordRun records a finished pipeline run.
func RecordRun(mode, status string, duration float64) {
	RunsTotal.WithLabelValues(mode, status).Inc()
	RunDuration.WithLabelValues(mode).Observe(duration)
}

// RecordStage records one stage duration.
func RecordStage(stage string, duration float64) {
	StageDuration.WithLabelValues(stage).Observe(duration)
}

// RecordUpload records one upload attempt.
func RecordUpload(backend, status string, size int) {
	UploadsTotal.WithLabelValues(backend, status).Inc()
	if status == StatusSuccess {
		UploadBytes.WithLabelValues(backend).Observe(float64(size))
	}
}

// RecordRuntimeUsage publishes the process counters seen by the resource limiter.
func RecordRuntimeUsage(heapBytes int64, goroutines int) {
	HeapAllocBytes.Set(float64(heapBytes))
	Goroutines.Set(float64(goroutines))
}

func RecordHostUsage(memUsedRatio, cpuPercent float64) {
	HostMemoryUsedRatio.Set(memUsedRatio)
	HostCPUPercent.Set(cpuPercent)
}

// RecordAdmissionRejected records a refused request.
func RecordAdmissionRejected() {
	AdmissionRejectedTotal.Inc()
}

// StatusOf maps an error to a status label.
func StatusOf(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
