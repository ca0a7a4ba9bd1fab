package orchestration

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/imamik/forkfleet/internal/provisioning"
)

var (
	// Job metrics
	jobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forkfleet",
			Subsystem: "fleet",
			Name:      "jobs_total",
			Help:      "Total number of provisioning jobs by service and result",
		},
		[]string{"service", "result"},
	)

	jobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "forkfleet",
			Subsystem: "fleet",
			Name:      "job_duration_seconds",
			Help:      "Duration of provisioning jobs in seconds",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 11), // 1s to ~17min
		},
		[]string{"service"},
	)

	jobsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "forkfleet",
			Subsystem: "fleet",
			Name:      "jobs_in_flight",
			Help:      "Number of provisioning jobs currently running",
		},
	)

	// Status propagation metrics
	statusUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forkfleet",
			Subsystem: "fleet",
			Name:      "status_updates_total",
			Help:      "Total number of status updates delivered by status kind",
		},
		[]string{"status"},
	)

	// Pass metrics
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forkfleet",
			Subsystem: "fleet",
			Name:      "runs_total",
			Help:      "Total number of fleet provisioning passes by result",
		},
		[]string{"result"},
	)

	runDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "forkfleet",
			Subsystem: "fleet",
			Name:      "run_duration_seconds",
			Help:      "Duration of fleet provisioning passes in seconds",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 11), // 1s to ~17min
		},
	)
)

func init() {
	prometheus.MustRegister(
		jobsTotal,
		jobDuration,
		jobsInFlight,
		statusUpdatesTotal,
		runsTotal,
		runDuration,
	)
}

// recordJobMetric records a finished provisioning job.
func recordJobMetric(service, result string, duration float64) {
	jobsTotal.WithLabelValues(service, result).Inc()
	jobDuration.WithLabelValues(service).Observe(duration)
}

// recordStatusUpdateMetric records one delivered status update.
func recordStatusUpdateMetric(status provisioning.StatusKind) {
	statusUpdatesTotal.WithLabelValues(string(status)).Inc()
}

// recordRunMetric records a finished fleet pass.
func recordRunMetric(allOK bool, duration float64) {
	result := "ok"
	if !allOK {
		result = "failed"
	}
	runsTotal.WithLabelValues(result).Inc()
	runDuration.Observe(duration)
}
