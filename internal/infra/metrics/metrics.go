package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	leadsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_created_total",
			Help: "Total number of leads created through the form",
		},
		[]string{"target"},
	)

	leadSourceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_source_errors_total",
			Help: "Total number of lead fetches that fell back to an empty result",
		},
		[]string{"source"},
	)

	storageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_errors_total",
			Help: "Total number of local storage errors",
		},
		[]string{"op"},
	)

	activationsSuperseded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lead_list_activations_superseded_total",
			Help: "Total number of list activations discarded because a newer one started",
		},
	)

	followUpsDue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lead_followups_due",
			Help: "Follow-Up leads found stale on the last scan",
		},
	)

	eventErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_event_errors_total",
			Help: "Total number of lead events that failed to publish or process",
		},
		[]string{"stage"},
	)
)

func RecordLeadCreated(target string) {
	leadsCreated.WithLabelValues(target).Inc()
}

func RecordSourceError(source string) {
	leadSourceErrors.WithLabelValues(source).Inc()
}

func RecordStorageError(op string) {
	storageErrors.WithLabelValues(op).Inc()
}

func RecordActivationSuperseded() {
	activationsSuperseded.Inc()
}

func SetFollowUpsDue(n int) {
	followUpsDue.Set(float64(n))
}

func RecordEventError(stage string) {
	eventErrors.WithLabelValues(stage).Inc()
}
