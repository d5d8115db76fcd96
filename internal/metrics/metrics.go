package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all Prometheus metrics for Backstage.
type Registry struct {
	// HTTP metrics
	HTTPRequestsTotal   prometheus.CounterVec
	HTTPRequestDuration prometheus.HistogramVec

	// Reminder metrics, labelled by reminder kind (guest, speaker, moderator)
	RemindersScheduled prometheus.CounterVec
	RemindersFired     prometheus.CounterVec
	RemindersCancelled prometheus.CounterVec
	RemindersSkipped   prometheus.CounterVec

	// Dispatch metrics
	NotificationsSent     prometheus.Counter
	DispatchFailuresTotal prometheus.Counter

	// Import metrics
	ImportRunsTotal prometheus.CounterVec
}

// NewRegistry initializes and returns a new Registry with all metrics
// registered on the default registerer.
func NewRegistry() *Registry {
	return &Registry{
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backstage_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backstage_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		RemindersScheduled: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backstage_reminders_scheduled_total",
				Help: "Reminder jobs registered with the scheduler",
			},
			[]string{"kind"},
		),
		RemindersFired: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backstage_reminders_fired_total",
				Help: "Reminder jobs that reached their fire time and ran",
			},
			[]string{"kind"},
		),
		RemindersCancelled: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backstage_reminders_cancelled_total",
				Help: "Pending reminder jobs cancelled before firing",
			},
			[]string{"kind"},
		),
		RemindersSkipped: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backstage_reminders_skipped_total",
				Help: "Reminder jobs whose fire time was already in the past at scheduling",
			},
			[]string{"kind"},
		),
		NotificationsSent: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "backstage_notifications_sent_total",
				Help: "Messages handed to the notification dispatcher",
			},
		),
		DispatchFailuresTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "backstage_dispatch_failures_total",
				Help: "Notification dispatch attempts that returned an error",
			},
		),
		ImportRunsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backstage_import_runs_total",
				Help: "Schedule import runs by outcome",
			},
			[]string{"outcome"},
		),
	}
}
