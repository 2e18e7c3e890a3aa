package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for identity validation and intake.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	TaxIDValidations    *prometheus.CounterVec
	AllocationOutcomes  *prometheus.CounterVec
	Registrations       *prometheus.CounterVec
	RegisterDuration    prometheus.Histogram
	EventsPublished     *prometheus.CounterVec
	NotificationsFailed prometheus.Counter
}

// New registers every collector on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TaxIDValidations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_tax_id_validations_total",
			Help: "Tax ID validations by country and result",
		}, []string{"country", "result"}),
		AllocationOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_allocation_outcomes_total",
			Help: "Capacity allocation outcomes (assigned, saturated, unconstrained)",
		}, []string{"outcome"}),
		Registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_registrations_total",
			Help: "Applicant registrations by resulting status",
		}, []string{"status"}),
		RegisterDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "intake_register_duration_seconds",
			Help:    "Duration of applicant registration including the allocation lock",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_events_published_total",
			Help: "Applicant events published by type",
		}, []string{"type"}),
		NotificationsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "intake_notifications_failed_total",
			Help: "Notifications that exhausted their retries",
		}),
	}
}

func (m *Metrics) ObserveTaxIDValidation(country string, valid bool) {
	if m == nil {
		return
	}
	result := "invalid"
	if valid {
		result = "valid"
	}
	m.TaxIDValidations.WithLabelValues(country, result).Inc()
}

func (m *Metrics) ObserveAllocation(outcome string) {
	if m == nil {
		return
	}
	m.AllocationOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRegistration(status string, start time.Time) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(status).Inc()
	m.RegisterDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementEventPublished(eventType string) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(eventType).Inc()
}

func (m *Metrics) IncrementNotificationFailed() {
	if m == nil {
		return
	}
	m.NotificationsFailed.Inc()
}
