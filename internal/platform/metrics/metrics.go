package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the bot. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	CollectionPointsRegistered prometheus.Counter
	DonorsAssociated           prometheus.Counter
	DonationsRegistered        prometheus.Counter
	DonationsValidated         prometheus.Counter
	LitersValidated            prometheus.Counter
	ValidationsRejected        *prometheus.CounterVec
	DeliveryCodeCollisions     prometheus.Counter
	Notifications              *prometheus.CounterVec
	UpdateDuration             *prometheus.HistogramVec
	UpdatesRateLimited         prometheus.Counter
}

// New creates and registers all metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CollectionPointsRegistered: f.NewCounter(prometheus.CounterOpts{
			Name: "oleobot_collection_points_registered_total",
			Help: "Total number of collection points registered",
		}),
		DonorsAssociated: f.NewCounter(prometheus.CounterOpts{
			Name: "oleobot_donors_associated_total",
			Help: "Total number of donors associated with a campaign",
		}),
		DonationsRegistered: f.NewCounter(prometheus.CounterOpts{
			Name: "oleobot_donations_registered_total",
			Help: "Total number of donation intents registered",
		}),
		DonationsValidated: f.NewCounter(prometheus.CounterOpts{
			Name: "oleobot_donations_validated_total",
			Help: "Total number of donations validated by collection point admins",
		}),
		LitersValidated: f.NewCounter(prometheus.CounterOpts{
			Name: "oleobot_liters_validated_total",
			Help: "Sum of liters credited by validations",
		}),
		ValidationsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "oleobot_validations_rejected_total",
			Help: "Validation attempts rejected, by reason",
		}, []string{"reason"}),
		DeliveryCodeCollisions: f.NewCounter(prometheus.CounterOpts{
			Name: "oleobot_delivery_code_collisions_total",
			Help: "Generated delivery codes that collided with an existing donation",
		}),
		Notifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "oleobot_notifications_total",
			Help: "Donor notifications by outcome (sent, failed, dropped)",
		}, []string{"outcome"}),
		UpdateDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "oleobot_update_duration_seconds",
			Help:    "Time spent handling one inbound chat update, by command",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"command"}),
		UpdatesRateLimited: f.NewCounter(prometheus.CounterOpts{
			Name: "oleobot_updates_rate_limited_total",
			Help: "Updates refused because the sender exceeded the flood limit",
		}),
	}
}

func (m *Metrics) IncrementCollectionPointRegistered() {
	if m == nil {
		return
	}
	m.CollectionPointsRegistered.Inc()
}

func (m *Metrics) IncrementDonorAssociated() {
	if m == nil {
		return
	}
	m.DonorsAssociated.Inc()
}

func (m *Metrics) IncrementDonationRegistered() {
	if m == nil {
		return
	}
	m.DonationsRegistered.Inc()
}

// ObserveValidation records a successful validation and the liters it credited.
func (m *Metrics) ObserveValidation(liters float64) {
	if m == nil {
		return
	}
	m.DonationsValidated.Inc()
	m.LitersValidated.Add(liters)
}

func (m *Metrics) IncrementValidationRejected(reason string) {
	if m == nil {
		return
	}
	m.ValidationsRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementDeliveryCodeCollision() {
	if m == nil {
		return
	}
	m.DeliveryCodeCollisions.Inc()
}

func (m *Metrics) IncrementNotification(outcome string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(outcome).Inc()
}

// ObserveUpdate records how long an inbound update took.
// Call with time.Now() at the start of handling.
func (m *Metrics) ObserveUpdate(command string, start time.Time) {
	if m == nil {
		return
	}
	m.UpdateDuration.WithLabelValues(command).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementRateLimited() {
	if m == nil {
		return
	}
	m.UpdatesRateLimited.Inc()
}
