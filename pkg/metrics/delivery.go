package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DeliveryMetrics records counters for the order assignment lifecycle.
type DeliveryMetrics struct {
	otpIssued       *prometheus.CounterVec
	otpFailed       *prometheus.CounterVec
	ordersAccepted  prometheus.Counter
	journeysStarted prometheus.Counter
	ordersDelivered prometheus.Counter
	deliveryTime    prometheus.Histogram
	nearbySearches  prometheus.Counter
}

// NewDeliveryMetrics registers the delivery metrics on the provided registerer.
func NewDeliveryMetrics(reg prometheus.Registerer) *DeliveryMetrics {
	if reg == nil {
		return &DeliveryMetrics{}
	}
	otpIssued := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "otp_issued_total",
		Help: "OTP codes issued, by purpose.",
	}, []string{"purpose"})
	otpFailed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "otp_failed_total",
		Help: "OTP verification failures, by purpose.",
	}, []string{"purpose"})
	ordersAccepted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_accepted_total",
		Help: "Orders claimed by pilots.",
	})
	journeysStarted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "journeys_started_total",
		Help: "Delivery journeys started.",
	})
	ordersDelivered := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_delivered_total",
		Help: "Orders completed with a verified delivery OTP.",
	})
	deliveryTime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "delivery_duration_seconds",
		Help:    "Time from acceptance to verified delivery.",
		Buckets: prometheus.ExponentialBuckets(300, 2, 10),
	})
	nearbySearches := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nearby_searches_total",
		Help: "Nearby-order searches served.",
	})
	reg.MustRegister(otpIssued, otpFailed, ordersAccepted, journeysStarted, ordersDelivered, deliveryTime, nearbySearches)
	return &DeliveryMetrics{
		otpIssued:       otpIssued,
		otpFailed:       otpFailed,
		ordersAccepted:  ordersAccepted,
		journeysStarted: journeysStarted,
		ordersDelivered: ordersDelivered,
		deliveryTime:    deliveryTime,
		nearbySearches:  nearbySearches,
	}
}

// IncOTPIssued counts an issued code for the given purpose (login, delivery).
func (d *DeliveryMetrics) IncOTPIssued(purpose string) {
	if d == nil || d.otpIssued == nil {
		return
	}
	d.otpIssued.WithLabelValues(normalizeLabel(purpose)).Inc()
}

// IncOTPFailed counts a failed verification for the given purpose.
func (d *DeliveryMetrics) IncOTPFailed(purpose string) {
	if d == nil || d.otpFailed == nil {
		return
	}
	d.otpFailed.WithLabelValues(normalizeLabel(purpose)).Inc()
}

func (d *DeliveryMetrics) IncOrderAccepted() {
	if d == nil || d.ordersAccepted == nil {
		return
	}
	d.ordersAccepted.Inc()
}

func (d *DeliveryMetrics) IncJourneyStarted() {
	if d == nil || d.journeysStarted == nil {
		return
	}
	d.journeysStarted.Inc()
}

func (d *DeliveryMetrics) IncOrderDelivered() {
	if d == nil || d.ordersDelivered == nil {
		return
	}
	d.ordersDelivered.Inc()
}

// ObserveDeliveryDuration records accept-to-delivery elapsed time.
func (d *DeliveryMetrics) ObserveDeliveryDuration(elapsed time.Duration) {
	if d == nil || d.deliveryTime == nil {
		return
	}
	d.deliveryTime.Observe(elapsed.Seconds())
}

func (d *DeliveryMetrics) IncNearbySearch() {
	if d == nil || d.nearbySearches == nil {
		return
	}
	d.nearbySearches.Inc()
}
