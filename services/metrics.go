package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

var (
	BookingTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_booking_transitions_total",
			Help: "Booking transitions by target status and outcome",
		},
		[]string{"status", "outcome"},
	)
	PaymentsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_payments_total",
			Help: "Payments created or confirmed by status",
		},
		[]string{"status"},
	)
	ComplaintsFiled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_complaints_total",
			Help: "Complaint submissions and status changes by status",
		},
		[]string{"status"},
	)
	ExportsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_exports_total",
			Help: "Generated reports by format and outcome",
		},
		[]string{"format", "outcome"},
	)
)

func InitMetrics() {
	for _, c := range []prometheus.Collector{BookingTransitions, PaymentsRecorded, ComplaintsFiled, ExportsGenerated} {
		if err := prometheus.Register(c); err != nil {
			log.Error().Err(err).Msg("Failed to register metric")
		}
	}
}
