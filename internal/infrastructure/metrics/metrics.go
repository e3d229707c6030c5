package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	PaymentsRecorded      prometheus.Counter
	PaymentAmount         prometheus.Histogram
	OverpaymentRejections prometheus.Counter
	CreditsSettled        prometheus.Counter

	// Registrar metrics
	ClosuresCreated   *prometheus.CounterVec
	DuplicateClosures *prometheus.CounterVec
	ClosureDifference prometheus.Histogram

	// Authentication metrics
	AuthFailures prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		PaymentsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "poscaja_payments_recorded_total",
			Help: "Total number of credit payments recorded",
		}),
		PaymentAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "poscaja_payment_amount",
			Help:    "Recorded payment amounts",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
		}),
		OverpaymentRejections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "poscaja_overpayment_rejections_total",
			Help: "Total number of payments rejected for exceeding the balance",
		}),
		CreditsSettled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "poscaja_credits_settled_total",
			Help: "Total number of credits transitioned to paid",
		}),
		ClosuresCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "poscaja_closures_created_total",
				Help: "Total number of cash closures created",
			},
			[]string{"scope"},
		),
		DuplicateClosures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "poscaja_duplicate_closures_total",
				Help: "Total number of closure attempts rejected as duplicates",
			},
			[]string{"scope"},
		),
		ClosureDifference: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "poscaja_closure_difference",
			Help:    "Declared-vs-expected difference on closures",
			Buckets: []float64{-100, -10, -1, 0, 1, 10, 100},
		}),
		AuthFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "poscaja_auth_failures_total",
			Help: "Total number of failed login attempts",
		}),
	}
}
