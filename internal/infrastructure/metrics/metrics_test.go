package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	// Replace global default registry to allow test inspection.
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry

	m := New()

	if m.PaymentsRecorded == nil || m.OverpaymentRejections == nil || m.ClosuresCreated == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.PaymentsRecorded.Inc()
	m.ClosuresCreated.WithLabelValues("general").Inc()
	m.DuplicateClosures.WithLabelValues("personal").Inc()
	m.ClosureDifference.Observe(-3.5)

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}
