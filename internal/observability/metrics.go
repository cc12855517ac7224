package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the world server's Prometheus collectors.
type Metrics struct {
	WorldsCreated     prometheus.Counter
	CharactersCreated prometheus.Counter
	Failures          *prometheus.CounterVec
	Worlds            prometheus.Gauge
}

// NewMetrics creates the world server metrics and registers them on reg.
//
// Precondition: reg must be non-nil and must not already hold these metrics.
// Postcondition: Returns registered Metrics or the registration error.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		WorldsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "worldbible_worlds_created_total",
			Help: "Total number of worlds generated",
		}),
		CharactersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "worldbible_characters_created_total",
			Help: "Total number of characters added to worlds",
		}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worldbible_operation_failures_total",
			Help: "Total number of failed operations by operation and error kind",
		}, []string{"operation", "kind"}),
		Worlds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "worldbible_worlds",
			Help: "Number of worlds currently registered",
		}),
	}
	for _, c := range []prometheus.Collector{m.WorldsCreated, m.CharactersCreated, m.Failures, m.Worlds} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordFailure counts a failed operation. An empty kind is recorded as "INTERNAL".
func (m *Metrics) RecordFailure(operation, kind string) {
	if kind == "" {
		kind = "INTERNAL"
	}
	m.Failures.WithLabelValues(operation, kind).Inc()
}
