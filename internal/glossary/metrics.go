package glossary

import (
	"time"

	"github.com/aldo555/glossary-magic/pkg/interfaces"
	"github.com/prometheus/client_golang/prometheus"
)

// NoOpMetrics returns a metrics recorder that drops every observation.
func NoOpMetrics() interfaces.GlossaryMetrics {
	return noopMetrics{}
}

type noopMetrics struct{}

func (noopMetrics) ObserveAction(string, string, time.Duration) {}

func (noopMetrics) AddLinkedTerms(int) {}

func (noopMetrics) AddRelationChanges(string, int) {}

// PrometheusMetrics records glossary telemetry as Prometheus collectors.
type PrometheusMetrics struct {
	actions   *prometheus.CounterVec
	durations *prometheus.HistogramVec
	linked    prometheus.Counter
	relations *prometheus.CounterVec
}

// NewPrometheusMetrics registers the glossary collectors with reg.
func NewPrometheusMetrics(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	m := &PrometheusMetrics{
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "glossary_magic",
			Name:      "actions_total",
			Help:      "Glossary actions by action and outcome.",
		}, []string{"action", "outcome"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "glossary_magic",
			Name:      "action_duration_seconds",
			Help:      "Glossary action latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action"}),
		linked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "glossary_magic",
			Name:      "linked_terms_total",
			Help:      "Glossary links inserted into article fields.",
		}),
		relations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "glossary_magic",
			Name:      "relation_changes_total",
			Help:      "Article/term associations changed, by change kind.",
		}, []string{"change"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, collector := range []prometheus.Collector{m.actions, m.durations, m.linked, m.relations} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *PrometheusMetrics) ObserveAction(action, outcome string, duration time.Duration) {
	m.actions.WithLabelValues(action, outcome).Inc()
	m.durations.WithLabelValues(action).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) AddLinkedTerms(count int) {
	if count > 0 {
		m.linked.Add(float64(count))
	}
}

func (m *PrometheusMetrics) AddRelationChanges(change string, count int) {
	if count > 0 {
		m.relations.WithLabelValues(change).Add(float64(count))
	}
}
