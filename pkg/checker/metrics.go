package checker

import "github.com/prometheus/client_golang/prometheus"

// Validation outcomes recorded by Metrics.
const (
	OutcomePassed   = "passed"
	OutcomeRejected = "rejected"
	OutcomeSkipped  = "skipped"
	OutcomeFault    = "fault"
)

// Metrics counts rule evaluations.
type Metrics struct {
	Validations *prometheus.CounterVec
	Faults      *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg when it is not nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rulekit",
			Name:      "validations_total",
			Help:      "Rule evaluations by rule and outcome.",
		}, []string{"rule", "outcome"}),
		Faults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rulekit",
			Name:      "predicate_faults_total",
			Help:      "Rule evaluations aborted by a predicate error.",
		}, []string{"rule"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Validations, m.Faults} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(rule, outcome string) {
	if m == nil {
		return
	}
	m.Validations.WithLabelValues(rule, outcome).Inc()
	if outcome == OutcomeFault {
		m.Faults.WithLabelValues(rule).Inc()
	}
}
