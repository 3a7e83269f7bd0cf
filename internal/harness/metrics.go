package harness

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports run counters in Prometheus form.
type Metrics struct {
	cases           *prometheus.CounterVec
	checks          *prometheus.CounterVec
	checkFailures   *prometheus.CounterVec
	findings        *prometheus.CounterVec
	triggerFailures *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matverify_cases_total",
			Help: "Cases executed, by suite and outcome.",
		}, []string{"suite", "outcome"}),
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matverify_checks_total",
			Help: "Checks performed, by suite.",
		}, []string{"suite"}),
		checkFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matverify_check_failures_total",
			Help: "Failed checks, by suite.",
		}, []string{"suite"}),
		findings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matverify_findings_total",
			Help: "Exploratory findings, by suite and kind.",
		}, []string{"suite", "kind"}),
		triggerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matverify_trigger_failures_total",
			Help: "Failed checks whose operands exhibited a catalog condition, by fault code.",
		}, []string{"code"}),
	}
	reg.MustRegister(m.cases, m.checks, m.checkFailures, m.findings, m.triggerFailures)
	return m
}

func (m *Metrics) observe(res CaseResult) {
	outcome := "pass"
	if !res.Pass {
		outcome = "fail"
	}
	m.cases.WithLabelValues(res.Suite, outcome).Inc()
	m.checks.WithLabelValues(res.Suite).Add(float64(res.Checks))
	m.checkFailures.WithLabelValues(res.Suite).Add(float64(len(res.Failures)))
	for _, f := range res.Findings {
		m.findings.WithLabelValues(res.Suite, f.Kind).Inc()
	}
	for _, st := range res.Triggers {
		if st.Failed > 0 {
			m.triggerFailures.WithLabelValues(st.Code.String()).Add(float64(st.Failed))
		}
	}
}
