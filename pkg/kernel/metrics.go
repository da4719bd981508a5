package kernel

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts kernel round trips. A nil *Metrics records nothing.
type Metrics struct {
	calls              *prometheus.CounterVec
	errors             *prometheus.CounterVec
	PlanFormIterations prometheus.Histogram
}

// NewMetrics creates the kernel collectors and registers them on reg.
// A nil reg leaves the collectors unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vspwrap",
			Subsystem: "kernel",
			Name:      "calls_total",
			Help:      "Kernel calls by operation.",
		}, []string{"op"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vspwrap",
			Subsystem: "kernel",
			Name:      "errors_total",
			Help:      "Kernel calls that returned an error, by operation.",
		}, []string{"op"}),
		PlanFormIterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vspwrap",
			Name:      "planform_iterations",
			Help:      "Fixed-point iterations spent fitting a wing planform.",
			Buckets:   []float64{1, 2, 4, 8, 16, 32, 64, 128},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.calls, m.errors, m.PlanFormIterations)
	}
	return m
}

func (m *Metrics) call(op string) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(op).Inc()
}

func (m *Metrics) fail(op string, err error) error {
	if m != nil && err != nil {
		m.errors.WithLabelValues(op).Inc()
	}
	return err
}

// ObservePlanForm records the iteration count of one planform fit.
func (m *Metrics) ObservePlanForm(iterations int) {
	if m == nil {
		return
	}
	m.PlanFormIterations.Observe(float64(iterations))
}

// Calls returns the collector counting calls per operation.
func (m *Metrics) Calls() *prometheus.CounterVec {
	if m == nil {
		return nil
	}
	return m.calls
}

// Errors returns the collector counting failed calls per operation.
func (m *Metrics) Errors() *prometheus.CounterVec {
	if m == nil {
		return nil
	}
	return m.errors
}
