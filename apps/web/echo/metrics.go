package echoweb

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trezcool/eduhelp/core/guard"
	"github.com/trezcool/eduhelp/core/payment"
)

const metricsNamespace = "eduhelp"

// Metrics exposes the application counters on their own registry.
// A nil *Metrics records nothing.
type Metrics struct {
	registry          *prometheus.Registry
	intakeSubmissions *prometheus.CounterVec
	paymentsSubmitted *prometheus.CounterVec
	paymentsSucceeded prometheus.Counter
	guardRedirects    *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		intakeSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "intake_submissions_total",
			Help:      "Service request submissions, by outcome.",
		}, []string{"priced"}),
		paymentsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "payments_submitted_total",
			Help:      "Simulated payments submitted, by timing and method.",
		}, []string{"timing", "method"}),
		paymentsSucceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "payments_succeeded_total",
			Help:      "Simulated payments that completed.",
		}),
		guardRedirects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "guard_redirects_total",
			Help:      "Page visits redirected by the route guard.",
		}, []string{"route", "to"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.intakeSubmissions,
		m.paymentsSubmitted,
		m.paymentsSucceeded,
		m.guardRedirects,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) IntakeSubmitted(priced bool) {
	if m == nil {
		return
	}
	m.intakeSubmissions.WithLabelValues(strconv.FormatBool(priced)).Inc()
}

// PaymentSubmitted and PaymentSucceeded match payment.Listener.
func (m *Metrics) PaymentSubmitted(o payment.Outcome) {
	if m == nil {
		return
	}
	m.paymentsSubmitted.WithLabelValues(string(o.Timing), string(o.Method)).Inc()
}

func (m *Metrics) PaymentSucceeded(payment.Outcome) {
	if m == nil {
		return
	}
	m.paymentsSucceeded.Inc()
}

func (m *Metrics) GuardRedirected(route guard.Route, to string) {
	if m == nil {
		return
	}
	m.guardRedirects.WithLabelValues(string(route), to).Inc()
}
