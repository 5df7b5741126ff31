package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the auth flow counters. It satisfies auth.Recorder.
type Metrics struct {
	RegistrationsTotal  *prometheus.CounterVec
	OTPDispatchedTotal  *prometheus.CounterVec
	VerificationsTotal  *prometheus.CounterVec
	ResendsBlockedTotal prometheus.Counter
	LoginsTotal         *prometheus.CounterVec
	RateLimitedTotal    prometheus.Counter

	gatherer prometheus.Gatherer
}

// New registers the collectors on a fresh registry, together with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return NewWith(reg, reg)
}

func NewWith(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RegistrationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "otpauth_registrations_total",
			Help: "Registration attempts by outcome",
		}, []string{"outcome"}),
		OTPDispatchedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "otpauth_otp_dispatched_total",
			Help: "Verification codes delivered by reason",
		}, []string{"reason"}),
		VerificationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "otpauth_verifications_total",
			Help: "OTP verification attempts by outcome",
		}, []string{"outcome"}),
		ResendsBlockedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "otpauth_resends_blocked_total",
			Help: "User-initiated resends refused by an active cooldown",
		}),
		LoginsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "otpauth_logins_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
		RateLimitedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "otpauth_http_rate_limited_total",
			Help: "Requests rejected by the per-IP rate limiter",
		}),
		gatherer: g,
	}
}

func (m *Metrics) Registration(outcome string) { m.RegistrationsTotal.WithLabelValues(outcome).Inc() }
func (m *Metrics) OTPDispatched(reason string) { m.OTPDispatchedTotal.WithLabelValues(reason).Inc() }
func (m *Metrics) Verification(outcome string) { m.VerificationsTotal.WithLabelValues(outcome).Inc() }
func (m *Metrics) ResendBlocked()              { m.ResendsBlockedTotal.Inc() }
func (m *Metrics) Login(outcome string)        { m.LoginsTotal.WithLabelValues(outcome).Inc() }
func (m *Metrics) RateLimited()                { m.RateLimitedTotal.Inc() }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
