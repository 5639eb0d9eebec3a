package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	TokenVerifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "corpdesk", Name: "token_verifications_total", Help: "Access token verifications by outcome."},
		[]string{"outcome"},
	)
	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "corpdesk", Name: "login_attempts_total", Help: "Login attempts by outcome."},
		[]string{"outcome"},
	)
	SessionRotations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "corpdesk", Name: "session_rotations_total", Help: "Refresh session rotations by outcome."},
		[]string{"outcome"},
	)
	ProvisioningEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "corpdesk", Name: "provisioning_events_total", Help: "Identity lifecycle events by type and outcome."},
		[]string{"type", "outcome"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "corpdesk", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "corpdesk", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(TokenVerifications)
	reg.MustRegister(LoginAttempts)
	reg.MustRegister(SessionRotations)
	reg.MustRegister(ProvisioningEvents)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
