// Package metrics holds Prometheus instruments that are used across the
// application.  All collectors are registered with the global registry,
// so importing this package in main.go is enough to expose them on
// /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	LoginSuccessTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "login_success_total",
			Help: "Cumulative number of successful credential verifications.",
		})

	LoginFailureTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "login_failure_total",
			Help: "Cumulative number of rejected login attempts.",
		})

	SignupTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "signup_total",
			Help: "Cumulative number of accounts created.",
		})

	SignupConflictTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "signup_conflict_total",
			Help: "Cumulative number of signups rejected for duplicate email.",
		})

	IdentityResolveTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "identity_resolve_total",
			Help: "Cumulative number of session-cookie identity resolutions.",
		})

	GateRedirectTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gate_redirect_total",
			Help: "Cumulative number of role-gate redirects, by reason.",
		},
		[]string{"reason"}, // "unauthenticated" or "wrong_role"
	)
)

func init() {
	prometheus.MustRegister(
		LoginSuccessTotal,
		LoginFailureTotal,
		SignupTotal,
		SignupConflictTotal,
		IdentityResolveTotal,
		GateRedirectTotal,
	)
}
