// Package metrics holds the service's Prometheus counters. Incrementing a
// counter is fire-and-forget and never participates in request correctness.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Registrations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bookvault",
		Name:      "user_registrations_total",
		Help:      "Total number of registered users.",
	})

	SuccessfulLogins = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bookvault",
		Name:      "successful_logins_total",
		Help:      "Total number of successful logins.",
	})

	FailedLogins = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bookvault",
		Name:      "failed_logins_total",
		Help:      "Total number of failed login attempts.",
	})

	LoginLockouts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bookvault",
		Name:      "login_lockouts_total",
		Help:      "Total number of login attempts rejected by the lockout throttle.",
	})
)

// Handler exposes the default registry in Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
