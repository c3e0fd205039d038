package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the server's Prometheus instruments. Each server owns
// its registry so tests can run servers side by side.
type metrics struct {
	registry *prometheus.Registry

	sessionsStarted prometheus.Counter
	commands        *prometheus.CounterVec
	donations       prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		sessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "satchel_sessions_started_total",
			Help: "Donation sessions started.",
		}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "satchel_commands_total",
			Help: "Commands delivered to hosts, by type.",
		}, []string{"type"}),
		donations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "satchel_donations_total",
			Help: "Donations received.",
		}),
	}
	m.registry.MustRegister(m.sessionsStarted, m.commands, m.donations)
	return m
}
