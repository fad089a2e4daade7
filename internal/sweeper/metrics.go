package sweeper

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts sweep activity. Registered into the server's private
// registry.
type Metrics struct {
	Runs         prometheus.Counter
	DueLeases    prometheus.Counter
	Sent         *prometheus.CounterVec
	SendFailures *prometheus.CounterVec
}

// NewMetrics creates and registers the sweep counters.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reminder_sweep_runs_total",
			Help: "Total reminder sweep executions",
		}),
		DueLeases: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reminder_due_leases_total",
			Help: "Leases matched as due across all sweeps",
		}),
		Sent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reminder_messages_sent_total",
			Help: "Reminder messages delivered",
		}, []string{"target"}),
		SendFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reminder_send_failures_total",
			Help: "Reminder deliveries that failed",
		}, []string{"target"}),
	}
	reg.MustRegister(m.Runs, m.DueLeases, m.Sent, m.SendFailures)
	return m
}
