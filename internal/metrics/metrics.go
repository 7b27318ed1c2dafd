// Package metrics exposes Prometheus collectors for the bot.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "clubbot"

// Metrics holds every collector the bot updates.
type Metrics struct {
	registry *prometheus.Registry

	Events        *prometheus.CounterVec
	EventDuration *prometheus.HistogramVec
	Commits       *prometheus.CounterVec
	Upgrades      *prometheus.CounterVec
	Notifications *prometheus.CounterVec
	Sessions      prometheus.Counter
}

// New registers the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Events: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Inbound events by kind and outcome.",
		}, []string{"kind", "outcome"}),
		EventDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "event_duration_seconds",
			Help:      "Time spent handling one inbound event.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		Commits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_commits_total",
			Help:      "Workflow commit attempts by flow and outcome.",
		}, []string{"flow", "outcome"}),
		Upgrades: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stadium_upgrades_total",
			Help:      "Stadium upgrade attempts by outcome.",
		}, []string{"outcome"}),
		Notifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Best-effort notifications by outcome.",
		}, []string{"outcome"}),
		Sessions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_expired_total",
			Help:      "Abandoned workflow sessions removed by the sweeper.",
		}),
	}
}

// Outcome maps an error to the "ok"/"error" label value.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveEvent records one handled event.
func (m *Metrics) ObserveEvent(kind, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.Events.WithLabelValues(kind, outcome).Inc()
	m.EventDuration.WithLabelValues(kind).Observe(took.Seconds())
}

// ObserveCommit records a workflow commit attempt.
func (m *Metrics) ObserveCommit(flow string, err error) {
	if m == nil {
		return
	}
	m.Commits.WithLabelValues(flow, Outcome(err)).Inc()
}

// ObserveUpgrade records an upgrade attempt. outcome is "ok",
// "insufficient_funds", "terminal" or "error".
func (m *Metrics) ObserveUpgrade(outcome string) {
	if m == nil {
		return
	}
	m.Upgrades.WithLabelValues(outcome).Inc()
}

// ObserveNotification records a best-effort notification.
func (m *Metrics) ObserveNotification(err error) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(Outcome(err)).Inc()
}

// ObserveExpired records sessions removed by the sweeper.
func (m *Metrics) ObserveExpired(n int) {
	if m == nil {
		return
	}
	m.Sessions.Add(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
