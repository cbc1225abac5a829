package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Observer interface {
	Observe(val float64, labels ...string)
	prometheus.Collector
}

type Metrics struct {
	CommandCount   Observer
	CommandErrors  Observer
	CommandLatency Observer
	RateLimited    Observer
	AnnouncedItems Observer
}

func New() *Metrics {
	return &Metrics{
		CommandCount: NewPromCounterVec(prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "albot",
				Name:      "commands_total",
				Help:      "Commands handled, by command and platform.",
			},
			[]string{"command", "platform"},
		)),
		CommandErrors: NewPromCounterVec(prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "albot",
				Name:      "command_errors_total",
				Help:      "Commands whose view returned an error or panicked.",
			},
			[]string{"command", "platform"},
		)),
		CommandLatency: NewPromObserverVec(prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "albot",
				Name:      "command_duration_seconds",
				Help:      "Time spent executing command views.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"command"},
		)),
		RateLimited: NewPromCounterVec(prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "albot",
				Name:      "rate_limited_total",
				Help:      "Commands dropped by the per-channel reply limit.",
			},
			[]string{"platform"},
		)),
		AnnouncedItems: NewPromCounter(prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "albot",
				Name:      "announced_items_total",
				Help:      "Feed entries posted to the announcement channel.",
			},
		)),
	}
}

func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.CommandCount,
		m.CommandErrors,
		m.CommandLatency,
		m.RateLimited,
		m.AnnouncedItems,
	}
}

// Handler serves the metrics on a private registry.
func (m *Metrics) Handler() http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(m.Collectors()...)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
