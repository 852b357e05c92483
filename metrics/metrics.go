package metrics

import "github.com/prometheus/client_golang/prometheus"

type Observer interface {
	Observe(val float64, labels ...string)

	// for now we will tightly couple to the prometheus collector type
	// the go otel metrics sdk also has a prometheus adapter that implements this interface.
	prometheus.Collector
}

type Metrics struct {
	// MessagesCount counts chat messages received.
	MessagesCount Observer
	// CommandCount counts executed commands, labeled by trigger.
	CommandCount Observer
	// DeniedCount counts gate denials, labeled by reason.
	DeniedCount Observer
	// ThrottledCount counts messages rejected by cooldown.
	ThrottledCount Observer
	// FallbackCount counts fallback table hits.
	FallbackCount Observer
	// UnknownCount counts prefixed messages which matched nothing.
	UnknownCount Observer
	// SentCount counts outbound messages, labeled by kind.
	SentCount Observer
	// AnnounceCount counts announcements broadcast.
	AnnounceCount Observer
	// Maintenance is 1 while maintenance mode is on.
	Maintenance Observer
	// DispatchLatency observes the time to handle a message.
	DispatchLatency Observer
}

func (m Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.MessagesCount,
		m.CommandCount,
		m.DeniedCount,
		m.ThrottledCount,
		m.FallbackCount,
		m.UnknownCount,
		m.SentCount,
		m.AnnounceCount,
		m.Maintenance,
		m.DispatchLatency,
	}
}

// New creates the bot's metrics.
func New() Metrics {
	return Metrics{
		MessagesCount: NewPromCounter(prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "utilbot",
			Subsystem: "chat",
			Name:      "messages",
			Help:      "Number of chat messages received.",
		})),
		CommandCount: NewPromCounterVec(prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "utilbot",
			Subsystem: "dispatch",
			Name:      "commands",
			Help:      "Number of commands executed.",
		}, []string{"trigger"})),
		DeniedCount: NewPromCounterVec(prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "utilbot",
			Subsystem: "dispatch",
			Name:      "denied",
			Help:      "Number of commands denied by access policy.",
		}, []string{"reason"})),
		ThrottledCount: NewPromCounter(prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "utilbot",
			Subsystem: "dispatch",
			Name:      "throttled",
			Help:      "Number of commands rejected for cooldown.",
		})),
		FallbackCount: NewPromCounter(prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "utilbot",
			Subsystem: "dispatch",
			Name:      "songs",
			Help:      "Number of songs played.",
		})),
		UnknownCount: NewPromCounter(prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "utilbot",
			Subsystem: "dispatch",
			Name:      "unknown",
			Help:      "Number of prefixed messages that matched no command.",
		})),
		SentCount: NewPromCounterVec(prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "utilbot",
			Subsystem: "console",
			Name:      "sent",
			Help:      "Number of outbound messages.",
		}, []string{"kind"})),
		AnnounceCount: NewPromCounter(prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "utilbot",
			Subsystem: "announce",
			Name:      "announcements",
			Help:      "Number of announcements broadcast.",
		})),
		Maintenance: NewPromGauge(prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "utilbot",
			Subsystem: "mode",
			Name:      "maintenance",
			Help:      "Whether maintenance mode is on.",
		})),
		DispatchLatency: NewPromHistogram(prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "utilbot",
			Subsystem: "dispatch",
			Name:      "latency",
			Help:      "Time to handle a chat message.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 8),
		})),
	}
}
