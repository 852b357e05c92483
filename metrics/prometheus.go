package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// promObserver adapts a Prometheus collector to Observer.
type promObserver[C prometheus.Collector] struct {
	prometheus.Collector
	c   C
	obs func(c C, val float64, labels []string)
}

func (m *promObserver[C]) Observe(val float64, labels ...string) {
	m.obs(m.c, val, labels)
}

func adapt[C prometheus.Collector](c C, obs func(c C, val float64, labels []string)) Observer {
	return &promObserver[C]{Collector: c, c: c, obs: obs}
}

// NewPromCounter adds observed values to a counter. Labels are ignored.
func NewPromCounter(m prometheus.Counter) Observer {
	return adapt(m, func(c prometheus.Counter, val float64, _ []string) { c.Add(val) })
}

// NewPromCounterVec adds observed values to the counter for the labels.
// Observing with the wrong number of labels panics.
func NewPromCounterVec(m *prometheus.CounterVec) Observer {
	return adapt(m, func(c *prometheus.CounterVec, val float64, labels []string) {
		c.WithLabelValues(labels...).Add(val)
	})
}

// NewPromGauge sets a gauge to each observed value.
func NewPromGauge(m prometheus.Gauge) Observer {
	return adapt(m, func(c prometheus.Gauge, val float64, _ []string) { c.Set(val) })
}

func NewPromHistogram(m prometheus.Histogram) Observer {
	return adapt(m, func(c prometheus.Histogram, val float64, _ []string) { c.Observe(val) })
}
