package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// Realtime groups the realtime hub delivery metrics.
type Realtime struct {
	Connections prometheus.Gauge
	Delivered   prometheus.Counter
	Dropped     prometheus.Counter
}

// NewRealtime returns the realtime hub metrics set.
func NewRealtime() *Realtime {
	return &Realtime{
		Connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "realtime_connections",
			Help: "Number of live realtime connections",
		}),
		Delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "realtime_delivered_total",
			Help: "Total number of envelopes delivered to live connections",
		}),
		Dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "realtime_dropped_total",
			Help: "Total number of envelopes dropped due to slow or full queues",
		}),
	}
}

// Collectors returns the realtime metrics for registration.
func (r *Realtime) Collectors() []prometheus.Collector {
	return []prometheus.Collector{r.Connections, r.Delivered, r.Dropped}
}
