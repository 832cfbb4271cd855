package qotd

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters are partitioned by transport ("tcp" or "udp") and exposed on
// the ops HTTP /-/metrics endpoint.
var (
	quotesServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "qotdd",
		Name:      "quotes_served_total",
		Help:      "Number of quotes served to clients.",
	}, []string{"transport"})

	rateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "qotdd",
		Name:      "rate_limited_total",
		Help:      "Number of requests rejected by the per-IP rate limiter.",
	}, []string{"transport"})

	connectionErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "qotdd",
		Name:      "connection_errors_total",
		Help:      "Number of connections that failed during quote delivery.",
	}, []string{"transport"})
)
