package monitor

import "github.com/prometheus/client_golang/prometheus"

var (
	requestsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "inferd",
			Subsystem: "concurrency",
			Name:      "requests_active",
			Help:      "In-flight inference requests per protocol front-end",
		},
		[]string{"protocol"},
	)

	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "inferd",
			Subsystem: "concurrency",
			Name:      "requests_total",
			Help:      "Total inference requests accepted per protocol front-end",
		},
		[]string{"protocol"},
	)

	requestsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "inferd",
			Subsystem: "concurrency",
			Name:      "requests_failed_total",
			Help:      "Total inference requests that failed per protocol front-end",
		},
		[]string{"protocol"},
	)
)

func init() {
	prometheus.MustRegister(requestsActive, requestsTotal, requestsFailed)
}
