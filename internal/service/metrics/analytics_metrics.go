package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	PortfolioLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "foliopulse",
			Subsystem: "portfolio",
			Name:      "latency_seconds",
			Help:      "Latency of portfolio endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	PortfolioErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foliopulse",
			Subsystem: "portfolio",
			Name:      "errors_total",
			Help:      "Errors by portfolio endpoint",
		},
		[]string{"endpoint"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(PortfolioLatency, PortfolioErrors)
	})
}
