package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Registry = prometheus.NewRegistry()

	PollCycles = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "clashwatcher",
		Name:      "poll_cycles_total",
		Help:      "Total number of poll cycles started.",
	})

	FetchFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "clashwatcher",
		Name:      "fetch_failures_total",
		Help:      "Poll cycles skipped because the roster fetch failed.",
	})

	Notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clashwatcher",
		Name:      "notifications_total",
		Help:      "Join/leave notifications attempted, by kind and result.",
	}, []string{"kind", "result"})

	RosterSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "clashwatcher",
		Name:      "roster_size",
		Help:      "Members in the last successfully fetched roster.",
	})

	startTime = time.Now()
	uptime    = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "clashwatcher",
		Name:      "uptime_seconds",
		Help:      "Process uptime in seconds.",
	}, func() float64 { return time.Since(startTime).Seconds() })
)

func init() {
	Registry.MustRegister(PollCycles, FetchFailures, Notifications, RosterSize, uptime)
}

// MetricsHandler exposes /metrics. Mount it with mux.Handle("/metrics", telemetry.MetricsHandler()).
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
