package observability

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Commands = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "lodging", Name: "commands_total", Help: "Commands dispatched."},
		[]string{"transport", "command", "outcome"},
	)
	CommandLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lodging", Name: "command_duration_seconds",
			Help:    "Command dispatch duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"transport", "command"},
	)
	SessionsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Namespace: "lodging", Name: "sessions_active", Help: "Open TCP sessions / in-flight UDP exchanges."},
		[]string{"transport"},
	)
	DatagramsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "lodging", Name: "udp_datagrams_sent_total", Help: "UDP datagrams sent."},
		[]string{"kind"}, // kind: chunk|marker
	)
	RecordsLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "lodging", Name: "records_loaded", Help: "Records in the served dataset."},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "lodging", Name: "http_requests_total", Help: "Admin HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lodging", Name: "http_request_duration_seconds",
			Help:    "Admin HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "lodging", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
)

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(Commands, CommandLatency, SessionsActive, DatagramsSent, RecordsLoaded,
		HTTPRequests, HTTPLatency, CacheEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveCommand(transport, command, outcome string, dur time.Duration) {
	Commands.WithLabelValues(transport, command, outcome).Inc()
	CommandLatency.WithLabelValues(transport, command).Observe(dur.Seconds())
}

// SessionOpened bumps the active gauge and returns the matching decrement.
func SessionOpened(transport string) (closed func()) {
	g := SessionsActive.WithLabelValues(transport)
	g.Inc()
	return g.Dec
}

func ObserveDatagram(kind string) { // kind: chunk|marker
	DatagramsSent.WithLabelValues(kind).Inc()
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func LabelErr(err error) string {
	if err == nil {
		return "none"
	}
	return fmt.Sprintf("%T", err)
}
