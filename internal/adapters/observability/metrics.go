package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "bling", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bling", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "bling", Name: "external_requests_total", Help: "Outbound requests."},
		[]string{"service", "endpoint", "status"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bling", Name: "external_request_duration_seconds",
			Help:    "Outbound request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	ToolInvocations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "bling", Name: "tool_invocations_total", Help: "Tool dispatches by outcome."},
		[]string{"tool", "outcome"}, // outcome: ok|invalid|unavailable|error
	)
	ModelTurns = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bling", Name: "model_turn_duration_seconds",
			Help:    "Language model invocation duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"}, // outcome: reply|tool|error
	)
	CheckpointEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "bling", Name: "checkpoint_events_total", Help: "Conversation checkpoint loads/saves/misses."},
		[]string{"event"}, // event: load|miss|save
	)
)

// Serve starts the standalone metrics listener; empty addr disables it.
func Serve(addr string) {
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, ExternalRequests, ExternalLatency, ToolInvocations, ModelTurns, CheckpointEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveExternal(service, endpoint string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

func ObserveTool(tool, outcome string) {
	ToolInvocations.WithLabelValues(tool, outcome).Inc()
}

func ObserveModelTurn(outcome string, dur time.Duration) {
	ModelTurns.WithLabelValues(outcome).Observe(dur.Seconds())
}

func ObserveCheckpoint(event string) { // event: load|miss|save
	CheckpointEvents.WithLabelValues(event).Inc()
}
