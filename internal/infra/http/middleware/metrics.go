package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_received_total",
			Help: "Total number of leads created, by source and extraction method",
		},
		[]string{"source", "method"},
	)

	offersSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "offers_sent_total",
			Help: "Total number of booking offers delivered on at least one channel",
		},
	)

	repliesHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "replies_total",
			Help: "Total number of inbound customer replies, by outcome",
		},
		[]string{"outcome"},
	)

	bookingsCommitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_committed_total",
			Help: "Total number of bookings created from a customer reply",
		},
	)

	bookingConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_conflicts_total",
			Help: "Total number of booking commits lost to a concurrent change",
		},
	)

	messagesDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_delivered_total",
			Help: "Total number of outbound messages handed to email/SMS providers",
		},
		[]string{"channel", "status"},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_errors_total",
			Help: "Total number of integration errors",
		},
		[]string{"service"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		path := routePattern(r)
		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern usa o padrão do chi (/leads/{id}) para não explodir a cardinalidade.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func RecordLeadReceived(source, method string) {
	leadsReceived.WithLabelValues(source, method).Inc()
}

func RecordOfferSent() {
	offersSent.Inc()
}

func RecordReply(outcome string) {
	repliesHandled.WithLabelValues(outcome).Inc()
}

func RecordBookingCommitted() {
	bookingsCommitted.Inc()
}

func RecordBookingConflict() {
	bookingConflicts.Inc()
}

func RecordDelivery(channel, status string) {
	messagesDelivered.WithLabelValues(channel, status).Inc()
}

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}
