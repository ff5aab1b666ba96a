package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the application collectors. A nil *Metrics records nothing.
type Metrics struct {
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	cartOutcomes  *prometheus.CounterVec
	seatsBooked   prometheus.Counter
	seatMapLookup *prometheus.CounterVec
	screenings    prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cinema",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cinema",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		cartOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cinema",
			Name:      "cart_transitions_total",
			Help:      "Cart operations by operation and result.",
		}, []string{"operation", "result"}),
		seatsBooked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cinema",
			Name:      "seats_booked_total",
			Help:      "Seats flipped to booked.",
		}),
		seatMapLookup: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cinema",
			Name:      "seatmap_cache_lookups_total",
			Help:      "Seat map cache lookups by result.",
		}, []string{"result"}),
		screenings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cinema",
			Name:      "screenings_created_total",
			Help:      "Screenings scheduled.",
		}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.cartOutcomes,
		m.seatsBooked,
		m.seatMapLookup,
		m.screenings,
	)
	return m
}

func (m *Metrics) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// CartTransition counts one cart operation; err == nil counts as "ok".
func (m *Metrics) CartTransition(operation string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	m.cartOutcomes.WithLabelValues(operation, result).Inc()
}

func (m *Metrics) SeatsBooked(n int) {
	if m == nil {
		return
	}
	m.seatsBooked.Add(float64(n))
}

func (m *Metrics) SeatMapLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.seatMapLookup.WithLabelValues(result).Inc()
}

func (m *Metrics) ScreeningCreated() {
	if m == nil {
		return
	}
	m.screenings.Inc()
}
