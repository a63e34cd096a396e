package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hoyspace",
			Name:      "booking_created_total",
			Help:      "Count of bookings created.",
		},
	)

	bookingStatus = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hoyspace",
			Name:      "booking_status_changed_total",
			Help:      "Count of booking status changes by target status.",
		},
		[]string{"status"},
	)

	notificationCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hoyspace",
			Name:      "notification_created_total",
			Help:      "Count of notifications created by type.",
		},
		[]string{"type"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hoyspace",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status code.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "code"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingStatus, notificationCreated, requestDuration)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func IncBookingCreated() {
	bookingCreated.Inc()
}

func IncBookingStatus(status string) {
	bookingStatus.WithLabelValues(status).Inc()
}

func IncNotification(kind string) {
	notificationCreated.WithLabelValues(kind).Inc()
}

func ObserveRequest(route string, code int, d time.Duration) {
	requestDuration.WithLabelValues(route, strconv.Itoa(code)).Observe(d.Seconds())
}
