package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "parkify",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "parkify",
			Name:      "bookings_created_total",
			Help:      "Successfully validated and persisted bookings.",
		},
	)

	bookingRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "parkify",
			Name:      "booking_rejections_total",
			Help:      "Booking validation rejections by reason code.",
		},
		[]string{"reason"},
	)

	pagesServed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "parkify",
			Name:      "pages_served_total",
			Help:      "List pages served by endpoint.",
		},
		[]string{"endpoint"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookingsCreated, bookingRejections, pagesServed)
	})
}

// IncHTTP increments the request counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncBookingCreated counts one persisted booking.
func IncBookingCreated() {
	bookingsCreated.Inc()
}

// IncBookingRejection counts one validation rejection by reason code.
func IncBookingRejection(reason string) {
	bookingRejections.WithLabelValues(reason).Inc()
}

// IncPageServed counts one served list page.
func IncPageServed(endpoint string) {
	pagesServed.WithLabelValues(endpoint).Inc()
}
