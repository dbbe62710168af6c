package metrics

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	reservationsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "rental",
			Name:      "reservations_created_total",
			Help:      "Reservations created.",
		},
	)

	reservationTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rental",
			Name:      "reservation_transitions_total",
			Help:      "Committed reservation status transitions by target status.",
		},
		[]string{"to"},
	)

	reservationConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "rental",
			Name:      "reservation_conflicts_total",
			Help:      "Reservation creates rejected because the car was already claimed.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rental",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route.",
		},
		[]string{"route"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(reservationsCreated, reservationTransitions, reservationConflicts, httpRequests)
	})
}

func IncReservationCreated() { reservationsCreated.Inc() }

func IncTransition(to string) { reservationTransitions.WithLabelValues(to).Inc() }

func IncConflict() { reservationConflicts.Inc() }

// IncHTTP increments the counter for a route label.
func IncHTTP(route string) {
	httpRequests.WithLabelValues(route).Inc()
}

// Middleware counts requests by their matched route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		IncHTTP(route)
	}
}
