package reservation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticketsBooked = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tickets",
		Name:      "booked_total",
		Help:      "Tickets booked.",
	})
	ticketsReleased = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tickets",
		Name:      "released_total",
		Help:      "Seats given back to events by cancellations.",
	})
	bookingsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tickets",
		Name:      "bookings_rejected_total",
		Help:      "Booking requests that were rejected, by reason.",
	}, []string{"reason"})
)
