package reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/djgowrishankar/TicketReservationAPI/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// BookingManager books and cancels tickets, keeping the event's available seats in step.
type BookingManager struct {
	repo BookingRepository
}

func NewBookingManager(repo BookingRepository) BookingManager {
	if repo == nil {
		panic("missing booking repository")
	}

	return BookingManager{repo: repo}
}

func (m BookingManager) Book(ctx context.Context, req entities.BookTicketsRequest) (entities.Booking, error) {
	if err := req.Validate(); err != nil {
		bookingsRejected.WithLabelValues("invalid_request").Inc()
		return entities.Booking{}, err
	}

	booking, err := m.repo.Create(ctx, req.EventID, func(event *entities.Event) (entities.Booking, error) {
		if err := event.ReserveSeats(req.NumberOfTickets); err != nil {
			return entities.Booking{}, err
		}

		return entities.NewBooking(*event, req.UserName, req.NumberOfTickets), nil
	})

	logger := log.FromContext(ctx).WithFields(logrus.Fields{
		"event_id":          req.EventID,
		"number_of_tickets": req.NumberOfTickets,
	})

	switch {
	case errors.Is(err, entities.ErrEventNotFound):
		bookingsRejected.WithLabelValues("event_not_found").Inc()
		logger.Info("Booking rejected, event does not exist")
		return entities.Booking{}, fmt.Errorf("%w: %w", entities.ErrBookingRejected, err)
	case errors.Is(err, entities.ErrNotEnoughSeats):
		bookingsRejected.WithLabelValues("not_enough_seats").Inc()
		logger.Info("Booking rejected, not enough seats")
		return entities.Booking{}, err
	case err != nil:
		return entities.Booking{}, fmt.Errorf("could not book tickets: %w", err)
	}

	ticketsBooked.Add(float64(booking.NumberOfTickets))
	logger.WithField("booking_id", booking.BookingID).Info("Tickets booked")

	return booking, nil
}

func (m BookingManager) Cancel(ctx context.Context, bookingID uuid.UUID) (entities.Booking, error) {
	logger := log.FromContext(ctx).WithField("booking_id", bookingID)

	released := 0
	booking, err := m.repo.Delete(ctx, bookingID, func(booking entities.Booking, event *entities.Event) error {
		if event == nil {
			logger.WithField("event_id", booking.EventID).Warn("Event of cancelled booking no longer exists, seats not restored")
			return nil
		}

		released = event.ReleaseSeats(booking.NumberOfTickets)
		if released < booking.NumberOfTickets {
			logger.WithFields(logrus.Fields{
				"released":          released,
				"number_of_tickets": booking.NumberOfTickets,
			}).Warn("Event capacity is lower than before, not all seats restored")
		}

		return nil
	})
	if err != nil {
		return entities.Booking{}, err
	}

	ticketsReleased.Add(float64(released))
	logger.WithFields(logrus.Fields{
		"event_id":       booking.EventID,
		"seats_released": released,
	}).Info("Booking cancelled")

	return booking, nil
}

func (m BookingManager) GetByReference(ctx context.Context, reference string) (entities.Booking, error) {
	return m.repo.ByReference(ctx, strings.TrimSpace(reference))
}

func (m BookingManager) ListForUser(ctx context.Context, userName string) ([]entities.Booking, error) {
	return m.repo.ListForUser(ctx, strings.TrimSpace(userName))
}
