package event

import (
	"context"

	"github.com/djgowrishankar/TicketReservationAPI/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
)

func (h Handler) UpdateOpsReadModelOnBookingMade(ctx context.Context, event *entities.BookingMade_v1) error {
	log.FromContext(ctx).WithField("booking_id", event.BookingID).Info("Adding booking to ops read model")

	return h.opsReadModel.OnBookingMade(ctx, event)
}

func (h Handler) UpdateOpsReadModelOnBookingCancelled(ctx context.Context, event *entities.BookingCancelled_v1) error {
	log.FromContext(ctx).WithField("booking_id", event.BookingID).Info("Marking booking cancelled in ops read model")

	return h.opsReadModel.OnBookingCancelled(ctx, event)
}
