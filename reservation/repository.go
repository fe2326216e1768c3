package reservation

import (
	"context"

	"github.com/djgowrishankar/TicketReservationAPI/entities"

	"github.com/google/uuid"
)

type EventRepository interface {
	List(ctx context.Context) ([]entities.Event, error)
	ByID(ctx context.Context, eventID uuid.UUID) (entities.Event, error)
	Add(ctx context.Context, event entities.Event) (entities.Event, error)
	Update(
		ctx context.Context,
		eventID uuid.UUID,
		updateFn func(event entities.Event) (entities.Event, error),
	) (entities.Event, error)
	Delete(ctx context.Context, eventID uuid.UUID) error
}

type BookingRepository interface {
	Create(
		ctx context.Context,
		eventID uuid.UUID,
		createFn func(event *entities.Event) (entities.Booking, error),
	) (entities.Booking, error)
	Delete(
		ctx context.Context,
		bookingID uuid.UUID,
		cancelFn func(booking entities.Booking, event *entities.Event) error,
	) (entities.Booking, error)
	ByReference(ctx context.Context, reference string) (entities.Booking, error)
	ListForUser(ctx context.Context, userName string) ([]entities.Booking, error)
}
