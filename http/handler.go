package http

import (
	"context"

	"github.com/djgowrishankar/TicketReservationAPI/entities"

	"github.com/google/uuid"
)

type Handler struct {
	events         EventService
	bookings       BookingService
	opsBookingRepo OpsBookingRepository
}

type EventService interface {
	List(ctx context.Context) ([]entities.Event, error)
	GetByID(ctx context.Context, eventID uuid.UUID) (entities.Event, error)
	Add(ctx context.Context, event entities.Event) (entities.Event, error)
	Edit(ctx context.Context, eventID uuid.UUID, req entities.EventRequest) (entities.Event, error)
	Delete(ctx context.Context, eventID uuid.UUID) error
}

type BookingService interface {
	Book(ctx context.Context, req entities.BookTicketsRequest) (entities.Booking, error)
	Cancel(ctx context.Context, bookingID uuid.UUID) (entities.Booking, error)
	GetByReference(ctx context.Context, reference string) (entities.Booking, error)
	ListForUser(ctx context.Context, userName string) ([]entities.Booking, error)
}

type OpsBookingRepository interface {
	GetAll(ctx context.Context, eventID *uuid.UUID) ([]entities.OpsBooking, error)
	GetByID(ctx context.Context, bookingID uuid.UUID) (entities.OpsBooking, error)
}

type messageResponse struct {
	Message string `json:"message"`
}
