package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v3"
)

type Booking struct {
	BookingID        uuid.UUID `json:"booking_id" db:"booking_id"`
	EventID          uuid.UUID `json:"event_id" db:"event_id"`
	EventName        string    `json:"event_name" db:"event_name"`
	UserName         string    `json:"user_name" db:"user_name"`
	NumberOfTickets  int       `json:"number_of_tickets" db:"number_of_tickets"`
	BookingReference string    `json:"booking_reference" db:"booking_reference"`
	BookingDate      time.Time `json:"booking_date" db:"booking_date"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

type BookTicketsRequest struct {
	EventID         uuid.UUID `json:"event_id"`
	UserName        string    `json:"user_name"`
	NumberOfTickets int       `json:"number_of_tickets"`
}

func (r BookTicketsRequest) Validate() error {
	if strings.TrimSpace(r.UserName) == "" {
		return fmt.Errorf("%w: user name is required", ErrInvalidBooking)
	}
	if r.NumberOfTickets < 1 {
		return fmt.Errorf("%w: number of tickets must be greater than 0", ErrInvalidBooking)
	}

	return nil
}

// NewBooking builds the booking for an event whose seats were already reserved.
func NewBooking(event Event, userName string, numberOfTickets int) Booking {
	return Booking{
		BookingID:        uuid.New(),
		EventID:          event.EventID,
		EventName:        event.Name,
		UserName:         strings.TrimSpace(userName),
		NumberOfTickets:  numberOfTickets,
		BookingReference: NewBookingReference(),
		BookingDate:      event.Date,
		CreatedAt:        time.Now().UTC(),
	}
}

func NewBookingReference() string {
	return shortuuid.New()
}
