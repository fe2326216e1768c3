package entities

import (
	"errors"
	"fmt"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrEventHasBookings = errors.New("event has active bookings")

	ErrInvalidEvent   = errors.New("invalid event")
	ErrInvalidBooking = errors.New("invalid booking")

	// ErrBookingRejected is returned when the event can't take the booking at all.
	ErrBookingRejected = errors.New("booking rejected")
	// ErrNotEnoughSeats is a more specific ErrBookingRejected.
	ErrNotEnoughSeats = fmt.Errorf("%w: not enough seats available", ErrBookingRejected)
)
