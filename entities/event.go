package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	EventID        uuid.UUID `json:"event_id" db:"event_id"`
	Name           string    `json:"name" db:"name"`
	Date           time.Time `json:"date" db:"date"`
	Venue          string    `json:"venue" db:"venue"`
	TotalSeats     int       `json:"total_seats" db:"total_seats"`
	AvailableSeats int       `json:"available_seats" db:"available_seats"`
}

// EventRequest is the body of add and edit calls. AvailableSeats defaults to TotalSeats.
type EventRequest struct {
	Name           string    `json:"name"`
	Date           time.Time `json:"date"`
	Venue          string    `json:"venue"`
	TotalSeats     int       `json:"total_seats"`
	AvailableSeats *int      `json:"available_seats"`
}

func (r EventRequest) ToEvent() Event {
	available := r.TotalSeats
	if r.AvailableSeats != nil {
		available = *r.AvailableSeats
	}

	return Event{
		Name:           strings.TrimSpace(r.Name),
		Date:           r.Date,
		Venue:          strings.TrimSpace(r.Venue),
		TotalSeats:     r.TotalSeats,
		AvailableSeats: available,
	}
}

// ApplyTo overwrites the mutable fields of current. Seats already taken stay taken: without
// AvailableSeats the pool becomes TotalSeats minus the taken seats, and neither field may
// put taken seats back on sale.
func (r EventRequest) ApplyTo(current Event) (Event, error) {
	taken := current.TotalSeats - current.AvailableSeats

	updated := r.ToEvent()
	updated.EventID = current.EventID
	if r.AvailableSeats == nil {
		updated.AvailableSeats = updated.TotalSeats - taken
	}

	if updated.TotalSeats < taken {
		return Event{}, fmt.Errorf(
			"%w: total seats %d is below the %d seats already taken",
			ErrInvalidEvent, updated.TotalSeats, taken,
		)
	}
	if err := updated.Validate(); err != nil {
		return Event{}, err
	}
	if updated.AvailableSeats > updated.TotalSeats-taken {
		return Event{}, fmt.Errorf(
			"%w: available seats must be at most %d, %d seats are already taken",
			ErrInvalidEvent, updated.TotalSeats-taken, taken,
		)
	}

	return updated, nil
}

func (e Event) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidEvent)
	}
	if e.TotalSeats < 0 {
		return fmt.Errorf("%w: total seats must not be negative", ErrInvalidEvent)
	}
	if e.AvailableSeats < 0 || e.AvailableSeats > e.TotalSeats {
		return fmt.Errorf(
			"%w: available seats must be between 0 and %d, got %d",
			ErrInvalidEvent, e.TotalSeats, e.AvailableSeats,
		)
	}

	return nil
}

// ReserveSeats takes n seats from the available pool.
func (e *Event) ReserveSeats(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: number of tickets must be greater than 0", ErrInvalidBooking)
	}
	if e.AvailableSeats < n {
		return ErrNotEnoughSeats
	}

	e.AvailableSeats -= n

	return nil
}

// ReleaseSeats gives n seats back and returns how many were actually released.
// The pool never grows past TotalSeats, which may happen after an edit shrank the event.
func (e *Event) ReleaseSeats(n int) int {
	if n <= 0 {
		return 0
	}

	released := min(n, e.TotalSeats-e.AvailableSeats)
	if released < 0 {
		released = 0
	}
	e.AvailableSeats += released

	return released
}
