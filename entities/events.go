package entities

import (
	"time"

	"github.com/google/uuid"
)

type IEvent interface {
	IsInternal() bool
	GetHeader() EventHeader
}

type EventHeader struct {
	ID             string    `json:"id"`
	PublishedAt    time.Time `json:"published_at"`
	IdempotencyKey string    `json:"idempotency_key"`
}

func NewEventHeader() EventHeader {
	return EventHeader{
		ID:             uuid.NewString(),
		PublishedAt:    time.Now().UTC(),
		IdempotencyKey: uuid.NewString(),
	}
}

type BookingMade_v1 struct {
	Header EventHeader `json:"header"`

	BookingID        uuid.UUID `json:"booking_id"`
	BookingReference string    `json:"booking_reference"`
	NumberOfTickets  int       `json:"number_of_tickets"`
	UserName         string    `json:"user_name"`

	EventID   uuid.UUID `json:"event_id"`
	EventName string    `json:"event_name"`
	EventDate time.Time `json:"event_date"`
}

func (e BookingMade_v1) IsInternal() bool       { return false }
func (e BookingMade_v1) GetHeader() EventHeader { return e.Header }

type BookingCancelled_v1 struct {
	Header EventHeader `json:"header"`

	BookingID       uuid.UUID `json:"booking_id"`
	EventID         uuid.UUID `json:"event_id"`
	NumberOfTickets int       `json:"number_of_tickets"`
	// SeatsReleased is lower than NumberOfTickets when the event was gone or had shrunk.
	SeatsReleased int `json:"seats_released"`
}

func (e BookingCancelled_v1) IsInternal() bool       { return false }
func (e BookingCancelled_v1) GetHeader() EventHeader { return e.Header }

// DataLakeEvent is a raw domain event as stored in the data lake.
type DataLakeEvent struct {
	EventID      string    `db:"event_id"`
	PublishedAt  time.Time `db:"published_at"`
	EventName    string    `db:"event_name"`
	EventPayload []byte    `db:"event_payload"`
}

const (
	OpsBookingStatusBooked    = "booked"
	OpsBookingStatusCancelled = "cancelled"
)

type OpsBooking struct {
	BookingID        uuid.UUID `json:"booking_id"`
	BookingReference string    `json:"booking_reference"`
	EventID          uuid.UUID `json:"event_id"`
	EventName        string    `json:"event_name"`
	EventDate        time.Time `json:"event_date"`
	UserName         string    `json:"user_name"`
	NumberOfTickets  int       `json:"number_of_tickets"`

	// Status is OpsBookingStatusBooked or OpsBookingStatusCancelled.
	Status string `json:"status"`

	BookedAt    time.Time  `json:"booked_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	LastUpdate time.Time `json:"last_update"`
}
