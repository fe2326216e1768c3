package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/djgowrishankar/TicketReservationAPI/entities"
	"github.com/djgowrishankar/TicketReservationAPI/message/event"
	"github.com/djgowrishankar/TicketReservationAPI/message/outbox"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const selectBookings = `
	SELECT
		b.booking_id,
		b.event_id,
		coalesce(e.name, '') AS event_name,
		b.user_name,
		b.number_of_tickets,
		b.booking_reference,
		b.booking_date,
		b.created_at
	FROM
		bookings b
	LEFT JOIN
		events e ON e.event_id = b.event_id
`

type BookingRepository struct {
	db *DB
}

func NewBookingRepository(db *DB) BookingRepository {
	if db == nil {
		panic("db is nil")
	}
	return BookingRepository{
		db: db,
	}
}

// Create locks the event row, lets createFn reserve seats on it and build the booking,
// then stores both and emits BookingMade_v1 through the outbox in the same transaction.
func (br BookingRepository) Create(
	ctx context.Context,
	eventID uuid.UUID,
	createFn func(event *entities.Event) (entities.Booking, error),
) (booking entities.Booking, err error) {
	err = updateInTx(
		ctx,
		br.db.Conn,
		sql.LevelReadCommitted,
		func(ctx context.Context, tx *sqlx.Tx) error {
			ev, err := eventByID(ctx, tx, eventID, true)
			if err != nil {
				return err
			}

			booking, err = createFn(&ev)
			if err != nil {
				return err
			}

			if err := saveEvent(ctx, tx, ev); err != nil {
				return err
			}

			_, err = tx.NamedExecContext(ctx, `
				INSERT INTO
					bookings (booking_id, event_id, user_name, number_of_tickets, booking_reference, booking_date, created_at)
				VALUES
					(:booking_id, :event_id, :user_name, :number_of_tickets, :booking_reference, :booking_date, :created_at)
			`, booking)
			if isErrorUniqueViolation(err) {
				return fmt.Errorf("booking %s or reference %s already exists: %w", booking.BookingID, booking.BookingReference, err)
			}
			if err != nil {
				return fmt.Errorf("could not add booking: %w", err)
			}

			return publishInTx(ctx, tx, entities.BookingMade_v1{
				Header:           entities.NewEventHeader(),
				BookingID:        booking.BookingID,
				BookingReference: booking.BookingReference,
				NumberOfTickets:  booking.NumberOfTickets,
				UserName:         booking.UserName,
				EventID:          ev.EventID,
				EventName:        ev.Name,
				EventDate:        ev.Date,
			})
		},
	)
	if err != nil {
		return entities.Booking{}, err
	}

	return booking, nil
}

// Delete removes the booking. cancelFn receives the linked event, or nil when it no longer exists.
func (br BookingRepository) Delete(
	ctx context.Context,
	bookingID uuid.UUID,
	cancelFn func(booking entities.Booking, event *entities.Event) error,
) (booking entities.Booking, err error) {
	err = updateInTx(
		ctx,
		br.db.Conn,
		sql.LevelReadCommitted,
		func(ctx context.Context, tx *sqlx.Tx) error {
			err := tx.GetContext(ctx, &booking, selectBookings+` WHERE b.booking_id = $1 FOR UPDATE OF b`, bookingID)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: %s", entities.ErrBookingNotFound, bookingID)
			}
			if err != nil {
				return fmt.Errorf("could not get booking %s: %w", bookingID, err)
			}

			var linked *entities.Event
			ev, err := eventByID(ctx, tx, booking.EventID, true)
			switch {
			case err == nil:
				linked = &ev
			case errors.Is(err, entities.ErrEventNotFound):
			default:
				return err
			}

			availableBefore := ev.AvailableSeats
			if err := cancelFn(booking, linked); err != nil {
				return err
			}

			seatsReleased := 0
			if linked != nil {
				seatsReleased = linked.AvailableSeats - availableBefore
				if err := saveEvent(ctx, tx, *linked); err != nil {
					return err
				}
			}

			_, err = tx.ExecContext(ctx, `DELETE FROM bookings WHERE booking_id = $1`, bookingID)
			if err != nil {
				return fmt.Errorf("could not delete booking %s: %w", bookingID, err)
			}

			return publishInTx(ctx, tx, entities.BookingCancelled_v1{
				Header:          entities.NewEventHeader(),
				BookingID:       booking.BookingID,
				EventID:         booking.EventID,
				NumberOfTickets: booking.NumberOfTickets,
				SeatsReleased:   seatsReleased,
			})
		},
	)
	if err != nil {
		return entities.Booking{}, err
	}

	return booking, nil
}

func (br BookingRepository) ByReference(ctx context.Context, reference string) (entities.Booking, error) {
	var booking entities.Booking
	err := br.db.Conn.GetContext(ctx, &booking, selectBookings+` WHERE b.booking_reference = $1`, reference)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Booking{}, fmt.Errorf("%w: reference %s", entities.ErrBookingNotFound, reference)
	}
	if err != nil {
		return entities.Booking{}, fmt.Errorf("could not get booking by reference %s: %w", reference, err)
	}

	return booking, nil
}

// ListForUser matches user names case-insensitively.
func (br BookingRepository) ListForUser(ctx context.Context, userName string) ([]entities.Booking, error) {
	bookings := []entities.Booking{}
	err := br.db.Conn.SelectContext(
		ctx,
		&bookings,
		selectBookings+` WHERE lower(b.user_name) = lower($1) ORDER BY b.created_at DESC`,
		userName,
	)
	if err != nil {
		return nil, fmt.Errorf("could not list bookings of %s: %w", userName, err)
	}

	return bookings, nil
}

func publishInTx(ctx context.Context, tx *sqlx.Tx, e entities.IEvent) error {
	outboxPublisher, err := outbox.NewPublisherForDb(ctx, tx)
	if err != nil {
		return fmt.Errorf("could not create outbox publisher: %w", err)
	}

	err = event.NewBus(outboxPublisher).Publish(ctx, e)
	if err != nil {
		return fmt.Errorf("could not publish event: %w", err)
	}

	return nil
}
