package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/djgowrishankar/TicketReservationAPI/entities"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type EventRepository struct {
	db *DB
}

func NewEventRepository(db *DB) EventRepository {
	if db == nil {
		panic("db is nil")
	}
	return EventRepository{
		db: db,
	}
}

func (r EventRepository) List(ctx context.Context) ([]entities.Event, error) {
	events := []entities.Event{}
	err := r.db.Conn.SelectContext(ctx, &events, `
		SELECT
			event_id, name, date, venue, total_seats, available_seats
		FROM
			events
		ORDER BY
			date, name
	`)
	if err != nil {
		return nil, fmt.Errorf("could not list events: %w", err)
	}

	return events, nil
}

func (r EventRepository) ByID(ctx context.Context, eventID uuid.UUID) (entities.Event, error) {
	return eventByID(ctx, r.db.Conn, eventID, false)
}

func (r EventRepository) Add(ctx context.Context, event entities.Event) (entities.Event, error) {
	err := r.db.Conn.QueryRowContext(
		ctx,
		`
		INSERT INTO events (name, date, venue, total_seats, available_seats)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING event_id`,
		event.Name, event.Date, event.Venue, event.TotalSeats, event.AvailableSeats,
	).Scan(&event.EventID)
	if err != nil {
		return entities.Event{}, fmt.Errorf("could not save event: %w", err)
	}

	return event, nil
}

func (r EventRepository) Update(
	ctx context.Context,
	eventID uuid.UUID,
	updateFn func(event entities.Event) (entities.Event, error),
) (updated entities.Event, err error) {
	err = updateInTx(
		ctx,
		r.db.Conn,
		sql.LevelReadCommitted,
		func(ctx context.Context, tx *sqlx.Tx) error {
			current, err := eventByID(ctx, tx, eventID, true)
			if err != nil {
				return err
			}

			updated, err = updateFn(current)
			if err != nil {
				return err
			}
			updated.EventID = current.EventID

			return saveEvent(ctx, tx, updated)
		},
	)

	return updated, err
}

func (r EventRepository) Delete(ctx context.Context, eventID uuid.UUID) error {
	return updateInTx(
		ctx,
		r.db.Conn,
		sql.LevelReadCommitted,
		func(ctx context.Context, tx *sqlx.Tx) error {
			if _, err := eventByID(ctx, tx, eventID, true); err != nil {
				return err
			}

			var bookings int
			err := tx.GetContext(ctx, &bookings, `SELECT count(*) FROM bookings WHERE event_id = $1`, eventID)
			if err != nil {
				return fmt.Errorf("could not count bookings of event %s: %w", eventID, err)
			}
			if bookings > 0 {
				return fmt.Errorf("%w: %d booking(s) for event %s", entities.ErrEventHasBookings, bookings, eventID)
			}

			_, err = tx.ExecContext(ctx, `DELETE FROM events WHERE event_id = $1`, eventID)
			if isErrorForeignKeyViolation(err) {
				return fmt.Errorf("%w: event %s", entities.ErrEventHasBookings, eventID)
			}
			if err != nil {
				return fmt.Errorf("could not delete event %s: %w", eventID, err)
			}

			return nil
		},
	)
}

type queryer interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

func eventByID(ctx context.Context, q queryer, eventID uuid.UUID, forUpdate bool) (entities.Event, error) {
	query := `
		SELECT
			event_id, name, date, venue, total_seats, available_seats
		FROM
			events
		WHERE
			event_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var event entities.Event
	err := q.GetContext(ctx, &event, query, eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Event{}, fmt.Errorf("%w: %s", entities.ErrEventNotFound, eventID)
	}
	if err != nil {
		return entities.Event{}, fmt.Errorf("could not get event %s: %w", eventID, err)
	}

	return event, nil
}

func saveEvent(ctx context.Context, tx *sqlx.Tx, event entities.Event) error {
	_, err := tx.NamedExecContext(ctx, `
		UPDATE
			events
		SET
			name = :name,
			date = :date,
			venue = :venue,
			total_seats = :total_seats,
			available_seats = :available_seats
		WHERE
			event_id = :event_id
	`, event)
	if err != nil {
		return fmt.Errorf("could not save event %s: %w", event.EventID, err)
	}

	return nil
}
