package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/djgowrishankar/TicketReservationAPI/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type OpsBookingReadModel struct {
	conn *DB
}

func NewOpsBookingReadModel(db *DB) OpsBookingReadModel {
	if db == nil {
		panic("db is nil")
	}
	return OpsBookingReadModel{
		conn: db,
	}
}

func (r OpsBookingReadModel) OnBookingMade(ctx context.Context, bookingMade *entities.BookingMade_v1) error {
	// this is the first event for a booking, so it creates the read model
	err := r.createReadModel(ctx, entities.OpsBooking{
		BookingID:        bookingMade.BookingID,
		BookingReference: bookingMade.BookingReference,
		EventID:          bookingMade.EventID,
		EventName:        bookingMade.EventName,
		EventDate:        bookingMade.EventDate,
		UserName:         bookingMade.UserName,
		NumberOfTickets:  bookingMade.NumberOfTickets,
		Status:           entities.OpsBookingStatusBooked,
		BookedAt:         bookingMade.Header.PublishedAt,
		LastUpdate:       time.Now(),
	})
	if err != nil {
		return fmt.Errorf("could not create read model: %w", err)
	}

	return nil
}

func (r OpsBookingReadModel) OnBookingCancelled(ctx context.Context, cancelled *entities.BookingCancelled_v1) error {
	return r.updateBookingReadModel(
		ctx,
		cancelled.BookingID,
		func(rm entities.OpsBooking) (entities.OpsBooking, error) {
			if rm.Status == entities.OpsBookingStatusCancelled {
				log.FromContext(ctx).WithField("booking_id", rm.BookingID).Debug("Booking already cancelled in read model")
				return rm, nil
			}

			cancelledAt := cancelled.Header.PublishedAt
			rm.Status = entities.OpsBookingStatusCancelled
			rm.CancelledAt = &cancelledAt

			return rm, nil
		},
	)
}

func (r OpsBookingReadModel) GetAll(ctx context.Context, eventID *uuid.UUID) ([]entities.OpsBooking, error) {
	query := "SELECT payload FROM read_model_ops_bookings"
	var args []any
	if eventID != nil {
		query += " WHERE payload->>'event_id' = $1"
		args = append(args, eventID.String())
	}
	query += " ORDER BY (payload->>'booked_at')::timestamptz ASC"

	rows, err := r.conn.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not get read models: %w", err)
	}
	defer rows.Close()

	result := []entities.OpsBooking{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("could not scan read model: %w", err)
		}

		rm, err := r.unmarshalReadModelFromDB(payload)
		if err != nil {
			return nil, err
		}
		result = append(result, rm)
	}

	return result, rows.Err()
}

func (r OpsBookingReadModel) GetByID(ctx context.Context, bookingID uuid.UUID) (entities.OpsBooking, error) {
	rm, err := r.findModelByBookingID(ctx, bookingID, r.conn.Conn)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.OpsBooking{}, fmt.Errorf("%w: %s", entities.ErrBookingNotFound, bookingID)
	}
	if err != nil {
		return entities.OpsBooking{}, fmt.Errorf("could not get read model %s: %w", bookingID, err)
	}

	return rm, nil
}

func (r OpsBookingReadModel) createReadModel(ctx context.Context, opsBooking entities.OpsBooking) error {
	payload, err := json.Marshal(opsBooking)
	if err != nil {
		return err
	}

	_, err = r.conn.Conn.ExecContext(ctx, `
		INSERT INTO
			read_model_ops_bookings (payload, booking_id)
		VALUES
			($1, $2)
		ON CONFLICT (booking_id) DO NOTHING; -- read model may be already updated by another event, we don't want to override
	`, payload, opsBooking.BookingID)
	if err != nil {
		return fmt.Errorf("could not create read model: %w", err)
	}

	return nil
}

func (r OpsBookingReadModel) updateBookingReadModel(
	ctx context.Context,
	bookingID uuid.UUID,
	updateFunc func(rm entities.OpsBooking) (entities.OpsBooking, error),
) error {
	return updateInTx(
		ctx,
		r.conn.Conn,
		sql.LevelRepeatableRead,
		func(ctx context.Context, tx *sqlx.Tx) error {
			rm, err := r.findModelByBookingID(ctx, bookingID, tx)
			if errors.Is(err, sql.ErrNoRows) {
				// events arrived out of order, it should spin until the read model is created
				return fmt.Errorf("read model for booking %s not exist yet", bookingID)
			} else if err != nil {
				return fmt.Errorf("could not find read model: %w", err)
			}

			updatedRm, err := updateFunc(rm)
			if err != nil {
				return err
			}

			return r.updateModel(ctx, tx, updatedRm)
		},
	)
}

func (r OpsBookingReadModel) updateModel(ctx context.Context, tx *sqlx.Tx, readModel entities.OpsBooking) error {
	readModel.LastUpdate = time.Now()

	payload, err := json.Marshal(readModel)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO
			read_model_ops_bookings (payload, booking_id)
		VALUES
			($1, $2)
		ON CONFLICT (booking_id) DO UPDATE SET payload = excluded.payload;
	`, payload, readModel.BookingID)
	if err != nil {
		return fmt.Errorf("could not update read model: %w", err)
	}

	return nil
}

type rowQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r OpsBookingReadModel) findModelByBookingID(ctx context.Context, bookingID uuid.UUID, q rowQueryer) (entities.OpsBooking, error) {
	var payload []byte

	err := q.QueryRowContext(
		ctx,
		"SELECT payload FROM read_model_ops_bookings WHERE booking_id = $1",
		bookingID,
	).Scan(&payload)
	if err != nil {
		return entities.OpsBooking{}, err
	}

	return r.unmarshalReadModelFromDB(payload)
}

func (r OpsBookingReadModel) unmarshalReadModelFromDB(payload []byte) (entities.OpsBooking, error) {
	var opsReadModel entities.OpsBooking

	err := json.Unmarshal(payload, &opsReadModel)
	if err != nil {
		return entities.OpsBooking{}, fmt.Errorf("could not unmarshal read model: %w", err)
	}

	return opsReadModel, nil
}
