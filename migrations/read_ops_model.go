package migrations

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/djgowrishankar/TicketReservationAPI/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"
)

type DataLake interface {
	GetAll(ctx context.Context) ([]entities.DataLakeEvent, error)
}

type OpsBookingReadModel interface {
	OnBookingMade(ctx context.Context, event *entities.BookingMade_v1) error
	OnBookingCancelled(ctx context.Context, event *entities.BookingCancelled_v1) error
}

// RebuildOpsBookingReadModel replays every event from the data lake, oldest first, into rm.
// Replaying is idempotent, so it is safe to run against an already populated read model.
func RebuildOpsBookingReadModel(ctx context.Context, dl DataLake, rm OpsBookingReadModel) error {
	logger := log.FromContext(ctx)
	logger.Info("Rebuilding ops booking read model")

	events, err := dl.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("could not get events from data lake: %w", err)
	}

	logger.WithField("events_count", len(events)).Info("Has events to migrate")

	for _, event := range events {
		start := time.Now()

		logger := logger.WithFields(logrus.Fields{
			"event_name": event.EventName,
			"event_id":   event.EventID,
		})

		if err := migrateEvent(ctx, event, rm); err != nil {
			return fmt.Errorf("could not migrate event %s (%s): %w", event.EventID, event.EventName, err)
		}

		logger.WithField("duration", time.Since(start)).Debug("Event migrated")
	}

	return nil
}

func migrateEvent(ctx context.Context, event entities.DataLakeEvent, rm OpsBookingReadModel) error {
	switch event.EventName {
	case "BookingMade_v1":
		bookingMade, err := unmarshalDataLakeEvent[entities.BookingMade_v1](event)
		if err != nil {
			return err
		}

		return rm.OnBookingMade(ctx, bookingMade)
	case "BookingCancelled_v1":
		bookingCancelled, err := unmarshalDataLakeEvent[entities.BookingCancelled_v1](event)
		if err != nil {
			return err
		}

		return rm.OnBookingCancelled(ctx, bookingCancelled)
	default:
		return fmt.Errorf("unknown event %s", event.EventName)
	}
}

func unmarshalDataLakeEvent[T any](event entities.DataLakeEvent) (*T, error) {
	eventInstance := new(T)

	err := json.Unmarshal(event.EventPayload, eventInstance)
	if err != nil {
		return nil, fmt.Errorf("could not unmarshal event %s: %w", event.EventName, err)
	}

	return eventInstance, nil
}
