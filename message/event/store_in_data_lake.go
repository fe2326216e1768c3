package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/djgowrishankar/TicketReservationAPI/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
)

func (h Handler) StoreBookingMadeInDataLake(ctx context.Context, event *entities.BookingMade_v1) error {
	return h.storeInDataLake(ctx, event)
}

func (h Handler) StoreBookingCancelledInDataLake(ctx context.Context, event *entities.BookingCancelled_v1) error {
	return h.storeInDataLake(ctx, event)
}

func (h Handler) storeInDataLake(ctx context.Context, event entities.IEvent) error {
	eventName := cqrs.StructName(event)

	log.FromContext(ctx).WithField("event_name", eventName).Info("Storing event in data lake")

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal %s: %w", eventName, err)
	}

	header := event.GetHeader()

	return h.dataLake.Store(ctx, entities.DataLakeEvent{
		EventID:      header.ID,
		PublishedAt:  header.PublishedAt,
		EventName:    eventName,
		EventPayload: payload,
	})
}
