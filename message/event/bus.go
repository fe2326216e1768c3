package event

import (
	"fmt"

	"github.com/djgowrishankar/TicketReservationAPI/entities"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
)

func NewBus(pub message.Publisher) *cqrs.EventBus {
	eventBus, err := cqrs.NewEventBusWithConfig(
		pub,
		cqrs.EventBusConfig{
			GeneratePublishTopic: func(params cqrs.GenerateEventPublishTopicParams) (string, error) {
				event, ok := params.Event.(entities.IEvent)
				if !ok {
					return "", fmt.Errorf("invalid event type: %T doesn't implement entities.IEvent", params.Event)
				}

				return topicForEvent(event, params.EventName), nil
			},
			Marshaler: marshaler,
		},
	)
	if err != nil {
		panic(err)
	}

	return eventBus
}

func topicForEvent(event entities.IEvent, eventName string) string {
	if event.IsInternal() {
		return "internal-events.svc-tickets." + eventName
	}

	return "events." + eventName
}
