package message

import (
	"github.com/djgowrishankar/TicketReservationAPI/message/event"
	"github.com/djgowrishankar/TicketReservationAPI/message/outbox"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
)

func NewWatermillRouter(
	pgSubscriber message.Subscriber,
	publisher message.Publisher,
	eventProcessorConfig cqrs.EventProcessorConfig,
	eventHandler event.Handler,
	watermillLogger watermill.LoggerAdapter,
) *message.Router {
	router, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		panic(err)
	}

	useMiddlewares(router, publisher, watermillLogger)

	if pgSubscriber != nil {
		_, err = outbox.NewForwarder(pgSubscriber, publisher, watermillLogger, router)
		if err != nil {
			panic(err)
		}
	}

	eventProcessor, err := cqrs.NewEventProcessorWithConfig(router, eventProcessorConfig)
	if err != nil {
		panic(err)
	}

	err = eventProcessor.AddHandlers(
		cqrs.NewEventHandler(
			"StoreBookingMadeInDataLake",
			eventHandler.StoreBookingMadeInDataLake,
		),
		cqrs.NewEventHandler(
			"StoreBookingCancelledInDataLake",
			eventHandler.StoreBookingCancelledInDataLake,
		),
		cqrs.NewEventHandler(
			"OpsReadModel.OnBookingMade",
			eventHandler.UpdateOpsReadModelOnBookingMade,
		),
		cqrs.NewEventHandler(
			"OpsReadModel.OnBookingCancelled",
			eventHandler.UpdateOpsReadModelOnBookingCancelled,
		),
	)
	if err != nil {
		panic(err)
	}

	return router
}
