package message

import (
	"time"

	observability "github.com/djgowrishankar/TicketReservationAPI/trace"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/lithammer/shortuuid/v3"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const PoisonQueueTopic = "PoisonQueue"

func useMiddlewares(router *message.Router, poisonQueuePublisher message.Publisher, watermillLogger watermill.LoggerAdapter) {
	poisonQueue, err := middleware.PoisonQueue(poisonQueuePublisher, PoisonQueueTopic)
	if err != nil {
		panic(err)
	}
	router.AddMiddleware(poisonQueue)

	router.AddMiddleware(middleware.Recoverer)

	router.AddMiddleware(middleware.Retry{
		MaxRetries:      10,
		InitialInterval: time.Millisecond * 100,
		MaxInterval:     time.Second,
		Multiplier:      2,
		Logger:          watermillLogger,
	}.Middleware)

	router.AddMiddleware(newCircuitBreaker(gobreaker.Settings{
		Name:    "svc-tickets-handlers",
		Timeout: time.Second * 5,
	}).Middleware)

	router.AddMiddleware(middleware.NewThrottle(100, time.Second).Middleware)

	router.AddMiddleware(func(h message.HandlerFunc) message.HandlerFunc {
		return func(msg *message.Message) (events []*message.Message, err error) {
			ctx := msg.Context()

			reqCorrelationID := msg.Metadata.Get("correlation_id")
			if reqCorrelationID == "" {
				reqCorrelationID = shortuuid.New()
			}

			ctx = log.ToContext(ctx, logrus.WithFields(logrus.Fields{"correlation_id": reqCorrelationID}))
			ctx = log.ContextWithCorrelationID(ctx, reqCorrelationID)

			msg.SetContext(ctx)

			return h(msg)
		}
	})

	router.AddMiddleware(observability.TracingMiddleware)

	router.AddMiddleware(func(next message.HandlerFunc) message.HandlerFunc {
		return func(msg *message.Message) ([]*message.Message, error) {
			logger := log.FromContext(msg.Context()).WithFields(logrus.Fields{
				"message_id": msg.UUID,
				"handler":    message.HandlerNameFromCtx(msg.Context()),
				"payload":    string(msg.Payload),
			})

			logger.Info("Handling a message")

			msgs, err := next(msg)
			if err != nil {
				logger.WithError(err).Error("Error while handling a message")
			}

			return msgs, err
		}
	})
}

// circuitBreaker stops calling a handler that keeps failing, until the breaker half-opens again.
type circuitBreaker struct {
	cb *gobreaker.CircuitBreaker
}

func newCircuitBreaker(settings gobreaker.Settings) circuitBreaker {
	return circuitBreaker{cb: gobreaker.NewCircuitBreaker(settings)}
}

func (c circuitBreaker) Middleware(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		out, err := c.cb.Execute(func() (interface{}, error) {
			return h(msg)
		})
		if err != nil {
			return nil, err
		}

		msgs, _ := out.([]*message.Message)
		return msgs, nil
	}
}
