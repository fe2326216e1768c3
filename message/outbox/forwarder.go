package outbox

import (
	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

var messagesForwarded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "tickets",
	Subsystem: "outbox",
	Name:      "messages_forwarded_total",
	Help:      "Messages moved from the Postgres outbox to the message broker.",
})

// NewForwarder moves messages stored by NewPublisherForDb from Postgres to redisPub.
// It registers its handler on router, so it runs together with the event processors.
func NewForwarder(
	pgSubscriber message.Subscriber,
	redisPub message.Publisher,
	logger watermill.LoggerAdapter,
	router *message.Router,
) (*forwarder.Forwarder, error) {
	fwd, err := forwarder.NewForwarder(pgSubscriber, redisPub, logger,
		forwarder.Config{
			ForwarderTopic: topic,
			Router:         router,
			Middlewares: []message.HandlerMiddleware{
				func(h message.HandlerFunc) message.HandlerFunc {
					return func(msg *message.Message) ([]*message.Message, error) {
						log.FromContext(msg.Context()).WithFields(logrus.Fields{
							"message_id": msg.UUID,
							"metadata":   msg.Metadata,
						}).Info("Forwarding message")

						msgs, err := h(msg)
						if err == nil {
							messagesForwarded.Inc()
						}

						return msgs, err
					}
				},
			},
		})
	if err != nil {
		return nil, err
	}

	return fwd, nil
}
