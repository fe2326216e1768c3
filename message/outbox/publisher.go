package outbox

import (
	"context"
	"fmt"

	observability "github.com/djgowrishankar/TicketReservationAPI/trace"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	watermillSQL "github.com/ThreeDotsLabs/watermill-sql/v2/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jmoiron/sqlx"
)

// topic is the Postgres table-backed topic every outgoing message is enveloped into.
const topic = "events_to_forward"

// NewPublisherForDb returns a publisher bound to tx, so messages are stored only if tx commits.
func NewPublisherForDb(ctx context.Context, tx *sqlx.Tx) (message.Publisher, error) {
	var publisher message.Publisher

	logger := log.NewWatermill(log.FromContext(ctx))

	publisher, err := watermillSQL.NewPublisher(
		tx,
		watermillSQL.PublisherConfig{
			SchemaAdapter: watermillSQL.DefaultPostgreSQLSchema{},
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create outbox publisher: %w", err)
	}

	// tracing the enveloped message shows the forwarding step in the trace
	publisher = observability.TracingPublisherDecorator{Publisher: publisher}

	publisher = forwarder.NewPublisher(publisher, forwarder.PublisherConfig{
		ForwarderTopic: topic,
	})
	publisher = log.CorrelationPublisherDecorator{Publisher: publisher}
	publisher = observability.TracingPublisherDecorator{Publisher: publisher}

	return publisher, nil
}
