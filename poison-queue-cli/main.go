package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	ticketsMessage "github.com/djgowrishankar/TicketReservationAPI/message"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var errDone = errors.New("done")

type Message struct {
	ID     string
	Topic  string
	Reason string
}

type Handler struct {
	subscriber message.Subscriber
	publisher  message.Publisher
	logger     watermill.LoggerAdapter
	topic      string
}

func NewHandler(redisAddr string) (*Handler, error) {
	logger := log.NewWatermill(logrus.NewEntry(logrus.StandardLogger()))
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})

	sub := ticketsMessage.NewRedisSubscriber(rdb, "poison-queue-cli", logger)

	pub, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{
			Client: rdb,
		},
		logger,
	)
	if err != nil {
		return nil, err
	}

	return &Handler{
		subscriber: sub,
		publisher:  pub,
		logger:     logger,
		topic:      ticketsMessage.PoisonQueueTopic,
	}, nil
}

type cycleFunc func(msg *message.Message) (consumed bool, stop bool, err error)

// cycler hands every poison queue message to fn once. Messages fn does not consume go back
// to the end of the queue, so seeing the first message again means the queue was walked.
type cycler struct {
	fn     cycleFunc
	cancel func()

	firstMessage string
	done         bool
}

func (c *cycler) handle(msg *message.Message) ([]*message.Message, error) {
	if c.done {
		c.cancel()
		return nil, errDone
	}

	if c.firstMessage == "" {
		c.firstMessage = msg.UUID
	} else if c.firstMessage == msg.UUID {
		c.done = true
		c.cancel()
		return nil, errDone
	}

	consumed, stop, err := c.fn(msg)
	if err != nil {
		return nil, err
	}
	if stop {
		c.done = true
	}
	if consumed {
		return nil, nil
	}

	return []*message.Message{msg}, nil
}

func (h *Handler) cycle(ctx context.Context, fn cycleFunc) error {
	router, err := message.NewRouter(message.RouterConfig{}, h.logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	c := &cycler{fn: fn, cancel: cancel}

	router.AddHandler(
		"poison-queue-cli",
		h.topic,
		h.subscriber,
		h.topic,
		h.publisher,
		c.handle,
	)

	err = router.Run(ctx)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

func (h *Handler) Preview(ctx context.Context) ([]Message, error) {
	var messages []Message

	if err := h.cycle(ctx, previewFn(&messages)); err != nil {
		return nil, err
	}

	return messages, nil
}

func (h *Handler) Remove(ctx context.Context, messageID string) error {
	found := false

	if err := h.cycle(ctx, removeFn(messageID, &found)); err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("message %s not found", messageID)
	}

	return nil
}

// Requeue sends the message back to the topic it was poisoned on.
func (h *Handler) Requeue(ctx context.Context, messageID string) error {
	found := false

	if err := h.cycle(ctx, requeueFn(h.publisher, messageID, &found)); err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("message %s not found", messageID)
	}

	return nil
}

func previewFn(messages *[]Message) cycleFunc {
	return func(msg *message.Message) (bool, bool, error) {
		*messages = append(*messages, Message{
			ID:     msg.UUID,
			Topic:  msg.Metadata.Get(middleware.PoisonedTopicKey),
			Reason: msg.Metadata.Get(middleware.ReasonForPoisonedKey),
		})
		return false, false, nil
	}
}

func removeFn(messageID string, found *bool) cycleFunc {
	return func(msg *message.Message) (bool, bool, error) {
		if msg.UUID != messageID {
			return false, false, nil
		}

		*found = true
		return true, true, nil
	}
}

func requeueFn(publisher message.Publisher, messageID string, found *bool) cycleFunc {
	return func(msg *message.Message) (bool, bool, error) {
		if msg.UUID != messageID {
			return false, false, nil
		}

		topic := msg.Metadata.Get(middleware.PoisonedTopicKey)
		if topic == "" {
			return false, true, fmt.Errorf("message %s has no %s metadata", messageID, middleware.PoisonedTopicKey)
		}

		if err := publisher.Publish(topic, msg.Copy()); err != nil {
			return false, true, err
		}

		*found = true
		return true, true, nil
	}
}

func main() {
	redisAddrFlag := &cli.StringFlag{
		Name:    "redis-addr",
		Usage:   "Redis address",
		EnvVars: []string{"REDIS_ADDR"},
		Value:   "localhost:6379",
	}

	app := &cli.App{
		Name:  "poison-queue-cli",
		Usage: "Manage the Poison Queue",
		Flags: []cli.Flag{redisAddrFlag},
		Commands: []*cli.Command{
			{
				Name:  "preview",
				Usage: "preview messages",
				Action: func(c *cli.Context) error {
					h, err := NewHandler(c.String(redisAddrFlag.Name))
					if err != nil {
						return err
					}

					messages, err := h.Preview(c.Context)
					if err != nil {
						return err
					}

					for _, m := range messages {
						fmt.Printf("%v\t%v\t%v\n", m.ID, m.Topic, m.Reason)
					}

					return nil
				},
			},
			{
				Name:      "remove",
				ArgsUsage: "<message_id>",
				Usage:     "remove message",
				Action: func(c *cli.Context) error {
					h, err := NewHandler(c.String(redisAddrFlag.Name))
					if err != nil {
						return err
					}

					return h.Remove(c.Context, c.Args().First())
				},
			},
			{
				Name:      "requeue",
				ArgsUsage: "<message_id>",
				Usage:     "requeue message",
				Action: func(c *cli.Context) error {
					h, err := NewHandler(c.String(redisAddrFlag.Name))
					if err != nil {
						return err
					}

					return h.Requeue(c.Context, c.Args().First())
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("poison-queue-cli failed")
	}
}
