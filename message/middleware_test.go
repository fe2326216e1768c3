package message

import (
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker_opens_after_failures(t *testing.T) {
	breaker := newCircuitBreaker(gobreaker.Settings{
		Name:    "test",
		Timeout: time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	calls := 0
	handler := breaker.Middleware(func(msg *message.Message) ([]*message.Message, error) {
		calls++
		return nil, assert.AnError
	})

	for i := 0; i < 3; i++ {
		_, err := handler(message.NewMessage(watermill.NewUUID(), nil))
		require.ErrorIs(t, err, assert.AnError)
	}

	_, err := handler(message.NewMessage(watermill.NewUUID(), nil))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, calls, "an open breaker must not call the handler")
}

func TestCircuitBreaker_passes_produced_messages(t *testing.T) {
	breaker := newCircuitBreaker(gobreaker.Settings{Name: "test"})

	produced := message.NewMessage(watermill.NewUUID(), []byte("{}"))
	handler := breaker.Middleware(func(msg *message.Message) ([]*message.Message, error) {
		return []*message.Message{produced}, nil
	})

	msgs, err := handler(message.NewMessage(watermill.NewUUID(), nil))
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, produced.UUID, msgs[0].UUID)
}
