package migrations_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/djgowrishankar/TicketReservationAPI/entities"
	"github.com/djgowrishankar/TicketReservationAPI/migrations"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dataLakeStub struct {
	events []entities.DataLakeEvent
}

func (d dataLakeStub) GetAll(ctx context.Context) ([]entities.DataLakeEvent, error) {
	return d.events, nil
}

type readModelStub struct {
	calls []string
}

func (r *readModelStub) OnBookingMade(ctx context.Context, event *entities.BookingMade_v1) error {
	r.calls = append(r.calls, "made:"+event.BookingID.String())
	return nil
}

func (r *readModelStub) OnBookingCancelled(ctx context.Context, event *entities.BookingCancelled_v1) error {
	r.calls = append(r.calls, "cancelled:"+event.BookingID.String())
	return nil
}

func dataLakeEvent(t *testing.T, name string, event entities.IEvent) entities.DataLakeEvent {
	t.Helper()

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	return entities.DataLakeEvent{
		EventID:      event.GetHeader().ID,
		PublishedAt:  event.GetHeader().PublishedAt,
		EventName:    name,
		EventPayload: payload,
	}
}

func TestRebuildOpsBookingReadModel(t *testing.T) {
	bookingID := uuid.New()

	dl := dataLakeStub{events: []entities.DataLakeEvent{
		dataLakeEvent(t, "BookingMade_v1", entities.BookingMade_v1{
			Header:    entities.NewEventHeader(),
			BookingID: bookingID,
			EventDate: time.Now().UTC(),
		}),
		dataLakeEvent(t, "BookingCancelled_v1", entities.BookingCancelled_v1{
			Header:    entities.NewEventHeader(),
			BookingID: bookingID,
		}),
	}}
	rm := &readModelStub{}

	err := migrations.RebuildOpsBookingReadModel(context.Background(), dl, rm)
	require.NoError(t, err)

	assert.Equal(t, []string{"made:" + bookingID.String(), "cancelled:" + bookingID.String()}, rm.calls)
}

func TestRebuildOpsBookingReadModel_unknown_event(t *testing.T) {
	dl := dataLakeStub{events: []entities.DataLakeEvent{{
		EventID:      uuid.NewString(),
		EventName:    "SomethingElse_v1",
		EventPayload: []byte("{}"),
	}}}

	err := migrations.RebuildOpsBookingReadModel(context.Background(), dl, &readModelStub{})
	assert.Error(t, err)
}

func TestRebuildOpsBookingReadModel_broken_payload(t *testing.T) {
	dl := dataLakeStub{events: []entities.DataLakeEvent{{
		EventID:      uuid.NewString(),
		EventName:    "BookingMade_v1",
		EventPayload: []byte("{"),
	}}}

	err := migrations.RebuildOpsBookingReadModel(context.Background(), dl, &readModelStub{})
	assert.Error(t, err)
}
