package reservation_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/djgowrishankar/TicketReservationAPI/db"
	"github.com/djgowrishankar/TicketReservationAPI/entities"
	"github.com/djgowrishankar/TicketReservationAPI/reservation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testManagers struct {
	store    *db.MemoryStore
	events   reservation.EventManager
	bookings reservation.BookingManager
}

func newTestManagers() testManagers {
	store := db.NewMemoryStore()

	return testManagers{
		store:    store,
		events:   reservation.NewEventManager(store.Events()),
		bookings: reservation.NewBookingManager(store.Bookings()),
	}
}

func (m testManagers) addEvent(t *testing.T, total, available int) entities.Event {
	t.Helper()

	event, err := m.events.Add(context.Background(), entities.Event{
		Name:           "Concert " + uuid.NewString(),
		Date:           time.Date(2026, 12, 1, 20, 0, 0, 0, time.UTC),
		Venue:          "Arena",
		TotalSeats:     total,
		AvailableSeats: available,
	})
	require.NoError(t, err)

	return event
}

func (m testManagers) availableSeats(t *testing.T, eventID uuid.UUID) int {
	t.Helper()

	event, err := m.events.GetByID(context.Background(), eventID)
	require.NoError(t, err)

	return event.AvailableSeats
}

func TestBookingManager_Book(t *testing.T) {
	ctx := context.Background()
	m := newTestManagers()
	event := m.addEvent(t, 100, 30)

	booking, err := m.bookings.Book(ctx, entities.BookTicketsRequest{
		EventID:         event.EventID,
		UserName:        "alice",
		NumberOfTickets: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, 20, m.availableSeats(t, event.EventID))
	assert.Equal(t, 10, booking.NumberOfTickets)
	assert.Equal(t, event.EventID, booking.EventID)
	assert.Equal(t, event.Name, booking.EventName)
	assert.Equal(t, event.Date, booking.BookingDate)
	assert.NotEmpty(t, booking.BookingReference)
	assert.NotEqual(t, uuid.Nil, booking.BookingID)

	published := m.store.Published()
	require.Len(t, published, 1)
	bookingMade, ok := published[0].(entities.BookingMade_v1)
	require.True(t, ok, "expected BookingMade_v1, got %T", published[0])
	assert.Equal(t, booking.BookingID, bookingMade.BookingID)
}

func TestBookingManager_Book_not_enough_seats(t *testing.T) {
	ctx := context.Background()
	m := newTestManagers()
	event := m.addEvent(t, 100, 5)

	_, err := m.bookings.Book(ctx, entities.BookTicketsRequest{
		EventID:         event.EventID,
		UserName:        "alice",
		NumberOfTickets: 6,
	})
	assert.ErrorIs(t, err, entities.ErrNotEnoughSeats)

	assert.Equal(t, 5, m.availableSeats(t, event.EventID))
	assert.Empty(t, m.store.Published())

	bookings, err := m.bookings.ListForUser(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestBookingManager_Book_unknown_event(t *testing.T) {
	m := newTestManagers()

	_, err := m.bookings.Book(context.Background(), entities.BookTicketsRequest{
		EventID:         uuid.New(),
		UserName:        "alice",
		NumberOfTickets: 1,
	})
	assert.ErrorIs(t, err, entities.ErrBookingRejected)
	assert.NotErrorIs(t, err, entities.ErrNotEnoughSeats)
}

func TestBookingManager_Book_invalid_request(t *testing.T) {
	m := newTestManagers()
	event := m.addEvent(t, 10, 10)

	testCases := []struct {
		Name string
		Req  entities.BookTicketsRequest
	}{
		{
			Name: "zero_tickets",
			Req:  entities.BookTicketsRequest{EventID: event.EventID, UserName: "alice"},
		},
		{
			Name: "negative_tickets",
			Req:  entities.BookTicketsRequest{EventID: event.EventID, UserName: "alice", NumberOfTickets: -2},
		},
		{
			Name: "missing_user_name",
			Req:  entities.BookTicketsRequest{EventID: event.EventID, UserName: " ", NumberOfTickets: 1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			_, err := m.bookings.Book(context.Background(), tc.Req)
			assert.ErrorIs(t, err, entities.ErrInvalidBooking)
			assert.Equal(t, 10, m.availableSeats(t, event.EventID))
		})
	}
}

func TestBookingManager_Cancel(t *testing.T) {
	ctx := context.Background()
	m := newTestManagers()
	event := m.addEvent(t, 100, 50)

	booking, err := m.bookings.Book(ctx, entities.BookTicketsRequest{
		EventID:         event.EventID,
		UserName:        "bob",
		NumberOfTickets: 7,
	})
	require.NoError(t, err)
	require.Equal(t, 43, m.availableSeats(t, event.EventID))

	cancelled, err := m.bookings.Cancel(ctx, booking.BookingID)
	require.NoError(t, err)
	assert.Equal(t, booking.BookingID, cancelled.BookingID)

	assert.Equal(t, 50, m.availableSeats(t, event.EventID))

	bookings, err := m.bookings.ListForUser(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, bookings)

	_, err = m.bookings.Cancel(ctx, booking.BookingID)
	assert.ErrorIs(t, err, entities.ErrBookingNotFound)
}

func TestBookingManager_Cancel_event_gone(t *testing.T) {
	ctx := context.Background()
	m := newTestManagers()
	event := m.addEvent(t, 10, 10)

	booking, err := m.bookings.Book(ctx, entities.BookTicketsRequest{
		EventID:         event.EventID,
		UserName:        "bob",
		NumberOfTickets: 2,
	})
	require.NoError(t, err)

	m.store.DropEvent(event.EventID)

	_, err = m.bookings.Cancel(ctx, booking.BookingID)
	require.NoError(t, err, "seat restoration is skipped when the event no longer exists")

	published := m.store.Published()
	require.Len(t, published, 2)
	cancelled, ok := published[1].(entities.BookingCancelled_v1)
	require.True(t, ok, "expected BookingCancelled_v1, got %T", published[1])
	assert.Equal(t, 0, cancelled.SeatsReleased)
}

func TestBookingManager_Cancel_after_capacity_shrank(t *testing.T) {
	ctx := context.Background()
	m := newTestManagers()
	event := m.addEvent(t, 10, 10)

	booking, err := m.bookings.Book(ctx, entities.BookTicketsRequest{
		EventID:         event.EventID,
		UserName:        "bob",
		NumberOfTickets: 4,
	})
	require.NoError(t, err)

	_, err = m.events.Edit(ctx, event.EventID, entities.EventRequest{
		Name:       event.Name,
		Date:       event.Date,
		Venue:      event.Venue,
		TotalSeats: 8,
	})
	require.NoError(t, err)
	require.Equal(t, 4, m.availableSeats(t, event.EventID))

	_, err = m.bookings.Cancel(ctx, booking.BookingID)
	require.NoError(t, err)

	assert.Equal(t, 8, m.availableSeats(t, event.EventID), "available seats never exceed total")
}

func TestBookingManager_round_trip(t *testing.T) {
	ctx := context.Background()
	m := newTestManagers()
	event := m.addEvent(t, 100, 100)

	booking, err := m.bookings.Book(ctx, entities.BookTicketsRequest{
		EventID:         event.EventID,
		UserName:        "carol",
		NumberOfTickets: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 90, m.availableSeats(t, event.EventID))

	_, err = m.bookings.Cancel(ctx, booking.BookingID)
	require.NoError(t, err)
	assert.Equal(t, 100, m.availableSeats(t, event.EventID))
}

func TestBookingManager_concurrent_bookings_do_not_oversell(t *testing.T) {
	ctx := context.Background()
	m := newTestManagers()
	event := m.addEvent(t, 50, 50)

	var (
		wg        sync.WaitGroup
		lock      sync.Mutex
		succeeded int
		rejected  int
	)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := m.bookings.Book(ctx, entities.BookTicketsRequest{
				EventID:         event.EventID,
				UserName:        "dave",
				NumberOfTickets: 1,
			})

			lock.Lock()
			defer lock.Unlock()
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, entities.ErrNotEnoughSeats)
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, succeeded)
	assert.Equal(t, 50, rejected)
	assert.Equal(t, 0, m.availableSeats(t, event.EventID))
}

func TestBookingManager_ListForUser(t *testing.T) {
	ctx := context.Background()
	m := newTestManagers()
	event := m.addEvent(t, 100, 100)

	for _, userName := range []string{"Erin", "erin", "frank"} {
		_, err := m.bookings.Book(ctx, entities.BookTicketsRequest{
			EventID:         event.EventID,
			UserName:        userName,
			NumberOfTickets: 1,
		})
		require.NoError(t, err)
	}

	bookings, err := m.bookings.ListForUser(ctx, "ERIN")
	require.NoError(t, err)
	assert.Len(t, bookings, 2, "user name lookup is case-insensitive")

	bookings, err = m.bookings.ListForUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestBookingManager_GetByReference(t *testing.T) {
	ctx := context.Background()
	m := newTestManagers()
	event := m.addEvent(t, 100, 100)

	booking, err := m.bookings.Book(ctx, entities.BookTicketsRequest{
		EventID:         event.EventID,
		UserName:        "gina",
		NumberOfTickets: 3,
	})
	require.NoError(t, err)

	found, err := m.bookings.GetByReference(ctx, booking.BookingReference)
	require.NoError(t, err)
	assert.Equal(t, booking.BookingID, found.BookingID)
	assert.Equal(t, event.Name, found.EventName)

	_, err = m.bookings.GetByReference(ctx, "does-not-exist")
	assert.ErrorIs(t, err, entities.ErrBookingNotFound)
}
