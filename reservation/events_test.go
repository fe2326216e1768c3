package reservation_test

import (
	"context"
	"testing"
	"time"

	"github.com/djgowrishankar/TicketReservationAPI/entities"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventManager_Add(t *testing.T) {
	ctx := context.Background()
	m := newTestManagers()

	event := m.addEvent(t, 100, 100)
	assert.NotEqual(t, uuid.Nil, event.EventID)

	events, err := m.events.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entities.Event{event}, events)

	_, err = m.events.Add(ctx, entities.Event{Name: "Broken", TotalSeats: 10, AvailableSeats: 11})
	assert.ErrorIs(t, err, entities.ErrInvalidEvent)

	events, err = m.events.List(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestEventManager_List_ordered_by_date(t *testing.T) {
	ctx := context.Background()
	m := newTestManagers()

	later, err := m.events.Add(ctx, entities.Event{
		Name: "Later", Date: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), TotalSeats: 1, AvailableSeats: 1,
	})
	require.NoError(t, err)
	sooner, err := m.events.Add(ctx, entities.Event{
		Name: "Sooner", Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), TotalSeats: 1, AvailableSeats: 1,
	})
	require.NoError(t, err)

	events, err := m.events.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, sooner.EventID, events[0].EventID)
	assert.Equal(t, later.EventID, events[1].EventID)
}

func TestEventManager_Edit(t *testing.T) {
	ctx := context.Background()
	m := newTestManagers()
	event := m.addEvent(t, 100, 100)

	req := entities.EventRequest{
		Name:           "Renamed",
		Date:           event.Date.Add(24 * time.Hour),
		Venue:          "Stadium",
		TotalSeats:     200,
		AvailableSeats: lo.ToPtr(150),
	}
	edited, err := m.events.Edit(ctx, event.EventID, req)
	require.NoError(t, err)

	expected := entities.Event{
		EventID:        event.EventID,
		Name:           "Renamed",
		Date:           event.Date.Add(24 * time.Hour),
		Venue:          "Stadium",
		TotalSeats:     200,
		AvailableSeats: 150,
	}
	assert.Equal(t, expected, edited)

	stored, err := m.events.GetByID(ctx, event.EventID)
	require.NoError(t, err)
	assert.Equal(t, expected, stored)
}

func TestEventManager_Edit_keeps_booked_seats(t *testing.T) {
	ctx := context.Background()
	m := newTestManagers()
	event := m.addEvent(t, 10, 10)

	_, err := m.bookings.Book(ctx, entities.BookTicketsRequest{
		EventID:         event.EventID,
		UserName:        "alice",
		NumberOfTickets: 4,
	})
	require.NoError(t, err)

	edited, err := m.events.Edit(ctx, event.EventID, entities.EventRequest{
		Name:       "Renamed",
		Date:       event.Date,
		Venue:      event.Venue,
		TotalSeats: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, edited.AvailableSeats, "booked seats must not go back on sale")

	_, err = m.bookings.Book(ctx, entities.BookTicketsRequest{
		EventID:         event.EventID,
		UserName:        "bob",
		NumberOfTickets: 10,
	})
	assert.ErrorIs(t, err, entities.ErrNotEnoughSeats)

	edited, err = m.events.Edit(ctx, event.EventID, entities.EventRequest{
		Name:       "Renamed",
		Date:       event.Date,
		TotalSeats: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, 16, edited.AvailableSeats)
}

func TestEventManager_Edit_seats_below_booked(t *testing.T) {
	ctx := context.Background()
	m := newTestManagers()
	event := m.addEvent(t, 10, 10)

	_, err := m.bookings.Book(ctx, entities.BookTicketsRequest{
		EventID:         event.EventID,
		UserName:        "alice",
		NumberOfTickets: 4,
	})
	require.NoError(t, err)

	testCases := []struct {
		Name string
		Req  entities.EventRequest
	}{
		{
			Name: "total_below_booked",
			Req:  entities.EventRequest{Name: "Concert", TotalSeats: 3},
		},
		{
			Name: "available_puts_booked_seats_back",
			Req:  entities.EventRequest{Name: "Concert", TotalSeats: 10, AvailableSeats: lo.ToPtr(10)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			_, err := m.events.Edit(ctx, event.EventID, tc.Req)
			assert.ErrorIs(t, err, entities.ErrInvalidEvent)
			assert.Equal(t, 6, m.availableSeats(t, event.EventID))
		})
	}
}

func TestEventManager_Edit_not_found(t *testing.T) {
	ctx := context.Background()
	m := newTestManagers()

	_, err := m.events.Edit(ctx, uuid.New(), entities.EventRequest{Name: "Ghost", TotalSeats: 1})
	assert.ErrorIs(t, err, entities.ErrEventNotFound)

	_, err = m.events.Edit(ctx, uuid.New(), entities.EventRequest{TotalSeats: 1, AvailableSeats: lo.ToPtr(5)})
	assert.ErrorIs(t, err, entities.ErrEventNotFound, "a missing event is reported before an invalid request")

	events, err := m.events.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, events, "editing a missing event must not create it")
}

func TestEventManager_Edit_invalid(t *testing.T) {
	ctx := context.Background()
	m := newTestManagers()
	event := m.addEvent(t, 100, 100)

	_, err := m.events.Edit(ctx, event.EventID, entities.EventRequest{
		Name:           "Concert",
		TotalSeats:     5,
		AvailableSeats: lo.ToPtr(6),
	})
	assert.ErrorIs(t, err, entities.ErrInvalidEvent)

	stored, err := m.events.GetByID(ctx, event.EventID)
	require.NoError(t, err)
	assert.Equal(t, event, stored)
}

func TestEventManager_Delete(t *testing.T) {
	ctx := context.Background()
	m := newTestManagers()
	event := m.addEvent(t, 100, 100)

	require.NoError(t, m.events.Delete(ctx, event.EventID))

	_, err := m.events.GetByID(ctx, event.EventID)
	assert.ErrorIs(t, err, entities.ErrEventNotFound)

	err = m.events.Delete(ctx, event.EventID)
	assert.ErrorIs(t, err, entities.ErrEventNotFound, "second delete is not found")
}

func TestEventManager_Delete_with_bookings(t *testing.T) {
	ctx := context.Background()
	m := newTestManagers()
	event := m.addEvent(t, 100, 100)

	booking, err := m.bookings.Book(ctx, entities.BookTicketsRequest{
		EventID:         event.EventID,
		UserName:        "hank",
		NumberOfTickets: 1,
	})
	require.NoError(t, err)

	err = m.events.Delete(ctx, event.EventID)
	assert.ErrorIs(t, err, entities.ErrEventHasBookings)

	_, err = m.bookings.Cancel(ctx, booking.BookingID)
	require.NoError(t, err)

	assert.NoError(t, m.events.Delete(ctx, event.EventID))
}
