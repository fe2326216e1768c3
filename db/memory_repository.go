package db

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/djgowrishankar/TicketReservationAPI/entities"

	"github.com/google/uuid"
)

// MemoryStore keeps events and bookings in memory. It backs the repository doubles used in tests.
type MemoryStore struct {
	lock sync.Mutex

	events    map[uuid.UUID]entities.Event
	bookings  map[uuid.UUID]entities.Booking
	published []entities.IEvent
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events:   map[uuid.UUID]entities.Event{},
		bookings: map[uuid.UUID]entities.Booking{},
	}
}

func (s *MemoryStore) Events() MemoryEventRepository {
	return MemoryEventRepository{store: s}
}

func (s *MemoryStore) Bookings() MemoryBookingRepository {
	return MemoryBookingRepository{store: s}
}

// Published returns the domain events emitted so far.
func (s *MemoryStore) Published() []entities.IEvent {
	s.lock.Lock()
	defer s.lock.Unlock()

	return append([]entities.IEvent(nil), s.published...)
}

// DropEvent removes an event without looking at its bookings, leaving them dangling.
func (s *MemoryStore) DropEvent(eventID uuid.UUID) {
	s.lock.Lock()
	defer s.lock.Unlock()

	delete(s.events, eventID)
}

func (s *MemoryStore) withEventName(b entities.Booking) entities.Booking {
	b.EventName = s.events[b.EventID].Name
	return b
}

type MemoryEventRepository struct {
	store *MemoryStore
}

func (r MemoryEventRepository) List(ctx context.Context) ([]entities.Event, error) {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	events := make([]entities.Event, 0, len(r.store.events))
	for _, e := range r.store.events {
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].Date.Equal(events[j].Date) {
			return events[i].Name < events[j].Name
		}
		return events[i].Date.Before(events[j].Date)
	})

	return events, nil
}

func (r MemoryEventRepository) ByID(ctx context.Context, eventID uuid.UUID) (entities.Event, error) {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	e, ok := r.store.events[eventID]
	if !ok {
		return entities.Event{}, fmt.Errorf("%w: %s", entities.ErrEventNotFound, eventID)
	}

	return e, nil
}

func (r MemoryEventRepository) Add(ctx context.Context, event entities.Event) (entities.Event, error) {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	event.EventID = uuid.New()
	r.store.events[event.EventID] = event

	return event, nil
}

func (r MemoryEventRepository) Update(
	ctx context.Context,
	eventID uuid.UUID,
	updateFn func(event entities.Event) (entities.Event, error),
) (entities.Event, error) {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	current, ok := r.store.events[eventID]
	if !ok {
		return entities.Event{}, fmt.Errorf("%w: %s", entities.ErrEventNotFound, eventID)
	}

	updated, err := updateFn(current)
	if err != nil {
		return entities.Event{}, err
	}
	updated.EventID = eventID
	r.store.events[eventID] = updated

	return updated, nil
}

func (r MemoryEventRepository) Delete(ctx context.Context, eventID uuid.UUID) error {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	if _, ok := r.store.events[eventID]; !ok {
		return fmt.Errorf("%w: %s", entities.ErrEventNotFound, eventID)
	}
	for _, b := range r.store.bookings {
		if b.EventID == eventID {
			return fmt.Errorf("%w: event %s", entities.ErrEventHasBookings, eventID)
		}
	}

	delete(r.store.events, eventID)

	return nil
}

type MemoryBookingRepository struct {
	store *MemoryStore
}

func (r MemoryBookingRepository) Create(
	ctx context.Context,
	eventID uuid.UUID,
	createFn func(event *entities.Event) (entities.Booking, error),
) (entities.Booking, error) {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	ev, ok := r.store.events[eventID]
	if !ok {
		return entities.Booking{}, fmt.Errorf("%w: %s", entities.ErrEventNotFound, eventID)
	}

	booking, err := createFn(&ev)
	if err != nil {
		return entities.Booking{}, err
	}

	r.store.events[eventID] = ev
	r.store.bookings[booking.BookingID] = booking
	r.store.published = append(r.store.published, entities.BookingMade_v1{
		Header:           entities.NewEventHeader(),
		BookingID:        booking.BookingID,
		BookingReference: booking.BookingReference,
		NumberOfTickets:  booking.NumberOfTickets,
		UserName:         booking.UserName,
		EventID:          ev.EventID,
		EventName:        ev.Name,
		EventDate:        ev.Date,
	})

	return booking, nil
}

func (r MemoryBookingRepository) Delete(
	ctx context.Context,
	bookingID uuid.UUID,
	cancelFn func(booking entities.Booking, event *entities.Event) error,
) (entities.Booking, error) {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	booking, ok := r.store.bookings[bookingID]
	if !ok {
		return entities.Booking{}, fmt.Errorf("%w: %s", entities.ErrBookingNotFound, bookingID)
	}
	booking = r.store.withEventName(booking)

	var linked *entities.Event
	ev, eventExists := r.store.events[booking.EventID]
	if eventExists {
		linked = &ev
	}
	availableBefore := ev.AvailableSeats

	if err := cancelFn(booking, linked); err != nil {
		return entities.Booking{}, err
	}

	seatsReleased := 0
	if eventExists {
		seatsReleased = ev.AvailableSeats - availableBefore
		r.store.events[ev.EventID] = ev
	}
	delete(r.store.bookings, bookingID)
	r.store.published = append(r.store.published, entities.BookingCancelled_v1{
		Header:          entities.NewEventHeader(),
		BookingID:       booking.BookingID,
		EventID:         booking.EventID,
		NumberOfTickets: booking.NumberOfTickets,
		SeatsReleased:   seatsReleased,
	})

	return booking, nil
}

func (r MemoryBookingRepository) ByReference(ctx context.Context, reference string) (entities.Booking, error) {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	for _, b := range r.store.bookings {
		if b.BookingReference == reference {
			return r.store.withEventName(b), nil
		}
	}

	return entities.Booking{}, fmt.Errorf("%w: reference %s", entities.ErrBookingNotFound, reference)
}

func (r MemoryBookingRepository) ListForUser(ctx context.Context, userName string) ([]entities.Booking, error) {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	bookings := []entities.Booking{}
	for _, b := range r.store.bookings {
		if strings.EqualFold(b.UserName, userName) {
			bookings = append(bookings, r.store.withEventName(b))
		}
	}
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})

	return bookings, nil
}
