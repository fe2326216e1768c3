package reservation

import (
	"context"
	"fmt"

	"github.com/djgowrishankar/TicketReservationAPI/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// EventManager handles the CRUD side of events.
type EventManager struct {
	repo EventRepository
}

func NewEventManager(repo EventRepository) EventManager {
	if repo == nil {
		panic("missing event repository")
	}

	return EventManager{repo: repo}
}

func (m EventManager) List(ctx context.Context) ([]entities.Event, error) {
	return m.repo.List(ctx)
}

func (m EventManager) GetByID(ctx context.Context, eventID uuid.UUID) (entities.Event, error) {
	return m.repo.ByID(ctx, eventID)
}

func (m EventManager) Add(ctx context.Context, event entities.Event) (entities.Event, error) {
	if err := event.Validate(); err != nil {
		return entities.Event{}, err
	}

	added, err := m.repo.Add(ctx, event)
	if err != nil {
		return entities.Event{}, fmt.Errorf("could not add event: %w", err)
	}

	log.FromContext(ctx).WithFields(logrus.Fields{
		"event_id":    added.EventID,
		"total_seats": added.TotalSeats,
	}).Info("Event added")

	return added, nil
}

// Edit overwrites every mutable field of the event. It is checked against the locked row, so a
// missing event is reported before an invalid request.
func (m EventManager) Edit(ctx context.Context, eventID uuid.UUID, req entities.EventRequest) (entities.Event, error) {
	edited, err := m.repo.Update(ctx, eventID, func(current entities.Event) (entities.Event, error) {
		return req.ApplyTo(current)
	})
	if err != nil {
		return entities.Event{}, err
	}

	log.FromContext(ctx).WithFields(logrus.Fields{
		"event_id":        edited.EventID,
		"total_seats":     edited.TotalSeats,
		"available_seats": edited.AvailableSeats,
	}).Info("Event edited")

	return edited, nil
}

func (m EventManager) Delete(ctx context.Context, eventID uuid.UUID) error {
	if err := m.repo.Delete(ctx, eventID); err != nil {
		return err
	}

	log.FromContext(ctx).WithField("event_id", eventID).Info("Event deleted")

	return nil
}
