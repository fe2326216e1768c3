package http

import (
	"fmt"
	"net/http"

	"github.com/djgowrishankar/TicketReservationAPI/entities"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type eventResponse struct {
	Message string         `json:"message"`
	Event   entities.Event `json:"event"`
}

func (h Handler) GetEvents(c echo.Context) error {
	events, err := h.events.List(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, events)
}

func (h Handler) GetEvent(c echo.Context) error {
	eventID, err := eventIDParam(c)
	if err != nil {
		return err
	}

	event, err := h.events.GetByID(c.Request().Context(), eventID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, event)
}

func (h Handler) PostEvents(c echo.Context) error {
	var req entities.EventRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	event, err := h.events.Add(c.Request().Context(), req.ToEvent())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, eventResponse{
		Message: "Event added successfully.",
		Event:   event,
	})
}

func (h Handler) PutEvent(c echo.Context) error {
	eventID, err := eventIDParam(c)
	if err != nil {
		return err
	}

	var req entities.EventRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	event, err := h.events.Edit(c.Request().Context(), eventID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, eventResponse{
		Message: "Event updated successfully.",
		Event:   event,
	})
}

func (h Handler) DeleteEvent(c echo.Context) error {
	eventID, err := eventIDParam(c)
	if err != nil {
		return err
	}

	if err := h.events.Delete(c.Request().Context(), eventID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Event deleted successfully."})
}

// eventIDParam treats a malformed id like any other unknown id.
func eventIDParam(c echo.Context) (uuid.UUID, error) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", entities.ErrEventNotFound, c.Param("id"))
	}

	return eventID, nil
}
