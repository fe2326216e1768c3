package http

import (
	"fmt"
	"net/http"

	"github.com/djgowrishankar/TicketReservationAPI/entities"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func (h Handler) GetOpsBookings(c echo.Context) error {
	var eventID *uuid.UUID
	if param := c.QueryParam("event_id"); param != "" {
		id, err := uuid.Parse(param)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid event_id, expected UUID")
		}
		eventID = &id
	}

	resp, err := h.opsBookingRepo.GetAll(c.Request().Context(), eventID)
	if err != nil {
		return fmt.Errorf("failed getting ops bookings: %w", err)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h Handler) GetOpsBookingByID(c echo.Context) error {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fmt.Errorf("%w: %q", entities.ErrBookingNotFound, c.Param("id"))
	}

	resp, err := h.opsBookingRepo.GetByID(c.Request().Context(), bookingID)
	if err != nil {
		return fmt.Errorf("failed getting ops booking: %w", err)
	}

	return c.JSON(http.StatusOK, resp)
}
